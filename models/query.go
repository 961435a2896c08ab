package models

import "encoding/json"

// QueryPostRequest is a question for the urbanism assistant.
type QueryPostRequest struct {
	// Question asked by the user.
	Question string `json:"question"`

	// Commune narrows retrieved context to a single commune.
	Commune string `json:"commune,omitempty"`

	// Parcel is a cadastral reference. When set together with Commune,
	// the zone regulation that applies to the parcel is prepended to the
	// context.
	Parcel string `json:"parcelle,omitempty"`

	// UseCache allows a previously cached answer to be returned. It is
	// true unless the request explicitly disables it.
	UseCache bool `json:"use_cache"`

	// NoContext indicates retrieved documents should not be used to
	// populate the prompt.
	NoContext bool `json:"no_context,omitempty"`
}

// UnmarshalJSON defaults use_cache to true when the field is absent, so
// callers that never send it still benefit from caching.
func (r *QueryPostRequest) UnmarshalJSON(data []byte) error {
	type plain QueryPostRequest
	p := plain{UseCache: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = QueryPostRequest(p)
	return nil
}

type QueryPostResponse struct {
	Answer string `json:"answer"`

	Sources []Source `json:"sources"`

	// Cached is true when the answer was served from the response cache.
	Cached bool `json:"cached"`

	// ProcessingTime is the server-side handling duration in seconds.
	ProcessingTime float64 `json:"processing_time"`

	// Model that produced the answer, or "fallback" when the LLM was
	// unavailable.
	Model string `json:"model_used,omitempty"`
}

// Source describes a document excerpt an answer was grounded on.
type Source struct {
	Type    string `json:"type"`
	Zone    string `json:"zone,omitempty"`
	Excerpt string `json:"excerpt"`
	URL     string `json:"url,omitempty"`
}
