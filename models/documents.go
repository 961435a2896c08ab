package models

type DocumentsPostRequest struct {
	Document Document `json:"document"`
}

type Document struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Text    string `json:"text"`
	Summary string `json:"summary"`

	// Commune the document applies to, e.g. "montpellier".
	Commune string `json:"commune,omitempty"`

	// Type of planning document: "plu", "zonage" or "reglements".
	Type string `json:"type,omitempty"`

	// Zone code for zone regulations, e.g. "UB".
	Zone string `json:"zone,omitempty"`
}

type DocumentsPostResponse struct {
	ID int64 `json:"id"`
}
