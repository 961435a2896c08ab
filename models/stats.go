package models

type StatsGetResponse struct {
	TotalQueries int64 `json:"total_queries"`
	CacheHits    int64 `json:"cache_hits"`

	// APICalls counts calls to external planning APIs. The planning data is
	// currently served from local files, so nothing increments it yet.
	APICalls int64 `json:"api_calls"`

	RAGSearches  int64 `json:"rag_searches"`
	LLMCalls     int64 `json:"llm_calls"`
	CacheEnabled bool  `json:"cache_enabled"`
}

type CacheDeleteResponse struct {
	// Deleted is the number of cached responses removed.
	Deleted int64  `json:"deleted"`
	Message string `json:"message"`
}

type IndexRefreshPostResponse struct {
	Message string `json:"message"`
}
