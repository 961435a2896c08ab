package models

type HealthGetResponse struct {
	// Status is "healthy" when every service is up, "degraded" otherwise.
	Status string `json:"status"`

	// Services maps service names (cache, llm, rag, documents_indexed) to
	// their readiness.
	Services map[string]bool `json:"services"`

	Cache *CacheHealth `json:"cache_status,omitempty"`
}

type CacheHealth struct {
	Status           string `json:"status"`
	Message          string `json:"message,omitempty"`
	ConnectedClients int64  `json:"connected_clients,omitempty"`
	UsedMemory       string `json:"used_memory,omitempty"`
	TotalKeys        int64  `json:"total_keys,omitempty"`
}
