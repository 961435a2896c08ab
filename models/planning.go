package models

import "github.com/plurag/plurag/planning"

type SearchGetResponse struct {
	Results []planning.SearchResult `json:"results"`
	Count   int                     `json:"count"`
}
