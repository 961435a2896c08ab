package models

import (
	"encoding/json"
	"testing"
)

func TestQueryPostRequestUseCacheDefault(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected bool
	}{
		{
			name:     "omitted use_cache defaults to true",
			body:     `{"question":"Quelle hauteur en zone UB ?"}`,
			expected: true,
		},
		{
			name:     "explicit false is respected",
			body:     `{"question":"Quelle hauteur en zone UB ?","use_cache":false}`,
			expected: false,
		},
		{
			name:     "explicit true is respected",
			body:     `{"question":"Quelle hauteur en zone UB ?","use_cache":true}`,
			expected: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var req QueryPostRequest
			if err := json.Unmarshal([]byte(test.body), &req); err != nil {
				t.Fatalf("failed to unmarshal: %v", err)
			}
			if req.UseCache != test.expected {
				t.Errorf("expected UseCache=%v, got %v", test.expected, req.UseCache)
			}
		})
	}
}
