package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuth(t *testing.T) {
	apiKeyToPartition := map[string]string{
		"test-api-key-1": "urbanisme",
		"test-api-key-2": "urbanisme-staging",
	}
	tests := []struct {
		name              string
		req               func() *http.Request
		expectedStatus    int
		expectedPartition string
	}{
		{
			name:           "no auth header returns 401",
			req:            func() *http.Request { return httptest.NewRequest("GET", "/", nil) },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "auth header not in map returns 401",
			req: func() *http.Request {
				req := httptest.NewRequest("GET", "/", nil)
				req.Header.Set("Authorization", "Bearer not-in-map")
				return req
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "auth header in map returns 200",
			req: func() *http.Request {
				req := httptest.NewRequest("GET", "/", nil)
				req.Header.Set("Authorization", "Bearer test-api-key-1")
				return req
			},
			expectedStatus:    http.StatusOK,
			expectedPartition: "urbanisme",
		},
		{
			name: "auth header doesn't need Bearer prefix",
			req: func() *http.Request {
				req := httptest.NewRequest("GET", "/", nil)
				req.Header.Set("Authorization", "test-api-key-2")
				return req
			},
			expectedStatus:    http.StatusOK,
			expectedPartition: "urbanisme-staging",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var partition string
			var ok bool
			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				partition, ok = GetPartition(r)
				if !ok {
					t.Error("expected partition to be set")
				}
				w.WriteHeader(http.StatusOK)
			})

			auth := New(apiKeyToPartition, h)
			w := httptest.NewRecorder()
			auth.ServeHTTP(w, tt.req())
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if partition != tt.expectedPartition {
				t.Errorf("expected partition to be %s, got %s", tt.expectedPartition, partition)
			}
		})
	}
}
