// Package auth maps bearer API keys onto document partitions.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
)

func New(apiKeyToPartition map[string]string, next http.Handler) *Auth {
	return &Auth{
		Next:              next,
		APIKeyToPartition: apiKeyToPartition,
	}
}

type Auth struct {
	Next              http.Handler
	APIKeyToPartition map[string]string
}

// LoadFromFile reads a JSON map of API keys to partition names.
func LoadFromFile(name string) (apiKeyToPartition map[string]string, err error) {
	f, err := os.OpenFile(name, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m := make(map[string]string)
	if err = json.NewDecoder(f).Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

type partitionContextKey int

const partitionKey partitionContextKey = 0

// GetPartition returns the partition the request's API key maps to.
func GetPartition(r *http.Request) (partition string, ok bool) {
	partition, ok = r.Context().Value(partitionKey).(string)
	return
}

func (a *Auth) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	partition, ok := a.APIKeyToPartition[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	r = r.WithContext(context.WithValue(r.Context(), partitionKey, partition))
	a.Next.ServeHTTP(w, r)
}
