package integration

import (
	"context"
	"testing"

	"github.com/plurag/plurag/client"
)

func TestHealthGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	c := client.New("http://localhost:9020", "")
	resp, err := c.HealthGet(context.Background())
	if err != nil {
		t.Fatalf("failed to get health: %v", err)
	}
	if resp.Status != "healthy" && resp.Status != "degraded" {
		t.Errorf("unexpected status %q", resp.Status)
	}
	for _, service := range []string{"cache", "llm", "rag", "documents_indexed"} {
		if _, ok := resp.Services[service]; !ok {
			t.Errorf("expected the %s service to be reported", service)
		}
	}
}

func TestStatsGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	c := client.New("http://localhost:9020", "test-api-key-no-llm")
	before, err := c.StatsGet(context.Background())
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if before.TotalQueries < 0 {
		t.Errorf("expected a non-negative query count, got %d", before.TotalQueries)
	}
}

func TestZonageGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	c := client.New("http://localhost:9020", "test-api-key-no-llm")
	pz, err := c.ZonageGet(context.Background(), "montpellier", "AB-123")
	if err != nil {
		t.Fatalf("failed to get zoning: %v", err)
	}
	if pz.Zone == "" {
		t.Error("expected a zone for the sample commune")
	}
}

func TestPLUGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	c := client.New("http://localhost:9020", "test-api-key-no-llm")
	m, err := c.PLUGet(context.Background(), "montpellier")
	if err != nil {
		t.Fatalf("failed to get PLU metadata: %v", err)
	}
	if m.Commune == "" {
		t.Error("expected the commune to be set")
	}
}

func TestCacheClear(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	c := client.New("http://localhost:9020", "test-api-key-no-llm")
	resp, err := c.CacheClear(context.Background())
	if err != nil {
		t.Fatalf("failed to clear cache: %v", err)
	}
	if resp.Deleted < 0 {
		t.Errorf("expected a non-negative deletion count, got %d", resp.Deleted)
	}
}
