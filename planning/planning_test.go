package planning_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/plurag/plurag/planning"
)

func newTestService(t *testing.T) *planning.Service {
	t.Helper()
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	s := planning.New(log, t.TempDir())
	if err := s.EnsureSampleData(); err != nil {
		t.Fatalf("failed to seed sample data: %v", err)
	}
	if err := s.Load(); err != nil {
		t.Fatalf("failed to load zoning data: %v", err)
	}
	return s
}

func TestZoneForParcel(t *testing.T) {
	s := newTestService(t)

	pz, ok := s.ZoneForParcel("Montpellier", "AB-123")
	if !ok {
		t.Fatal("expected zoning for a known commune")
	}
	if pz.Zone != "UB" {
		t.Errorf("expected zone UB, got %q", pz.Zone)
	}
	if pz.Details.MaxHeight != 12 {
		t.Errorf("expected max height 12, got %v", pz.Details.MaxHeight)
	}

	if _, ok = s.ZoneForParcel("lyon", "AB-123"); ok {
		t.Error("expected no zoning for an unknown commune")
	}
}

func TestRegulationForZone(t *testing.T) {
	s := newTestService(t)

	reg := s.RegulationForZone("montpellier", "UB")
	if !strings.Contains(reg, "12 mètres au faîtage") {
		t.Errorf("expected the UB regulation text, got %q", reg)
	}

	reg = s.RegulationForZone("montpellier", "UZ")
	if !strings.Contains(reg, "non disponible") {
		t.Errorf("expected a placeholder for a missing regulation, got %q", reg)
	}
}

func TestMetadata(t *testing.T) {
	s := newTestService(t)

	m := s.Metadata("montpellier")
	if m.Commune != "Montpellier" {
		t.Errorf("expected Montpellier, got %q", m.Commune)
	}
	if len(m.Zones) == 0 {
		t.Error("expected zones in the metadata")
	}

	m = s.Metadata("lyon")
	if m.Commune != "lyon" {
		t.Errorf("expected placeholder metadata for lyon, got %q", m.Commune)
	}
	if m.Message == "" {
		t.Error("expected the placeholder message")
	}
}

func TestSearchDocuments(t *testing.T) {
	s := newTestService(t)

	results, err := s.SearchDocuments("hauteur maximale")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Zone != "UB" {
		t.Errorf("expected zone UB, got %q", results[0].Zone)
	}
	if !strings.Contains(strings.ToLower(results[0].Excerpt), "hauteur maximale") {
		t.Errorf("expected the excerpt to contain the query, got %q", results[0].Excerpt)
	}

	results, err = s.SearchDocuments("téléphérique")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestSearchDocumentsAccentedExcerpt(t *testing.T) {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "reglements"), 0o755); err != nil {
		t.Fatal(err)
	}
	// Multi-byte runes on both sides of the match force the excerpt
	// boundaries into accented text.
	content := strings.Repeat("è", 150) + " hauteur maximale " + strings.Repeat("é", 150)
	if err := os.WriteFile(filepath.Join(dir, "reglements", "reglement_ua.txt"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := planning.New(log, dir)
	results, err := s.SearchDocuments("hauteur maximale")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	excerpt := results[0].Excerpt
	if !utf8.ValidString(excerpt) {
		t.Errorf("expected a valid UTF-8 excerpt, got %q", excerpt)
	}
	if !strings.Contains(excerpt, "hauteur maximale") {
		t.Errorf("expected the excerpt to contain the query, got %q", excerpt)
	}
	if !strings.HasPrefix(excerpt, "...") || !strings.HasSuffix(excerpt, "...") {
		t.Errorf("expected the excerpt to be truncated on both sides, got %q", excerpt)
	}
}

func TestEnsureSampleDataDoesNotOverwrite(t *testing.T) {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	dir := t.TempDir()

	custom := filepath.Join(dir, "reglements")
	if err := os.MkdirAll(custom, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(custom, "reglement_ua.txt"), []byte("custom"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := planning.New(log, dir)
	if err := s.EnsureSampleData(); err != nil {
		t.Fatalf("failed to seed sample data: %v", err)
	}

	if _, err := os.Stat(filepath.Join(custom, "reglement_ub.txt")); !os.IsNotExist(err) {
		t.Error("expected no sample regulation in a non-empty directory")
	}
}

func TestZoneFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"reglement_ub.txt", "UB"},
		{"reglement_ua.txt", "UA"},
		{"notes.txt", ""},
	}
	for _, tt := range tests {
		if got := planning.ZoneFromFilename(tt.name); got != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, got)
		}
	}
}
