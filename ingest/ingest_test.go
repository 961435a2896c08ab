package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSupported(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"documents/reglements/reglement_ub.txt", true},
		{"documents/plu/rapport.PDF", true},
		{"documents/plu/annexe.docx", true},
		{"documents/zonage/surfaces.xlsx", true},
		{"documents/plu/notes.md", true},
		{"documents/zonage/montpellier.json", true},
		{"documents/plu/plan.dwg", false},
		{"documents/plu/archive.zip", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Supported(tt.path); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestLoadText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reglement_ub.txt")
	content := "La hauteur maximale des constructions est fixée à 12 mètres."
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("failed to load text file: %v", err)
	}
	if text != content {
		t.Errorf("expected %q, got %q", content, text)
	}
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load(context.Background(), "plan.dwg")
	if err == nil {
		t.Fatal("expected an error for an unsupported extension")
	}
}
