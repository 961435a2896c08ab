package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDocumentMetadata(t *testing.T) {
	tests := []struct {
		name     string
		rel      string
		expected map[string]string
	}{
		{
			name:     "zoning files carry the commune",
			rel:      "zonage/montpellier.json",
			expected: map[string]string{"commune": "montpellier"},
		},
		{
			name:     "metadata files strip the suffix",
			rel:      "plu/montpellier_metadata.json",
			expected: map[string]string{"commune": "montpellier"},
		},
		{
			name:     "regulation files carry the zone",
			rel:      "reglements/reglement_ub.txt",
			expected: map[string]string{"zone": "UB"},
		},
		{
			name:     "top level files have no metadata",
			rel:      "notes.txt",
			expected: map[string]string{},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual := documentMetadata(test.rel)
			if len(actual) != len(test.expected) {
				t.Fatalf("expected %v, got %v", test.expected, actual)
			}
			for k, v := range test.expected {
				if actual[k] != v {
					t.Errorf("expected %s=%q, got %q", k, v, actual[k])
				}
			}
		})
	}
}

func TestFilesystemExporter(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "reglements"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"reglements/reglement_ub.txt": "Hauteur maximale : 12 mètres.",
		"notes.md":                    "Notes de séance.",
		"photo.bmp":                   "not a document",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	exporter := NewFilesystemExporter(dir)
	byPath := map[string]ExportedDocument{}
	for doc := range exporter.Export(context.Background()) {
		byPath[doc.Path] = doc
	}
	if exporter.Error != nil {
		t.Fatalf("unexpected error: %v", exporter.Error)
	}

	if len(byPath) != 2 {
		t.Fatalf("expected 2 documents, got %d: %v", len(byPath), byPath)
	}
	if _, ok := byPath["photo.bmp"]; ok {
		t.Error("expected unsupported files to be skipped")
	}

	reg, ok := byPath["reglements/reglement_ub.txt"]
	if !ok {
		t.Fatal("expected the regulation to be exported")
	}
	if reg.Document.Zone != "UB" {
		t.Errorf("expected zone UB, got %q", reg.Document.Zone)
	}
	if reg.Document.Type != "reglements" {
		t.Errorf("expected type reglements, got %q", reg.Document.Type)
	}
	if reg.Document.Title != "reglement_ub" {
		t.Errorf("expected title reglement_ub, got %q", reg.Document.Title)
	}
	if !strings.Contains(reg.Document.Text, "Hauteur maximale") {
		t.Errorf("expected the file content in the text, got %q", reg.Document.Text)
	}
	if !strings.Contains(reg.Document.Text, "zone: UB") {
		t.Errorf("expected a YAML metadata header, got %q", reg.Document.Text)
	}
}
