package indexer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plurag/plurag/db"
)

type fakeStore struct {
	docs   map[string]db.DocumentPutArgs
	hashes map[string]string
	puts   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:   make(map[string]db.DocumentPutArgs),
		hashes: make(map[string]string),
	}
}

func (s *fakeStore) DocumentPut(ctx context.Context, args db.DocumentPutArgs) (int64, error) {
	s.docs[args.Document.URL] = args
	s.puts++
	return int64(len(s.docs)), nil
}

func (s *fakeStore) FileHashGet(ctx context.Context, partition, path string) (string, bool, error) {
	hash, ok := s.hashes[partition+":"+path]
	return hash, ok, nil
}

func (s *fakeStore) FileHashPut(ctx context.Context, partition, path, hash string, indexedAt time.Time) error {
	s.hashes[partition+":"+path] = hash
	return nil
}

type fakeEmbedder struct {
	calls int
}

func (e *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(len(texts[i])), 1, 2}
	}
	return vectors, nil
}

func (e *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1, 2}, nil
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestIndexer(t *testing.T, dir string) (*Indexer, *fakeStore, *fakeEmbedder) {
	t.Helper()
	store := newFakeStore()
	embedder := &fakeEmbedder{}
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	i := New(log, store, embedder, dir, "urbanisme")
	i.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return i, store, embedder
}

func TestRunIndexesSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "reglements/reglement_ub.txt", "La hauteur maximale est fixée à 12 mètres.")
	writeFile(t, dir, "zonage/montpellier.json", `{"montpellier":{"zones":{}}}`)
	writeFile(t, dir, "plu/plan.dwg", "binary")

	i, store, _ := newTestIndexer(t, dir)
	if err := i.Run(context.Background(), false); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(store.docs) != 2 {
		t.Fatalf("expected 2 indexed documents, got %d", len(store.docs))
	}
	if !i.Indexed() {
		t.Error("expected the indexed flag to be set")
	}

	reg, ok := store.docs["reglements/reglement_ub.txt"]
	if !ok {
		t.Fatal("expected the regulation to be indexed")
	}
	if reg.Document.Type != "reglements" {
		t.Errorf("expected type reglements, got %q", reg.Document.Type)
	}
	if reg.Document.Zone != "UB" {
		t.Errorf("expected zone UB, got %q", reg.Document.Zone)
	}
	if len(reg.Chunks) == 0 {
		t.Error("expected chunks")
	}
	for _, chunk := range reg.Chunks {
		if len(chunk.Embedding) == 0 {
			t.Error("expected every chunk to carry an embedding")
		}
	}

	zoning := store.docs["zonage/montpellier.json"]
	if zoning.Document.Commune != "montpellier" {
		t.Errorf("expected commune montpellier, got %q", zoning.Document.Commune)
	}
}

func TestRunSkipsUnchangedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "reglements/reglement_ub.txt", "La hauteur maximale est fixée à 12 mètres.")

	i, store, _ := newTestIndexer(t, dir)
	if err := i.Run(context.Background(), false); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if store.puts != 1 {
		t.Fatalf("expected 1 put after first run, got %d", store.puts)
	}

	// Second run: unchanged file, no new put.
	if err := i.Run(context.Background(), false); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if store.puts != 1 {
		t.Errorf("expected unchanged file to be skipped, got %d puts", store.puts)
	}

	// Changed content is reindexed.
	writeFile(t, dir, "reglements/reglement_ub.txt", "La hauteur maximale est fixée à 15 mètres.")
	if err := i.Run(context.Background(), false); err != nil {
		t.Fatalf("third run failed: %v", err)
	}
	if store.puts != 2 {
		t.Errorf("expected changed file to be reindexed, got %d puts", store.puts)
	}
}

func TestRunForceReindexes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "reglements/reglement_ub.txt", "La hauteur maximale est fixée à 12 mètres.")

	i, store, _ := newTestIndexer(t, dir)
	if err := i.Run(context.Background(), false); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := i.Run(context.Background(), true); err != nil {
		t.Fatalf("forced run failed: %v", err)
	}
	if store.puts != 2 {
		t.Errorf("expected a forced run to reindex, got %d puts", store.puts)
	}
}

func TestDocTypeFromPath(t *testing.T) {
	tests := []struct {
		rel      string
		expected string
	}{
		{"reglements/reglement_ub.txt", "reglements"},
		{"plu/montpellier_metadata.json", "plu"},
		{"notes.txt", "document"},
	}
	for _, tt := range tests {
		if got := docTypeFromPath(tt.rel); got != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.rel, tt.expected, got)
		}
	}
}

func TestCommuneFromPath(t *testing.T) {
	tests := []struct {
		rel      string
		expected string
	}{
		{"zonage/montpellier.json", "montpellier"},
		{"plu/montpellier_metadata.json", "montpellier"},
		{"reglements/reglement_ub.txt", ""},
	}
	for _, tt := range tests {
		if got := communeFromPath(tt.rel); got != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.rel, tt.expected, got)
		}
	}
}
