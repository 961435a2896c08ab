// Package indexer walks the documents tree and loads its files into the
// vector store, skipping files whose content has already been indexed.
package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/plurag/plurag/db"
	"github.com/plurag/plurag/ingest"
	"github.com/plurag/plurag/planning"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/textsplitter"
)

// Store is the subset of db.Queries the indexer writes to.
type Store interface {
	DocumentPut(ctx context.Context, args db.DocumentPutArgs) (id int64, err error)
	FileHashGet(ctx context.Context, partition, path string) (hash string, ok bool, err error)
	FileHashPut(ctx context.Context, partition, path, hash string, indexedAt time.Time) error
}

const chunkSize = 1000
const chunkOverlap = 200

func New(log *slog.Logger, store Store, embedder embeddings.Embedder, dir, partition string) *Indexer {
	return &Indexer{
		log:       log,
		store:     store,
		embedder:  embedder,
		dir:       dir,
		partition: partition,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
		now: time.Now,
	}
}

type Indexer struct {
	log       *slog.Logger
	store     Store
	embedder  embeddings.Embedder
	dir       string
	partition string
	splitter  textsplitter.TextSplitter

	// mu serializes runs so a refresh request cannot race the startup run.
	mu      sync.Mutex
	indexed atomic.Bool

	now func() time.Time
}

// Indexed reports whether at least one run has completed.
func (i *Indexer) Indexed() bool {
	return i.indexed.Load()
}

// Run walks the documents tree and indexes every supported file. Unchanged
// files are skipped unless force is set. Per-file failures are logged and
// skipped so one bad scan does not abort the walk.
func (i *Indexer) Run(ctx context.Context, force bool) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	var indexed, skipped int
	err := filepath.WalkDir(i.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !ingest.Supported(path) {
			return nil
		}
		ok, err := i.indexFile(ctx, path, force)
		if err != nil {
			i.log.Error("failed to index file", slog.String("path", path), slog.Any("error", err))
			return nil
		}
		if ok {
			indexed++
		} else {
			skipped++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("indexer: walk failed: %w", err)
	}
	i.indexed.Store(true)
	i.log.Info("indexing complete", slog.Int("indexed", indexed), slog.Int("skipped", skipped))
	return nil
}

func (i *Indexer) indexFile(ctx context.Context, path string, force bool) (indexed bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read file: %w", err)
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	rel, err := filepath.Rel(i.dir, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	previous, ok, err := i.store.FileHashGet(ctx, i.partition, rel)
	if err != nil {
		return false, fmt.Errorf("failed to look up file hash: %w", err)
	}
	if ok && previous == hash && !force {
		return false, nil
	}

	text, err := ingest.Load(ctx, path)
	if err != nil {
		return false, err
	}

	texts, err := i.splitter.SplitText(text)
	if err != nil {
		return false, fmt.Errorf("failed to split text: %w", err)
	}
	if len(texts) == 0 {
		return false, nil
	}

	vectors, err := i.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return false, fmt.Errorf("failed to embed documents: %w", err)
	}
	if len(vectors) != len(texts) {
		return false, fmt.Errorf("split/embedding mismatch: %d texts, %d embeddings", len(texts), len(vectors))
	}

	chunks := make([]db.Chunk, len(texts))
	for c := range texts {
		chunks[c] = db.Chunk{
			Text:      texts[c],
			Embedding: vectors[c],
		}
	}

	now := i.now().UTC()
	name := filepath.Base(rel)
	_, err = i.store.DocumentPut(ctx, db.DocumentPutArgs{
		Document: db.Document{
			DocumentID: db.DocumentID{
				Partition: i.partition,
				URL:       rel,
			},
			Title:         name,
			Text:          text,
			Commune:       communeFromPath(rel),
			Type:          docTypeFromPath(rel),
			Zone:          planning.ZoneFromFilename(name),
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
		Chunks: chunks,
	})
	if err != nil {
		return false, fmt.Errorf("failed to store document: %w", err)
	}

	if err = i.store.FileHashPut(ctx, i.partition, rel, hash, now); err != nil {
		return false, fmt.Errorf("failed to record file hash: %w", err)
	}
	i.log.Info("indexed document", slog.String("path", rel), slog.Int("chunks", len(chunks)))
	return true, nil
}

// docTypeFromPath uses the containing directory as the document type, e.g.
// "reglements/reglement_ub.txt" is a "reglements" document.
func docTypeFromPath(rel string) string {
	dir := filepath.Dir(rel)
	if dir == "." {
		return "document"
	}
	return filepath.Base(dir)
}

// communeFromPath derives the commune from commune-named files such as
// "zonage/montpellier.json" or "plu/montpellier_metadata.json".
func communeFromPath(rel string) string {
	switch docTypeFromPath(rel) {
	case "zonage", "plu":
		stem := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
		return strings.ToLower(strings.TrimSuffix(stem, "_metadata"))
	}
	return ""
}
