package ingest

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
)

func readPDF(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("ingest: failed to open %s: %w", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("ingest: failed to stat %s: %w", path, err)
	}

	docs, err := documentloaders.NewPDF(f, info.Size()).Load(ctx)
	if err != nil {
		return "", fmt.Errorf("ingest: failed to load PDF %s: %w", path, err)
	}
	var sb strings.Builder
	for _, doc := range docs {
		sb.WriteString(doc.PageContent)
		sb.WriteString("\n")
	}

	// Scanned PDFs have no text layer. Render and OCR them instead.
	if strings.TrimSpace(sb.String()) == "" {
		return ocrPDF(ctx, path)
	}
	return sb.String(), nil
}

// ocrPDF renders each page with poppler's pdftoppm and runs tesseract with
// the French model over the images. Both binaries are OS packages
// (poppler-utils, tesseract-ocr).
func ocrPDF(ctx context.Context, path string) (string, error) {
	tmp, err := os.MkdirTemp("", "plurag-ocr-")
	if err != nil {
		return "", fmt.Errorf("ingest: failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	cmd := exec.CommandContext(ctx, "pdftoppm", "-r", "300", "-png", path, filepath.Join(tmp, "page"))
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ingest: pdftoppm failed for %s: %w: %s", path, err, out)
	}

	pages, err := filepath.Glob(filepath.Join(tmp, "page*.png"))
	if err != nil {
		return "", fmt.Errorf("ingest: glob failed: %w", err)
	}
	sort.Strings(pages)

	var sb strings.Builder
	for _, page := range pages {
		out, err := exec.CommandContext(ctx, "tesseract", page, "-", "-l", "fra").Output()
		if err != nil {
			return "", fmt.Errorf("ingest: tesseract failed for %s: %w", page, err)
		}
		sb.Write(out)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
