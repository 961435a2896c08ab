package ingest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

func readDocx(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("ingest: failed to open %s: %w", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("ingest: failed to stat %s: %w", path, err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("ingest: failed to parse DOCX %s: %w", path, err)
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch item := item.(type) {
		case *docx.Paragraph:
			sb.WriteString(item.String())
			sb.WriteString("\n")
		case *docx.Table:
			sb.WriteString(item.String())
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}
