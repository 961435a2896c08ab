// Package ingest extracts plain text from the document formats found in PLU
// archives: PDF (with OCR fallback for scanned files), DOCX, XLSX, and plain
// text or markdown.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Reader extracts the text content of a file.
type Reader func(ctx context.Context, path string) (string, error)

var readers = map[string]Reader{
	".pdf":  readPDF,
	".docx": readDocx,
	".xlsx": readXLSX,
	".txt":  readText,
	".md":   readText,
	".json": readText,
}

// Supported reports whether a reader exists for the file's extension.
func Supported(path string) bool {
	_, ok := readers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load extracts the text of a file, routing on its extension.
func Load(ctx context.Context, path string) (string, error) {
	reader, ok := readers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("ingest: unsupported file type: %s", path)
	}
	return reader(ctx, path)
}
