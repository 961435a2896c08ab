package ingest

import (
	"context"
	"fmt"
	"os"
)

func readText(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("ingest: failed to read %s: %w", path, err)
	}
	return string(data), nil
}
