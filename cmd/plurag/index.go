package main

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/plurag/plurag/client"
	"github.com/plurag/plurag/ingest"
	"github.com/plurag/plurag/models"
	"github.com/plurag/plurag/planning"
	"gopkg.in/yaml.v3"
)

type IndexCommand struct {
	ServerURL    string `help:"The URL of the urbanism assistant server." env:"PLURAG_URL" default:"http://localhost:9020"`
	ServerAPIKey string `help:"The API key for the server." env:"PLURAG_API_KEY" default:""`
	DocumentsDir string `help:"The directory containing planning documents." env:"DOCUMENTS_DIR" default:"./documents"`
	Path         string `help:"Import a single document by its path relative to the documents directory." default:""`
	DryRun       bool   `help:"Do not actually import the documents." env:"DRY_RUN" default:"false"`
	LogLevel     string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c IndexCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)

	rsc := client.New(c.ServerURL, c.ServerAPIKey)

	exporter := NewFilesystemExporter(c.DocumentsDir)
	for doc := range exporter.Export(ctx) {
		if c.Path != "" && doc.Path != c.Path {
			continue
		}
		log.Info("importing document", slog.String("url", doc.Document.URL))
		if log.Enabled(ctx, slog.LevelDebug) {
			fmt.Println(doc.Document.Text)
		}
		if c.DryRun {
			log.Info("skipping document import in dry run mode", slog.String("url", doc.Document.URL))
			continue
		}
		resp, err := rsc.DocumentsPut(ctx, models.DocumentsPostRequest{
			Document: doc.Document,
		})
		if err != nil {
			return fmt.Errorf("failed to put document: %w", err)
		}
		log.Info("document imported", slog.String("url", doc.Document.URL), slog.Int64("id", resp.ID))
	}
	return exporter.Error
}

func NewFilesystemExporter(dir string) *FilesystemExporter {
	return &FilesystemExporter{
		dir: dir,
	}
}

type FilesystemExporter struct {
	dir   string
	Error error
}

type ExportedDocument struct {
	// Path is relative to the exporter's root directory.
	Path     string
	Document models.Document
}

// Export walks the documents tree and yields one document per supported file.
// A read failure on one file stops the walk and is reported via Error.
func (e *FilesystemExporter) Export(ctx context.Context) iter.Seq[ExportedDocument] {
	return func(yield func(ExportedDocument) bool) {
		e.Error = filepath.WalkDir(e.dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() || !ingest.Supported(path) {
				return nil
			}
			rel, err := filepath.Rel(e.dir, path)
			if err != nil {
				return err
			}
			doc, err := e.createDocument(ctx, path, filepath.ToSlash(rel))
			if err != nil {
				return fmt.Errorf("%s: %w", rel, err)
			}
			if !yield(doc) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (e *FilesystemExporter) createDocument(ctx context.Context, path, rel string) (ed ExportedDocument, err error) {
	text, err := ingest.Load(ctx, path)
	if err != nil {
		return ed, err
	}

	meta := documentMetadata(rel)
	sb := new(strings.Builder)
	if len(meta) > 0 {
		_ = yaml.NewEncoder(sb).Encode(meta)
		sb.WriteString("\n")
	}
	sb.WriteString(text)

	ed.Path = rel
	ed.Document = models.Document{
		URL:   rel,
		Title: strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel)),
		Text:  sb.String(),
		Zone:  planning.ZoneFromFilename(filepath.Base(rel)),
	}
	if parts := strings.Split(rel, "/"); len(parts) > 1 {
		ed.Document.Type = parts[0]
	}
	if c, ok := meta["commune"]; ok {
		ed.Document.Commune = c
	}
	return ed, nil
}

// documentMetadata derives commune and zone hints from the file's location,
// for rendering as a YAML header at the top of the imported text.
func documentMetadata(rel string) map[string]string {
	meta := map[string]string{}
	parts := strings.Split(rel, "/")
	name := strings.TrimSuffix(parts[len(parts)-1], filepath.Ext(rel))
	if len(parts) > 1 && (parts[0] == "plu" || parts[0] == "zonage") {
		meta["commune"] = strings.TrimSuffix(name, "_metadata")
	}
	if zone := planning.ZoneFromFilename(parts[len(parts)-1]); zone != "" {
		meta["zone"] = zone
	}
	return meta
}
