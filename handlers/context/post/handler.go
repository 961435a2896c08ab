package post

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/respond"
	"github.com/plurag/plurag/auth"
	"github.com/plurag/plurag/db"
	"github.com/plurag/plurag/models"
	"github.com/tmc/langchaingo/embeddings"
)

func New(log *slog.Logger, embedder embeddings.Embedder, queries *db.Queries, maxContextDocs int) Handler {
	return Handler{
		log:            log,
		embedder:       embedder,
		queries:        queries,
		maxContextDocs: maxContextDocs,
	}
}

type Handler struct {
	log            *slog.Logger
	embedder       embeddings.Embedder
	queries        *db.Queries
	maxContextDocs int
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	partition, ok := auth.GetPartition(r)
	if !ok {
		http.Error(w, "authentication not provided", http.StatusUnauthorized)
		return
	}

	var req models.ContextPostRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.log.Error("failed to decode body", slog.Any("error", err))
		respond.WithError(w, "failed to decode body", http.StatusBadRequest)
		return
	}

	docs, err := h.search(r.Context(), partition, req)
	if err != nil {
		h.log.Error("search failed", slog.Any("error", err))
		respond.WithError(w, "search failed", http.StatusInternalServerError)
		return
	}

	var resp models.ContextPostResponse
	for _, doc := range docs {
		resp.Results = append(resp.Results, models.ContextDocument{
			Text:      doc.Text,
			Embedding: doc.Embedding,
			Distance:  doc.Distance,
			URL:       doc.URL,
			Title:     doc.Title,
			Summary:   doc.Summary,
			Commune:   doc.Commune,
			Type:      doc.Type,
			Zone:      doc.Zone,
		})
	}

	respond.WithJSON(w, resp, http.StatusOK)
}

func (h Handler) search(ctx context.Context, partition string, req models.ContextPostRequest) (docs []db.DocumentSelectNearestResult, err error) {
	if req.Text == "" {
		return nil, nil
	}
	embedding, err := h.embedder.EmbedQuery(ctx, req.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	docs, err = h.queries.DocumentNearest(ctx, db.DocumentSelectNearestArgs{
		Partition: partition,
		Embedding: embedding,
		Limit:     h.maxContextDocs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find nearest documents: %w", err)
	}
	if req.Commune == "" {
		return docs, nil
	}
	needle := strings.ToLower(req.Commune)
	var filtered []db.DocumentSelectNearestResult
	for _, doc := range docs {
		if strings.EqualFold(doc.Commune, req.Commune) ||
			strings.Contains(strings.ToLower(doc.URL), needle) ||
			strings.Contains(strings.ToLower(doc.Text), needle) {
			filtered = append(filtered, doc)
		}
	}
	return filtered, nil
}
