package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/respond"
	"github.com/plurag/plurag/cache"
	"github.com/plurag/plurag/db"
	"github.com/plurag/plurag/models"
)

func New(log *slog.Logger, responses *cache.Cache, queries *db.Queries, partition, llmURL string, indexed func() bool) Handler {
	return Handler{
		log:       log,
		responses: responses,
		queries:   queries,
		partition: partition,
		llmURL:    llmURL,
		indexed:   indexed,
		client:    &http.Client{Timeout: 5 * time.Second},
	}
}

type Handler struct {
	log       *slog.Logger
	responses *cache.Cache
	queries   *db.Queries
	partition string
	llmURL    string
	indexed   func() bool
	client    *http.Client
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cacheHealth := h.responses.Health(r.Context())

	resp := models.HealthGetResponse{
		Services: map[string]bool{
			"cache":             cacheHealth.Status == "healthy",
			"llm":               h.llmUp(r.Context()),
			"rag":               h.ragUp(r.Context()),
			"documents_indexed": h.indexed(),
		},
		Cache: cacheHealth,
	}

	resp.Status = "healthy"
	for _, up := range resp.Services {
		if !up {
			resp.Status = "degraded"
			break
		}
	}

	respond.WithJSON(w, resp, http.StatusOK)
}

func (h Handler) llmUp(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.llmURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	res, err := h.client.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return res.StatusCode == http.StatusOK
}

func (h Handler) ragUp(ctx context.Context) bool {
	_, err := h.queries.DocumentCount(ctx, h.partition)
	if err != nil {
		h.log.Warn("document store unreachable", slog.Any("error", err))
		return false
	}
	return true
}
