package post

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/respond"
	"github.com/plurag/plurag/auth"
	"github.com/plurag/plurag/cache"
	"github.com/plurag/plurag/db"
	"github.com/plurag/plurag/models"
	"github.com/plurag/plurag/planning"
	"github.com/plurag/plurag/prompts"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
)

const maxSources = 3
const sourceExcerptLength = 200

// ResponseCache is the subset of cache.Cache the handler uses.
type ResponseCache interface {
	Get(ctx context.Context, key string) (resp models.QueryPostResponse, ok bool)
	Set(ctx context.Context, key string, resp models.QueryPostResponse, ttl time.Duration)
	IncrementStat(ctx context.Context, name string)
}

// DocumentFinder is the subset of db.Queries the handler uses.
type DocumentFinder interface {
	DocumentNearest(ctx context.Context, args db.DocumentSelectNearestArgs) ([]db.DocumentSelectNearestResult, error)
}

func New(log *slog.Logger, responses ResponseCache, embedder embeddings.Embedder, llm llms.Model, queries DocumentFinder, zoning *planning.Service, maxContextDocs int, modelName string) Handler {
	return Handler{
		log:            log,
		responses:      responses,
		embedder:       embedder,
		llm:            llm,
		queries:        queries,
		zoning:         zoning,
		maxContextDocs: maxContextDocs,
		modelName:      modelName,
	}
}

type Handler struct {
	log            *slog.Logger
	responses      ResponseCache
	embedder       embeddings.Embedder
	llm            llms.Model
	queries        DocumentFinder
	zoning         *planning.Service
	maxContextDocs int
	modelName      string
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	partition, ok := auth.GetPartition(r)
	if !ok {
		http.Error(w, "authentication not provided", http.StatusUnauthorized)
		return
	}

	var req models.QueryPostRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.log.Error("failed to decode body", slog.Any("error", err))
		respond.WithError(w, "failed to decode body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respond.WithError(w, "question is required", http.StatusBadRequest)
		return
	}

	start := time.Now()
	h.responses.IncrementStat(r.Context(), cache.StatTotalQueries)

	var cacheKey string
	if req.UseCache {
		cacheKey = cache.Key(req.Commune, req.Question)
		if resp, ok := h.responses.Get(r.Context(), cacheKey); ok {
			h.responses.IncrementStat(r.Context(), cache.StatCacheHits)
			resp.Cached = true
			resp.ProcessingTime = time.Since(start).Seconds()
			respond.WithJSON(w, resp, http.StatusOK)
			return
		}
	}

	var docs []db.DocumentSelectNearestResult
	if !req.NoContext {
		h.responses.IncrementStat(r.Context(), cache.StatRAGSearches)
		embedding, err := h.embedder.EmbedQuery(r.Context(), req.Question)
		if err != nil {
			h.log.Error("failed to embed query", slog.Any("error", err))
			respond.WithError(w, "failed to embed query", http.StatusInternalServerError)
			return
		}
		docs, err = h.queries.DocumentNearest(r.Context(), db.DocumentSelectNearestArgs{
			Partition: partition,
			Embedding: embedding,
			Limit:     h.maxContextDocs,
		})
		if err != nil {
			h.log.Error("failed to find nearest documents", slog.Any("error", err))
			respond.WithError(w, "failed to find nearest documents", http.StatusInternalServerError)
			return
		}
		docs = filterByCommune(docs, req.Commune)
	}

	promptContext := buildContext(docs)
	var parcelZone string
	if req.Parcel != "" && req.Commune != "" {
		if pz, ok := h.zoning.ZoneForParcel(req.Commune, req.Parcel); ok {
			parcelZone = pz.Zone
			regulation := h.zoning.RegulationForZone(req.Commune, pz.Zone)
			promptContext = fmt.Sprintf("Zone %s:\n%s\n\n%s", pz.Zone, regulation, promptContext)
		}
	}

	questionType := prompts.Classify(req.Question)
	prompt := prompts.Build(questionType, req.Question, promptContext, parcelZone)

	resp := models.QueryPostResponse{
		Sources: sources(docs),
		Model:   h.modelName,
	}
	h.responses.IncrementStat(r.Context(), cache.StatLLMCalls)
	resp.Answer, err = h.generate(r.Context(), prompt)
	if err != nil {
		// Degraded mode: the model is unreachable or still loading, serve
		// the rule-based answer instead of failing the request.
		h.log.Warn("llm unavailable, serving fallback answer", slog.Any("error", err))
		resp.Answer = prompts.Fallback(req.Question)
		resp.Model = "fallback"
		resp.Sources = nil
	}

	if cacheKey != "" && resp.Model != "fallback" {
		h.responses.Set(r.Context(), cacheKey, resp, cache.DefaultTTL)
	}

	resp.ProcessingTime = time.Since(start).Seconds()
	respond.WithJSON(w, resp, http.StatusOK)
}

func (h Handler) generate(ctx context.Context, prompt string) (string, error) {
	content, err := h.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, prompts.SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	})
	if err != nil {
		return "", err
	}
	if len(content.Choices) == 0 {
		return "", fmt.Errorf("no content generated")
	}
	return strings.TrimSpace(content.Choices[0].Content), nil
}

// filterByCommune keeps chunks mentioning the commune in their text or URL.
// When nothing matches, the unfiltered set is kept so the assistant can still
// answer from general documents.
func filterByCommune(docs []db.DocumentSelectNearestResult, commune string) []db.DocumentSelectNearestResult {
	if commune == "" || len(docs) == 0 {
		return docs
	}
	needle := strings.ToLower(commune)
	var filtered []db.DocumentSelectNearestResult
	for _, doc := range docs {
		if strings.Contains(strings.ToLower(doc.Text), needle) ||
			strings.Contains(strings.ToLower(doc.URL), needle) ||
			strings.EqualFold(doc.Commune, commune) {
			filtered = append(filtered, doc)
		}
	}
	if len(filtered) == 0 {
		return docs
	}
	return filtered
}

// buildContext renders retrieved chunks with numbered source headers.
func buildContext(docs []db.DocumentSelectNearestResult) string {
	parts := make([]string, len(docs))
	for i, doc := range docs {
		header := fmt.Sprintf("[Source %d: %s", i+1, doc.URL)
		if doc.Zone != "" {
			header += fmt.Sprintf(" - Zone %s", doc.Zone)
		}
		header += "]"
		parts[i] = header + "\n" + doc.Text
	}
	return strings.Join(parts, "\n\n")
}

func sources(docs []db.DocumentSelectNearestResult) (out []models.Source) {
	for _, doc := range docs {
		if len(out) == maxSources {
			break
		}
		excerpt := doc.Text
		if r := []rune(excerpt); len(r) > sourceExcerptLength {
			excerpt = string(r[:sourceExcerptLength]) + "..."
		}
		docType := doc.Type
		if docType == "" {
			docType = "document"
		}
		out = append(out, models.Source{
			Type:    docType,
			Zone:    doc.Zone,
			Excerpt: excerpt,
			URL:     doc.URL,
		})
	}
	return out
}
