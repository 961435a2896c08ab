package get

import (
	"log/slog"
	"net/http"

	"github.com/a-h/respond"
	"github.com/plurag/plurag/models"
	"github.com/plurag/plurag/planning"
)

func New(log *slog.Logger, zoning *planning.Service) Handler {
	return Handler{
		log:    log,
		zoning: zoning,
	}
}

type Handler struct {
	log    *slog.Logger
	zoning *planning.Service
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		respond.WithError(w, "q is required", http.StatusBadRequest)
		return
	}
	results, err := h.zoning.SearchDocuments(q)
	if err != nil {
		h.log.Error("regulation search failed", slog.Any("error", err))
		respond.WithError(w, "regulation search failed", http.StatusInternalServerError)
		return
	}
	respond.WithJSON(w, models.SearchGetResponse{
		Results: results,
		Count:   len(results),
	}, http.StatusOK)
}
