package delete

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/respond"
	"github.com/plurag/plurag/cache"
	"github.com/plurag/plurag/models"
)

func New(log *slog.Logger, responses *cache.Cache) Handler {
	return Handler{
		log:       log,
		responses: responses,
	}
}

type Handler struct {
	log       *slog.Logger
	responses *cache.Cache
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.responses.Clear(r.Context())
	if err != nil {
		h.log.Error("cache clear failed", slog.Any("error", err))
		respond.WithError(w, "cache clear failed", http.StatusInternalServerError)
		return
	}
	h.log.Info("cache cleared", slog.Int64("deleted", deleted))
	respond.WithJSON(w, models.CacheDeleteResponse{
		Deleted: deleted,
		Message: fmt.Sprintf("%d réponses supprimées du cache", deleted),
	}, http.StatusOK)
}
