package get

import (
	"log/slog"
	"net/http"

	"github.com/a-h/respond"
	"github.com/plurag/plurag/cache"
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
	respond.WithJSON(w, h.responses.Stats(r.Context()), http.StatusOK)
}
