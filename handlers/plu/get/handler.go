package get

import (
	"log/slog"
	"net/http"

	"github.com/a-h/respond"
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
	respond.WithJSON(w, h.zoning.Metadata(r.PathValue("commune")), http.StatusOK)
}
