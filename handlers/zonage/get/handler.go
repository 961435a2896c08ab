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
	commune := r.PathValue("commune")
	parcelle := r.PathValue("parcelle")
	pz, ok := h.zoning.ZoneForParcel(commune, parcelle)
	if !ok {
		respond.WithError(w, "commune inconnue", http.StatusNotFound)
		return
	}
	respond.WithJSON(w, pz, http.StatusOK)
}
