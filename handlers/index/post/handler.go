package post

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/a-h/respond"
	"github.com/plurag/plurag/indexer"
	"github.com/plurag/plurag/models"
)

func New(log *slog.Logger, idx *indexer.Indexer) Handler {
	return Handler{
		log: log,
		idx: idx,
	}
}

type Handler struct {
	log *slog.Logger
	idx *indexer.Indexer
}

// ServeHTTP starts a forced reindex in the background and returns immediately,
// since walking and embedding a document tree can take minutes.
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	go func() {
		if err := h.idx.Run(context.Background(), true); err != nil {
			h.log.Error("reindex failed", slog.Any("error", err))
		}
	}()
	respond.WithJSON(w, models.IndexRefreshPostResponse{
		Message: "Réindexation lancée en arrière-plan",
	}, http.StatusAccepted)
}
