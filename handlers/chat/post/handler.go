package post

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/a-h/respond"
	"github.com/plurag/plurag/auth"
	"github.com/plurag/plurag/models"
	"github.com/tmc/langchaingo/llms"
)

func New(log *slog.Logger, llm llms.Model) Handler {
	return Handler{
		log: log,
		llm: llm,
	}
}

type Handler struct {
	log *slog.Logger
	llm llms.Model
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	partition, ok := auth.GetPartition(r)
	if !ok {
		http.Error(w, "authentication not provided", http.StatusUnauthorized)
		return
	}

	var req models.ChatPostRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.log.Error("failed to decode body", slog.Any("error", err))
		respond.WithError(w, "failed to decode body", http.StatusBadRequest)
		return
	}

	// Test partitions skip the LLM so integration tests can run without a
	// model server.
	if partition == "test-partition-no-llm" {
		writeTestMessage(w)
		return
	}

	var msgs []llms.MessageContent
	for _, m := range req.Messages {
		msgs = append(msgs, llms.TextParts(llms.ChatMessageType(m.Type), m.Content))
	}

	h.log.Info("generating content", slog.Int("messages", len(msgs)))

	f := func(ctx context.Context, chunk []byte) error {
		select {
		case <-ctx.Done():
			return nil
		default:
			if _, err := w.Write(chunk); err != nil {
				return err
			}
			if flusher, canFlush := w.(http.Flusher); canFlush {
				flusher.Flush()
			}
			return nil
		}
	}

	_, err = h.llm.GenerateContent(r.Context(), msgs, llms.WithStreamingFunc(f))
	if err != nil {
		h.log.Error("failed to generate content", slog.Any("error", err))
		respond.WithError(w, "failed to generate content", http.StatusInternalServerError)
		return
	}
}

const TestMessage = `Bonjour !

Je suis un message de test.

Si vous me voyez, votre intégration avec l'API fonctionne.`

func writeTestMessage(w http.ResponseWriter) (err error) {
	for chunk := range slices.Chunk([]rune(TestMessage), 4) {
		if _, err := io.WriteString(w, string(chunk)); err != nil {
			return err
		}
		if flusher, canFlush := w.(http.Flusher); canFlush {
			flusher.Flush()
		}
		time.Sleep(100 * time.Millisecond)
	}
	return nil
}
