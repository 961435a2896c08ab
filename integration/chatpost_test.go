package integration

import (
	"bytes"
	"context"
	"testing"

	"github.com/plurag/plurag/client"
	chatpost "github.com/plurag/plurag/handlers/chat/post"
	"github.com/plurag/plurag/models"
)

func TestChatPost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	buf := new(bytes.Buffer)
	f := func(ctx context.Context, chunk []byte) (err error) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, err = buf.Write(chunk)
		return err
	}
	c := client.New("http://localhost:9020", "test-api-key-no-llm")
	err := c.ChatPost(context.Background(), models.ChatPostRequest{
		Messages: []models.ChatMessage{
			{
				Type:    models.ChatMessageTypeHuman,
				Content: "Bonjour",
			},
		},
	}, f)
	if err != nil {
		t.Fatalf("failed to post chat: %v", err)
	}
	actual := buf.String()
	if actual != chatpost.TestMessage {
		t.Fatalf("expected %q, got %q", chatpost.TestMessage, actual)
	}
}
