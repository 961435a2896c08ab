package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Serve   ServeCommand   `cmd:"serve" help:"Start the urbanism assistant server."`
	Index   IndexCommand   `cmd:"index" help:"Import planning documents into a running server."`
	Query   QueryCommand   `cmd:"query" help:"Ask an urbanism question."`
	Context ContextCommand `cmd:"context" help:"Get similar documents for a piece of text."`
	Chat    ChatCommand    `cmd:"chat" help:"Chat with the assistant."`
	Stats   StatsCommand   `cmd:"stats" help:"Print server usage statistics."`
	Version VersionCommand `cmd:"version" help:"Print the version of the server."`
}

func main() {
	var cli CLI
	ctx := context.Background()
	kctx := kong.Parse(&cli, kong.UsageOnError(), kong.BindTo(ctx, (*context.Context)(nil)))
	if err := kctx.Run(); err != nil {
		log := getLogger("error")
		log.Error("error", slog.Any("error", err))
		os.Exit(1)
	}
}

func getLogger(level string) *slog.Logger {
	ll := slog.LevelInfo
	switch level {
	case "debug":
		ll = slog.LevelDebug
	case "info":
		ll = slog.LevelInfo
	case "warn":
		ll = slog.LevelWarn
	case "error":
		ll = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: ll,
	}))
}
