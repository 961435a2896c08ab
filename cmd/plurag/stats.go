package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/plurag/plurag/client"
)

type StatsCommand struct {
	ServerURL    string `help:"The URL of the urbanism assistant server." env:"PLURAG_URL" default:"http://localhost:9020"`
	ServerAPIKey string `help:"The API key for the server." env:"PLURAG_API_KEY" default:""`
	Pretty       bool   `help:"Pretty print the JSON output." default:"true"`
	LogLevel     string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c StatsCommand) Run(ctx context.Context) (err error) {
	rsc := client.New(c.ServerURL, c.ServerAPIKey)
	resp, err := rsc.StatsGet(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	if c.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}
