package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/plurag/plurag/client"
	"github.com/plurag/plurag/models"
)

type QueryCommand struct {
	ServerURL    string `help:"The URL of the urbanism assistant server." env:"PLURAG_URL" default:"http://localhost:9020"`
	ServerAPIKey string `help:"The API key for the server." env:"PLURAG_API_KEY" default:""`
	Question     string `help:"The question to ask." short:"q"`
	Commune      string `help:"The commune the question relates to." default:""`
	Parcelle     string `help:"The cadastral parcel reference." default:""`
	NoCache      bool   `help:"Bypass the response cache." default:"false"`
	NoContext    bool   `help:"Do not retrieve context documents." default:"false"`
	Pretty       bool   `help:"Pretty print the JSON output." default:"true"`
	LogLevel     string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c QueryCommand) Run(ctx context.Context) (err error) {
	rsc := client.New(c.ServerURL, c.ServerAPIKey)
	resp, err := rsc.QueryPost(ctx, models.QueryPostRequest{
		Question:  c.Question,
		Commune:   c.Commune,
		Parcel:    c.Parcelle,
		UseCache:  !c.NoCache,
		NoContext: c.NoContext,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	if c.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}
