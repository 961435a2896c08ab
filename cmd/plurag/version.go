package main

import (
	"context"
	"fmt"

	"github.com/plurag/plurag"
)

type VersionCommand struct {
}

func (c VersionCommand) Run(ctx context.Context) (err error) {
	fmt.Println(plurag.Version)
	return nil
}
