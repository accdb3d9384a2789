package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/sampleledger/internal/client/cli"
)

func main() {
	app := cli.NewApp()
	if code := app.Run(context.Background(), os.Args[1:]); code != 0 {
		os.Exit(code)
	}
}
