// Command envreport prints dashboard summaries and checks the dataset from
// the command line.
//
// Usage:
//
//	go run ./cmd/envreport report --country Germany --country France --min-year 2012
//	go run ./cmd/envreport report --format yaml --line-chart line.png
//	go run ./cmd/envreport validate --data data/enviroment.csv
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/env-damage-dashboard/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}
