package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"prepcoach/internal/cli"
)

func main() {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Configuration loading, logging, and error reporting live in the
	// command layer; cobra prints the failure before we exit.
	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
