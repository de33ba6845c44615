// Package main is the entry point for the agentsync CLI application.
//
// The command tree lives in internal/cli. main only wires process concerns:
// an interrupt or SIGTERM cancels the context handed to every command, so a
// run stops between two files, and a returned error becomes exit status 1.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"agentsync/internal/cli"
	"agentsync/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.Execute(ctx)
	stop()
	if err != nil {
		ui.NewReporter(os.Stderr).Error(err)
		os.Exit(1)
	}
}
