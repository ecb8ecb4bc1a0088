// Package main is the entry point for the gtodo CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gtodo/internal/backend/restapi"
	"gtodo/internal/cli"
	"gtodo/internal/commands"
	"gtodo/internal/config"
	"gtodo/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// The REST client authenticates with the session the dispatcher opened
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return restapi.New(ctx, cfg, cfg.Session)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
