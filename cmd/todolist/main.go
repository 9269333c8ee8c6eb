// Package main is the entry point for the todolist CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"todolist/internal/cli"
	"todolist/internal/commands"
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

	// A nil factory opens the backend named in the config
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
