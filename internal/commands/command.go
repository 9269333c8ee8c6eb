// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todolist/internal/backend/googletasks"
	"todolist/internal/config"
	"todolist/internal/controller"
	"todolist/internal/exitcode"
	"todolist/internal/logging"
	"todolist/internal/store"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command talks to the task store.
	// Commands like help, version, login, logout return false.
	NeedsStore() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, backend settings).
	// st is nil if NeedsStore() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int
}

// newController builds a controller over st for the configured collection.
// Failures reach the user through notifier; the ctx logger is only attached
// with --debug.
func newController(ctx context.Context, cfg *config.Config, st store.Store, notifier controller.Notifier) *controller.Controller {
	logger := logging.Discard()
	if cfg.Debug {
		logger = logging.FromContext(ctx)
	}
	return controller.New(st, controllerConfig(cfg), notifier, controller.WithLogger(logger))
}

func controllerConfig(cfg *config.Config) controller.Config {
	return controller.Config{
		DatabaseID:   cfg.DatabaseID,
		CollectionID: cfg.CollectionID,
	}
}

// stderrNotifier prints notifications as CLI errors.
func stderrNotifier(errOut io.Writer) controller.Notifier {
	return controller.NotifierFunc(func(msg string) {
		fmt.Fprintf(errOut, "error: %s\n", msg)
	})
}

// exitCodeFor maps a failed store call to an exit code.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, googletasks.ErrUnauthorized):
		return exitcode.AuthError
	case errors.Is(err, store.ErrNotFound):
		return exitcode.UserError
	default:
		return exitcode.BackendError
	}
}
