// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"todolist/internal/backend"
	"todolist/internal/backend/googletasks"
	"todolist/internal/commands"
	"todolist/internal/config"
	"todolist/internal/exitcode"
	"todolist/internal/logging"
	"todolist/internal/store"
)

// defaultCommand runs when no command is given.
const defaultCommand = "list"

// StoreFactory creates the task store from config.
// A nil factory opens the configured backend.
type StoreFactory func(ctx context.Context, cfg *config.Config) (store.Store, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  StoreFactory
}

// NewDispatcher creates a new dispatcher with the given registry and store factory.
func NewDispatcher(registry *commands.Registry, factory StoreFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	quiet     bool
	debug     bool
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	name, rest := defaultCommand, []string(nil)
	if len(args) > 0 {
		name, rest = args[0], args[1:]
	}

	// Flags always follow the command name.
	cmd, ok := d.registry.Find(name)
	if strings.HasPrefix(name, "-") || !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}

	common, positional, err := parseFlags(cmd, rest)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	cfg, err := config.Load(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug

	logger := logging.NewFromConfig(errOut, cfg.LogLevel, cfg.LogFormat, cfg.Debug)
	ctx = logging.WithContext(ctx, logger)
	logger.Debug("config loaded", "dir", cfg.Dir, "backend", cfg.Backend, "command", cmd.Name())

	if !cmd.NeedsStore() {
		return cmd.Run(ctx, cfg, nil, positional, out, errOut)
	}

	if code := d.preflight(cfg, errOut); code != exitcode.Success {
		return code
	}
	st, err := d.openStore(ctx, cfg)
	if err != nil {
		if isAuthError(err) {
			fmt.Fprintf(errOut, "error: auth error: %s\n", err)
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}
	defer func() {
		if err := backend.Close(st); err != nil {
			logger.Debug("close store", "err", err)
		}
	}()

	return cmd.Run(ctx, cfg, st, positional, out, errOut)
}

// parseFlags parses the common and command flags. The returned error is
// already phrased for the user.
func parseFlags(cmd commands.Command, args []string) (commonFlags, []string, error) {
	var common commonFlags

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&common.configDir, "config", "", "")
	fs.BoolVar(&common.quiet, "quiet", false, "")
	fs.BoolVar(&common.debug, "debug", false, "")
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		msg := err.Error()
		if name, ok := strings.CutPrefix(msg, "flag provided but not defined: "); ok {
			return common, nil, fmt.Errorf("unknown flag: %s", name)
		}
		return common, nil, errors.New(msg)
	}

	positional := fs.Args()
	// A dash after the first positional argument was not parsed as a flag.
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") {
		return common, nil, fmt.Errorf("unknown flag: %s", positional[0])
	}
	return common, positional, nil
}

// preflight reports missing googletasks credentials before any network call.
// A custom factory handles auth itself.
func (d *Dispatcher) preflight(cfg *config.Config, errOut io.Writer) int {
	if d.factory != nil || cfg.Backend != config.BackendGoogleTasks {
		return exitcode.Success
	}
	if !cfg.HasOAuthClient() {
		fmt.Fprintf(errOut, "error: %s not found in %s\n", config.OAuthClientFile, cfg.Dir)
		return exitcode.AuthError
	}
	if !cfg.HasToken() {
		fmt.Fprintln(errOut, "error: not logged in (run: todolist login)")
		return exitcode.AuthError
	}
	return exitcode.Success
}

func (d *Dispatcher) openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if d.factory != nil {
		return d.factory(ctx, cfg)
	}
	return backend.Open(ctx, cfg)
}

func isAuthError(err error) bool {
	if errors.Is(err, googletasks.ErrUnauthorized) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "token") || strings.Contains(msg, "auth")
}
