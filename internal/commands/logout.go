package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todolist/internal/config"
	"todolist/internal/exitcode"
	"todolist/internal/logging"
	"todolist/internal/store"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command. Only the googletasks
// backend keeps credentials on disk.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Remove stored Google credentials" }
func (c *LogoutCmd) Usage() string     { return "todolist logout" }
func (c *LogoutCmd) NeedsStore() bool  { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	logger := logging.FromContext(ctx)

	if !cfg.HasToken() {
		logger.Debug("no token to remove", "path", cfg.TokenPath())
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	if err := cfg.RemoveToken(); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
		return exitcode.AuthError
	}
	logger.Debug("token removed", "path", cfg.TokenPath())

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
