package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todolist/internal/config"
	"todolist/internal/exitcode"
	"todolist/internal/store"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "todolist add <text...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	// Join args to form the task text
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	}

	ctrl := newController(ctx, cfg, st, stderrNotifier(errOut))
	if err := ctrl.Submit(ctx, text); err != nil {
		return exitCodeFor(err)
	}

	if !cfg.Quiet {
		tasks := ctrl.Tasks()
		fmt.Fprintf(out, "ok %s\n", tasks[0].ID)
	}
	return exitcode.Success
}
