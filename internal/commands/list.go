package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todolist/internal/config"
	"todolist/internal/controller"
	"todolist/internal/exitcode"
	"todolist/internal/output"
	"todolist/internal/store"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todolist` (no args) and `todolist list --filter <f>`.
type ListCmd struct {
	filter string
}

// SetFilter sets the filter flag (for testing).
func (c *ListCmd) SetFilter(filter string) {
	c.filter = filter
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "todolist list [--filter all|complete|pending]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	filter, err := parseFilterFlag(c.filter)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl := newController(ctx, cfg, st, stderrNotifier(errOut))
	if err := ctrl.Load(ctx); err != nil {
		return exitCodeFor(err)
	}
	ctrl.SetFilter(filter)

	state := ctrl.Snapshot()
	visible := state.Visible()

	if filter != controller.FilterAll {
		output.FormatHeader(out, filter, len(visible), len(state.Tasks))
	}
	if len(visible) == 0 && cfg.Quiet {
		return exitcode.Success
	}
	output.FormatList(out, visible)

	return exitcode.Success
}
