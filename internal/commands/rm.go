package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todolist/internal/config"
	"todolist/internal/exitcode"
	"todolist/internal/store"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	filter string
}

// SetFilter sets the filter flag (for testing).
func (c *RmCmd) SetFilter(filter string) {
	c.filter = filter
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "todolist rm [--filter <f>] <ref>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	// Parse task reference
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	filter, err := parseFilterFlag(c.filter)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl := newController(ctx, cfg, st, stderrNotifier(errOut))
	task, code := resolveTask(ctx, ctrl, filter, ref, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := ctrl.DeleteTask(ctx, task.ID); err != nil {
		return exitCodeFor(err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
