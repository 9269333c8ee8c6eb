package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todolist/internal/config"
	"todolist/internal/exitcode"
	"todolist/internal/output"
	"todolist/internal/store"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct {
	filter string
}

// SetFilter sets the filter flag (for testing).
func (c *ToggleCmd) SetFilter(filter string) {
	c.filter = filter
}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string  { return "Toggle a task between complete and pending" }
func (c *ToggleCmd) Usage() string     { return "todolist toggle [--filter <f>] <ref>" }
func (c *ToggleCmd) NeedsStore() bool  { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
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

	if err := ctrl.ToggleComplete(ctx, task.ID); err != nil {
		return exitCodeFor(err)
	}

	if !cfg.Quiet {
		updated, _ := ctrl.Find(task.ID)
		state := "pending"
		if updated.Completed {
			state = "complete"
		}
		fmt.Fprintf(out, "ok %s %s\n", output.FormatTaskRef(updated), state)
	}
	return exitcode.Success
}
