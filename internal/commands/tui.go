package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todolist/internal/config"
	"todolist/internal/controller"
	"todolist/internal/exitcode"
	"todolist/internal/store"
	"todolist/internal/tui"
)

func init() {
	Register(&TuiCmd{})
}

// TuiCmd implements the tui command.
type TuiCmd struct{}

func (c *TuiCmd) Name() string      { return "tui" }
func (c *TuiCmd) Aliases() []string { return nil }
func (c *TuiCmd) Synopsis() string  { return "Open the interactive task list" }
func (c *TuiCmd) Usage() string     { return "todolist tui" }
func (c *TuiCmd) NeedsStore() bool  { return true }

func (c *TuiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TuiCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	// The program owns the terminal, so the controller does not log.
	queue := controller.NewQueue()
	ctrl := controller.New(st, controllerConfig(cfg), queue)

	if err := tui.Run(ctx, ctrl, queue); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
