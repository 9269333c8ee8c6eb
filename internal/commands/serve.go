package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"todolist/internal/config"
	"todolist/internal/controller"
	"todolist/internal/exitcode"
	"todolist/internal/logging"
	"todolist/internal/store"
	"todolist/internal/web"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	listen string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return []string{"web"} }
func (c *ServeCmd) Synopsis() string  { return "Serve the task list page" }
func (c *ServeCmd) Usage() string     { return "todolist serve [--listen <addr>]" }
func (c *ServeCmd) NeedsStore() bool  { return true }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listen, "listen", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	addr := c.listen
	if addr == "" {
		addr = cfg.Listen
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logging.FromContext(ctx).WithPrefix("web")
	queue := controller.NewQueue()
	ctrl := controller.New(st, controllerConfig(cfg), queue, controller.WithLogger(logger))
	server := web.NewServer(ctrl, queue, logger)

	if !cfg.Quiet {
		fmt.Fprintf(out, "serving on http://%s\n", addr)
	}
	if err := server.Run(ctx, addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
