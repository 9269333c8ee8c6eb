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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todolist help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %-44s %s\n", "todolist", "List all tasks")
	for _, cmd := range DefaultRegistry.All() {
		usage := cmd.Usage()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			usage += " (" + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(out, "  %-44s %s\n", usage, cmd.Synopsis())
	}
	fmt.Fprint(out, footerText)
	return exitcode.Success
}

const footerText = `
A <ref> is a task number from 'todolist list' (with the same --filter)
or a task id.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TODOLIST_BACKEND         appwrite (default), googletasks, postgres, memory
  APPWRITE_ENDPOINT        Appwrite API endpoint
  APPWRITE_PROJECT_ID      Appwrite project
  APPWRITE_API_KEY         Appwrite API key (server-side access)
  APPWRITE_DATABASE_ID     Database holding the task collection
  APPWRITE_COLLECTION_ID   Task collection (task list id for googletasks)
  TODOLIST_POSTGRES_DSN    Connection string for the postgres backend
  TODOLIST_LISTEN          Address for 'todolist serve'
  TODOLIST_LOG_LEVEL       debug, info, warn, error
  TODOLIST_LOG_FORMAT      text, json, logfmt
  TODOLIST_REQUEST_TIMEOUT Per-call timeout, e.g. 10s (0 disables)
`
