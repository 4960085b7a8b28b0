package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todo help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	WriteHelp(out, DefaultRegistry)
	return exitcode.Success
}

// WriteHelp prints the usage of every command in r followed by the
// common flags.
func WriteHelp(w io.Writer, r *Registry) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %-60s %s\n", "todo", "List the first page of tasks")
	for _, cmd := range r.All() {
		fmt.Fprintf(w, "  %-60s %s\n", cmd.Usage(), cmd.Synopsis())
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			fmt.Fprintf(w, "  %-60s (alias: %s)\n", "", strings.Join(aliases, ", "))
		}
	}
	fmt.Fprint(w, commonFlagsHelp)
}

const commonFlagsHelp = `
Common flags:
  --config <dir>    Override config directory
  --api-url <url>   Override the API root (default $TODO_API_URL)
  --quiet           Suppress informational output
  --debug           Print debug logs to stderr
`
