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
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	title       string
	description string
	priority    int
	status      string
}

// SetFields sets the draft fields (for testing).
func (c *AddCmd) SetFields(title, description string, priority int, status string) {
	c.title = title
	c.description = description
	c.priority = priority
	c.status = status
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "todo add --description <text> [--priority <n>] [--status <status>] <title...>"
}
func (c *AddCmd) NeedsBackend() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	draft := service.NewDraft()
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.title, "t", "", "")
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.IntVar(&c.priority, "priority", draft.Priority, "")
	fs.IntVar(&c.priority, "p", draft.Priority, "")
	fs.StringVar(&c.status, "status", string(draft.Status), "")
	fs.StringVar(&c.status, "s", string(draft.Status), "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	title := c.title
	if title == "" {
		title = strings.Join(args, " ")
	}

	draft := service.NewDraft()
	draft.Title = title
	draft.Description = c.description
	draft.Priority = c.priority
	if c.status != "" {
		status, err := service.ParseStatus(c.status)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		draft.Status = status
	}

	ctrl := newController(cfg, svc)
	ctrl.SetDraft(draft)
	if err := ctrl.Create(ctx); err != nil {
		return mutationFailure(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
