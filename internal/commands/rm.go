package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	yes bool
}

// SetYes skips the confirmation prompt (for testing).
func (c *RmCmd) SetYes(yes bool) {
	c.yes = yes
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete tasks" }
func (c *RmCmd) Usage() string      { return "todo rm [--yes] <n>..." }
func (c *RmCmd) NeedsBackend() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	nums, err := ParseTaskRefs(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl := newController(cfg, svc)
	if code := loadTasks(ctx, ctrl, errOut); code != exitcode.Success {
		return code
	}

	tasks, err := resolveTasks(ctrl, nums)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	confirm := newPrompter(cfg.Stdin(), errOut).Confirm
	if c.yes {
		confirm = func(string) (bool, error) { return true, nil }
	}

	deleted := 0
	for _, task := range tasks {
		if !c.yes {
			fmt.Fprintln(errOut, task.Title)
		}
		ok, err := ctrl.Delete(ctx, task.ID, confirm)
		if err != nil {
			return backendFailure(errOut, err)
		}
		if ok {
			deleted++
		}
	}

	if deleted == 0 {
		fmt.Fprintln(errOut, "cancelled")
		return exitcode.Success
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
