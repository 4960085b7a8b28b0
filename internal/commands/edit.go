package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// optionalInt is an int flag that records whether it was set.
type optionalInt struct {
	value int
	set   bool
}

func (o *optionalInt) String() string {
	if o == nil || !o.set {
		return ""
	}
	return strconv.Itoa(o.value)
}

func (o *optionalInt) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid number: %s", s)
	}
	o.value = v
	o.set = true
	return nil
}

// EditCmd implements the edit command. Fields left unset keep their
// current values.
type EditCmd struct {
	title       string
	description string
	status      string
	priority    optionalInt
}

// SetFields sets the replacement fields (for testing). Empty strings
// leave a field unchanged; a nil priority does too.
func (c *EditCmd) SetFields(title, description, status string, priority *int) {
	c.title = title
	c.description = description
	c.status = status
	c.priority = optionalInt{}
	if priority != nil {
		c.priority = optionalInt{value: *priority, set: true}
	}
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "todo edit [--title <text>] [--description <text>] [--priority <n>] [--status <status>] <n>"
}
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.title, "t", "", "")
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.priority, "p", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.status, "s", "", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	num, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	var status service.Status
	if c.status != "" {
		status, err = service.ParseStatus(c.status)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	ctrl := newController(cfg, svc)
	if code := loadTasks(ctx, ctrl, errOut); code != exitcode.Success {
		return code
	}

	tasks, err := resolveTasks(ctrl, []int{num})
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl.BeginEdit(tasks[0])
	edited, _ := ctrl.Editing()
	if c.title != "" {
		edited.Title = c.title
	}
	if c.description != "" {
		edited.Description = c.description
	}
	if c.priority.set {
		edited.Priority = c.priority.value
	}
	if status != "" {
		edited.Status = status
	}
	ctrl.SetEditing(edited)

	if err := ctrl.Update(ctx); err != nil {
		return mutationFailure(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
