package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
	"todo/internal/tasklist"
)

func init() {
	Register(&BrowseCmd{})
}

// BrowseCmd implements the interactive pager.
// Input lines: n (next), p (previous), r (reload), q (quit).
type BrowseCmd struct{}

func (c *BrowseCmd) Name() string       { return "browse" }
func (c *BrowseCmd) Aliases() []string  { return nil }
func (c *BrowseCmd) Synopsis() string   { return "Page through tasks interactively" }
func (c *BrowseCmd) Usage() string      { return "todo browse" }
func (c *BrowseCmd) NeedsBackend() bool { return true }

func (c *BrowseCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *BrowseCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ctrl := newController(cfg, svc)
	if err := ctrl.Load(ctx); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", ctrl.LoadError())
	}
	render(out, ctrl)

	scanner := bufio.NewScanner(cfg.Stdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		switch cmd := strings.ToLower(strings.TrimSpace(scanner.Text())); cmd {
		case "":
			continue
		case "n", "next":
			if !ctrl.Next() {
				fmt.Fprintln(errOut, "already on the last page")
				continue
			}
		case "p", "prev", "previous":
			if !ctrl.Prev() {
				fmt.Fprintln(errOut, "already on the first page")
				continue
			}
		case "r", "reload":
			if err := ctrl.Load(ctx); err != nil {
				fmt.Fprintf(errOut, "error: %s\n", ctrl.LoadError())
			}
		case "q", "quit", "exit":
			fmt.Fprintln(out)
			return exitcode.Success
		default:
			fmt.Fprintf(errOut, "unknown input: %s\n", cmd)
			continue
		}
		render(out, ctrl)
	}
	fmt.Fprintln(out)

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

func render(out io.Writer, ctrl *tasklist.Controller) {
	output.FormatPage(out, ctrl.FirstNumber(), ctrl.Page())
	output.FormatFooter(out, ctrl.CurrentPage(), ctrl.PageCount())
	output.FormatControls(out, ctrl.CanPrev(), ctrl.CanNext())
}
