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
	Register(&ResetPasswordCmd{})
	Register(&ResetConfirmCmd{})
}

// ResetPasswordCmd asks the backend to mail a password reset link.
type ResetPasswordCmd struct{}

func (c *ResetPasswordCmd) Name() string       { return "reset-password" }
func (c *ResetPasswordCmd) Aliases() []string  { return []string{"forgot-password"} }
func (c *ResetPasswordCmd) Synopsis() string   { return "Request a password reset email" }
func (c *ResetPasswordCmd) Usage() string      { return "todo reset-password <email>" }
func (c *ResetPasswordCmd) NeedsBackend() bool { return true }

func (c *ResetPasswordCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ResetPasswordCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: email required")
		return exitcode.UserError
	}

	res, err := svc.RequestPasswordReset(ctx, args[0])
	if err != nil {
		return authFailure(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, res.Message)
	}
	return exitcode.Success
}

// ResetConfirmCmd sets a new password from the uid and token in a reset link.
type ResetConfirmCmd struct {
	password string
}

// SetPassword sets the new password (for testing).
func (c *ResetConfirmCmd) SetPassword(password string) {
	c.password = password
}

func (c *ResetConfirmCmd) Name() string       { return "reset-confirm" }
func (c *ResetConfirmCmd) Aliases() []string  { return nil }
func (c *ResetConfirmCmd) Synopsis() string   { return "Set a new password from a reset link" }
func (c *ResetConfirmCmd) Usage() string      { return "todo reset-confirm [--password <password>] <uid> <token>" }
func (c *ResetConfirmCmd) NeedsBackend() bool { return true }

func (c *ResetConfirmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "password", "", "")
}

func (c *ResetConfirmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "error: uid and token required")
		return exitcode.UserError
	}

	password, err := newPrompter(cfg.Stdin(), errOut).need(c.password, "New password", "password")
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	res, err := svc.ResetPassword(ctx, args[0], args[1], password)
	if err != nil {
		return authFailure(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, res.Message)
	}
	return exitcode.Success
}
