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
	Register(&SignupCmd{})
}

// SignupCmd implements the signup command. A successful signup also logs in.
type SignupCmd struct {
	creds service.Credentials
}

// SetCredentials sets the signup fields (for testing).
func (c *SignupCmd) SetCredentials(creds service.Credentials) {
	c.creds = creds
}

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return []string{"register"} }
func (c *SignupCmd) Synopsis() string  { return "Create an account" }
func (c *SignupCmd) Usage() string {
	return "todo signup --email <email> [--password <password>] <username>"
}
func (c *SignupCmd) NeedsBackend() bool { return true }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.creds.Username, "username", "", "")
	fs.StringVar(&c.creds.Username, "u", "", "")
	fs.StringVar(&c.creds.Email, "email", "", "")
	fs.StringVar(&c.creds.Email, "e", "", "")
	fs.StringVar(&c.creds.Password, "password", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}
	creds := c.creds
	if creds.Username == "" && len(args) == 1 {
		creds.Username = args[0]
	}

	p := newPrompter(cfg.Stdin(), errOut)
	var err error
	if creds.Username, err = p.need(creds.Username, "Username", "username"); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if creds.Email, err = p.need(creds.Email, "Email", "email"); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if creds.Password == "" {
		if creds.Password, err = p.need("", "Password", "password"); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		if creds.ConfirmPassword, err = p.need("", "Confirm password", "password confirmation"); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if creds.ConfirmPassword == "" {
		creds.ConfirmPassword = creds.Password
	}

	res, err := svc.Signup(ctx, creds)
	if err != nil {
		return authFailure(errOut, err)
	}

	if res.Tokens.Access != "" {
		if err := cfg.SaveToken(config.NewToken(res.Tokens.Access, res.Tokens.Refresh)); err != nil {
			fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
			return exitcode.AuthError
		}
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
