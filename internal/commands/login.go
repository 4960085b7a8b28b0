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
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	username string
	password string
	force    bool
}

// SetCredentials sets the username and password (for testing).
func (c *LoginCmd) SetCredentials(username, password string) {
	c.username = username
	c.password = password
}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Log in and store the session token" }
func (c *LoginCmd) Usage() string      { return "todo login [--force] [--password <password>] <username>" }
func (c *LoginCmd) NeedsBackend() bool { return true }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.username, "u", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}
	username := c.username
	if username == "" && len(args) == 1 {
		username = args[0]
	}

	if !c.force {
		if tok, err := cfg.LoadToken(); err == nil && tok.Valid() {
			if !cfg.Quiet {
				fmt.Fprintln(out, "already logged in")
			}
			return exitcode.Success
		}
	}

	p := newPrompter(cfg.Stdin(), errOut)
	username, err := p.need(username, "Username", "username")
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	password, err := p.need(c.password, "Password", "password")
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	res, err := svc.Login(ctx, service.Credentials{Username: username, Password: password})
	if err != nil {
		return authFailure(errOut, err)
	}

	if err := cfg.SaveToken(config.NewToken(res.Access, "")); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
