package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"golang.org/x/oauth2"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&HomeCmd{})
	Register(&WhoamiCmd{})
}

// sessionToken loads the stored token, reporting a missing or expired one.
func sessionToken(cfg *config.Config, errOut io.Writer) (*oauth2.Token, int) {
	tok, err := cfg.LoadToken()
	if err != nil {
		if errors.Is(err, config.ErrNotLoggedIn) {
			fmt.Fprintf(errOut, "error: %v\n", err)
		} else {
			fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		}
		return nil, exitcode.AuthError
	}
	if !tok.Valid() {
		fmt.Fprintln(errOut, "error: session expired (run: todo login)")
		return nil, exitcode.AuthError
	}
	return tok, exitcode.Success
}

// HomeCmd implements the home command.
type HomeCmd struct{}

func (c *HomeCmd) Name() string       { return "home" }
func (c *HomeCmd) Aliases() []string  { return []string{"dashboard"} }
func (c *HomeCmd) Synopsis() string   { return "Show the logged-in home message" }
func (c *HomeCmd) Usage() string      { return "todo home" }
func (c *HomeCmd) NeedsBackend() bool { return true }

func (c *HomeCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HomeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	tok, code := sessionToken(cfg, errOut)
	if code != exitcode.Success {
		return code
	}

	res, err := svc.FetchHome(ctx, tok.AccessToken)
	if err != nil {
		return backendFailure(errOut, err)
	}
	fmt.Fprintln(out, res.Message)
	return exitcode.Success
}

// WhoamiCmd prints who the stored token belongs to, without asking the backend.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string       { return "whoami" }
func (c *WhoamiCmd) Aliases() []string  { return nil }
func (c *WhoamiCmd) Synopsis() string   { return "Show the logged-in user" }
func (c *WhoamiCmd) Usage() string      { return "todo whoami" }
func (c *WhoamiCmd) NeedsBackend() bool { return false }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	tok, code := sessionToken(cfg, errOut)
	if code != exitcode.Success {
		return code
	}

	claims, err := config.ParseClaims(tok.AccessToken)
	if err != nil {
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	}

	name := claims.Username
	if name == "" {
		name = claims.Subject
	}
	if name == "" && claims.UserID != nil {
		name = fmt.Sprintf("user %v", claims.UserID)
	}
	fmt.Fprintln(out, name)
	if !cfg.Quiet && !tok.Expiry.IsZero() {
		fmt.Fprintf(out, "expires %s\n", tok.Expiry.Local().Format(time.RFC3339))
	}
	return exitcode.Success
}
