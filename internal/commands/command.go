// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/tasklist"
	"todo/internal/validation"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsBackend returns true if the command talks to the API.
	// Commands like help, version and logout return false.
	NeedsBackend() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, API settings, prompt input).
	// svc is nil if NeedsBackend() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// newController creates the task list view-model for one command run.
func newController(cfg *config.Config, svc service.Tasks) *tasklist.Controller {
	return tasklist.New(svc, tasklist.WithLogger(cfg.Log()))
}

// loadTasks loads the task list, reporting the visible load error on failure.
func loadTasks(ctx context.Context, ctrl *tasklist.Controller, errOut io.Writer) int {
	if err := ctrl.Load(ctx); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", ctrl.LoadError())
		return exitcode.BackendError
	}
	return exitcode.Success
}

// backendFailure reports a failed backend call and returns its exit code.
func backendFailure(errOut io.Writer, err error) int {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) && apiErr.IsAuth() {
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// mutationFailure reports a failed create or update. Draft validation
// failures are user errors; everything else came from the backend.
func mutationFailure(errOut io.Writer, err error) int {
	if errors.Is(err, validation.ErrRequiredFields) || errors.Is(err, validation.ErrInvalidStatus) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return backendFailure(errOut, err)
}
