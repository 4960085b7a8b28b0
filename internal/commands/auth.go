package commands

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"todo/internal/exitcode"
	"todo/internal/service"
)

// authFailure reports a failed signup, login or password reset.
// The backend answers bad input with 400, which is the user's to fix.
func authFailure(errOut io.Writer, err error) int {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusBadRequest || apiErr.IsAuth()) {
		fmt.Fprintf(errOut, "error: %s failed: %s\n", apiErr.Action, apiErr.Detail())
		return exitcode.AuthError
	}
	return backendFailure(errOut, err)
}
