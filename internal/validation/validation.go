// Package validation checks task drafts before they are sent to the backend.
// The backend stays authoritative; these checks only avoid pointless requests.
package validation

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"todo/internal/service"
)

var (
	// ErrRequiredFields reports an empty title or description.
	ErrRequiredFields = errors.New("Title and Description are required!")

	// ErrInvalidStatus reports a status outside Pending/Completed.
	ErrInvalidStatus = errors.New("invalid status")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("taskstatus", StatusValidator)
	return v
}

// StatusValidator accepts only the known task statuses.
func StatusValidator(fl validator.FieldLevel) bool {
	switch service.Status(fl.Field().String()) {
	case service.StatusPending, service.StatusCompleted:
		return true
	}
	return false
}

// Task validates a draft. Missing title or description wins over a bad status.
func Task(t service.Task) error {
	err := validate.Struct(t)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	result := error(nil)
	for _, fe := range verrs {
		switch fe.Field() {
		case "Title", "Description":
			return ErrRequiredFields
		case "Status":
			result = ErrInvalidStatus
		}
	}
	if result == nil {
		result = err
	}
	return result
}
