// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// ParseStatus parses a status name, case-insensitive and trimmed.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "completed":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("invalid status: %s", s)
}

// TaskID is the opaque identifier the backend assigns to a task.
// It decodes from either a JSON number or a JSON string.
type TaskID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid task id: %s", data)
	}
	*id = TaskID(n.String())
	return nil
}

// Task represents a single task item.
type Task struct {
	ID          TaskID `json:"id,omitempty"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Priority    int    `json:"priority"`
	Status      Status `json:"status" validate:"taskstatus"`
}

// NewDraft returns the blank task used for the create form.
func NewDraft() Task {
	return Task{Priority: 1, Status: StatusPending}
}

// Credentials carries the fields accepted by the signup and login endpoints.
type Credentials struct {
	Username        string `json:"username"`
	Email           string `json:"email,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmpassword,omitempty"`
}

// TokenPair is the refresh/access pair issued on signup.
type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// SignupResult is the decoded signup response.
type SignupResult struct {
	Message string    `json:"message"`
	Tokens  TokenPair `json:"tokens"`
}

// LoginResult is the decoded login response.
type LoginResult struct {
	Access   string `json:"access"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Message is the generic {"message": ...} response body.
type Message struct {
	Message string `json:"message"`
}
