// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Tasks is the task CRUD surface of the backend.
type Tasks interface {
	// ListTasks returns the full task collection in backend order.
	ListTasks(ctx context.Context) ([]Task, error)

	// GetTasks returns one backend page of tasks. page is 1-based.
	GetTasks(ctx context.Context, page int) ([]Task, error)

	// CreateTask creates a task. The backend assigns the ID.
	CreateTask(ctx context.Context, task Task) error

	// UpdateTask replaces the task with the given ID.
	UpdateTask(ctx context.Context, id TaskID, task Task) error

	// DeleteTask deletes the task with the given ID.
	DeleteTask(ctx context.Context, id TaskID) error
}

// Auth is the account surface of the backend.
// Callers own any token returned by Login or Signup.
type Auth interface {
	Signup(ctx context.Context, creds Credentials) (SignupResult, error)
	Login(ctx context.Context, creds Credentials) (LoginResult, error)
	FetchHome(ctx context.Context, token string) (Message, error)
	RequestPasswordReset(ctx context.Context, email string) (Message, error)
	ResetPassword(ctx context.Context, uid, token, password string) (Message, error)
}

// Service defines the interface for backend operations.
// Every call maps to exactly one HTTP request; nothing is retried.
type Service interface {
	Tasks
	Auth
}
