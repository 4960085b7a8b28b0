// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"todo/internal/service"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.RWMutex
	tasks []service.Task
	users map[string]service.Credentials

	// Calls counts backend calls by method name.
	Calls map[string]int

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
	SignupErr     error
	LoginErr      error
	HomeErr       error
	ResetErr      error

	// Token is returned by Login and Signup, and accepted by FetchHome.
	Token string
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		users: make(map[string]service.Credentials),
		Calls: make(map[string]int),
		Token: "fake-access-token",
	}
}

// AddTask adds a task with a generated ID and returns that ID.
func (f *FakeService) AddTask(title, description string, priority int, status service.Status) service.TaskID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := service.TaskID(uuid.NewString())
	f.tasks = append(f.tasks, service.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      status,
	})
	return id
}

// AddUser registers a user for Login.
func (f *FakeService) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = service.Credentials{Username: username, Password: password}
}

// CallCount returns how many times method was called.
func (f *FakeService) CallCount(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.Calls[method]
}

// Snapshot returns a copy of the stored tasks.
func (f *FakeService) Snapshot() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Task(nil), f.tasks...)
}

func (f *FakeService) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls[method]++
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.record("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Snapshot(), nil
}

// GetTasks implements service.Service.
func (f *FakeService) GetTasks(ctx context.Context, page int) ([]service.Task, error) {
	f.record("GetTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	const pageSize = 10
	start := (page - 1) * pageSize
	if page < 1 || start >= len(f.tasks) {
		return nil, ErrNotFound
	}
	end := start + pageSize
	if end > len(f.tasks) {
		end = len(f.tasks)
	}
	return append([]service.Task(nil), f.tasks[start:end]...), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, task service.Task) error {
	f.record("CreateTask")
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	task.ID = service.TaskID(uuid.NewString())
	f.tasks = append(f.tasks, task)
	return nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id service.TaskID, task service.Task) error {
	f.record("UpdateTask")
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			task.ID = id
			f.tasks[i] = task
			return nil
		}
	}
	return ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id service.TaskID) error {
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Signup implements service.Service.
func (f *FakeService) Signup(ctx context.Context, creds service.Credentials) (service.SignupResult, error) {
	f.record("Signup")
	if f.SignupErr != nil {
		return service.SignupResult{}, f.SignupErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[creds.Username] = creds
	return service.SignupResult{
		Message: "Registered Successfully",
		Tokens:  service.TokenPair{Access: f.Token, Refresh: "fake-refresh-token"},
	}, nil
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) (service.LoginResult, error) {
	f.record("Login")
	if f.LoginErr != nil {
		return service.LoginResult{}, f.LoginErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	u, ok := f.users[creds.Username]
	if !ok || u.Password != creds.Password {
		return service.LoginResult{}, &service.APIError{Action: "login", Code: http.StatusBadRequest, Message: "Invalid credentials"}
	}
	return service.LoginResult{Access: f.Token, Username: u.Username, Message: "Login successful"}, nil
}

// FetchHome implements service.Service.
func (f *FakeService) FetchHome(ctx context.Context, token string) (service.Message, error) {
	f.record("FetchHome")
	if f.HomeErr != nil {
		return service.Message{}, f.HomeErr
	}
	if token != f.Token {
		return service.Message{}, &service.APIError{Action: "home", Code: http.StatusUnauthorized, Message: "Given token not valid for any token type"}
	}
	return service.Message{Message: "Welcome to dashboard"}, nil
}

// RequestPasswordReset implements service.Service.
func (f *FakeService) RequestPasswordReset(ctx context.Context, email string) (service.Message, error) {
	f.record("RequestPasswordReset")
	if f.ResetErr != nil {
		return service.Message{}, f.ResetErr
	}
	return service.Message{Message: "Mail sent"}, nil
}

// ResetPassword implements service.Service.
func (f *FakeService) ResetPassword(ctx context.Context, uid, token, password string) (service.Message, error) {
	f.record("ResetPassword")
	if f.ResetErr != nil {
		return service.Message{}, f.ResetErr
	}
	return service.Message{Message: "Password reset success!"}, nil
}
