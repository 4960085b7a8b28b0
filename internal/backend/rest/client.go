// Package rest implements the service.Service interface against the to-do REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"

	"todo/internal/service"
)

const (
	// DefaultBaseURL is the API root used when none is configured.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultTasksPath is the task collection path relative to the base URL.
	DefaultTasksPath = "/"

	// RequestIDHeader carries a per-request UUID for correlating backend logs.
	RequestIDHeader = "X-Request-ID"
)

// Client implements service.Service over HTTP.
// It performs exactly one request per call: no retries, no caching and no
// timeout beyond what the caller's context imposes.
type Client struct {
	baseURL   string
	tasksPath string
	http      *http.Client
	limiter   *rate.Limiter
	log       logrus.FieldLogger
	reg       prometheus.Registerer
	requests  *prometheus.CounterVec
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTasksPath sets the task collection path, e.g. "/tasks/".
func WithTasksPath(p string) Option {
	return func(c *Client) { c.tasksPath = normalizePath(p) }
}

// WithRateLimit paces outgoing requests to rps per second.
// Zero or negative disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

// WithRegisterer registers the request counter with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Client) { c.reg = reg }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url: %q", baseURL)
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		tasksPath: DefaultTasksPath,
		http:      http.DefaultClient,
		log:       discard,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todo_api_requests_total",
			Help: "Requests sent to the to-do API, by action and HTTP status code.",
		}, []string{"action", "code"}),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.reg != nil {
		if err := c.reg.Register(c.requests); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return nil, fmt.Errorf("failed to register metrics: %w", err)
			}
			c.requests = are.ExistingCollector.(*prometheus.CounterVec)
		}
	}

	return c, nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, creds service.Credentials) (service.SignupResult, error) {
	var res service.SignupResult
	err := c.do(ctx, c.http, "signup", http.MethodPost, "/signup/", creds, &res)
	return res, err
}

// Login exchanges credentials for an access token.
// Storing the token is the caller's responsibility.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (service.LoginResult, error) {
	var res service.LoginResult
	body := service.Credentials{Username: creds.Username, Password: creds.Password}
	err := c.do(ctx, c.http, "login", http.MethodPost, "/login/", body, &res)
	return res, err
}

// FetchHome requests the authenticated home endpoint with a Bearer token.
func (c *Client) FetchHome(ctx context.Context, token string) (service.Message, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	hc := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, c.http), src)

	var res service.Message
	err := c.do(ctx, hc, "home", http.MethodGet, "/home/", nil, &res)
	return res, err
}

// RequestPasswordReset asks the backend to mail a reset link to email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (service.Message, error) {
	var res service.Message
	body := map[string]string{"email": email}
	err := c.do(ctx, c.http, "password-reset", http.MethodPost, "/password-reset/", body, &res)
	return res, err
}

// ResetPassword sets a new password using the uid and token from a reset link.
func (c *Client) ResetPassword(ctx context.Context, uid, token, password string) (service.Message, error) {
	var res service.Message
	path := "/password-reset-confirm/" + url.PathEscape(uid) + "/" + url.PathEscape(token) + "/"
	body := map[string]string{"password": password}
	err := c.do(ctx, c.http, "password-reset-confirm", http.MethodPost, path, body, &res)
	return res, err
}

// ListTasks returns the full task collection.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var raw json.RawMessage
	if err := c.do(ctx, c.http, "list-tasks", http.MethodGet, c.tasksPath, nil, &raw); err != nil {
		return nil, err
	}
	return decodeTasks(raw)
}

// GetTasks returns one backend page of tasks.
func (c *Client) GetTasks(ctx context.Context, page int) ([]service.Task, error) {
	var raw json.RawMessage
	path := c.tasksPath + "?page=" + strconv.Itoa(page)
	if err := c.do(ctx, c.http, "get-tasks", http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return decodeTasks(raw)
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, task service.Task) error {
	return c.do(ctx, c.http, "create-task", http.MethodPost, c.tasksPath, task, nil)
}

// UpdateTask replaces an existing task.
func (c *Client) UpdateTask(ctx context.Context, id service.TaskID, task service.Task) error {
	return c.do(ctx, c.http, "update-task", http.MethodPut, c.taskPath(id), task, nil)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id service.TaskID) error {
	return c.do(ctx, c.http, "delete-task", http.MethodDelete, c.taskPath(id), nil, nil)
}

func (c *Client) taskPath(id service.TaskID) string {
	return c.tasksPath + url.PathEscape(string(id)) + "/"
}

// do sends one request and decodes a 2xx JSON body into out.
// Non-2xx responses come back as *service.APIError wrapping the *googleapi.Error.
func (c *Client) do(ctx context.Context, hc *http.Client, action, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: %w", action, err)
		}
	}

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", action, err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)

	log := c.log.WithFields(logrus.Fields{
		"action":     action,
		"method":     method,
		"path":       path,
		"request_id": reqID,
	})
	log.Debug("api request")

	resp, err := hc.Do(req)
	if err != nil {
		c.requests.WithLabelValues(action, "error").Inc()
		log.WithError(err).Debug("api request failed")
		return fmt.Errorf("%s: %w", action, err)
	}
	defer resp.Body.Close()

	c.requests.WithLabelValues(action, strconv.Itoa(resp.StatusCode)).Inc()
	log.WithField("status", resp.StatusCode).Debug("api response")

	if err := googleapi.CheckResponse(resp); err != nil {
		return newAPIError(action, err)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: invalid response: %w", action, err)
	}
	return nil
}

// taskPage is the paginated collection envelope.
type taskPage struct {
	Count    int            `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []service.Task `json:"results"`
}

// decodeTasks accepts a bare JSON array or a paginated envelope.
func decodeTasks(raw json.RawMessage) ([]service.Task, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var page taskPage
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, fmt.Errorf("invalid task page: %w", err)
		}
		return page.Results, nil
	}

	var tasks []service.Task
	if err := json.Unmarshal(trimmed, &tasks); err != nil {
		return nil, fmt.Errorf("invalid task list: %w", err)
	}
	return tasks, nil
}

// normalizePath returns p with exactly one leading and one trailing slash.
func normalizePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}

// newAPIError converts a CheckResponse failure into a *service.APIError.
func newAPIError(action string, err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("%s: %w", action, err)
	}
	return &service.APIError{
		Action:  action,
		Code:    gerr.Code,
		Message: bodyMessage(gerr.Body),
		Err:     gerr,
	}
}

// bodyMessage extracts the error text from a backend error body.
// The backend answers {"error": "..."}; its framework answers {"detail": "..."}.
func bodyMessage(body string) string {
	var reply struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &reply); err == nil {
		switch {
		case reply.Error != "":
			return reply.Error
		case reply.Detail != "":
			return reply.Detail
		case reply.Message != "":
			return reply.Message
		}
	}
	return strings.TrimSpace(body)
}
