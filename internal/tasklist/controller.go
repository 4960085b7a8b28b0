// Package tasklist holds the task list view-model: the authoritative task
// collection fetched from the backend, the page derived from it, and the
// create/edit drafts.
package tasklist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"todo/internal/service"
	"todo/internal/validation"
)

// DefaultPageSize is the number of tasks shown per page.
const DefaultPageSize = 5

// LoadErrorMessage is the visible message after a failed load.
const LoadErrorMessage = "Failed to load tasks."

// DeletePrompt is the question asked before a task is deleted.
const DeletePrompt = "Are you sure you want to delete this task?"

var (
	// ErrDraftInvalid reports a draft missing its title or description.
	ErrDraftInvalid = validation.ErrRequiredFields

	// ErrNoEditing reports Update called with no task being edited.
	ErrNoEditing = errors.New("no task is being edited")

	// ErrPageOutOfRange reports a GoTo target outside [1, PageCount].
	ErrPageOutOfRange = errors.New("page out of range")
)

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(prompt string) (bool, error)

// Controller owns the task list state. All state changes go through its
// methods; it is safe for concurrent use.
type Controller struct {
	backend  service.Tasks
	log      logrus.FieldLogger
	pageSize int

	mu          sync.Mutex
	allTasks    []service.Task
	currentPage int
	draft       service.Task
	editing     *service.Task
	loading     bool
	loadErr     string
	loadGen     uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize sets the page size. Values below 1 are ignored.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithLogger sets the logger that records failed actions.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) { c.log = l }
}

// New creates a controller on page 1 with an empty list and a blank draft.
func New(backend service.Tasks, opts ...Option) *Controller {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Controller{
		backend:     backend,
		log:         discard,
		pageSize:    DefaultPageSize,
		currentPage: 1,
		draft:       service.NewDraft(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the authoritative list with the backend's full collection.
// On failure the list is left as it was and LoadError reports LoadErrorMessage.
// If another Load starts before this one finishes, this result is dropped.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loadGen++
	gen := c.loadGen
	c.loading = true
	c.loadErr = ""
	c.mu.Unlock()

	tasks, err := c.backend.ListTasks(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.loadGen {
		c.log.WithField("generation", gen).Debug("discarding superseded load")
		return err
	}
	c.loading = false

	if err != nil {
		c.log.WithError(err).Debug("Error fetching tasks")
		c.loadErr = LoadErrorMessage
		return err
	}

	c.allTasks = tasks
	c.clampPage()
	return nil
}

// AllTasks returns a copy of the authoritative list.
func (c *Controller) AllTasks() []service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]service.Task(nil), c.allTasks...)
}

// Page returns the tasks on the current page.
func (c *Controller) Page() []service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return PageSlice(c.allTasks, c.currentPage, c.pageSize)
}

// PageSlice derives page p (1-based) of size n from all.
// The result is a copy and is empty when p is past the end.
func PageSlice(all []service.Task, p, n int) []service.Task {
	start := (p - 1) * n
	if p < 1 || n < 1 || start >= len(all) {
		return []service.Task{}
	}
	end := start + n
	if end > len(all) {
		end = len(all)
	}
	return append([]service.Task(nil), all[start:end]...)
}

// PageCount returns ceil(len/pageSize), never less than 1.
func PageCount(total, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// PageSize returns the configured page size.
func (c *Controller) PageSize() int {
	return c.pageSize
}

// PageCount returns the number of pages in the current list.
func (c *Controller) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return PageCount(len(c.allTasks), c.pageSize)
}

// CurrentPage returns the 1-based current page.
func (c *Controller) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage
}

// FirstNumber returns the list position of the first task on the current page.
func (c *Controller) FirstNumber() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return (c.currentPage-1)*c.pageSize + 1
}

// Loading reports whether a load is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LoadError returns the visible load error, or "" if the last load succeeded.
func (c *Controller) LoadError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// CanPrev reports whether the Previous control is enabled.
func (c *Controller) CanPrev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage > 1
}

// CanNext reports whether the Next control is enabled.
func (c *Controller) CanNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage < PageCount(len(c.allTasks), c.pageSize)
}

// Prev moves to the previous page. It is a no-op returning false when
// the control is disabled.
func (c *Controller) Prev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentPage <= 1 {
		return false
	}
	c.currentPage--
	return true
}

// Next moves to the next page. It is a no-op returning false when the
// control is disabled.
func (c *Controller) Next() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentPage >= PageCount(len(c.allTasks), c.pageSize) {
		return false
	}
	c.currentPage++
	return true
}

// GoTo jumps to page p.
func (c *Controller) GoTo(p int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	pages := PageCount(len(c.allTasks), c.pageSize)
	if p < 1 || p > pages {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, p, pages)
	}
	c.currentPage = p
	return nil
}

// TaskAt returns the task at 1-based list position num.
func (c *Controller) TaskAt(num int) (service.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if num < 1 || num > len(c.allTasks) {
		return service.Task{}, false
	}
	return c.allTasks[num-1], true
}

// Draft returns the create-form draft.
func (c *Controller) Draft() service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft replaces the create-form draft.
func (c *Controller) SetDraft(t service.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = t
}

// ResetDraft restores the blank draft.
func (c *Controller) ResetDraft() {
	c.SetDraft(service.NewDraft())
}

// Create submits the draft. An invalid draft sends nothing. On success the
// draft is reset and the list reloaded; on failure the draft is kept and
// the error returned.
func (c *Controller) Create(ctx context.Context) error {
	draft := c.Draft()
	if err := validation.Task(draft); err != nil {
		return err
	}

	if err := c.backend.CreateTask(ctx, draft); err != nil {
		c.log.WithError(err).WithField("title", draft.Title).Debug("Error creating task")
		return err
	}

	c.ResetDraft()
	c.reload(ctx)
	return nil
}

// BeginEdit starts editing a copy of t.
func (c *Controller) BeginEdit(t service.Task) {
	c.SetEditing(t)
}

// SetEditing replaces the task being edited.
func (c *Controller) SetEditing(t service.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = &t
}

// Editing returns the task being edited, if any.
func (c *Controller) Editing() (service.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editing == nil {
		return service.Task{}, false
	}
	return *c.editing, true
}

// CancelEdit drops the edit without sending anything.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = nil
}

// Update submits the task being edited, with the same validation as Create.
// On success editing ends and the list is reloaded.
func (c *Controller) Update(ctx context.Context) error {
	editing, ok := c.Editing()
	if !ok {
		return ErrNoEditing
	}
	if err := validation.Task(editing); err != nil {
		return err
	}

	if err := c.backend.UpdateTask(ctx, editing.ID, editing); err != nil {
		c.log.WithError(err).WithField("task_id", editing.ID).Debug("Error updating task")
		return err
	}

	c.CancelEdit()
	c.reload(ctx)
	return nil
}

// Delete asks confirm first and sends nothing unless it answers yes.
// It reports whether a delete request succeeded.
func (c *Controller) Delete(ctx context.Context, id service.TaskID, confirm ConfirmFunc) (bool, error) {
	ok, err := confirm(DeletePrompt)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if err := c.backend.DeleteTask(ctx, id); err != nil {
		c.log.WithError(err).WithField("task_id", id).Debug("Error deleting task")
		return false, err
	}

	c.reload(ctx)
	return true, nil
}

// reload refreshes the list after a successful mutation. A failed reload
// does not undo the mutation; it is reported through LoadError.
func (c *Controller) reload(ctx context.Context) {
	_ = c.Load(ctx)
}

// clampPage keeps currentPage within [1, PageCount]. Callers hold mu.
func (c *Controller) clampPage() {
	pages := PageCount(len(c.allTasks), c.pageSize)
	if c.currentPage > pages {
		c.currentPage = pages
	}
	if c.currentPage < 1 {
		c.currentPage = 1
	}
}
