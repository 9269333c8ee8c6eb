// Package controller holds the task list state and reconciles it with the
// remote store after every user action.
//
// Remote calls are made outside the state lock and are never queued: two
// actions issued back to back run concurrently and their results are applied
// to whatever the state is when each response arrives. The collection is only
// fetched wholesale by Load.
package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"todolist/internal/logging"
	"todolist/internal/store"
)

// Task is a single to-do item. ID is always assigned by the store.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Config addresses the task collection in the store.
type Config struct {
	DatabaseID   string
	CollectionID string
}

// State is a copy of the controller state.
type State struct {
	Tasks   []Task `json:"tasks"`
	Draft   string `json:"draft"`
	Filter  Filter `json:"filter"`
	Loading bool   `json:"loading"`
}

// Visible returns the tasks visible under the state's filter.
func (s State) Visible() []Task {
	return Apply(s.Tasks, s.Filter)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller is the task list state machine.
type Controller struct {
	store    store.Store
	cfg      Config
	notifier Notifier
	logger   *log.Logger

	mu      sync.Mutex
	tasks   []Task
	draft   string
	filter  Filter
	loading bool
}

// New creates a Controller. It starts in the loading state until Load settles.
func New(st store.Store, cfg Config, notifier Notifier, opts ...Option) *Controller {
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}
	c := &Controller{
		store:    st,
		cfg:      cfg,
		notifier: notifier,
		logger:   logging.Discard(),
		tasks:    []Task{},
		filter:   FilterAll,
		loading:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the whole collection and replaces the local tasks.
// loading is cleared whether or not the fetch succeeds.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	docs, err := c.store.List(ctx, c.cfg.DatabaseID, c.cfg.CollectionID)

	c.mu.Lock()
	c.loading = false
	if err == nil {
		c.tasks = make([]Task, 0, len(docs))
		for _, d := range docs {
			c.tasks = append(c.tasks, taskFromDocument(d))
		}
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("list tasks failed", "err", err)
		c.notifier.Notify(loadFailedMessage(err))
		return fmt.Errorf("load tasks: %w", err)
	}
	c.logger.Debug("tasks loaded", "count", len(docs))
	return nil
}

// SetDraft replaces the input draft.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// Draft returns the input draft.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// AddTask creates a task from the trimmed draft and prepends it.
// A blank draft is a no-op: no remote call, no state change.
func (c *Controller) AddTask(ctx context.Context) error {
	return c.addText(ctx, c.Draft())
}

// Submit sets the draft to text and adds it. The task is created from text
// itself, so a concurrent SetDraft cannot change what this call stores.
func (c *Controller) Submit(ctx context.Context, text string) error {
	c.SetDraft(text)
	return c.addText(ctx, text)
}

func (c *Controller) addText(ctx context.Context, raw string) error {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	doc, err := c.store.Create(ctx, c.cfg.DatabaseID, c.cfg.CollectionID, store.UniqueID, store.Fields{
		Text:      text,
		Completed: false,
	})
	if err != nil {
		c.logger.Error("create task failed", "err", err)
		c.notifier.Notify(MsgAddFailed)
		return fmt.Errorf("add task: %w", err)
	}

	c.mu.Lock()
	c.tasks = append([]Task{taskFromDocument(doc)}, c.tasks...)
	c.draft = ""
	c.mu.Unlock()

	c.logger.Debug("task added", "id", doc.ID)
	return nil
}

// DeleteTask deletes a task remotely, then drops it locally.
// Removing an id that is no longer present locally is a no-op.
func (c *Controller) DeleteTask(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, c.cfg.DatabaseID, c.cfg.CollectionID, id); err != nil {
		c.logger.Error("delete task failed", "id", id, "err", err)
		c.notifier.Notify(MsgDeleteFailed)
		return fmt.Errorf("delete task %s: %w", id, err)
	}

	c.mu.Lock()
	for i, t := range c.tasks {
		if t.ID == id {
			c.tasks = append(c.tasks[:i:i], c.tasks[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	c.logger.Debug("task deleted", "id", id)
	return nil
}

// ToggleComplete flips a task's completed flag based on the local value and
// stores whatever value the store echoes back. Unknown ids are a no-op.
func (c *Controller) ToggleComplete(ctx context.Context, id string) error {
	c.mu.Lock()
	current, ok := c.find(id)
	c.mu.Unlock()
	if !ok {
		return nil
	}

	doc, err := c.store.Update(ctx, c.cfg.DatabaseID, c.cfg.CollectionID, id, store.Patch{
		Completed: !current.Completed,
	})
	if err != nil {
		c.logger.Error("update task failed", "id", id, "err", err)
		c.notifier.Notify(MsgUpdateFailed)
		return fmt.Errorf("toggle task %s: %w", id, err)
	}

	c.mu.Lock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks[i].Completed = doc.Completed
		}
	}
	c.mu.Unlock()

	c.logger.Debug("task toggled", "id", id, "completed", doc.Completed)
	return nil
}

// SetFilter changes the visible filter. No remote call.
func (c *Controller) SetFilter(f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
}

// Filter returns the active filter.
func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Loading reports whether the initial load is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Tasks returns a copy of all tasks in list order.
func (c *Controller) Tasks() []Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Task(nil), c.tasks...)
}

// Visible returns the tasks visible under the active filter.
func (c *Controller) Visible() []Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Apply(c.tasks, c.filter)
}

// Snapshot returns a copy of the whole state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Tasks:   append([]Task{}, c.tasks...),
		Draft:   c.draft,
		Filter:  c.filter,
		Loading: c.loading,
	}
}

// Find looks up a task by id.
func (c *Controller) Find(id string) (Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.find(id)
}

// find requires c.mu.
func (c *Controller) find(id string) (Task, bool) {
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

func taskFromDocument(d store.Document) Task {
	return Task{ID: d.ID, Text: d.Text, Completed: d.Completed}
}
