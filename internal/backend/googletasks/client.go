// Package googletasks implements the store.Store interface using Google Tasks API.
//
// A collection is a Google task list; the database identifier is ignored.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todolist/internal/config"
	"todolist/internal/store"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// DefaultTimeout bounds each API call unless SetTimeout changes it.
	DefaultTimeout = 10 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// ErrUnauthorized is returned when the stored token is expired or revoked.
var ErrUnauthorized = errors.New("token expired or revoked (run: todolist login)")

// Client implements store.Store using Google Tasks API.
type Client struct {
	svc     *tasks.Service
	timeout time.Duration
}

var _ store.Store = (*Client)(nil)

// OAuthConfig reads the OAuth client credentials from the config directory.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	token, err := LoadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}

	// Create token source that auto-refreshes
	tokenSource := oauthConfig.TokenSource(ctx, token)

	c, err := NewWithHTTPClient(ctx, oauth2.NewClient(ctx, tokenSource))
	if err != nil {
		return nil, err
	}
	c.SetTimeout(cfg.RequestTimeout)
	return c, nil
}

// SetTimeout sets the per-call bound. Zero leaves calls bounded only by the
// caller's context.
func (c *Client) SetTimeout(d time.Duration) {
	c.timeout = d
}

// NewWithHTTPClient creates a client with a custom HTTP client.
// Extra options (such as option.WithEndpoint) are passed to the service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc, timeout: DefaultTimeout}, nil
}

// List returns every task in the list, completed and hidden ones included, in API order.
func (c *Client) List(ctx context.Context, _, collectionID string) ([]store.Document, error) {
	ctx, cancel := store.CallContext(ctx, c.timeout)
	defer cancel()

	result := []store.Document{}
	err := c.svc.Tasks.List(listID(collectionID)).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, task := range resp.Items {
				result = append(result, toDocument(task))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// Create inserts a task. Google always assigns the id, so only
// a generated id may be requested.
func (c *Client) Create(ctx context.Context, _, collectionID, documentID string, fields store.Fields) (store.Document, error) {
	if !store.IsGenerated(documentID) {
		return store.Document{}, fmt.Errorf("google tasks cannot create task with caller id %q", documentID)
	}

	ctx, cancel := store.CallContext(ctx, c.timeout)
	defer cancel()

	task := &tasks.Task{Title: fields.Text, Status: statusNeedsAction}
	if fields.Completed {
		task.Status = statusCompleted
	}

	created, err := c.svc.Tasks.Insert(listID(collectionID), task).Context(ctx).Do()
	if err != nil {
		return store.Document{}, wrapError(err)
	}
	return toDocument(created), nil
}

// Update sets the task status. Un-completing also clears the completed timestamp.
func (c *Client) Update(ctx context.Context, _, collectionID, documentID string, patch store.Patch) (store.Document, error) {
	ctx, cancel := store.CallContext(ctx, c.timeout)
	defer cancel()

	task := &tasks.Task{Status: statusCompleted}
	if !patch.Completed {
		task.Status = statusNeedsAction
		task.NullFields = []string{"Completed"}
	}

	updated, err := c.svc.Tasks.Patch(listID(collectionID), documentID, task).Context(ctx).Do()
	if err != nil {
		return store.Document{}, wrapError(err)
	}
	return toDocument(updated), nil
}

// Delete deletes a task.
func (c *Client) Delete(ctx context.Context, _, collectionID, documentID string) error {
	ctx, cancel := store.CallContext(ctx, c.timeout)
	defer cancel()

	err := c.svc.Tasks.Delete(listID(collectionID), documentID).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	return nil
}

func listID(collectionID string) string {
	if collectionID == "" {
		return DefaultListID
	}
	return collectionID
}

func toDocument(task *tasks.Task) store.Document {
	return store.Document{
		ID:        task.Id,
		Text:      task.Title,
		Completed: task.Status == statusCompleted,
	}
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return ErrUnauthorized
		case http.StatusNotFound:
			return fmt.Errorf("task or list %w", store.ErrNotFound)
		}
	}

	return err
}
