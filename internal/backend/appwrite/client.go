// Package appwrite implements store.Store over Appwrite databases using the
// Appwrite Go SDK.
package appwrite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	sdkappwrite "github.com/appwrite/sdk-for-go/appwrite"
	"github.com/appwrite/sdk-for-go/client"
	"github.com/appwrite/sdk-for-go/databases"
	"github.com/appwrite/sdk-for-go/id"

	"todolist/internal/store"
)

// Error is an error response from Appwrite.
type Error struct {
	Message string
	Code    int
	Type    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("appwrite: status %d", e.Code)
	}
	return e.Message
}

// Is matches store.ErrNotFound for 404 responses.
func (e *Error) Is(target error) bool {
	return target == store.ErrNotFound && e.Code == http.StatusNotFound
}

// Options configures a Client.
type Options struct {
	Endpoint  string
	ProjectID string
	APIKey    string

	// Timeout bounds each call. Zero disables the bound.
	Timeout time.Duration
}

// Client implements store.Store using Appwrite documents.
type Client struct {
	db      *databases.Databases
	timeout time.Duration
}

var _ store.Store = (*Client)(nil)

// New creates a new Appwrite client.
func New(opts Options) (*Client, error) {
	endpoint := strings.TrimRight(opts.Endpoint, "/")
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid appwrite endpoint: %q", opts.Endpoint)
	}

	sdk := client.New(
		sdkappwrite.WithEndpoint(endpoint),
		sdkappwrite.WithProject(opts.ProjectID),
		sdkappwrite.WithKey(opts.APIKey),
	)
	return &Client{
		db:      databases.New(sdk),
		timeout: opts.Timeout,
	}, nil
}

// List returns the documents of a collection in server order.
func (c *Client) List(ctx context.Context, databaseID, collectionID string) ([]store.Document, error) {
	var out struct {
		Documents []store.Document `json:"documents"`
	}
	err := c.call(ctx, func() error {
		list, err := c.db.ListDocuments(databaseID, collectionID)
		if err != nil {
			return err
		}
		// Elements of a list carry no raw payload, so decode the whole list.
		return list.Decode(&out)
	})
	if err != nil {
		return nil, err
	}
	if out.Documents == nil {
		return []store.Document{}, nil
	}
	return out.Documents, nil
}

// Create creates a document. UniqueID (or empty) lets Appwrite generate the id.
func (c *Client) Create(ctx context.Context, databaseID, collectionID, documentID string, fields store.Fields) (store.Document, error) {
	if store.IsGenerated(documentID) {
		documentID = id.Unique()
	}

	var doc store.Document
	err := c.call(ctx, func() error {
		created, err := c.db.CreateDocument(databaseID, collectionID, documentID, fields)
		if err != nil {
			return err
		}
		return created.Decode(&doc)
	})
	if err != nil {
		return store.Document{}, err
	}
	return doc, nil
}

// Update patches a document and returns the stored result.
func (c *Client) Update(ctx context.Context, databaseID, collectionID, documentID string, patch store.Patch) (store.Document, error) {
	var doc store.Document
	err := c.call(ctx, func() error {
		updated, err := c.db.UpdateDocument(databaseID, collectionID, documentID,
			c.db.WithUpdateDocumentData(patch))
		if err != nil {
			return err
		}
		return updated.Decode(&doc)
	})
	if err != nil {
		return store.Document{}, err
	}
	return doc, nil
}

// Delete removes a document.
func (c *Client) Delete(ctx context.Context, databaseID, collectionID, documentID string) error {
	return c.call(ctx, func() error {
		_, err := c.db.DeleteDocument(databaseID, collectionID, documentID)
		return err
	})
}

// call runs fn under the per-call timeout. The SDK takes no context, so fn
// runs on its own goroutine and is abandoned when ctx ends first.
func (c *Client) call(ctx context.Context, fn func() error) error {
	ctx, cancel := store.CallContext(ctx, c.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return wrapError(err)
	case <-ctx.Done():
		return wrapError(ctx.Err())
	}
}

// wrapError maps SDK failures onto Error and shortens timeout messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}

	var status interface{ GetStatusCode() int }
	if !errors.As(err, &status) {
		return err
	}
	apiErr := &Error{Code: status.GetStatusCode(), Message: err.Error()}
	if m, ok := status.(interface{ GetMessage() string }); ok && m.GetMessage() != "" {
		apiErr.Message = m.GetMessage()
	}
	if t, ok := status.(interface{ GetType() string }); ok {
		apiErr.Type = t.GetType()
	}
	return apiErr
}
