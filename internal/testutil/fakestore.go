// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"todolist/internal/backend/memory"
	"todolist/internal/store"
)

// Default identifiers used by tests.
const (
	DatabaseID   = "test-db"
	CollectionID = "test-tasks"
)

// FakeStore is an in-memory store.Store for testing.
// It records calls and lets tests inject errors, rewrite echoes, or block
// individual calls to control response arrival order.
type FakeStore struct {
	mem *memory.Store

	mu      sync.Mutex
	calls   map[string]int
	nextIDs []string

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// EchoCompleted, when set, replaces the completed value echoed by Update.
	EchoCompleted *bool

	// BeforeCreate and BeforeUpdate run before the store is touched; tests
	// use them to hold a call until a channel is released.
	BeforeCreate func(fields store.Fields)
	BeforeUpdate func(documentID string, patch store.Patch)
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		mem:   memory.New(),
		calls: make(map[string]int),
	}
}

// AddDocument seeds a document into the default test collection.
func (f *FakeStore) AddDocument(id, text string, completed bool) {
	f.mem.Seed(DatabaseID, CollectionID, store.Document{ID: id, Text: text, Completed: completed})
}

// SetNextIDs makes Create hand out ids from the list in order.
func (f *FakeStore) SetNextIDs(ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextIDs = append(f.nextIDs, ids...)
}

// Calls returns how many times op ("list", "create", "update", "delete") ran.
func (f *FakeStore) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// TotalCalls returns the number of remote calls of any kind.
func (f *FakeStore) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// Documents returns the stored documents of the default test collection.
func (f *FakeStore) Documents() []store.Document {
	docs, _ := f.mem.List(context.Background(), DatabaseID, CollectionID)
	return docs
}

func (f *FakeStore) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

// List implements store.Store.
func (f *FakeStore) List(ctx context.Context, databaseID, collectionID string) ([]store.Document, error) {
	f.record("list")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.mem.List(ctx, databaseID, collectionID)
}

// Create implements store.Store.
func (f *FakeStore) Create(ctx context.Context, databaseID, collectionID, documentID string, fields store.Fields) (store.Document, error) {
	f.record("create")
	if f.BeforeCreate != nil {
		f.BeforeCreate(fields)
	}
	if f.CreateErr != nil {
		return store.Document{}, f.CreateErr
	}
	if store.IsGenerated(documentID) {
		f.mu.Lock()
		if len(f.nextIDs) > 0 {
			documentID = f.nextIDs[0]
			f.nextIDs = f.nextIDs[1:]
		}
		f.mu.Unlock()
	}
	return f.mem.Create(ctx, databaseID, collectionID, documentID, fields)
}

// Update implements store.Store.
func (f *FakeStore) Update(ctx context.Context, databaseID, collectionID, documentID string, patch store.Patch) (store.Document, error) {
	f.record("update")
	if f.BeforeUpdate != nil {
		f.BeforeUpdate(documentID, patch)
	}
	if f.UpdateErr != nil {
		return store.Document{}, f.UpdateErr
	}
	doc, err := f.mem.Update(ctx, databaseID, collectionID, documentID, patch)
	if err != nil {
		return doc, err
	}
	if f.EchoCompleted != nil {
		doc.Completed = *f.EchoCompleted
	}
	return doc, nil
}

// Delete implements store.Store.
func (f *FakeStore) Delete(ctx context.Context, databaseID, collectionID, documentID string) error {
	f.record("delete")
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	return f.mem.Delete(ctx, databaseID, collectionID, documentID)
}

// Notices collects notifications for assertions.
type Notices struct {
	mu       sync.Mutex
	messages []string
}

// Notify implements controller.Notifier.
func (n *Notices) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

// Messages returns the collected notifications.
func (n *Notices) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}
