// Package memory implements store.Store in process memory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"todolist/internal/store"
)

type collectionKey struct {
	databaseID   string
	collectionID string
}

// Store is a mutex-guarded in-memory document store.
// Collections spring into existence on first write.
type Store struct {
	mu    sync.RWMutex
	docs  map[collectionKey][]store.Document
	newID func() string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		docs:  make(map[collectionKey][]store.Document),
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// Seed appends documents to a collection as-is.
func (s *Store) Seed(databaseID, collectionID string, docs ...store.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := collectionKey{databaseID, collectionID}
	s.docs[key] = append(s.docs[key], docs...)
}

// List implements store.Store.
func (s *Store) List(ctx context.Context, databaseID, collectionID string) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.docs[collectionKey{databaseID, collectionID}]
	result := make([]store.Document, len(docs))
	copy(result, docs)
	return result, nil
}

// Create implements store.Store.
func (s *Store) Create(ctx context.Context, databaseID, collectionID, documentID string, fields store.Fields) (store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := collectionKey{databaseID, collectionID}
	id := documentID
	if store.IsGenerated(id) {
		id = s.newID()
	}
	for _, d := range s.docs[key] {
		if d.ID == id {
			return store.Document{}, fmt.Errorf("document already exists: %s", id)
		}
	}

	doc := store.Document{ID: id, Text: fields.Text, Completed: fields.Completed}
	s.docs[key] = append(s.docs[key], doc)
	return doc, nil
}

// Update implements store.Store.
func (s *Store) Update(ctx context.Context, databaseID, collectionID, documentID string, patch store.Patch) (store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.docs[collectionKey{databaseID, collectionID}]
	for i := range docs {
		if docs[i].ID == documentID {
			docs[i].Completed = patch.Completed
			return docs[i], nil
		}
	}
	return store.Document{}, fmt.Errorf("document %s: %w", documentID, store.ErrNotFound)
}

// Delete implements store.Store.
func (s *Store) Delete(ctx context.Context, databaseID, collectionID, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := collectionKey{databaseID, collectionID}
	docs := s.docs[key]
	for i, d := range docs {
		if d.ID == documentID {
			s.docs[key] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("document %s: %w", documentID, store.ErrNotFound)
}
