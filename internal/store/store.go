// Package store defines the backend-agnostic contract for the task document store.
package store

import "context"

// Store is the four-operation document store the controller talks to.
// Every backend lives under internal/backend and implements it.
// The controller never imports a backend SDK directly.
type Store interface {
	// List returns every document of a collection in store order.
	List(ctx context.Context, databaseID, collectionID string) ([]Document, error)

	// Create stores a new document and returns it as stored.
	// Pass UniqueID as documentID to let the store assign the identifier.
	Create(ctx context.Context, databaseID, collectionID, documentID string, fields Fields) (Document, error)

	// Update applies patch to a document and returns the stored result.
	Update(ctx context.Context, databaseID, collectionID, documentID string, patch Patch) (Document, error)

	// Delete removes a document. No payload is returned.
	Delete(ctx context.Context, databaseID, collectionID, documentID string) error
}
