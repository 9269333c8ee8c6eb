package store

import "errors"

// UniqueID asks the store to generate the document identifier.
const UniqueID = "unique()"

// ErrNotFound is matched by backend errors for a missing document or collection.
var ErrNotFound = errors.New("not found")

// Document is a task document as echoed back by the store.
type Document struct {
	ID        string `json:"$id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Fields are the attributes written when a document is created.
type Fields struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Patch is the attribute set written by Update.
type Patch struct {
	Completed bool `json:"completed"`
}

// IsGenerated reports whether id asks the store for a generated identifier.
func IsGenerated(id string) bool {
	return id == "" || id == UniqueID
}
