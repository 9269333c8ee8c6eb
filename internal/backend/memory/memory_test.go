package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"todolist/internal/backend/memory"
	"todolist/internal/store"
)

func TestStore_CreateGeneratesID(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	doc, err := s.Create(ctx, "db", "tasks", store.UniqueID, store.Fields{Text: "Buy milk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID == "" || doc.ID == store.UniqueID {
		t.Errorf("expected generated id, got %q", doc.ID)
	}
	if doc.Text != "Buy milk" || doc.Completed {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestStore_CreateDuplicateID(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	if _, err := s.Create(ctx, "db", "tasks", "a", store.Fields{Text: "one"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Create(ctx, "db", "tasks", "a", store.Fields{Text: "two"}); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestStore_ListKeepsInsertionOrder(t *testing.T) {
	s := memory.New()
	s.Seed("db", "tasks",
		store.Document{ID: "a", Text: "first"},
		store.Document{ID: "b", Text: "second", Completed: true},
	)

	got, err := s.List(context.Background(), "db", "tasks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []store.Document{
		{ID: "a", Text: "first"},
		{ID: "b", Text: "second", Completed: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_CollectionsAreIsolated(t *testing.T) {
	s := memory.New()
	s.Seed("db", "tasks", store.Document{ID: "a", Text: "first"})

	got, err := s.List(context.Background(), "db", "other")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty collection, got %v", got)
	}
}

func TestStore_UpdateAndDelete(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	s.Seed("db", "tasks", store.Document{ID: "a", Text: "first"})

	doc, err := s.Update(ctx, "db", "tasks", "a", store.Patch{Completed: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.Completed {
		t.Error("expected completed document")
	}

	if err := s.Delete(ctx, "db", "tasks", "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Update(ctx, "db", "tasks", "a", store.Patch{}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "db", "tasks", "a"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
