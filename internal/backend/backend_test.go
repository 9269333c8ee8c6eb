package backend_test

import (
	"context"
	"errors"
	"testing"

	"todolist/internal/backend"
	"todolist/internal/backend/appwrite"
	"todolist/internal/backend/memory"
	"todolist/internal/config"
)

func TestOpen_Memory(t *testing.T) {
	cfg := config.New(t.TempDir())
	cfg.Backend = config.BackendMemory

	st, err := backend.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := st.(*memory.Store); !ok {
		t.Errorf("expected *memory.Store, got %T", st)
	}
	if err := backend.Close(st); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}

func TestOpen_Appwrite(t *testing.T) {
	cfg := config.New(t.TempDir())

	st, err := backend.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := st.(*appwrite.Client); !ok {
		t.Errorf("expected *appwrite.Client, got %T", st)
	}
}

func TestOpen_GoogleTasksWithoutCredentials(t *testing.T) {
	cfg := config.New(t.TempDir())
	cfg.Backend = config.BackendGoogleTasks

	if _, err := backend.Open(context.Background(), cfg); err == nil {
		t.Error("expected error without oauth_client.json")
	}
}

func TestOpen_Unknown(t *testing.T) {
	cfg := config.New(t.TempDir())
	cfg.Backend = "sqlite"

	_, err := backend.Open(context.Background(), cfg)
	if !errors.Is(err, config.ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}
