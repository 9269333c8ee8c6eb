// Package backend selects the store implementation named in the configuration.
package backend

import (
	"context"
	"fmt"
	"io"

	"todolist/internal/backend/appwrite"
	"todolist/internal/backend/googletasks"
	"todolist/internal/backend/memory"
	"todolist/internal/backend/postgres"
	"todolist/internal/config"
	"todolist/internal/store"
)

// Open creates the store selected by cfg.Backend.
// Stores holding resources also implement io.Closer; see Close.
func Open(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendAppwrite, "":
		return appwrite.New(appwrite.Options{
			Endpoint:  cfg.Appwrite.Endpoint,
			ProjectID: cfg.Appwrite.ProjectID,
			APIKey:    cfg.Appwrite.APIKey,
			Timeout:   cfg.RequestTimeout,
		})
	case config.BackendGoogleTasks:
		return googletasks.New(ctx, cfg)
	case config.BackendPostgres:
		return postgres.Open(ctx, cfg.PostgresDSN, postgres.WithTimeout(cfg.RequestTimeout))
	case config.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}

// Close closes st if it holds resources.
func Close(st store.Store) error {
	if c, ok := st.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
