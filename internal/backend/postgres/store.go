// Package postgres implements store.Store over a single gorm-managed documents table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todolist/internal/store"
)

// DocumentModel is one task document.
type DocumentModel struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	DatabaseID   string    `gorm:"type:varchar(255);not null;index:idx_documents_collection,priority:1"`
	CollectionID string    `gorm:"type:varchar(255);not null;index:idx_documents_collection,priority:2"`
	Text         string    `gorm:"type:text;not null"`
	Completed    bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime"`
}

func (DocumentModel) TableName() string {
	return "documents"
}

// Store is a gorm-backed store.Store.
type Store struct {
	db      *gorm.DB
	timeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTimeout bounds each store call. Zero leaves calls bounded only by the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

var _ store.Store = (*Store)(nil)

// Open connects to dsn and migrates the documents table.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	s, err := New(ctx, db, opts...)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return s, nil
}

// New wraps an open gorm connection and migrates the documents table.
func New(ctx context.Context, db *gorm.DB, opts ...Option) (*Store, error) {
	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}

	ctx, cancel := store.CallContext(ctx, s.timeout)
	defer cancel()
	if err := db.WithContext(ctx).AutoMigrate(&DocumentModel{}); err != nil {
		return nil, fmt.Errorf("migrate documents: %w", err)
	}
	return s, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// List returns the collection ordered by creation time.
func (s *Store) List(ctx context.Context, databaseID, collectionID string) ([]store.Document, error) {
	ctx, cancel := store.CallContext(ctx, s.timeout)
	defer cancel()

	var records []DocumentModel
	if err := s.db.WithContext(ctx).
		Where("database_id = ? AND collection_id = ?", databaseID, collectionID).
		Order("created_at ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	docs := make([]store.Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, r.document())
	}
	return docs, nil
}

// Create inserts a document. UniqueID (or empty) generates a uuid v7.
func (s *Store) Create(ctx context.Context, databaseID, collectionID, documentID string, fields store.Fields) (store.Document, error) {
	if store.IsGenerated(documentID) {
		id, err := uuid.NewV7()
		if err != nil {
			return store.Document{}, fmt.Errorf("generate id: %w", err)
		}
		documentID = id.String()
	} else if _, err := uuid.Parse(documentID); err != nil {
		return store.Document{}, fmt.Errorf("document id %q is not a uuid", documentID)
	}

	ctx, cancel := store.CallContext(ctx, s.timeout)
	defer cancel()

	record := DocumentModel{
		ID:           documentID,
		DatabaseID:   databaseID,
		CollectionID: collectionID,
		Text:         fields.Text,
		Completed:    fields.Completed,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return store.Document{}, err
	}
	return record.document(), nil
}

// Update sets completed and returns the stored row.
func (s *Store) Update(ctx context.Context, databaseID, collectionID, documentID string, patch store.Patch) (store.Document, error) {
	ctx, cancel := store.CallContext(ctx, s.timeout)
	defer cancel()

	var record DocumentModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.scope(tx, databaseID, collectionID, documentID).First(&record).Error; err != nil {
			return err
		}
		if err := tx.Model(&record).Update("completed", patch.Completed).Error; err != nil {
			return err
		}
		record.Completed = patch.Completed
		return nil
	})
	if err != nil {
		return store.Document{}, mapError(documentID, err)
	}
	return record.document(), nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, databaseID, collectionID, documentID string) error {
	ctx, cancel := store.CallContext(ctx, s.timeout)
	defer cancel()

	result := s.scope(s.db.WithContext(ctx), databaseID, collectionID, documentID).Delete(&DocumentModel{})
	if result.Error != nil {
		return mapError(documentID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("document %s: %w", documentID, store.ErrNotFound)
	}
	return nil
}

func (s *Store) scope(tx *gorm.DB, databaseID, collectionID, documentID string) *gorm.DB {
	if _, err := uuid.Parse(documentID); err != nil {
		// Not a uuid, so it cannot match; avoid a cast error from postgres.
		return tx.Where("1 = 0")
	}
	return tx.Where("id = ? AND database_id = ? AND collection_id = ?", documentID, databaseID, collectionID)
}

func mapError(documentID string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("document %s: %w", documentID, store.ErrNotFound)
	}
	return err
}

func (r DocumentModel) document() store.Document {
	return store.Document{ID: r.ID, Text: r.Text, Completed: r.Completed}
}
