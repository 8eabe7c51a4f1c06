// Package store persists the front-end's durable client state: the raw
// bearer token and the route guard's remembered path. Absence of the token
// entry means logged out.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	keyAuthToken  = "auth_token"
	keyReturnPath = "return_path"
)

// Entry is one key-value row of client state.
type Entry struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// Store defines the durable client-state operations.
type Store interface {
	Token(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error

	ReturnPath(ctx context.Context) (string, error)
	SaveReturnPath(ctx context.Context, path string) error
	ClearReturnPath(ctx context.Context) error
}

// gormStore implements Store on top of GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Token(ctx context.Context) (string, error) {
	return s.get(ctx, keyAuthToken)
}

func (s *gormStore) SaveToken(ctx context.Context, token string) error {
	return s.put(ctx, keyAuthToken, token)
}

func (s *gormStore) ClearToken(ctx context.Context) error {
	return s.delete(ctx, keyAuthToken)
}

func (s *gormStore) ReturnPath(ctx context.Context) (string, error) {
	return s.get(ctx, keyReturnPath)
}

func (s *gormStore) SaveReturnPath(ctx context.Context, path string) error {
	return s.put(ctx, keyReturnPath, path)
}

func (s *gormStore) ClearReturnPath(ctx context.Context) error {
	return s.delete(ctx, keyReturnPath)
}

// get returns the stored value, or "" when the entry does not exist.
func (s *gormStore) get(ctx context.Context, key string) (string, error) {
	var entry Entry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read state entry %q: %w", key, err)
	}
	return entry.Value, nil
}

func (s *gormStore) put(ctx context.Context, key, value string) error {
	entry := Entry{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write state entry %q: %w", key, err)
	}
	return nil
}

func (s *gormStore) delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&Entry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete state entry %q: %w", key, err)
	}
	return nil
}
