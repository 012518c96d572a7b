// Package kv defines the string-keyed store that holds persisted app state.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned when a key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// Well-known keys. Values are JSON documents.
const (
	KeyFavorites = "favorites"
	KeyRecent    = "recent"
	KeyProviders = "providers"
	KeyTheme     = "theme"
)

// Entry represents a stored value with metadata.
type Entry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateFunc receives the current value (empty and exists=false when the key
// is absent) and returns the value to store. Returning an error aborts the
// update without writing.
type UpdateFunc func(current string, exists bool) (string, error)

// Store defines persistence operations for key-value state.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]Entry, error)
	// Update performs an atomic read-modify-write of a single key.
	Update(ctx context.Context, key string, fn UpdateFunc) error
}
