package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hay-kot/dealscout/internal/core/history"
	"github.com/hay-kot/dealscout/internal/core/kv"
	"github.com/hay-kot/dealscout/internal/core/search"
	"github.com/rs/zerolog"
)

// addFunc applies a list's insertion policy.
type addFunc func(entries []search.Request, req search.Request) ([]search.Request, error)

// HistoryStore implements history.Store as a JSON array under a single KV
// key. The list is decoded, changed and encoded inside one KV update so
// concurrent writers never lose an entry.
type HistoryStore struct {
	kv  kv.Store
	key string
	add addFunc
	log zerolog.Logger
	now func() time.Time
}

// NewRecentStore returns the recent-searches list. Adding an existing search
// moves it to the front, and the list never exceeds maxEntries.
func NewRecentStore(store kv.Store, maxEntries int, log zerolog.Logger) *HistoryStore {
	return &HistoryStore{
		kv:  store,
		key: kv.KeyRecent,
		add: func(entries []search.Request, req search.Request) ([]search.Request, error) {
			return history.PushRecent(entries, req, maxEntries), nil
		},
		log: log,
		now: time.Now,
	}
}

// NewFavoriteStore returns the favorites list. Favorites keep insertion order
// and reject duplicates with history.ErrDuplicateFavorite.
func NewFavoriteStore(store kv.Store, log zerolog.Logger) *HistoryStore {
	return &HistoryStore{
		kv:  store,
		key: kv.KeyFavorites,
		add: history.AppendFavorite,
		log: log,
		now: time.Now,
	}
}

// List returns a snapshot of the stored searches.
func (s *HistoryStore) List(ctx context.Context) ([]search.Request, error) {
	entry, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return []search.Request{}, nil
		}
		return nil, err
	}

	return s.decode(entry.Value), nil
}

// Get returns the search at index.
func (s *HistoryStore) Get(ctx context.Context, index int) (search.Request, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return search.Request{}, err
	}

	if index < 0 || index >= len(entries) {
		return search.Request{}, history.ErrIndexOutOfRange
	}

	return entries[index], nil
}

// Add inserts req according to the list's policy. A zero CreatedAt is
// stamped with the current time.
func (s *HistoryStore) Add(ctx context.Context, req search.Request) error {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = s.now()
	}

	return s.mutate(ctx, func(entries []search.Request) ([]search.Request, error) {
		return s.add(entries, req)
	})
}

// Remove deletes the search at index.
func (s *HistoryStore) Remove(ctx context.Context, index int) error {
	return s.mutate(ctx, func(entries []search.Request) ([]search.Request, error) {
		return history.RemoveAt(entries, index)
	})
}

// RemoveMatching deletes the search at index if it is still want. The check
// and the delete run in the same update.
func (s *HistoryStore) RemoveMatching(ctx context.Context, index int, want search.Key) error {
	return s.mutate(ctx, func(entries []search.Request) ([]search.Request, error) {
		return history.RemoveMatching(entries, index, want)
	})
}

// Clear removes the list entirely.
func (s *HistoryStore) Clear(ctx context.Context) error {
	err := s.kv.Delete(ctx, s.key)
	if err != nil && !errors.Is(err, kv.ErrKeyNotFound) {
		return err
	}
	return nil
}

func (s *HistoryStore) mutate(ctx context.Context, fn func([]search.Request) ([]search.Request, error)) error {
	return s.kv.Update(ctx, s.key, func(current string, exists bool) (string, error) {
		var entries []search.Request
		if exists {
			entries = s.decode(current)
		}

		next, err := fn(entries)
		if err != nil {
			return "", err
		}

		if next == nil {
			next = []search.Request{}
		}

		data, err := json.Marshal(next)
		if err != nil {
			return "", fmt.Errorf("marshal %s: %w", s.key, err)
		}
		return string(data), nil
	})
}

// decode parses a stored list. Malformed data reads as an empty list so a
// damaged record never blocks the app.
func (s *HistoryStore) decode(raw string) []search.Request {
	if raw == "" {
		return []search.Request{}
	}

	var entries []search.Request
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("stored list is malformed, treating as empty")
		return []search.Request{}
	}

	if entries == nil {
		entries = []search.Request{}
	}
	return entries
}
