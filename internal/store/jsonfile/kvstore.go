// Package jsonfile provides JSON file-backed persistence.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/hay-kot/dealscout/internal/core/kv"
	"github.com/rs/zerolog"
)

// stateVersion is written to every saved state file.
const stateVersion = 1

// KVFile is the document stored on disk. Values are JSON documents owned by
// the stores layered on top.
type KVFile struct {
	Version int                 `json:"version"`
	Entries map[string]kv.Entry `json:"entries"`
}

// KVStore implements kv.Store on a single JSON file. An in-process RWMutex
// orders goroutines and an flock on a sibling .lock file orders processes,
// so a CLI run and an open TUI can share the file. Every mutation is written
// before the call returns.
type KVStore struct {
	path string
	log  zerolog.Logger
	mu   sync.RWMutex
	now  func() time.Time
}

func NewKVStore(path string, log zerolog.Logger) *KVStore {
	return &KVStore{path: path, log: log, now: time.Now}
}

// Path returns the backing file path.
func (s *KVStore) Path() string {
	return s.path
}

// view runs fn on a snapshot of the file under shared locks.
func (s *KVStore) view(ctx context.Context, fn func(file KVFile)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.locked(syscall.LOCK_SH, func() error {
		file, err := s.load()
		if err != nil {
			return err
		}
		fn(file)
		return nil
	})
}

// mutate runs fn on the file under exclusive locks and saves it when fn
// reports a change.
func (s *KVStore) mutate(ctx context.Context, fn func(file *KVFile) (bool, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.locked(syscall.LOCK_EX, func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		changed, err := fn(&file)
		if err != nil || !changed {
			return err
		}
		return s.save(file)
	})
}

func (s *KVStore) locked(how int, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	f, err := os.OpenFile(s.path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if err := syscall.Flock(int(f.Fd()), how); err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN) //nolint:errcheck

	return fn()
}

// Get returns the entry for key or kv.ErrKeyNotFound.
func (s *KVStore) Get(ctx context.Context, key string) (kv.Entry, error) {
	var (
		entry kv.Entry
		found bool
	)

	err := s.view(ctx, func(file KVFile) {
		entry, found = file.Entries[key]
	})
	switch {
	case err != nil:
		return kv.Entry{}, err
	case !found:
		return kv.Entry{}, kv.ErrKeyNotFound
	}

	return entry, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	return s.Update(ctx, key, func(string, bool) (string, error) {
		return value, nil
	})
}

// Update reads the current value of key, passes it to fn and stores the
// result in one locked read-modify-write. An unchanged value is not written.
func (s *KVStore) Update(ctx context.Context, key string, fn kv.UpdateFunc) error {
	return s.mutate(ctx, func(file *KVFile) (bool, error) {
		entry, exists := file.Entries[key]

		value, err := fn(entry.Value, exists)
		if err != nil {
			return false, err
		}
		if exists && value == entry.Value {
			return false, nil
		}

		now := s.now()
		if !exists {
			entry = kv.Entry{Key: key, CreatedAt: now}
		}
		entry.Value = value
		entry.UpdatedAt = now

		file.Entries[key] = entry
		return true, nil
	})
}

// Delete removes key. It returns kv.ErrKeyNotFound when key is absent.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	return s.mutate(ctx, func(file *KVFile) (bool, error) {
		if _, ok := file.Entries[key]; !ok {
			return false, kv.ErrKeyNotFound
		}
		delete(file.Entries, key)
		return true, nil
	})
}

// List returns the entries whose key starts with prefix, sorted by key.
func (s *KVStore) List(ctx context.Context, prefix string) ([]kv.Entry, error) {
	var entries []kv.Entry

	err := s.view(ctx, func(file KVFile) {
		for key, entry := range file.Entries {
			if strings.HasPrefix(key, prefix) {
				entries = append(entries, entry)
			}
		}
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b kv.Entry) int { return strings.Compare(a.Key, b.Key) })
	return entries, nil
}

// load reads the file. A missing, empty or unparseable file reads as empty
// and the next save replaces it.
func (s *KVStore) load() (KVFile, error) {
	file := KVFile{Version: stateVersion, Entries: map[string]kv.Entry{}}

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return file, nil
	case err != nil:
		return KVFile{}, fmt.Errorf("read state file: %w", err)
	case len(data) == 0:
		return file, nil
	}

	var disk KVFile
	if err := json.Unmarshal(data, &disk); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("state file is corrupt, starting empty")
		return file, nil
	}

	for key, entry := range disk.Entries {
		entry.Key = key
		file.Entries[key] = entry
	}

	return file, nil
}

// save writes the file through a temp file and rename.
func (s *KVStore) save(file KVFile) error {
	file.Version = stateVersion

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename state file: %w", err)
	}

	s.log.Debug().Str("path", s.path).Int("keys", len(file.Entries)).Msg("state saved")
	return nil
}
