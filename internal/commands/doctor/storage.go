package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hay-kot/dealscout/internal/core/kv"
)

const stateLabel = "State file"

// StorageCheck verifies the state file holding favorites, history and
// preferences.
type StorageCheck struct {
	path  string
	store kv.Store
}

func NewStorageCheck(path string, store kv.Store) *StorageCheck {
	return &StorageCheck{path: path, store: store}
}

func (c *StorageCheck) Name() string {
	return "Storage"
}

func (c *StorageCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		result.fail("Data directory", err.Error())
		return result
	}
	result.pass("Data directory", dir)

	data, err := os.ReadFile(c.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		result.pass(stateLabel, "not created yet")
		return result
	case err != nil:
		result.fail(stateLabel, err.Error())
		return result
	case len(data) > 0 && !json.Valid(data):
		// The store reads a corrupt file as empty
		result.warn(stateLabel, "unreadable; saved searches start empty and the file is replaced on the next save")
		return result
	}

	entries, err := c.store.List(ctx, "")
	if err != nil {
		result.fail(stateLabel, err.Error())
		return result
	}

	result.pass(stateLabel, plural(len(entries), "key", "keys"))
	return result
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
