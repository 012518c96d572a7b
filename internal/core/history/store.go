package history

import (
	"context"

	"github.com/hay-kot/dealscout/internal/core/search"
)

// Store defines persistence operations for a list of searches. Recent and
// favorites share this contract and differ only in the Add policy.
//
// Indices refer to the order returned by List. Callers re-fetch the list
// before acting on an index; a stale index yields ErrIndexOutOfRange.
// RemoveMatching also rejects an index whose entry changed identity.
type Store interface {
	// List returns a snapshot of the entries in display order.
	List(ctx context.Context) ([]search.Request, error)
	// Get returns the entry at index.
	Get(ctx context.Context, index int) (search.Request, error)
	// Add inserts a search according to the list's policy.
	Add(ctx context.Context, req search.Request) error
	// Remove deletes the entry at index.
	Remove(ctx context.Context, index int) error
	// RemoveMatching deletes the entry at index if it still has identity want,
	// and returns ErrListChanged otherwise.
	RemoveMatching(ctx context.Context, index int, want search.Key) error
	// Clear removes all entries.
	Clear(ctx context.Context) error
}
