// Package history defines the recent-search and favorite-search lists and the
// policies that keep them bounded and free of duplicates.
package history

import (
	"errors"
	"slices"

	"github.com/hay-kot/dealscout/internal/core/search"
)

// MaxRecent is the maximum number of recent searches kept.
const MaxRecent = 10

var (
	// ErrDuplicateFavorite is returned when a favorite with the same query and
	// postal code already exists.
	ErrDuplicateFavorite = errors.New("this search is already in favorites")
	// ErrIndexOutOfRange is returned for an index outside the current list.
	ErrIndexOutOfRange = errors.New("no entry at that position")
	// ErrListChanged is returned when the entry at an index is no longer the
	// one the caller saw.
	ErrListChanged = errors.New("the list changed since it was shown")
)

// Kind names a list.
type Kind string

const (
	KindRecent    Kind = "recent"
	KindFavorites Kind = "favorites"
)

// PushRecent returns entries with req at the front. Any earlier entry for the
// same search is removed first, and the result is truncated to max, dropping
// the oldest entries. entries is not modified.
func PushRecent(entries []search.Request, req search.Request, max int) []search.Request {
	out := make([]search.Request, 0, len(entries)+1)
	out = append(out, req)
	for _, e := range entries {
		if !e.SameSearch(req) {
			out = append(out, e)
		}
	}

	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// AppendFavorite returns entries with req appended, or ErrDuplicateFavorite
// if the same search is already present.
func AppendFavorite(entries []search.Request, req search.Request) ([]search.Request, error) {
	if slices.ContainsFunc(entries, req.SameSearch) {
		return nil, ErrDuplicateFavorite
	}
	out := slices.Clone(entries)
	return append(out, req), nil
}

// RemoveAt returns entries without the element at index.
func RemoveAt(entries []search.Request, index int) ([]search.Request, error) {
	if index < 0 || index >= len(entries) {
		return nil, ErrIndexOutOfRange
	}
	return slices.Delete(slices.Clone(entries), index, index+1), nil
}

// RemoveMatching is RemoveAt that only removes the element at index when it
// still has identity want.
func RemoveMatching(entries []search.Request, index int, want search.Key) ([]search.Request, error) {
	if index < 0 || index >= len(entries) {
		return nil, ErrIndexOutOfRange
	}
	if entries[index].Key() != want {
		return nil, ErrListChanged
	}
	return RemoveAt(entries, index)
}
