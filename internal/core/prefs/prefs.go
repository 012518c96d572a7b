// Package prefs stores user preferences that persist between runs: the
// last-chosen provider set and the color theme.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/hay-kot/dealscout/internal/core/kv"
	"github.com/rs/zerolog"
)

// Theme is the color scheme of the terminal UI.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme returns the theme named by s.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
	}
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Store reads and writes preferences. Malformed stored values are logged and
// reported as absent so callers fall back to their defaults.
type Store struct {
	kv  kv.Store
	log zerolog.Logger
}

// New creates a preferences store over kv.
func New(store kv.Store, log zerolog.Logger) *Store {
	return &Store{kv: store, log: log}
}

// SelectedProviders returns the saved provider ids. ok is false when no
// selection was saved or the saved value is unreadable.
func (s *Store) SelectedProviders(ctx context.Context) ([]string, bool) {
	var ids []string
	if !s.read(ctx, kv.KeyProviders, &ids) {
		return nil, false
	}
	return ids, true
}

// SetSelectedProviders saves ids as the current selection.
func (s *Store) SetSelectedProviders(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return s.write(ctx, kv.KeyProviders, slices.Clone(ids))
}

// Theme returns the saved theme.
func (s *Store) Theme(ctx context.Context) (Theme, bool) {
	var raw string
	if !s.read(ctx, kv.KeyTheme, &raw) {
		return "", false
	}

	theme, err := ParseTheme(raw)
	if err != nil {
		s.log.Warn().Err(err).Msg("ignoring stored theme")
		return "", false
	}
	return theme, true
}

// SetTheme saves theme.
func (s *Store) SetTheme(ctx context.Context, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}
	return s.write(ctx, kv.KeyTheme, string(theme))
}

// Toggle flips the saved theme and returns the new value. fallback is the
// current theme when none was saved.
func (s *Store) Toggle(ctx context.Context, fallback Theme) (Theme, error) {
	var next Theme

	err := s.kv.Update(ctx, kv.KeyTheme, func(current string, exists bool) (string, error) {
		theme := fallback
		if exists {
			var raw string
			if err := json.Unmarshal([]byte(current), &raw); err == nil {
				if parsed, err := ParseTheme(raw); err == nil {
					theme = parsed
				}
			}
		}

		next = theme.Opposite()
		data, err := json.Marshal(string(next))
		return string(data), err
	})
	if err != nil {
		return "", fmt.Errorf("toggle theme: %w", err)
	}

	return next, nil
}

func (s *Store) read(ctx context.Context, key string, v any) bool {
	entry, err := s.kv.Get(ctx, key)
	if err != nil {
		return false
	}

	if err := json.Unmarshal([]byte(entry.Value), v); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("stored preference is malformed")
		return false
	}
	return true
}

func (s *Store) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
