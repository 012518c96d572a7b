// Package scout orchestrates searches: it validates input, dispatches opens,
// tracks window permission and keeps favorites, history and preferences.
package scout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hay-kot/dealscout/internal/core/dispatch"
	"github.com/hay-kot/dealscout/internal/core/history"
	"github.com/hay-kot/dealscout/internal/core/permission"
	"github.com/hay-kot/dealscout/internal/core/prefs"
	"github.com/hay-kot/dealscout/internal/core/provider"
	"github.com/hay-kot/dealscout/internal/core/search"
	"github.com/rs/zerolog"
)

// Options holds the collaborators of a Service.
type Options struct {
	Registry  *provider.Registry
	Sequencer *dispatch.Sequencer
	Probe     *permission.Probe
	Recent    history.Store
	Favorites history.Store
	Prefs     *prefs.Store
	// Family selects the permission instructions shown to the user.
	Family permission.Family
	// DefaultTheme is used until the user picks one.
	DefaultTheme prefs.Theme
}

// Service is the single entry point used by the commands and the TUI.
type Service struct {
	registry     *provider.Registry
	sequencer    *dispatch.Sequencer
	probe        *permission.Probe
	recent       history.Store
	favorites    history.Store
	prefs        *prefs.Store
	family       permission.Family
	defaultTheme prefs.Theme
	log          zerolog.Logger
	now          func() time.Time
}

// New creates a new Service.
func New(opts Options, log zerolog.Logger) *Service {
	theme := opts.DefaultTheme
	if theme == "" {
		theme = prefs.ThemeDark
	}

	return &Service{
		registry:     opts.Registry,
		sequencer:    opts.Sequencer,
		probe:        opts.Probe,
		recent:       opts.Recent,
		favorites:    opts.Favorites,
		prefs:        opts.Prefs,
		family:       opts.Family,
		defaultTheme: theme,
		log:          log,
		now:          time.Now,
	}
}

// Registry returns the provider registry.
func (s *Service) Registry() *provider.Registry {
	return s.registry
}

// Validate turns raw input into a request stamped with the current time.
func (s *Service) Validate(query, postalCode, radius string) (search.Request, error) {
	return search.ValidateAt(s.now(), query, postalCode, radius)
}

// Search remembers the provider selection, dispatches req and records it in
// recent history once at least one open was scheduled. A selection naming no
// known provider is not saved.
func (s *Service) Search(ctx context.Context, req search.Request) (*dispatch.Result, error) {
	if len(s.registry.Resolve(req.ProviderIDs)) > 0 {
		if err := s.prefs.SetSelectedProviders(ctx, req.ProviderIDs); err != nil {
			s.log.Warn().Err(err).Msg("save provider selection")
		}
	}

	res, err := s.sequencer.Dispatch(ctx, req, s.probe.State())
	if err != nil {
		return nil, err
	}

	if res.Attempted > 0 {
		if err := s.recent.Add(ctx, req); err != nil {
			s.log.Warn().Err(err).Msg("record recent search")
		}
	}

	return res, nil
}

// Startup runs the automatic permission probe. Later calls return the known
// state without probing again.
func (s *Service) Startup(ctx context.Context) permission.State {
	return s.probe.Probe(ctx)
}

// PermissionState returns the current window permission.
func (s *Service) PermissionState() permission.State {
	return s.probe.State()
}

// RequestPermission re-checks window permission in response to a user action.
func (s *Service) RequestPermission(ctx context.Context, g permission.Gesture) permission.State {
	return s.probe.RequestPermission(ctx, g)
}

// Instructions returns markdown describing how to allow new windows.
func (s *Service) Instructions() string {
	return permission.Instructions(s.family)
}

// Family returns the detected browser family.
func (s *Service) Family() permission.Family {
	return s.family
}

// Selection returns the saved provider selection, limited to known providers.
// With nothing saved every provider is selected.
func (s *Service) Selection(ctx context.Context) []string {
	saved, ok := s.prefs.SelectedProviders(ctx)
	if !ok {
		return s.registry.IDs()
	}

	resolved := s.registry.Resolve(saved)
	ids := make([]string, len(resolved))
	for i, p := range resolved {
		ids[i] = p.ID
	}
	return ids
}

// SetSelection saves the provider selection.
func (s *Service) SetSelection(ctx context.Context, ids []string) error {
	return s.prefs.SetSelectedProviders(ctx, ids)
}

// List returns the entries of a saved list.
func (s *Service) List(ctx context.Context, kind history.Kind) ([]search.Request, error) {
	store, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	return store.List(ctx)
}

// AddFavorite saves req as a favorite. A favorite for the same query and
// postal code returns history.ErrDuplicateFavorite.
func (s *Service) AddFavorite(ctx context.Context, req search.Request) error {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = s.now()
	}
	return s.favorites.Add(ctx, req)
}

// Remove deletes the entry at index from a saved list.
func (s *Service) Remove(ctx context.Context, kind history.Kind, index int) error {
	store, err := s.store(kind)
	if err != nil {
		return err
	}
	return store.Remove(ctx, index)
}

// RemoveMatching deletes the entry at index only if it is still the search
// identified by want. A moved entry returns history.ErrListChanged.
func (s *Service) RemoveMatching(ctx context.Context, kind history.Kind, index int, want search.Key) error {
	store, err := s.store(kind)
	if err != nil {
		return err
	}
	return store.RemoveMatching(ctx, index, want)
}

// Clear empties a saved list.
func (s *Service) Clear(ctx context.Context, kind history.Kind) error {
	store, err := s.store(kind)
	if err != nil {
		return err
	}
	return store.Clear(ctx)
}

// Load returns a saved search, validated again since the stored form may
// have been edited or written by an older build. A stored search without
// providers gets the current selection.
func (s *Service) Load(ctx context.Context, kind history.Kind, index int) (search.Request, error) {
	return s.load(ctx, kind, index, nil)
}

// LoadMatching is Load that returns history.ErrListChanged when the entry at
// index is no longer the search identified by want.
func (s *Service) LoadMatching(ctx context.Context, kind history.Kind, index int, want search.Key) (search.Request, error) {
	return s.load(ctx, kind, index, &want)
}

// Rerun dispatches a saved search again as a new search. An entry that no
// longer validates is neither dispatched nor recorded.
func (s *Service) Rerun(ctx context.Context, kind history.Kind, index int) (*dispatch.Result, error) {
	req, err := s.Load(ctx, kind, index)
	if err != nil {
		return nil, err
	}
	return s.rerun(ctx, req)
}

// RerunMatching is Rerun guarded like LoadMatching.
func (s *Service) RerunMatching(ctx context.Context, kind history.Kind, index int, want search.Key) (*dispatch.Result, error) {
	req, err := s.LoadMatching(ctx, kind, index, want)
	if err != nil {
		return nil, err
	}
	return s.rerun(ctx, req)
}

func (s *Service) rerun(ctx context.Context, req search.Request) (*dispatch.Result, error) {
	req.CreatedAt = s.now()
	return s.Search(ctx, req)
}

func (s *Service) load(ctx context.Context, kind history.Kind, index int, want *search.Key) (search.Request, error) {
	store, err := s.store(kind)
	if err != nil {
		return search.Request{}, err
	}

	stored, err := store.Get(ctx, index)
	if err != nil {
		return search.Request{}, err
	}

	if want != nil && stored.Key() != *want {
		return search.Request{}, history.ErrListChanged
	}

	req, err := search.ValidateAt(stored.CreatedAt, stored.Query, stored.PostalCode, strconv.Itoa(int(stored.Radius)))
	if err != nil {
		s.log.Warn().Err(err).Str("list", string(kind)).Int("index", index).Msg("stored search is invalid")
		return search.Request{}, err
	}

	req = req.WithProviders(stored.ProviderIDs)
	if len(req.ProviderIDs) == 0 {
		req.ProviderIDs = s.Selection(ctx)
	}
	return req, nil
}

// Theme returns the saved theme or the default.
func (s *Service) Theme(ctx context.Context) prefs.Theme {
	if theme, ok := s.prefs.Theme(ctx); ok {
		return theme
	}
	return s.defaultTheme
}

// SetTheme saves theme.
func (s *Service) SetTheme(ctx context.Context, theme prefs.Theme) error {
	return s.prefs.SetTheme(ctx, theme)
}

// ToggleTheme flips the theme and returns the new value.
func (s *Service) ToggleTheme(ctx context.Context) (prefs.Theme, error) {
	return s.prefs.Toggle(ctx, s.defaultTheme)
}

var errUnknownList = errors.New("unknown list")

func (s *Service) store(kind history.Kind) (history.Store, error) {
	switch kind {
	case history.KindRecent:
		return s.recent, nil
	case history.KindFavorites:
		return s.favorites, nil
	default:
		return nil, fmt.Errorf("%w %q", errUnknownList, kind)
	}
}
