package provider

import (
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Registry is the fixed, ordered set of known providers. It is built once at
// startup and never mutated afterwards.
type Registry struct {
	providers []Provider
	index     map[string]int
}

// NewRegistry builds a registry preserving the given order. Duplicate or
// empty ids are rejected.
func NewRegistry(providers ...Provider) (*Registry, error) {
	r := &Registry{
		providers: make([]Provider, 0, len(providers)),
		index:     make(map[string]int, len(providers)),
	}

	for _, p := range providers {
		if p.ID == "" {
			return nil, fmt.Errorf("provider %q has no id", p.Name)
		}
		if p.URL == nil {
			return nil, fmt.Errorf("provider %q has no url builder", p.ID)
		}
		if _, dup := r.index[p.ID]; dup {
			return nil, fmt.Errorf("duplicate provider id %q", p.ID)
		}
		r.index[p.ID] = len(r.providers)
		r.providers = append(r.providers, p)
	}

	return r, nil
}

// Default returns a registry of the built-in providers.
func Default() *Registry {
	r, err := NewRegistry(Builtins()...)
	if err != nil {
		panic(err) // built-in ids are unique
	}
	return r
}

// All returns every provider in registry order.
func (r *Registry) All() []Provider {
	return slices.Clone(r.providers)
}

// IDs returns every provider id in registry order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.providers))
	for i, p := range r.providers {
		ids[i] = p.ID
	}
	return ids
}

// Get returns the provider with the given id.
func (r *Registry) Get(id string) (Provider, bool) {
	i, ok := r.index[id]
	if !ok {
		return Provider{}, false
	}
	return r.providers[i], true
}

// Resolve maps ids to providers in registry order, not input order. Unknown
// ids are dropped silently so that persisted selections survive providers
// being removed. An empty result means there is nothing to dispatch.
func (r *Registry) Resolve(ids []string) []Provider {
	if len(ids) == 0 {
		return nil
	}

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var out []Provider
	for _, p := range r.providers {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// Match returns, in registry order, the ids matching any of the doublestar
// patterns (e.g. "craigslist", "e*", "{ebay,mercari}"). Invalid patterns
// match nothing.
func (r *Registry) Match(patterns []string) []string {
	var out []string
	for _, p := range r.providers {
		for _, pattern := range patterns {
			if ok, _ := doublestar.Match(pattern, p.ID); ok {
				out = append(out, p.ID)
				break
			}
		}
	}
	return out
}

// Without returns a registry excluding providers whose id matches any of
// the patterns.
func (r *Registry) Without(patterns []string) *Registry {
	if len(patterns) == 0 {
		return r
	}

	excluded := make(map[string]bool)
	for _, id := range r.Match(patterns) {
		excluded[id] = true
	}

	out := &Registry{index: make(map[string]int, len(r.providers))}
	for _, p := range r.providers {
		if excluded[p.ID] {
			continue
		}
		out.index[p.ID] = len(out.providers)
		out.providers = append(out.providers, p)
	}
	return out
}
