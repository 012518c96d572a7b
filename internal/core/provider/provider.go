// Package provider defines the marketplace sites a search can be sent to and
// the registry that resolves them.
package provider

import (
	"fmt"

	"github.com/hay-kot/dealscout/internal/core/search"
	"github.com/hay-kot/dealscout/pkg/tmpl"
	"github.com/hay-kot/dealscout/pkg/urlenc"
)

// URLFunc builds the outbound search URL for a provider. Implementations must
// be pure: the sequencer calls them while planning, before anything is opened.
type URLFunc func(query, postalCode string, radius search.Radius) string

// Provider is an immutable marketplace definition.
type Provider struct {
	ID            string
	Name          string
	RequiresLogin bool
	URL           URLFunc
}

// TemplateData is the data available to custom provider URL templates.
type TemplateData struct {
	Query        string // raw search term
	QueryEscaped string // search term escaped with encodeURIComponent rules
	PostalCode   string
	Radius       int // miles
}

// Custom builds a provider from a URL template, e.g.
//
//	https://example.com/search?q={{ .Query | uri }}&zip={{ .PostalCode }}&mi={{ .Radius }}
//
// The template is parsed and test-rendered once here so that URL never fails
// for well-formed input.
func Custom(id, name, urlTemplate string, requiresLogin bool) (Provider, error) {
	if id == "" {
		return Provider{}, fmt.Errorf("provider id is required")
	}
	if name == "" {
		name = id
	}

	t, err := tmpl.Parse(id, urlTemplate)
	if err != nil {
		return Provider{}, fmt.Errorf("provider %q: %w", id, err)
	}

	render := func(query, postalCode string, radius search.Radius) (string, error) {
		return t.Execute(TemplateData{
			Query:        query,
			QueryEscaped: urlenc.Component(query),
			PostalCode:   postalCode,
			Radius:       int(radius),
		})
	}

	if _, err := render("probe", "00000", search.DefaultRadius); err != nil {
		return Provider{}, fmt.Errorf("provider %q: %w", id, err)
	}

	return Provider{
		ID:            id,
		Name:          name,
		RequiresLogin: requiresLogin,
		URL: func(query, postalCode string, radius search.Radius) string {
			out, err := render(query, postalCode, radius)
			if err != nil {
				return ""
			}
			return out
		},
	}, nil
}
