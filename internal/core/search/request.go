// Package search defines the search request domain type and its validation.
package search

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Radius is a search radius in miles. Only the values returned by Radii are
// valid.
type Radius int

// DefaultRadius is used when no radius is configured.
const DefaultRadius Radius = 25

var radii = []Radius{5, 10, 25, 50, 100}

// Radii returns the supported radius values in ascending order.
func Radii() []Radius {
	return slices.Clone(radii)
}

// Valid reports whether r is one of the supported values.
func (r Radius) Valid() bool {
	return slices.Contains(radii, r)
}

func (r Radius) String() string {
	return strconv.Itoa(int(r)) + " mi"
}

// ParseRadius parses a decimal radius in miles. An optional "mi" suffix is
// accepted. It does not check the value against Radii.
func ParseRadius(raw string) (Radius, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "mi"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("radius %q is not a number", raw)
	}
	return Radius(n), nil
}

// Request is a validated search. ProviderIDs may reference providers that no
// longer exist; they are filtered out when the request is dispatched.
type Request struct {
	Query       string    `json:"query"`
	PostalCode  string    `json:"postal_code"`
	Radius      Radius    `json:"radius_miles"`
	ProviderIDs []string  `json:"provider_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// Key identifies a search for de-duplication. Two requests with the same
// query and postal code are the same search even if radius or providers differ.
type Key struct {
	Query      string
	PostalCode string
}

// Key returns the identity of the request.
func (r Request) Key() Key {
	return Key{Query: r.Query, PostalCode: r.PostalCode}
}

// SameSearch reports whether r and other share an identity.
func (r Request) SameSearch(other Request) bool {
	return r.Key() == other.Key()
}

// WithProviders returns a copy of r targeting ids.
func (r Request) WithProviders(ids []string) Request {
	r.ProviderIDs = slices.Clone(ids)
	return r
}

// Summary renders the request for one-line display.
func (r Request) Summary() string {
	return fmt.Sprintf("%s • %s • %s", r.Query, r.PostalCode, r.Radius)
}
