package search

import (
	"errors"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		query     string
		postal    string
		radius    string
		wantErr   bool
		badFields []string
	}{
		{"valid", "lawn mower", "90210", "25", false, nil},
		{"trims input", "  lawn mower  ", " 90210 ", " 25 ", false, nil},
		{"radius with suffix", "bike", "10001", "50mi", false, nil},
		{"four digit postal code", "lawn mower", "9021", "25", true, []string{"postal_code"}},
		{"letter in postal code", "lawn mower", "9021O", "25", true, []string{"postal_code"}},
		{"six digit postal code", "lawn mower", "902101", "25", true, []string{"postal_code"}},
		{"zip plus four", "lawn mower", "90210-1234", "25", true, []string{"postal_code"}},
		{"empty query", "", "90210", "25", true, []string{"query"}},
		{"whitespace query", " \t ", "90210", "25", true, []string{"query"}},
		{"radius outside set", "bike", "90210", "30", true, []string{"radius"}},
		{"radius not a number", "bike", "90210", "far", true, []string{"radius"}},
		{"everything wrong", "", "abc", "0", true, []string{"postal_code", "query", "radius"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ValidateAt(now, tt.query, tt.postal, tt.radius)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, now, req.CreatedAt)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var fields criterio.FieldErrors
			require.ErrorAs(t, err, &fields)

			got := make([]string, 0, len(fields))
			for _, fe := range fields {
				got = append(got, fe.Field)
			}
			assert.Equal(t, tt.badFields, got)
		})
	}
}

func TestValidate_Example(t *testing.T) {
	req, err := Validate("lawn mower", "90210", "25")
	require.NoError(t, err)

	assert.Equal(t, "lawn mower", req.Query)
	assert.Equal(t, "90210", req.PostalCode)
	assert.Equal(t, Radius(25), req.Radius)
	assert.Empty(t, req.ProviderIDs)
	assert.False(t, req.CreatedAt.IsZero())
}

func TestValidate_NormalizesQuery(t *testing.T) {
	req, err := Validate("cafe\u0301 table", "90210", "10")
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9 table", req.Query)
}

func TestRequest_SameSearch(t *testing.T) {
	a := Request{Query: "bike", PostalCode: "90210", Radius: 5, ProviderIDs: []string{"ebay"}}
	b := Request{Query: "bike", PostalCode: "90210", Radius: 100}
	c := Request{Query: "bike", PostalCode: "10001", Radius: 5}

	assert.True(t, a.SameSearch(b))
	assert.False(t, a.SameSearch(c))
}

func TestRequest_WithProvidersCopies(t *testing.T) {
	ids := []string{"craigslist", "ebay"}
	req := Request{Query: "bike"}.WithProviders(ids)
	ids[0] = "changed"

	assert.Equal(t, []string{"craigslist", "ebay"}, req.ProviderIDs)
}

func TestRadius(t *testing.T) {
	for _, r := range Radii() {
		assert.True(t, r.Valid(), "radius %d", r)
	}
	assert.False(t, Radius(0).Valid())
	assert.False(t, Radius(15).Valid())
	assert.Equal(t, "25 mi", Radius(25).String())
}
