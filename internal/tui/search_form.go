package tui

import (
	"errors"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/hay-kot/dealscout/internal/core/prefs"
	"github.com/hay-kot/dealscout/internal/core/provider"
	"github.com/hay-kot/dealscout/internal/core/search"
	"github.com/hay-kot/dealscout/internal/styles"
)

// SearchFormValues holds the raw values entered in the search form.
type SearchFormValues struct {
	Query       string
	PostalCode  string
	Radius      string
	ProviderIDs []string
}

// valuesFromRequest prefills the form from a saved search.
func valuesFromRequest(req search.Request) SearchFormValues {
	return SearchFormValues{
		Query:       req.Query,
		PostalCode:  req.PostalCode,
		Radius:      strconv.Itoa(int(req.Radius)),
		ProviderIDs: append([]string(nil), req.ProviderIDs...),
	}
}

// SearchForm wraps a huh.Form for entering a search.
type SearchForm struct {
	form   *huh.Form
	values *SearchFormValues
}

// NewSearchForm creates a search form over the providers in registry,
// prefilled with values.
func NewSearchForm(registry *provider.Registry, values SearchFormValues, theme prefs.Theme) *SearchForm {
	if values.Radius == "" {
		values.Radius = strconv.Itoa(int(search.DefaultRadius))
	}

	f := &SearchForm{values: &values}

	radii := search.Radii()
	radiusOptions := make([]huh.Option[string], len(radii))
	for i, r := range radii {
		radiusOptions[i] = huh.NewOption(r.String(), strconv.Itoa(int(r)))
	}

	all := registry.All()
	providerOptions := make([]huh.Option[string], len(all))
	for i, p := range all {
		label := p.Name
		if p.RequiresLogin {
			label += " (login)"
		}
		providerOptions[i] = huh.NewOption(label, p.ID)
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Search").
				Placeholder("lawn mower").
				Value(&f.values.Query).
				Validate(search.Query),
			huh.NewInput().
				Title("ZIP code").
				Placeholder("90210").
				CharLimit(5).
				Value(&f.values.PostalCode).
				Validate(search.PostalCode),
			huh.NewSelect[string]().
				Title("Radius").
				Options(radiusOptions...).
				Value(&f.values.Radius),
			huh.NewMultiSelect[string]().
				Title("Sites").
				Options(providerOptions...).
				Value(&f.values.ProviderIDs).
				Validate(func(ids []string) error {
					if len(ids) == 0 {
						return errors.New("pick at least one site")
					}
					return nil
				}),
		),
	).WithTheme(styles.FormTheme(theme)).WithShowHelp(false)

	return f
}

// Form returns the underlying huh.Form for tea.Model integration.
func (f *SearchForm) Form() *huh.Form {
	return f.form
}

// Values returns the current form values.
func (f *SearchForm) Values() SearchFormValues {
	v := *f.values
	v.ProviderIDs = append([]string(nil), v.ProviderIDs...)
	return v
}

// View renders the form.
func (f *SearchForm) View() string {
	return f.form.View()
}
