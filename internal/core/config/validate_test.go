package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	names := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		names[i] = fe.Field
	}
	return names
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, validConfig(t).Validate())
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{name: "empty data dir", mutate: func(c *Config) { c.DataDir = "" }, field: "data_dir"},
		{name: "zero stagger", mutate: func(c *Config) { c.Dispatch.Stagger = 0 }, field: "dispatch.stagger"},
		{name: "negative stagger", mutate: func(c *Config) { c.Dispatch.Stagger = -1 }, field: "dispatch.stagger"},
		{name: "bad postal code", mutate: func(c *Config) { c.Defaults.PostalCode = "9021" }, field: "defaults.postal_code"},
		{name: "bad radius", mutate: func(c *Config) { c.Defaults.Radius = 30 }, field: "defaults.radius"},
		{name: "empty browser program", mutate: func(c *Config) { c.Browser.Command = []string{""} }, field: "browser.command"},
		{name: "bad glob", mutate: func(c *Config) { c.Providers.Disabled = []string{"[abc"} }, field: "providers.disabled[0]"},
		{
			name:   "custom without id",
			mutate: func(c *Config) { c.Providers.Custom = []CustomProvider{{URL: "https://x.example"}} },
			field:  "providers.custom[0].id",
		},
		{
			name:   "custom without url",
			mutate: func(c *Config) { c.Providers.Custom = []CustomProvider{{ID: "x"}} },
			field:  "providers.custom[0].url",
		},
		{
			name: "custom duplicate id",
			mutate: func(c *Config) {
				c.Providers.Custom = []CustomProvider{
					{ID: "x", URL: "https://x.example"},
					{ID: "x", URL: "https://y.example"},
				}
			},
			field: "providers.custom[1].id",
		},
		{
			name:   "custom shadows builtin",
			mutate: func(c *Config) { c.Providers.Custom = []CustomProvider{{ID: "ebay", URL: "https://x.example"}} },
			field:  "providers.custom[0].id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			assert.Contains(t, fieldNames(t, err), tt.field)
		})
	}
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	cfg.Providers.Custom = []CustomProvider{
		{ID: "kijiji", Name: "Kijiji", URL: "https://www.kijiji.ca/b-search?q={{ .Query | uri }}&r={{ .Radius }}"},
	}

	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_InvalidTemplate(t *testing.T) {
	cfg := validConfig(t)
	cfg.Providers.Custom = []CustomProvider{
		{ID: "a", URL: "https://a.example/?q={{ .Query }"},
		{ID: "b", URL: "https://b.example/?q={{ .Missing }}"},
	}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 2)
	assert.Equal(t, "providers.custom[0].url", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "template error")
	assert.Equal(t, "providers.custom[1].url", fieldErrs[1].Field)
}

func TestValidateDeep_MissingBrowser(t *testing.T) {
	cfg := validConfig(t)
	cfg.Browser.Command = []string{"definitely-not-a-browser-dealscout"}

	err := cfg.ValidateDeep("")
	assert.Contains(t, fieldNames(t, err), "browser.command")
}

func TestValidateDeep_FileAccess(t *testing.T) {
	cfg := validConfig(t)

	// data dir that is a file
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	cfg.DataDir = file

	// config path that is a directory
	err := cfg.ValidateDeep(t.TempDir())
	names := fieldNames(t, err)
	assert.Contains(t, names, "data_dir")
	assert.Contains(t, names, "config")
}

func TestValidateDeep_IncludesBasicErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Defaults.Radius = 7

	err := cfg.ValidateDeep("")
	assert.Contains(t, fieldNames(t, err), "defaults.radius")
}

func TestWarnings(t *testing.T) {
	cfg := validConfig(t)
	assert.Empty(t, cfg.Warnings())

	cfg.Providers.Custom = []CustomProvider{{ID: "kijiji", URL: "https://kijiji.ca/?q={{ .QueryEscaped }}"}}
	cfg.Providers.Disabled = []string{"kijiji", "nope*"}

	warnings := cfg.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, `"nope*"`)

	cfg.Providers.Disabled = []string{"*"}
	warnings = cfg.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "every provider is disabled")
}
