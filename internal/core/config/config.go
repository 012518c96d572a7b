// Package config handles configuration loading and validation for dealscout.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
	"github.com/hay-kot/dealscout/internal/core/provider"
	"github.com/hay-kot/dealscout/internal/core/search"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Browser   Browser   `yaml:"browser"`
	Dispatch  Dispatch  `yaml:"dispatch"`
	Defaults  Defaults  `yaml:"defaults"`
	Providers Providers `yaml:"providers"`
	DataDir   string    `yaml:"-"` // set by caller, not from config file
}

// Browser configures how URLs are opened.
type Browser struct {
	// Command is the program and leading arguments; the URL is appended.
	// Empty uses the platform opener.
	Command []string `yaml:"command"`
}

// Dispatch configures the multi-tab launch.
type Dispatch struct {
	// Stagger is the delay between consecutive tabs.
	Stagger time.Duration `yaml:"stagger"`
}

// Defaults prefill the search form and flags.
type Defaults struct {
	PostalCode string `yaml:"postal_code"`
	Radius     int    `yaml:"radius"`
}

// Providers adjusts the provider registry.
type Providers struct {
	// Disabled holds glob patterns of provider ids to hide.
	Disabled []string         `yaml:"disabled"`
	Custom   []CustomProvider `yaml:"custom"`
}

// CustomProvider defines a marketplace by URL template. The template sees
// {{ .Query }}, {{ .QueryEscaped }}, {{ .PostalCode }} and {{ .Radius }},
// and the uri function.
type CustomProvider struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	URL           string `yaml:"url"`
	RequiresLogin bool   `yaml:"requires_login"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Browser: Browser{
			Command: []string{},
		},
		Dispatch: Dispatch{
			Stagger: 100 * time.Millisecond,
		},
		Defaults: Defaults{
			Radius: int(search.DefaultRadius),
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Dispatch.Stagger == 0 {
		c.Dispatch.Stagger = defaults.Dispatch.Stagger
	}
	if c.Defaults.Radius == 0 {
		c.Defaults.Radius = defaults.Defaults.Radius
	}
	for i := range c.Providers.Custom {
		if c.Providers.Custom[i].Name == "" {
			c.Providers.Custom[i].Name = c.Providers.Custom[i].ID
		}
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("data directory cannot be empty"))
	}

	if len(c.Browser.Command) > 0 && c.Browser.Command[0] == "" {
		errs = errs.Append("browser.command", fmt.Errorf("program name cannot be empty"))
	}

	if c.Dispatch.Stagger <= 0 {
		errs = errs.Append("dispatch.stagger", fmt.Errorf("must be greater than zero (got %s)", c.Dispatch.Stagger))
	}

	if c.Defaults.PostalCode != "" {
		if err := search.PostalCode(c.Defaults.PostalCode); err != nil {
			errs = errs.Append("defaults.postal_code", err)
		}
	}

	if !search.Radius(c.Defaults.Radius).Valid() {
		errs = errs.Append("defaults.radius", fmt.Errorf("must be one of 5, 10, 25, 50, 100 (got %d)", c.Defaults.Radius))
	}

	for i, pattern := range c.Providers.Disabled {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("providers.disabled[%d]", i), fmt.Errorf("invalid glob %q", pattern))
		}
	}

	builtins := provider.Default()
	seen := make(map[string]bool, len(c.Providers.Custom))
	for i, cp := range c.Providers.Custom {
		field := fmt.Sprintf("providers.custom[%d]", i)

		switch {
		case cp.ID == "":
			errs = errs.Append(field+".id", fmt.Errorf("id is required"))
		case seen[cp.ID]:
			errs = errs.Append(field+".id", fmt.Errorf("duplicate id %q", cp.ID))
		default:
			if _, ok := builtins.Get(cp.ID); ok {
				errs = errs.Append(field+".id", fmt.Errorf("id %q is already used by a built-in provider", cp.ID))
			}
		}
		seen[cp.ID] = true

		if cp.URL == "" {
			errs = errs.Append(field+".url", fmt.Errorf("url is required"))
		}
	}

	return errs.ToError()
}

// StateFile returns the path to the persisted state file.
func (c *Config) StateFile() string {
	return filepath.Join(c.DataDir, "state.json")
}

// Radius returns the default search radius.
func (c *Config) Radius() search.Radius {
	return search.Radius(c.Defaults.Radius)
}

// Registry builds the provider registry: the built-ins followed by custom
// providers, minus anything matching providers.disabled.
func (c *Config) Registry() (*provider.Registry, error) {
	all, err := c.allProviders()
	if err != nil {
		return nil, err
	}
	return all.Without(slices.Clone(c.Providers.Disabled)), nil
}

func (c *Config) allProviders() (*provider.Registry, error) {
	providers := provider.Builtins()

	for _, cp := range c.Providers.Custom {
		p, err := provider.Custom(cp.ID, cp.Name, cp.URL, cp.RequiresLogin)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	return provider.NewRegistry(providers...)
}
