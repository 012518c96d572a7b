package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/hay-kot/criterio"
	"github.com/hay-kot/dealscout/internal/core/provider"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration.
// Unlike Validate(), this checks file access, the browser executable and the
// custom provider templates.
func (c *Config) ValidateDeep(configPath string) error {
	var errs criterio.FieldErrorsBuilder

	if err := c.Validate(); err != nil {
		errs = appendFieldErrors(errs, err)
	}

	errs = c.validateFileAccess(errs, configPath)
	errs = c.validateBrowser(errs)
	errs = c.validateCustomProviders(errs)

	return errs.ToError()
}

// Warnings returns non-fatal issues with the configuration.
func (c *Config) Warnings() []ValidationWarning {
	all, err := c.allProviders()
	if err != nil {
		return nil // reported by ValidateDeep
	}

	var warnings []ValidationWarning
	for _, pattern := range c.Providers.Disabled {
		if len(all.Match([]string{pattern})) == 0 {
			warnings = append(warnings, ValidationWarning{
				Category: "Providers",
				Item:     "providers.disabled",
				Message:  fmt.Sprintf("pattern %q matches no provider", pattern),
			})
		}
	}

	if len(all.Without(c.Providers.Disabled).IDs()) == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Providers",
			Item:     "providers.disabled",
			Message:  "every provider is disabled",
		})
	}

	return warnings
}

// validateFileAccess checks the config file and data directory.
func (c *Config) validateFileAccess(errs criterio.FieldErrorsBuilder, configPath string) criterio.FieldErrorsBuilder {
	if configPath != "" {
		if info, err := os.Stat(configPath); err == nil {
			if info.IsDir() {
				errs = errs.Append("config", fmt.Errorf("%s is a directory, not a file", configPath))
			}
		} else if !os.IsNotExist(err) {
			errs = errs.Append("config", fmt.Errorf("cannot access %s: %w", configPath, err))
		}
	}

	if c.DataDir != "" {
		if info, err := os.Stat(c.DataDir); err == nil {
			if !info.IsDir() {
				errs = errs.Append("data_dir", fmt.Errorf("%s exists but is not a directory", c.DataDir))
			}
		} else if !os.IsNotExist(err) {
			errs = errs.Append("data_dir", fmt.Errorf("cannot access %s: %w", c.DataDir, err))
		}
	}

	return errs
}

// validateBrowser checks a configured browser command can be found.
func (c *Config) validateBrowser(errs criterio.FieldErrorsBuilder) criterio.FieldErrorsBuilder {
	if len(c.Browser.Command) == 0 || c.Browser.Command[0] == "" {
		return errs
	}

	if _, err := exec.LookPath(c.Browser.Command[0]); err != nil {
		errs = errs.Append("browser.command", fmt.Errorf("executable not found: %s", c.Browser.Command[0]))
	}
	return errs
}

// validateCustomProviders checks each custom URL template parses and renders.
func (c *Config) validateCustomProviders(errs criterio.FieldErrorsBuilder) criterio.FieldErrorsBuilder {
	for i, cp := range c.Providers.Custom {
		if cp.ID == "" || cp.URL == "" {
			continue // reported by Validate
		}

		if _, err := provider.Custom(cp.ID, cp.Name, cp.URL, cp.RequiresLogin); err != nil {
			errs = errs.Append(
				fmt.Sprintf("providers.custom[%d].url", i),
				fmt.Errorf("template error: %w (available: {{.Query}}, {{.QueryEscaped}}, {{.PostalCode}}, {{.Radius}})", err),
			)
		}
	}
	return errs
}

// appendFieldErrors copies the fields of err into errs.
func appendFieldErrors(errs criterio.FieldErrorsBuilder, err error) criterio.FieldErrorsBuilder {
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return errs.Append("", err)
	}
	for _, fe := range fieldErrs {
		errs = errs.Append(fe.Field, fe.Err)
	}
	return errs
}
