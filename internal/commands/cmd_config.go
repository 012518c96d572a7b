package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/hay-kot/dealscout/internal/core/config"
	"github.com/hay-kot/dealscout/internal/printer"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// ConfigCmd inspects the loaded configuration.
type ConfigCmd struct {
	flags  *Flags
	format string
}

func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command and its subcommands to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Inspect the configuration",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate the configuration file",
				UsageText:   "dealscout config validate [options]",
				Description: "Checks the defaults, the browser command, provider globs, custom provider templates and file access.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.validate,
			},
			{
				Name:        "show",
				Usage:       "Print the effective configuration",
				UsageText:   "dealscout config show",
				Description: "Prints the configuration as YAML after defaults are applied.",
				Action:      cmd.show,
			},
		},
	})

	return app
}

type fieldErrorJSON struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigCmd) validate(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	if cfg == nil {
		return errors.New("configuration not loaded")
	}

	fieldErrs := fieldErrors(cfg.ValidateDeep(cmd.flags.ConfigPath))
	warnings := cfg.Warnings()

	if cmd.format == "json" {
		out := struct {
			Valid    bool                       `json:"valid"`
			Errors   []fieldErrorJSON           `json:"errors,omitempty"`
			Warnings []config.ValidationWarning `json:"warnings,omitempty"`
		}{
			Valid:    len(fieldErrs) == 0,
			Warnings: warnings,
		}
		for _, fe := range fieldErrs {
			out.Errors = append(out.Errors, fieldErrorJSON{Field: fe.Field, Message: fe.Err.Error()})
		}

		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	p := printer.Ctx(ctx)
	p.Printf("Validating %s", p.Muted(cmd.flags.ConfigPath))

	for _, fe := range fieldErrs {
		field := fe.Field
		if field == "" {
			field = "config"
		}
		p.FailItem(field, fe.Err.Error())
	}

	for _, w := range warnings {
		label := w.Category
		if w.Item != "" {
			label += " (" + w.Item + ")"
		}
		p.WarnItem(label, w.Message)
	}

	p.Printf("")
	if len(fieldErrs) > 0 {
		p.Errorf("%d error(s), %d warning(s)", len(fieldErrs), len(warnings))
		return cli.Exit("", 1)
	}

	if len(warnings) > 0 {
		p.Successf("Configuration is valid (%d warning(s))", len(warnings))
		return nil
	}

	p.Successf("Configuration is valid")
	return nil
}

// fieldErrors flattens a validation error so plain errors list like field
// errors with no field.
func fieldErrors(err error) criterio.FieldErrors {
	if err == nil {
		return nil
	}
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	return criterio.FieldErrors{{Err: err}}
}

// effectiveConfig mirrors config.Config with durations rendered as text.
type effectiveConfig struct {
	Browser struct {
		Command []string `yaml:"command,flow"`
	} `yaml:"browser"`
	Dispatch struct {
		Stagger string `yaml:"stagger"`
	} `yaml:"dispatch"`
	Defaults  config.Defaults  `yaml:"defaults"`
	Providers config.Providers `yaml:"providers"`
	DataDir   string           `yaml:"data_dir"`
}

func (cmd *ConfigCmd) show(_ context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	if cfg == nil {
		return errors.New("configuration not loaded")
	}

	var out effectiveConfig
	out.Browser.Command = cfg.Browser.Command
	if len(out.Browser.Command) == 0 {
		out.Browser.Command = cmd.flags.Host.Command()
	}
	out.Dispatch.Stagger = cfg.Dispatch.Stagger.String()
	out.Defaults = cfg.Defaults
	out.Providers = cfg.Providers
	out.DataDir = cfg.DataDir

	enc := yaml.NewEncoder(c.Root().Writer)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
