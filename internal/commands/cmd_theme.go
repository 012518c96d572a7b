package commands

import (
	"context"
	"fmt"

	"github.com/hay-kot/dealscout/internal/core/prefs"
	"github.com/hay-kot/dealscout/internal/printer"
	"github.com/urfave/cli/v3"
)

type ThemeCmd struct {
	flags *Flags
}

// NewThemeCmd creates a new theme command
func NewThemeCmd(flags *Flags) *ThemeCmd {
	return &ThemeCmd{flags: flags}
}

// Register adds the theme command to the application
func (cmd *ThemeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "theme",
		Usage:       "Show or change the color theme",
		UsageText:   "dealscout theme [light|dark|toggle]",
		Description: "Without an argument, prints the current theme. The choice is remembered for the TUI and command output.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *ThemeCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	svc := cmd.flags.Service

	arg := c.Args().First()
	switch arg {
	case "":
		p.Printf("%s", svc.Theme(ctx))
		return nil
	case "toggle":
		theme, err := svc.ToggleTheme(ctx)
		if err != nil {
			return fmt.Errorf("toggle theme: %w", err)
		}
		p.Successf("Theme set to %s", theme)
		return nil
	}

	theme, err := prefs.ParseTheme(arg)
	if err != nil {
		return err
	}

	if err := svc.SetTheme(ctx, theme); err != nil {
		return fmt.Errorf("set theme: %w", err)
	}

	p.Successf("Theme set to %s", theme)
	return nil
}
