package commands

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/dealscout/internal/core/search"
	"github.com/hay-kot/dealscout/internal/tui"
)

type TuiCmd struct {
	flags  *Flags
	zip    string
	radius string
}

func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "tui",
		Usage:       "Open the interactive search screen",
		UsageText:   "dealscout tui [--zip CODE] [--radius MILES]",
		Description: "Opens the search form with your favorites and recent searches. This is also what runs when dealscout is started without a command.",
		Flags:       cmd.Flags(),
		Action:      cmd.run,
	})

	return app
}

// Flags returns the prefill flags. They are also registered on the root
// command so 'dealscout --zip 10001' works.
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "zip",
			Usage:       "prefill the ZIP code (defaults to defaults.postal_code)",
			Destination: &cmd.zip,
		},
		&cli.StringFlag{
			Name:        "radius",
			Usage:       "prefill the radius in miles (defaults to defaults.radius)",
			Destination: &cmd.radius,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) options() (tui.Options, error) {
	opts := tui.Options{
		PostalCode: cmd.flags.Config.Defaults.PostalCode,
		Radius:     cmd.flags.Config.Radius(),
	}

	if cmd.zip != "" {
		if err := search.PostalCode(cmd.zip); err != nil {
			return opts, err
		}
		opts.PostalCode = cmd.zip
	}

	if cmd.radius != "" {
		r, err := search.ParseRadius(cmd.radius)
		if err != nil {
			return opts, err
		}
		if !r.Valid() {
			return opts, fmt.Errorf("radius must be one of 5, 10, 25, 50, 100 (got %d)", int(r))
		}
		opts.Radius = r
	}

	return opts, nil
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	opts, err := cmd.options()
	if err != nil {
		return err
	}

	m := tui.New(ctx, cmd.flags.Service, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
