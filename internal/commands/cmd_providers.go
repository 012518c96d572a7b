package commands

import (
	"context"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
)

type ProvidersCmd struct {
	flags *Flags
}

// NewProvidersCmd creates a new providers command
func NewProvidersCmd(flags *Flags) *ProvidersCmd {
	return &ProvidersCmd{flags: flags}
}

// Register adds the providers command to the application
func (cmd *ProvidersCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "providers",
		Usage:       "List the marketplaces dealscout can search",
		UsageText:   "dealscout providers",
		Description: "Displays every enabled provider, whether it needs a login, and whether it is in the current selection.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *ProvidersCmd) run(ctx context.Context, c *cli.Command) error {
	svc := cmd.flags.Service
	selected := svc.Selection(ctx)

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tLOGIN\tSELECTED")

	for _, p := range svc.Registry().All() {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, yesNo(p.RequiresLogin), yesNo(slices.Contains(selected, p.ID)))
	}

	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
