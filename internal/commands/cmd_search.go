package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/hay-kot/dealscout/internal/core/dispatch"
	"github.com/hay-kot/dealscout/internal/core/history"
	"github.com/hay-kot/dealscout/internal/integration/browser"
	"github.com/hay-kot/dealscout/internal/printer"
	"github.com/hay-kot/dealscout/internal/scout"
	"github.com/hay-kot/dealscout/internal/tui"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

type SearchCmd struct {
	flags     *Flags
	zip       string
	radius    string
	providers []string
	all       bool
	print     bool
	save      bool
}

// NewSearchCmd creates a new search command
func NewSearchCmd(flags *Flags) *SearchCmd {
	return &SearchCmd{flags: flags}
}

// Register adds the search command to the application
func (cmd *SearchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Search every selected marketplace at once",
		UsageText: "dealscout search [options] <query...>",
		Description: `Opens one browser tab per selected site, each searching for the query
near the given ZIP code.

Without --provider or --all, the sites picked last time are used. With no
query on a terminal, a form asks for the search.

Example:
  dealscout search lawn mower --zip 90210 --radius 25
  dealscout search bike --provider craigslist --provider 'e*'
  dealscout search desk --all --print`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "zip",
				Aliases:     []string{"z"},
				Usage:       "5-digit ZIP code (defaults to defaults.postal_code)",
				Destination: &cmd.zip,
			},
			&cli.StringFlag{
				Name:        "radius",
				Aliases:     []string{"r"},
				Usage:       "search radius in miles (5, 10, 25, 50, 100)",
				Destination: &cmd.radius,
			},
			&cli.StringSliceFlag{
				Name:        "provider",
				Aliases:     []string{"p"},
				Usage:       "provider id or glob pattern (repeatable)",
				Destination: &cmd.providers,
			},
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"a"},
				Usage:       "search every provider",
				Destination: &cmd.all,
			},
			&cli.BoolFlag{
				Name:        "print",
				Usage:       "print the URLs instead of opening them",
				Destination: &cmd.print,
			},
			&cli.BoolFlag{
				Name:        "save",
				Usage:       "also save the search as a favorite",
				Destination: &cmd.save,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SearchCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	svc := cmd.flags.Service
	if cmd.print {
		svc = cmd.flags.NewService(browser.NewPrintHost(c.Root().Writer))
	}

	ids, err := selectProviders(ctx, svc, cmd.all, cmd.providers)
	if err != nil {
		return err
	}

	values := tui.SearchFormValues{
		Query:       strings.Join(c.Args().Slice(), " "),
		PostalCode:  cmd.zip,
		Radius:      cmd.radius,
		ProviderIDs: ids,
	}
	if values.PostalCode == "" {
		values.PostalCode = cmd.flags.Config.Defaults.PostalCode
	}
	if values.Radius == "" {
		values.Radius = strconv.Itoa(int(cmd.flags.Config.Radius()))
	}

	if strings.TrimSpace(values.Query) == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		values, err = promptSearch(ctx, svc, values)
		if err != nil {
			return err
		}
	}

	req, err := svc.Validate(values.Query, values.PostalCode, values.Radius)
	if err != nil {
		return err
	}
	req = req.WithProviders(values.ProviderIDs)

	if cmd.save {
		switch err := svc.AddFavorite(ctx, req); {
		case errors.Is(err, history.ErrDuplicateFavorite):
			p.Warnf("Already in favorites")
		case err != nil:
			return fmt.Errorf("save favorite: %w", err)
		default:
			p.Successf("Saved to favorites")
		}
	}

	svc.Startup(ctx)

	res, err := svc.Search(ctx, req)
	if err != nil {
		return dispatchError(p, err)
	}

	return reportDispatch(ctx, p, res, !cmd.print)
}

// selectProviders resolves --all and --provider, falling back to the saved
// selection.
func selectProviders(ctx context.Context, svc *scout.Service, all bool, patterns []string) ([]string, error) {
	registry := svc.Registry()

	switch {
	case all:
		return registry.IDs(), nil
	case len(patterns) > 0:
		ids := registry.Match(patterns)
		if len(ids) == 0 {
			return nil, fmt.Errorf("no provider matches %s; run 'dealscout providers' to list them", strings.Join(patterns, ", "))
		}
		return ids, nil
	default:
		return svc.Selection(ctx), nil
	}
}

// promptSearch asks for the search with the same form the TUI uses.
func promptSearch(ctx context.Context, svc *scout.Service, values tui.SearchFormValues) (tui.SearchFormValues, error) {
	form := tui.NewSearchForm(svc.Registry(), values, svc.Theme(ctx))
	if err := form.Form().RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return values, cli.Exit("", 1)
		}
		return values, fmt.Errorf("search form: %w", err)
	}
	return form.Values(), nil
}

// dispatchError prints the recovery path for a refused dispatch.
func dispatchError(p *printer.Printer, err error) error {
	switch {
	case errors.Is(err, dispatch.ErrPermissionRequired):
		p.Errorf("Browser windows are blocked, so no sites were opened")
		p.Hintf("Allow them, then run 'dealscout permission request'")
		p.Hintf("Run 'dealscout permission help' for step-by-step instructions")
		return cli.Exit("", 1)
	case errors.Is(err, dispatch.ErrNoProvidersSelected):
		p.Errorf("No sites selected")
		p.Hintf("Pass --provider or --all, or run 'dealscout providers' to list them")
		return cli.Exit("", 1)
	default:
		return err
	}
}

// reportDispatch waits for the staggered opens and prints their outcome.
func reportDispatch(ctx context.Context, p *printer.Printer, res *dispatch.Result, verbose bool) error {
	if verbose {
		p.Infof("Opening %d sites for %s", res.Attempted, res.Request.Summary())
	}

	outcomes := res.Wait(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			p.Warnf("%s: %v", o.Task.Provider.Name, o.Err)
		case !o.Opened:
			p.Warnf("%s: window did not open", o.Task.Provider.Name)
		}
	}

	opened := dispatch.Opened(outcomes)
	if !verbose {
		return nil
	}

	if opened < res.Attempted {
		p.Warnf("Opened %d of %d sites", opened, res.Attempted)
		return nil
	}

	p.Successf("Opened %d sites", opened)
	return nil
}
