package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hay-kot/dealscout/internal/core/history"
	"github.com/hay-kot/dealscout/internal/printer"
	"github.com/urfave/cli/v3"
)

type FavCmd struct {
	flags     *Flags
	list      *savedList
	zip       string
	radius    string
	providers []string
	all       bool
}

// NewFavCmd creates a new fav command
func NewFavCmd(flags *Flags) *FavCmd {
	return &FavCmd{
		flags: flags,
		list:  &savedList{flags: flags, kind: history.KindFavorites, label: "favorites"},
	}
}

// Register adds the fav command to the application
func (cmd *FavCmd) Register(app *cli.Command) *cli.Command {
	add := &cli.Command{
		Name:      "add",
		Usage:     "Save a search as a favorite",
		UsageText: "dealscout fav add [options] <query...>",
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
				Usage:       "use every provider",
				Destination: &cmd.all,
			},
		},
		Action: cmd.add,
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "fav",
		Aliases:   []string{"favorites"},
		Usage:     "Manage favorite searches",
		UsageText: "dealscout fav <command>",
		Description: `Favorites are searches you keep. Entries are numbered from 1 in the order
they were saved; use those numbers with rm and run.`,
		Commands: append([]*cli.Command{add}, cmd.list.commands()...),
	})

	return app
}

func (cmd *FavCmd) add(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	svc := cmd.flags.Service

	ids, err := selectProviders(ctx, svc, cmd.all, cmd.providers)
	if err != nil {
		return err
	}

	zip := cmd.zip
	if zip == "" {
		zip = cmd.flags.Config.Defaults.PostalCode
	}
	radius := cmd.radius
	if radius == "" {
		radius = strconv.Itoa(int(cmd.flags.Config.Radius()))
	}

	req, err := svc.Validate(strings.Join(c.Args().Slice(), " "), zip, radius)
	if err != nil {
		return err
	}

	if err := svc.AddFavorite(ctx, req.WithProviders(ids)); err != nil {
		if errors.Is(err, history.ErrDuplicateFavorite) {
			p.Warnf("Already in favorites")
			return nil
		}
		return fmt.Errorf("save favorite: %w", err)
	}

	p.Successf("Saved %s", req.Summary())
	return nil
}
