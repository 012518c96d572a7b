package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hay-kot/dealscout/internal/core/history"
	"github.com/hay-kot/dealscout/internal/printer"
	"github.com/urfave/cli/v3"
)

// savedList implements the subcommands shared by favorites and recent.
type savedList struct {
	flags *Flags
	kind  history.Kind
	label string
}

func (l *savedList) commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "ls",
			Usage:     "List " + l.label,
			UsageText: "dealscout " + l.kindCmd() + " ls",
			Action:    l.list,
		},
		{
			Name:      "rm",
			Usage:     "Remove entry N",
			UsageText: "dealscout " + l.kindCmd() + " rm <N>",
			Action:    l.remove,
		},
		{
			Name:      "run",
			Usage:     "Search entry N again",
			UsageText: "dealscout " + l.kindCmd() + " run <N>",
			Action:    l.run,
		},
		{
			Name:      "clear",
			Usage:     "Remove every entry",
			UsageText: "dealscout " + l.kindCmd() + " clear",
			Action:    l.clear,
		},
	}
}

func (l *savedList) kindCmd() string {
	if l.kind == history.KindFavorites {
		return "fav"
	}
	return "recent"
}

func (l *savedList) list(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	entries, err := l.flags.Service.List(ctx, l.kind)
	if err != nil {
		return fmt.Errorf("list %s: %w", l.label, err)
	}

	if len(entries) == 0 {
		p.Infof("No %s yet", l.label)
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tQUERY\tZIP\tRADIUS\tSITES\tSAVED")

	for i, e := range entries {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			e.Query,
			e.PostalCode,
			e.Radius,
			strings.Join(e.ProviderIDs, ","),
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}

	return w.Flush()
}

func (l *savedList) remove(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	index, err := indexArg(c)
	if err != nil {
		return err
	}

	if err := l.flags.Service.Remove(ctx, l.kind, index); err != nil {
		return indexError(p, err)
	}

	p.Successf("Removed entry %d", index+1)
	return nil
}

func (l *savedList) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	index, err := indexArg(c)
	if err != nil {
		return err
	}

	svc := l.flags.Service
	svc.Startup(ctx)

	res, err := svc.Rerun(ctx, l.kind, index)
	if err != nil {
		if errors.Is(err, history.ErrIndexOutOfRange) {
			return indexError(p, err)
		}
		return dispatchError(p, err)
	}

	return reportDispatch(ctx, p, res, true)
}

func (l *savedList) clear(ctx context.Context, _ *cli.Command) error {
	if err := l.flags.Service.Clear(ctx, l.kind); err != nil {
		return fmt.Errorf("clear %s: %w", l.label, err)
	}

	printer.Ctx(ctx).Successf("Cleared %s", l.label)
	return nil
}

// indexArg parses the 1-based entry number and returns it 0-based.
func indexArg(c *cli.Command) (int, error) {
	raw := c.Args().First()
	if raw == "" {
		return 0, fmt.Errorf("entry number is required")
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid entry number %q", raw)
	}

	return n - 1, nil
}

func indexError(p *printer.Printer, err error) error {
	if errors.Is(err, history.ErrIndexOutOfRange) {
		p.Warnf("No such entry")
		return cli.Exit("", 1)
	}
	return err
}
