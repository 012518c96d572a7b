package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/hay-kot/dealscout/internal/core/permission"
	"github.com/hay-kot/dealscout/internal/printer"
	"github.com/hay-kot/dealscout/internal/styles"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

type PermissionCmd struct {
	flags *Flags
	raw   bool
}

// NewPermissionCmd creates a new permission command
func NewPermissionCmd(flags *Flags) *PermissionCmd {
	return &PermissionCmd{flags: flags}
}

// Register adds the permission command to the application
func (cmd *PermissionCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "permission",
		Aliases:   []string{"perm"},
		Usage:     "Check whether dealscout can open browser windows",
		UsageText: "dealscout permission <command>",
		Description: `dealscout needs to open one browser window per site. When the browser or
the desktop blocks that, searches are refused until you fix it and run
'dealscout permission request'.`,
		HideHelpCommand: true,
		Commands: []*cli.Command{
			{
				Name:      "status",
				Usage:     "Probe the browser and show the result",
				UsageText: "dealscout permission status",
				Action:    cmd.status,
			},
			{
				Name:      "request",
				Usage:     "Check again after allowing browser windows",
				UsageText: "dealscout permission request",
				Action:    cmd.request,
			},
			{
				Name:      "help",
				Usage:     "Show how to allow browser windows",
				UsageText: "dealscout permission help [--raw]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "raw",
						Usage:       "print the markdown source",
						Destination: &cmd.raw,
					},
				},
				Action: cmd.help,
			},
		},
	})

	return app
}

func (cmd *PermissionCmd) status(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)
	svc := cmd.flags.Service

	state := svc.Startup(ctx)

	p.Printf("Browser:    %s", svc.Family())
	p.Printf("Permission: %s", statusText(p, state))

	if state == permission.Blocked {
		p.Hintf("Run 'dealscout permission help' for instructions")
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *PermissionCmd) request(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	state := cmd.flags.Service.RequestPermission(ctx, permission.NewGesture("cli:permission request"))
	if state != permission.Allowed {
		p.Errorf("Browser windows are still blocked")
		p.Hintf("Run 'dealscout permission help' for instructions")
		return cli.Exit("", 1)
	}

	p.Successf("Browser windows allowed")
	return nil
}

func (cmd *PermissionCmd) help(ctx context.Context, c *cli.Command) error {
	svc := cmd.flags.Service
	md := svc.Instructions()
	out := c.Root().Writer

	fd := int(os.Stdout.Fd())
	if cmd.raw || !term.IsTerminal(fd) {
		_, err := fmt.Fprint(out, md)
		return err
	}

	width := 80
	if w, _, err := term.GetSize(fd); err == nil && w > 0 && w < width {
		width = w
	}

	rendered, err := styles.RenderMarkdown(md, svc.Theme(ctx), width)
	if err != nil {
		return fmt.Errorf("render instructions: %w", err)
	}

	_, err = fmt.Fprint(out, rendered)
	return err
}

func statusText(p *printer.Printer, state permission.State) string {
	switch state {
	case permission.Allowed:
		return p.StatusOK(state.String())
	case permission.Blocked:
		return p.StatusFailed(state.String())
	default:
		return p.StatusWarn(state.String())
	}
}
