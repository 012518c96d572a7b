package commands

import (
	"github.com/hay-kot/dealscout/internal/core/history"
	"github.com/urfave/cli/v3"
)

type RecentCmd struct {
	list *savedList
}

// NewRecentCmd creates a new recent command
func NewRecentCmd(flags *Flags) *RecentCmd {
	return &RecentCmd{
		list: &savedList{flags: flags, kind: history.KindRecent, label: "recent searches"},
	}
}

// Register adds the recent command to the application
func (cmd *RecentCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "recent",
		Aliases:   []string{"history"},
		Usage:     "Manage recent searches",
		UsageText: "dealscout recent <command>",
		Description: `Every search that opened at least one site is kept here, newest first.
Running the same search again moves it to the top instead of adding a copy.
Only the last 10 are kept.`,
		Commands: cmd.list.commands(),
	})

	return app
}
