package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/xiaoyuanzhu-com/yaruze/preview"
	"github.com/xiaoyuanzhu-com/yaruze/tui"
)

type FormCmd struct {
	flags  *Flags
	server string
	delay  time.Duration
}

// NewFormCmd creates a new form command
func NewFormCmd(flags *Flags) *FormCmd {
	return &FormCmd{flags: flags}
}

// Register adds the form command to the application
func (cmd *FormCmd) Register(app *cli.Command) *cli.Command {
	defaultServer := fmt.Sprintf("http://localhost:%d", cmd.flags.Config.Port)
	if cmd.flags.Config.PublicBaseURL != "" {
		defaultServer = cmd.flags.Config.PublicBaseURL
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "form",
		Usage:     "Write a declaration in the terminal",
		UsageText: "yaruze form [--server http://localhost:3000]",
		Description: `Opens the declaration form in the terminal. The card preview is checked
against a running server as you type, and the share links point at it.

Keys: tab/shift+tab move between fields, ctrl+y copies the share URL,
esc quits.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "server",
				Aliases:     []string{"s"},
				Usage:       "base URL of a running yaruze server",
				Value:       defaultServer,
				Destination: &cmd.server,
			},
			&cli.DurationFlag{
				Name:        "debounce",
				Usage:       "quiet period after the last keystroke before the preview refreshes",
				Value:       preview.DefaultDelay,
				Destination: &cmd.delay,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *FormCmd) run(ctx context.Context, _ *cli.Command) error {
	return tui.Run(ctx, tui.Options{
		BaseURL: cmd.server,
		Delay:   cmd.delay,
	})
}
