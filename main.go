package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"
	"github.com/xiaoyuanzhu-com/yaruze/commands"
	"github.com/xiaoyuanzhu-com/yaruze/config"
	"github.com/xiaoyuanzhu-com/yaruze/log"
)

// Populated at build-time via -ldflags.
var (
	version = "dev"
	commit  = "HEAD"
)

func build() string {
	v, c := version, commit
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
				}
			}
		}
	}
	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("%s (%s)", v, c)
}

func main() {
	ctx := context.Background()
	cfg := config.Get()

	// Set Gin to release mode to disable its default debug logging
	// We use our own zerolog-based request logger instead
	gin.SetMode(gin.ReleaseMode)

	flags := &commands.Flags{Config: cfg}

	app := &cli.Command{
		Name:      "yaruze",
		Usage:     "Declare what you will do and share it as an image",
		UsageText: "yaruze [global options] [command [command options]]",
		Description: `YARUZE turns a declaration ("I will do X") into a 1200x630 share card
and links for X and LINE.

Run 'yaruze' with no arguments to serve the web app with the environment
configuration (PORT, HOST, ENV, PUBLIC_BASE_URL, OG_FONT_PATH,
OG_BOLD_FONT_PATH, OG_TIMEZONE).`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("LOG_LEVEL"),
				Value:       cfg.LogLevel,
				Destination: &flags.LogLevel,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			log.SetLevel(flags.LogLevel)
			return ctx, nil
		},
	}

	serveCmd := commands.NewServeCmd(flags)

	app = serveCmd.Register(app)
	app = commands.NewRenderCmd(flags).Register(app)
	app = commands.NewFormCmd(flags).Register(app)

	// Serve is the default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'yaruze --help' for usage", c.Args().First())
		}
		return serveCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("yaruze failed")
		exitCode = 1
	}

	os.Exit(exitCode)
}
