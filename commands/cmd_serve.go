package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/xiaoyuanzhu-com/yaruze/api"
	"github.com/xiaoyuanzhu-com/yaruze/log"
	"github.com/xiaoyuanzhu-com/yaruze/server"
)

// shutdownTimeout bounds how long in-flight requests may take to finish.
const shutdownTimeout = 15 * time.Second

type ServeCmd struct {
	flags *Flags
	cfg   server.Config
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{
		flags: flags,
		cfg:   *server.FromAppConfig(flags.Config),
	}
}

// Flags returns the server flags. Each defaults to its environment value,
// so a bare `yaruze` serves with the environment configuration.
func (cmd *ServeCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "host",
			Usage:       "interface to listen on",
			Value:       cmd.cfg.Host,
			Destination: &cmd.cfg.Host,
		},
		&cli.IntFlag{
			Name:        "port",
			Aliases:     []string{"p"},
			Usage:       "port to listen on",
			Value:       cmd.cfg.Port,
			Destination: &cmd.cfg.Port,
		},
		&cli.StringFlag{
			Name:        "env",
			Usage:       "development or production",
			Value:       cmd.cfg.Env,
			Destination: &cmd.cfg.Env,
		},
		&cli.StringFlag{
			Name:        "public-url",
			Usage:       "scheme and host used for absolute links (e.g. https://yaruze.vercel.app)",
			Value:       cmd.cfg.PublicBaseURL,
			Destination: &cmd.cfg.PublicBaseURL,
		},
		&cli.StringFlag{
			Name:        "font",
			Usage:       "regular font file drawn before the built-in fonts (e.g. a CJK font)",
			Value:       cmd.cfg.FontPath,
			Destination: &cmd.cfg.FontPath,
		},
		&cli.StringFlag{
			Name:        "bold-font",
			Usage:       "bold font file",
			Value:       cmd.cfg.BoldFontPath,
			Destination: &cmd.cfg.BoldFontPath,
		},
		&cli.StringFlag{
			Name:        "tz",
			Usage:       "time zone of the date printed on cards",
			Value:       cmd.cfg.TimeZone,
			Destination: &cmd.cfg.TimeZone,
		},
	}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Run the web app and image endpoint",
		UsageText: "yaruze serve [--port 3000] [--font NotoSansJP-Regular.otf]",
		Description: `Serves the declaration form at /, the share page at /share and the
composed 1200x630 card at /api/og.

Stops gracefully on SIGINT or SIGTERM.`,
		Flags:  cmd.Flags(),
		Action: cmd.run,
	})

	return app
}

// Run executes serve. Exported for use as default command.
func (cmd *ServeCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *ServeCmd) run(ctx context.Context, _ *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := cmd.cfg
	srv, err := server.New(&cfg)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	api.SetupRoutes(srv.Router(), api.NewHandlers(srv))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
