package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/xiaoyuanzhu-com/yaruze/declaration"
	"github.com/xiaoyuanzhu-com/yaruze/log"
	"github.com/xiaoyuanzhu-com/yaruze/og"
	"github.com/xiaoyuanzhu-com/yaruze/server"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const defaultRenderOut = "yaruze.png"

// BatchInput is the YAML document accepted by `render --batch`.
type BatchInput struct {
	Declarations []BatchItem `yaml:"declarations"`
}

// BatchItem is one card to render. Out is resolved relative to the batch
// file.
type BatchItem struct {
	declaration.Declaration `yaml:",inline"`
	Out                     string `yaml:"out"`
}

// Validate checks every item has a distinct output path.
func (in BatchInput) Validate() error {
	if len(in.Declarations) == 0 {
		return errors.New("declarations: at least one entry is required")
	}

	seen := make(map[string]int, len(in.Declarations))
	for i, item := range in.Declarations {
		out := strings.TrimSpace(item.Out)
		if out == "" {
			return fmt.Errorf("declarations[%d].out: required", i)
		}
		if j, ok := seen[filepath.Clean(out)]; ok {
			return fmt.Errorf("declarations[%d].out: duplicate of declarations[%d]", i, j)
		}
		seen[filepath.Clean(out)] = i
	}
	return nil
}

// LoadBatch reads and validates a batch file.
func LoadBatch(path string) (BatchInput, error) {
	var in BatchInput

	data, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("read batch file: %w", err)
	}
	if err := yaml.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parse batch file: %w", err)
	}
	if err := in.Validate(); err != nil {
		return in, fmt.Errorf("invalid batch file: %w", err)
	}
	return in, nil
}

type RenderCmd struct {
	flags *Flags

	d     declaration.Declaration
	out   string
	batch string
	jobs  int

	fontPath     string
	boldFontPath string
	timeZone     string
}

// NewRenderCmd creates a new render command
func NewRenderCmd(flags *Flags) *RenderCmd {
	return &RenderCmd{flags: flags}
}

// Register adds the render command to the application
func (cmd *RenderCmd) Register(app *cli.Command) *cli.Command {
	cfg := cmd.flags.Config

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "render",
		Usage: "Compose cards to PNG files",
		UsageText: `yaruze render --title "Learn Rust" [--description ...] [--progress 40] [--out rust.png]
yaruze render --batch cards.yaml [--jobs 4]`,
		Description: `Composes the same 1200x630 card served at /api/og without starting a server.

Batch file schema:
  declarations:
    - title: Learn Rust
      description: 毎日30分
      progress: "40"
      out: rust.png

Output paths in a batch file are relative to the file itself.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "what you will do",
				Destination: &cmd.d.Title,
			},
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "optional details",
				Destination: &cmd.d.Description,
			},
			&cli.StringFlag{
				Name:        "progress",
				Usage:       "optional progress percentage; printed as given, clamped to 0-100 for the bar",
				Destination: &cmd.d.Progress,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output PNG path",
				Value:       defaultRenderOut,
				Destination: &cmd.out,
			},
			&cli.StringFlag{
				Name:        "batch",
				Aliases:     []string{"b"},
				Usage:       "YAML file with several declarations",
				Destination: &cmd.batch,
			},
			&cli.IntFlag{
				Name:        "jobs",
				Aliases:     []string{"j"},
				Usage:       "cards composed concurrently in batch mode",
				Value:       4,
				Destination: &cmd.jobs,
			},
			&cli.StringFlag{
				Name:        "font",
				Usage:       "regular font file drawn before the built-in fonts",
				Value:       cfg.FontPath,
				Destination: &cmd.fontPath,
			},
			&cli.StringFlag{
				Name:        "bold-font",
				Usage:       "bold font file",
				Value:       cfg.BoldFontPath,
				Destination: &cmd.boldFontPath,
			},
			&cli.StringFlag{
				Name:        "tz",
				Usage:       "time zone of the printed date",
				Value:       cfg.TimeZone,
				Destination: &cmd.timeZone,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RenderCmd) run(ctx context.Context, c *cli.Command) error {
	composer, err := cmd.composer()
	if err != nil {
		return err
	}

	w := c.Root().Writer

	if cmd.batch == "" {
		if err := renderFile(composer, cmd.d, cmd.out); err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %s\n", cmd.out)
		return nil
	}

	in, err := LoadBatch(cmd.batch)
	if err != nil {
		return err
	}
	outs, err := renderBatch(ctx, composer, in, filepath.Dir(cmd.batch), cmd.jobs)
	if err != nil {
		return err
	}
	for _, out := range outs {
		fmt.Fprintf(w, "wrote %s\n", out)
	}
	return nil
}

func (cmd *RenderCmd) composer() (*og.Composer, error) {
	cfg := server.Config{
		FontPath:     cmd.fontPath,
		BoldFontPath: cmd.boldFontPath,
		TimeZone:     cmd.timeZone,
	}
	ogCfg, err := cfg.ToOGConfig()
	if err != nil {
		return nil, err
	}
	composer, err := og.New(ogCfg)
	if err != nil {
		return nil, fmt.Errorf("create image composer: %w", err)
	}
	return composer, nil
}

// renderBatch composes every item with at most jobs compositions in
// flight. The first failure cancels items not yet started. Returns the
// written paths in input order.
func renderBatch(ctx context.Context, composer *og.Composer, in BatchInput, dir string, jobs int) ([]string, error) {
	if jobs < 1 {
		jobs = 1
	}

	outs := make([]string, len(in.Declarations))
	for i, item := range in.Declarations {
		out := item.Out
		if !filepath.IsAbs(out) {
			out = filepath.Join(dir, out)
		}
		outs[i] = out
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, item := range in.Declarations {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := renderFile(composer, item.Declaration, outs[i]); err != nil {
				return fmt.Errorf("declarations[%d]: %w", i, err)
			}
			log.Debug().Str("out", outs[i]).Msg("card rendered")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outs, nil
}

// renderFile writes the card to path. The file is only created once the
// PNG is fully encoded.
func renderFile(composer *og.Composer, d declaration.Declaration, path string) error {
	data, err := composer.RenderPNG(og.KindDeclaration, d)
	if err != nil {
		return fmt.Errorf("compose %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
