package commands

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"github.com/xiaoyuanzhu-com/yaruze/config"
	"github.com/xiaoyuanzhu-com/yaruze/declaration"
	"github.com/xiaoyuanzhu-com/yaruze/og"
)

func TestBatchInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   BatchInput
		wantErr string
	}{
		{
			name:    "empty declarations",
			input:   BatchInput{},
			wantErr: "at least one",
		},
		{
			name: "missing out",
			input: BatchInput{Declarations: []BatchItem{
				{Declaration: declaration.Declaration{Title: "Learn"}},
			}},
			wantErr: "declarations[0].out",
		},
		{
			name: "whitespace out",
			input: BatchInput{Declarations: []BatchItem{
				{Declaration: declaration.Declaration{Title: "Learn"}, Out: "  "},
			}},
			wantErr: "required",
		},
		{
			name: "duplicate out",
			input: BatchInput{Declarations: []BatchItem{
				{Out: "a.png"},
				{Out: "./a.png"},
			}},
			wantErr: "duplicate",
		},
		{
			name: "valid input",
			input: BatchInput{Declarations: []BatchItem{
				{Declaration: declaration.Declaration{Title: "Learn"}, Out: "a.png"},
				{Out: "b.png"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.yaml")
	doc := `declarations:
  - title: Learn Rust
    description: 毎日30分
    progress: "40"
    out: rust.png
  - title: 走る
    out: out/run.png
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	in, err := LoadBatch(path)
	require.NoError(t, err)
	require.Len(t, in.Declarations, 2)

	assert.Equal(t, declaration.Declaration{Title: "Learn Rust", Description: "毎日30分", Progress: "40"}, in.Declarations[0].Declaration)
	assert.Equal(t, "rust.png", in.Declarations[0].Out)
	assert.Equal(t, "走る", in.Declarations[1].Title)
	assert.Equal(t, "out/run.png", in.Declarations[1].Out)
}

func TestLoadBatch_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadBatch(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read batch file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("declarations: [\n"), 0o644))
	_, err = LoadBatch(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse batch file")

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("declarations: []\n"), 0o644))
	_, err = LoadBatch(empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid batch file")
}

func newTestComposer(t *testing.T) *og.Composer {
	t.Helper()
	c, err := og.New(og.Config{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return c
}

func assertCard(t *testing.T, path string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, og.Width, cfg.Width)
	assert.Equal(t, og.Height, cfg.Height)
}

func TestRenderBatch(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "abs.png")

	in := BatchInput{Declarations: []BatchItem{
		{Declaration: declaration.Declaration{Title: "Learn Rust", Progress: "40"}, Out: "rust.png"},
		{Declaration: declaration.Declaration{Title: "走る", Description: "毎朝5km"}, Out: "nested/run.png"},
		{Declaration: declaration.Declaration{Title: "Read"}, Out: abs},
	}}

	outs, err := renderBatch(context.Background(), newTestComposer(t), in, dir, 2)
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "rust.png"),
		filepath.Join(dir, "nested", "run.png"),
		abs,
	}
	assert.Equal(t, want, outs)
	for _, out := range outs {
		assertCard(t, out)
	}
}

func TestRenderBatch_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := BatchInput{Declarations: []BatchItem{
		{Declaration: declaration.Declaration{Title: "Learn"}, Out: "a.png"},
	}}

	_, err := renderBatch(ctx, newTestComposer(t), in, dir, 1)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(dir, "a.png"))
}

func newTestApp(out *bytes.Buffer) *cli.Command {
	flags := &Flags{Config: &config.Config{TimeZone: "Asia/Tokyo"}}
	app := &cli.Command{Name: "yaruze", Writer: out}
	return NewRenderCmd(flags).Register(app)
}

func TestRenderCmd_Single(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "card.png")

	err := newTestApp(&out).Run(context.Background(), []string{
		"yaruze", "render", "--title", "Learn Rust", "--progress", "40", "--out", path,
	})
	require.NoError(t, err)

	assert.Equal(t, "wrote "+path+"\n", out.String())
	assertCard(t, path)
}

func TestRenderCmd_Batch(t *testing.T) {
	var out bytes.Buffer
	dir := t.TempDir()
	batch := filepath.Join(dir, "cards.yaml")
	doc := `declarations:
  - title: one
    out: one.png
  - title: two
    out: two.png
`
	require.NoError(t, os.WriteFile(batch, []byte(doc), 0o644))

	err := newTestApp(&out).Run(context.Background(), []string{
		"yaruze", "render", "--batch", batch, "--jobs", "2",
	})
	require.NoError(t, err)

	assertCard(t, filepath.Join(dir, "one.png"))
	assertCard(t, filepath.Join(dir, "two.png"))
	assert.Contains(t, out.String(), "wrote "+filepath.Join(dir, "one.png"))
	assert.Contains(t, out.String(), "wrote "+filepath.Join(dir, "two.png"))
}

func TestRenderCmd_InvalidTimeZone(t *testing.T) {
	var out bytes.Buffer

	err := newTestApp(&out).Run(context.Background(), []string{
		"yaruze", "render", "--title", "Learn", "--tz", "Mars/Olympus",
		"--out", filepath.Join(t.TempDir(), "card.png"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid time zone")
}
