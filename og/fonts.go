package og

import (
	"fmt"
	"image"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// fontSet holds parsed fonts in priority order. Parsed fonts are immutable
// and shared by every composition; faces are created per composition.
type fontSet struct {
	regular []*opentype.Font
	bold    []*opentype.Font
}

// loadFonts parses the optional configured font files and appends the Go
// fonts as the last resort for every glyph.
func loadFonts(regularPath, boldPath string) (*fontSet, error) {
	goRegular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse go regular font: %w", err)
	}
	goBold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse go bold font: %w", err)
	}

	fs := &fontSet{}

	if regularPath != "" {
		f, err := parseFontFile(regularPath)
		if err != nil {
			return nil, err
		}
		fs.regular = append(fs.regular, f)
		// A single configured font also serves bold text when no bold
		// file is given; CJK coverage matters more than weight.
		if boldPath == "" {
			fs.bold = append(fs.bold, f)
		}
	}
	if boldPath != "" {
		f, err := parseFontFile(boldPath)
		if err != nil {
			return nil, err
		}
		fs.bold = append(fs.bold, f)
	}

	fs.regular = append(fs.regular, goRegular)
	fs.bold = append(fs.bold, goBold)
	return fs, nil
}

func parseFontFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		// Font collections (.ttc) hold several faces; take the first.
		coll, cerr := opentype.ParseCollection(data)
		if cerr != nil {
			return nil, fmt.Errorf("parse font %s: %w", path, err)
		}
		f, err = coll.Font(0)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", path, err)
		}
	}
	return f, nil
}

// face builds a fallback face of the given pixel size.
func (fs *fontSet) face(bold bool, size float64) (*fallbackFace, error) {
	fonts := fs.regular
	if bold {
		fonts = fs.bold
	}

	ff := &fallbackFace{fonts: fonts}
	for _, f := range fonts {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72, // 1pt == 1px
			Hinting: font.HintingNone,
		})
		if err != nil {
			ff.Close()
			return nil, fmt.Errorf("create face: %w", err)
		}
		ff.faces = append(ff.faces, face)
	}
	return ff, nil
}

// fallbackFace draws each rune with the first font that has a glyph for it.
// Not safe for concurrent use.
type fallbackFace struct {
	fonts []*opentype.Font
	faces []font.Face
	buf   sfnt.Buffer
}

func (f *fallbackFace) pick(r rune) font.Face {
	for i, sf := range f.fonts {
		idx, err := sf.GlyphIndex(&f.buf, r)
		if err == nil && idx != 0 {
			return f.faces[i]
		}
	}
	// .notdef from the last resort font
	return f.faces[len(f.faces)-1]
}

func (f *fallbackFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	return f.pick(r).Glyph(dot, r)
}

func (f *fallbackFace) GlyphBounds(r rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	return f.pick(r).GlyphBounds(r)
}

func (f *fallbackFace) GlyphAdvance(r rune) (fixed.Int26_6, bool) {
	return f.pick(r).GlyphAdvance(r)
}

func (f *fallbackFace) Kern(r0, r1 rune) fixed.Int26_6 {
	a, b := f.pick(r0), f.pick(r1)
	if a != b {
		return 0
	}
	return a.Kern(r0, r1)
}

// Metrics merges the metrics of all faces so mixed-script lines share one
// baseline and line height.
func (f *fallbackFace) Metrics() font.Metrics {
	var m font.Metrics
	for _, face := range f.faces {
		fm := face.Metrics()
		if fm.Height > m.Height {
			m.Height = fm.Height
		}
		if fm.Ascent > m.Ascent {
			m.Ascent = fm.Ascent
		}
		if fm.Descent > m.Descent {
			m.Descent = fm.Descent
		}
		if m.XHeight == 0 {
			m.XHeight = fm.XHeight
			m.CapHeight = fm.CapHeight
		}
	}
	return m
}

func (f *fallbackFace) Close() error {
	var first error
	for _, face := range f.faces {
		if err := face.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
