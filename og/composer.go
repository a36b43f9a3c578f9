// Package og composes the 1200×630 social preview images (OGP / Twitter
// cards) for declarations.
//
// Composition is a pure function of the declaration, the layout kind and
// the current date. A Composer holds only immutable parsed fonts and is
// safe for concurrent use; all faces and pixel buffers are per call.
package og

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"time"

	"github.com/xiaoyuanzhu-com/yaruze/declaration"
	"golang.org/x/image/font"
)

// Kind selects one of the fixed card layouts.
type Kind int

const (
	// KindDeclaration is the parameterized card served by /api/og.
	KindDeclaration Kind = iota
	// KindSiteBanner is the site-wide fallback preview image.
	KindSiteBanner
	// KindSharePlain is the fallback image of the share page.
	KindSharePlain
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindDeclaration:
		return "declaration"
	case KindSiteBanner:
		return "site-banner"
	case KindSharePlain:
		return "share-plain"
	default:
		return "unknown"
	}
}

// Config configures a Composer.
type Config struct {
	// FontPath and BoldFontPath point at optional font files that take
	// priority over the built-in Go fonts, e.g. a CJK font.
	FontPath     string
	BoldFontPath string

	// Location is the time zone of the printed date. Defaults to UTC.
	Location *time.Location

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Composer renders declaration cards.
type Composer struct {
	fonts *fontSet
	loc   *time.Location
	now   func() time.Time
}

// New parses the fonts and returns a ready Composer.
func New(cfg Config) (*Composer, error) {
	fonts, err := loadFonts(cfg.FontPath, cfg.BoldFontPath)
	if err != nil {
		return nil, err
	}

	c := &Composer{
		fonts: fonts,
		loc:   cfg.Location,
		now:   cfg.Now,
	}
	if c.loc == nil {
		c.loc = time.UTC
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// Compose draws the card of the given kind. Declaration defaults are
// applied here; KindSiteBanner and KindSharePlain ignore d.
//
// A panic inside the rasterizer is returned as an error so callers never
// see a partially drawn image.
func (c *Composer) Compose(kind Kind, d declaration.Declaration) (img *image.RGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("compose %s: panic: %v", kind, r)
		}
	}()

	faces := newFaceCache(c.fonts)
	defer faces.Close()

	img = image.NewRGBA(image.Rect(0, 0, Width, Height))
	date := formatDate(c.now().In(c.loc))

	switch kind {
	case KindDeclaration:
		err = c.drawDeclaration(img, faces, date, d.WithDefaults())
	case KindSiteBanner:
		err = c.drawBanner(img, faces, date)
	case KindSharePlain:
		err = c.drawSharePlain(img, faces, date)
	default:
		err = fmt.Errorf("unknown card kind %d", int(kind))
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// RenderPNG composes the card and encodes it as PNG.
func (c *Composer) RenderPNG(kind Kind, d declaration.Declaration) ([]byte, error) {
	img, err := c.Compose(kind, d)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Render writes the PNG to w. Nothing is written unless composition and
// encoding both succeed.
func (c *Composer) Render(w io.Writer, kind Kind, d declaration.Declaration) error {
	data, err := c.RenderPNG(kind, d)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

func (c *Composer) drawDeclaration(img *image.RGBA, faces *faceCache, date string, d declaration.Declaration) error {
	th := vividTheme
	if err := drawChrome(img, faces, th, date); err != nil {
		return err
	}

	titleFace, err := faces.get(titleStyle)
	if err != nil {
		return err
	}
	descFace, err := faces.get(descriptionStyle)
	if err != nil {
		return err
	}
	progressFace, err := faces.get(progressStyle)
	if err != nil {
		return err
	}

	f := newFrame(th)
	p := planCard(f, titleFace, descFace, progressFace, d)

	dropShadow(img, p.card, cardRadius, 4, 20, 0.2)
	fillRoundedRect(img, p.card, cardRadius, hexAlpha("#FFFFFF", 0.9))

	inner := p.card.Inset(cardPadding)
	drawCentered(img, titleFace, titleStyle, p.titleLines, inner.Min.X, inner.Dx(), p.titleTop)
	if len(p.descriptionLines) > 0 {
		drawCentered(img, descFace, descriptionStyle, p.descriptionLines, inner.Min.X, inner.Dx(), p.descriptionTop)
	}

	if p.showProgress {
		drawCentered(img, progressFace, progressStyle, []string{p.progressLabel}, p.bar.Min.X, p.bar.Dx(), p.labelTop)
		fillRoundedRect(img, p.bar, progressBarR, barTrack)
		fill := image.Rect(p.bar.Min.X, p.bar.Min.Y, p.bar.Min.X+p.barFillWidth, p.bar.Max.Y)
		fillRoundedRectClipped(img, p.bar, fill, progressBarR, barFill)
	}
	return nil
}

func (c *Composer) drawBanner(img *image.RGBA, faces *faceCache, date string) error {
	th := bannerTheme
	if err := drawChrome(img, faces, th, date); err != nil {
		return err
	}

	headline := textStyle{size: 48, bold: true, color: white, shadow: heavyShadow, shadowDY: 2}
	tagline := textStyle{size: 24, color: white, shadow: heavyShadow, shadowDY: 1}
	return drawStacked(img, faces, newFrame(th).content, headline, SiteHeadline, tagline, SiteTagline)
}

func (c *Composer) drawSharePlain(img *image.RGBA, faces *faceCache, date string) error {
	th := plainTheme
	if err := drawChrome(img, faces, th, date); err != nil {
		return err
	}

	card := newFrame(th).content
	dropShadow(img, card, cardRadius, 4, 8, 0.1)
	fillRoundedRect(img, card, cardRadius, white)

	headline := textStyle{size: 48, bold: true, color: hexColor("#333333")}
	tagline := textStyle{size: 24, color: hexColor("#666666")}
	return drawStacked(img, faces, card.Inset(cardPadding), headline, ShareHeadline, tagline, SiteTagline)
}

// drawChrome paints backdrop, watermark, header and footer.
func drawChrome(img *image.RGBA, faces *faceCache, th theme, date string) error {
	if th.gradient {
		fillDiagonalGradient(img, vividStops)
	} else {
		fillSolid(img, img.Bounds(), th.backdrop)
	}

	if th.watermark {
		if err := drawWatermark(img, faces); err != nil {
			return err
		}
	}

	f := newFrame(th)

	brandFace, err := faces.get(th.brand)
	if err != nil {
		return err
	}
	drawLine(img, brandFace, th.brand, Brand, f.header.Min.X, f.header.Min.Y)

	dateFace, err := faces.get(th.date)
	if err != nil {
		return err
	}
	dateTop := f.header.Min.Y + (f.header.Dy()-th.date.lineHeight())/2
	drawLine(img, dateFace, th.date, date, f.header.Max.X-measure(dateFace, date), dateTop)

	footerFace, err := faces.get(th.footer)
	if err != nil {
		return err
	}
	drawCentered(img, footerFace, th.footer, []string{declaration.Hashtag}, f.footer.Min.X, f.footer.Dx(), f.footer.Min.Y)
	return nil
}

// drawWatermark tiles the phrase in rotated bands across the canvas.
func drawWatermark(img *image.RGBA, faces *faceCache) error {
	face, err := faces.get(watermarkStyle)
	if err != nil {
		return err
	}

	text := watermarkText()
	lh := watermarkStyle.lineHeight()
	band := image.NewRGBA(image.Rect(0, 0, measure(face, text)+1, lh))
	drawLine(band, face, watermarkStyle, text, 0, 0)

	for i := 0; i < watermarkBands; i++ {
		top := i * watermarkSpacing
		cx := float64(Width) / 2
		cy := float64(top) + float64(lh)/2
		rotatedOnto(img, band, image.Pt(0, top), cx, cy, watermarkAngle)
	}
	return nil
}

// drawStacked centers a headline above a tagline inside area.
func drawStacked(img *image.RGBA, faces *faceCache, area image.Rectangle, headline textStyle, headText string, tagline textStyle, tagText string) error {
	headFace, err := faces.get(headline)
	if err != nil {
		return err
	}
	tagFace, err := faces.get(tagline)
	if err != nil {
		return err
	}

	headLines := wrapText(headFace, headText, area.Dx(), 2)
	tagLines := wrapText(tagFace, tagText, area.Dx(), 2)

	block := len(headLines)*headline.lineHeight() + titleGap + len(tagLines)*tagline.lineHeight()
	top := area.Min.Y + (area.Dy()-block)/2
	next := drawCentered(img, headFace, headline, headLines, area.Min.X, area.Dx(), top)
	drawCentered(img, tagFace, tagline, tagLines, area.Min.X, area.Dx(), next+titleGap)
	return nil
}

// faceCache creates each (weight, size) face once per composition.
type faceCache struct {
	fonts *fontSet
	faces map[faceKey]*fallbackFace
}

type faceKey struct {
	bold bool
	size float64
}

func newFaceCache(fonts *fontSet) *faceCache {
	return &faceCache{fonts: fonts, faces: make(map[faceKey]*fallbackFace)}
}

func (fc *faceCache) get(st textStyle) (font.Face, error) {
	key := faceKey{bold: st.bold, size: st.size}
	if f, ok := fc.faces[key]; ok {
		return f, nil
	}
	f, err := fc.fonts.face(st.bold, st.size)
	if err != nil {
		return nil, err
	}
	fc.faces[key] = f
	return f, nil
}

func (fc *faceCache) Close() {
	for _, f := range fc.faces {
		f.Close()
	}
}
