package og

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
)

// gradientStop is one color stop of a linear gradient, pos in [0,1].
type gradientStop struct {
	color colorful.Color
	pos   float64
}

func stop(hex string, pos float64) gradientStop {
	return gradientStop{color: colorful.MustParseHex(hex), pos: pos}
}

// sample interpolates the stops in sRGB, as browsers do for CSS gradients.
func sample(stops []gradientStop, t float64) color.RGBA {
	if t <= stops[0].pos {
		return toRGBA(stops[0].color)
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].pos {
			a, b := stops[i-1], stops[i]
			local := (t - a.pos) / (b.pos - a.pos)
			return toRGBA(a.color.BlendRgb(b.color, local))
		}
	}
	return toRGBA(stops[len(stops)-1].color)
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// hexAlpha parses "#rrggbb" and applies an opacity in [0,1].
func hexAlpha(hex string, alpha float64) color.NRGBA {
	r, g, b := colorful.MustParseHex(hex).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(alpha * 255))}
}

func hexColor(hex string) color.NRGBA {
	return hexAlpha(hex, 1)
}

const gradientLUTSize = 1024

// fillDiagonalGradient paints dst with a "to bottom right" gradient. The
// gradient line runs perpendicular to the bottom-left/top-right diagonal so
// those two corners share the 50% color.
func fillDiagonalGradient(dst *image.RGBA, stops []gradientStop) {
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	lut := make([]color.RGBA, gradientLUTSize)
	for i := range lut {
		lut[i] = sample(stops, float64(i)/float64(gradientLUTSize-1))
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		fy := float64(y-b.Min.Y) + 0.5 - h/2
		off := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			fx := float64(x-b.Min.X) + 0.5 - w/2
			t := (fx*h+fy*w)/(2*w*h) + 0.5
			idx := int(math.Round(t * float64(gradientLUTSize-1)))
			if idx < 0 {
				idx = 0
			} else if idx >= gradientLUTSize {
				idx = gradientLUTSize - 1
			}
			c := lut[idx]
			dst.Pix[off+0] = c.R
			dst.Pix[off+1] = c.G
			dst.Pix[off+2] = c.B
			dst.Pix[off+3] = c.A
			off += 4
		}
	}
}

func fillSolid(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// roundedMask rasterizes a rounded rectangle of size w×h into an alpha mask.
func roundedMask(w, h int, radius float64) *image.Alpha {
	fw, fh := float32(w), float32(h)
	rad := float32(math.Min(radius, math.Min(float64(w), float64(h))/2))
	// Cubic Bézier control distance approximating a quarter circle.
	k := rad * 0.5523

	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Src
	z.MoveTo(rad, 0)
	z.LineTo(fw-rad, 0)
	z.CubeTo(fw-rad+k, 0, fw, rad-k, fw, rad)
	z.LineTo(fw, fh-rad)
	z.CubeTo(fw, fh-rad+k, fw-rad+k, fh, fw-rad, fh)
	z.LineTo(rad, fh)
	z.CubeTo(rad-k, fh, 0, fh-rad+k, 0, fh-rad)
	z.LineTo(0, rad)
	z.CubeTo(0, rad-k, rad-k, 0, rad, 0)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// fillRoundedRect paints a rounded rectangle r with color c.
func fillRoundedRect(dst *image.RGBA, r image.Rectangle, radius float64, c color.Color) {
	fillRoundedRectClipped(dst, r, r, radius, c)
}

// fillRoundedRectClipped paints the rounded shape r but only inside clip.
// Used for the progress fill, which is the bar shape cut at the percentage.
func fillRoundedRectClipped(dst *image.RGBA, r, clip image.Rectangle, radius float64, c color.Color) {
	clip = clip.Intersect(r)
	if clip.Empty() {
		return
	}
	mask := roundedMask(r.Dx(), r.Dy(), radius)
	draw.DrawMask(dst, clip, image.NewUniform(c), image.Point{}, mask, clip.Min.Sub(r.Min), draw.Over)
}

// dropShadow approximates a CSS box-shadow with stacked translucent rounded
// rectangles growing outwards from r.
func dropShadow(dst *image.RGBA, r image.Rectangle, radius float64, offsetY, blur int, alpha float64) {
	if blur <= 0 {
		return
	}
	steps := blur / 2
	if steps < 1 {
		steps = 1
	}
	layer := color.NRGBA{A: uint8(math.Max(1, math.Round(alpha*255/float64(steps))))}
	base := r.Add(image.Pt(0, offsetY))
	for i := steps; i >= 1; i-- {
		grow := i * blur / (2 * steps)
		fillRoundedRect(dst, base.Inset(-grow), radius+float64(grow), layer)
	}
}

// rotatedOnto draws src onto dst after rotating it by deg degrees (CSS
// sense: positive is clockwise) around (cx, cy) in dst coordinates. src is
// placed with its top-left corner at origin before rotating.
func rotatedOnto(dst *image.RGBA, src image.Image, origin image.Point, cx, cy, deg float64) {
	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	ox, oy := float64(origin.X), float64(origin.Y)

	// dst = R·(src + origin − c) + c
	s2d := f64.Aff3{
		cos, -sin, cos*(ox-cx) - sin*(oy-cy) + cx,
		sin, cos, sin*(ox-cx) + cos*(oy-cy) + cy,
	}
	draw.BiLinear.Transform(dst, s2d, src, src.Bounds(), draw.Over, nil)
}
