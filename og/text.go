package og

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const ellipsis = "…"

// textStyle describes one CSS-ish text run.
type textStyle struct {
	size   float64
	bold   bool
	color  color.Color
	shadow color.Color // nil for none
	// shadowDY is the vertical shadow offset in pixels.
	shadowDY int
}

// lineHeight follows the browser default of roughly 1.2em.
func (s textStyle) lineHeight() int {
	return int(math.Ceil(s.size * 1.2))
}

func measure(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// wrapText breaks text into lines no wider than maxWidth using Unicode line
// break opportunities. Words wider than a line are split between grapheme
// clusters. At most maxLines lines are returned; when text remains the
// last line ends in an ellipsis.
func wrapText(face font.Face, text string, maxWidth, maxLines int) []string {
	if maxLines <= 0 {
		return nil
	}

	w := &wrapper{face: face, maxWidth: maxWidth, maxLines: maxLines}
	paragraphs := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, para := range paragraphs {
		w.paragraph(para)
		if w.full() {
			if i < len(paragraphs)-1 {
				w.truncated = true
			}
			break
		}
	}

	lines := w.lines
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		w.truncated = true
	}
	if w.truncated && len(lines) > 0 {
		lines[len(lines)-1] = withEllipsis(face, lines[len(lines)-1], maxWidth)
	}
	return lines
}

type wrapper struct {
	face      font.Face
	maxWidth  int
	maxLines  int
	lines     []string
	line      strings.Builder
	lineWidth int
	truncated bool
}

func (w *wrapper) full() bool {
	return len(w.lines) >= w.maxLines
}

func (w *wrapper) flush() {
	w.lines = append(w.lines, strings.TrimRight(w.line.String(), " \t"))
	w.line.Reset()
	w.lineWidth = 0
}

func (w *wrapper) paragraph(para string) {
	state := -1
	rest := para
	for len(rest) > 0 {
		if w.full() {
			w.truncated = true
			return
		}

		var segment string
		var mustBreak bool
		segment, rest, mustBreak, state = uniseg.FirstLineSegmentInString(rest, state)

		visible := strings.TrimRight(segment, " \t")
		segWidth := measure(w.face, segment)
		visWidth := measure(w.face, visible)

		if w.line.Len() > 0 && w.lineWidth+visWidth > w.maxWidth {
			w.flush()
			if w.full() {
				w.truncated = true
				return
			}
		}

		if visWidth > w.maxWidth {
			w.splitGraphemes(segment)
		} else {
			w.line.WriteString(segment)
			w.lineWidth += segWidth
		}

		if mustBreak && len(rest) > 0 {
			w.flush()
		}
	}
	if !w.full() {
		w.flush()
	}
}

// splitGraphemes places an over-long segment cluster by cluster.
func (w *wrapper) splitGraphemes(segment string) {
	g := uniseg.NewGraphemes(segment)
	for g.Next() {
		cluster := g.Str()
		cw := measure(w.face, cluster)
		if w.line.Len() > 0 && w.lineWidth+cw > w.maxWidth && strings.TrimSpace(cluster) != "" {
			w.flush()
			if w.full() {
				w.truncated = true
				return
			}
		}
		w.line.WriteString(cluster)
		w.lineWidth += cw
	}
}

// withEllipsis drops trailing clusters until line+"…" fits maxWidth.
func withEllipsis(face font.Face, line string, maxWidth int) string {
	var clusters []string
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}
	for len(clusters) > 0 {
		candidate := strings.TrimRight(strings.Join(clusters, ""), " \t") + ellipsis
		if measure(face, candidate) <= maxWidth {
			return candidate
		}
		clusters = clusters[:len(clusters)-1]
	}
	return ellipsis
}

// drawLine draws s inside a line box whose top-left is (x, top). The glyphs
// are vertically centered in the box the way a browser centers them within
// its line height.
func drawLine(dst *image.RGBA, face font.Face, st textStyle, s string, x, top int) {
	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	descent := m.Descent.Ceil()
	baseline := top + (st.lineHeight()-(ascent+descent))/2 + ascent

	if st.shadow != nil {
		d := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(st.shadow),
			Face: face,
			Dot:  fixed.P(x, baseline+st.shadowDY),
		}
		d.DrawString(s)
	}

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(st.color),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

// drawCentered draws each line horizontally centered in [left, left+width).
// It returns the y coordinate just below the last line.
func drawCentered(dst *image.RGBA, face font.Face, st textStyle, lines []string, left, width, top int) int {
	lh := st.lineHeight()
	for i, line := range lines {
		x := left + (width-measure(face, line))/2
		drawLine(dst, face, st, line, x, top+i*lh)
	}
	return top + len(lines)*lh
}
