package og

import (
	"image"
	"image/color"
	"strings"

	"github.com/xiaoyuanzhu-com/yaruze/declaration"
	"golang.org/x/image/font"
)

// Canvas size of every composed image.
const (
	Width  = 1200
	Height = 630
)

const (
	canvasPadding = 60
	headerGap     = 20
	footerGap     = 20

	cardRadius  = 15
	cardPadding = 40
	titleGap    = 20

	watermarkBands   = 10
	watermarkSpacing = 60
	watermarkAngle   = -5
	watermarkRepeat  = 20
	watermarkPhrase  = "俺はやるぜ "

	progressWidth    = 700
	progressBarH     = 15
	progressBarR     = 10
	progressBottom   = 20
	progressPadY     = 8
	progressLabelGap = 10

	maxDescriptionLines = 3
)

// Fixed copy printed on the cards.
const (
	Brand         = "YARUZE"
	SiteHeadline  = "YARUZE - これからやること宣言"
	SiteTagline   = "これからやることを宣言して、SNSでシェアしよう"
	ShareHeadline = "YARUZE - シェアページ"
)

var (
	white       = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	softShadow  = hexAlpha("#000000", 0.2)
	heavyShadow = hexAlpha("#000000", 0.3)

	vividStops = []gradientStop{
		stop("#FF9800", 0),
		stop("#FF7E00", 0.3),
		stop("#E53935", 0.7),
		stop("#C62828", 1),
	}

	watermarkStyle   = textStyle{size: 24, bold: true, color: hexAlpha("#FFFFFF", 0.25)}
	titleStyle       = textStyle{size: 56, bold: true, color: hexColor("#333333")}
	descriptionStyle = textStyle{size: 24, color: hexColor("#666666")}
	progressStyle    = textStyle{size: 32, bold: true, color: hexColor("#E53935")}

	barTrack = hexColor("#FFCDD2")
	barFill  = hexColor("#4CAF50")
)

// theme is the chrome around the content: header, footer and backdrop.
type theme struct {
	gradient  bool
	backdrop  color.Color
	watermark bool
	brand     textStyle
	date      textStyle
	footer    textStyle
}

var (
	vividTheme = theme{
		gradient:  true,
		watermark: true,
		brand:     textStyle{size: 24, bold: true, color: white, shadow: softShadow, shadowDY: 2},
		date:      textStyle{size: 18, color: hexAlpha("#FFFFFF", 0.8), shadow: softShadow, shadowDY: 1},
		footer:    textStyle{size: 18, bold: true, color: white, shadow: softShadow, shadowDY: 1},
	}

	bannerTheme = theme{
		gradient:  true,
		watermark: true,
		brand:     vividTheme.brand,
		date:      vividTheme.date,
		footer:    textStyle{size: 18, color: white, shadow: softShadow, shadowDY: 1},
	}

	plainTheme = theme{
		backdrop: hexColor("#F0F0F0"),
		brand:    textStyle{size: 24, bold: true, color: hexColor("#333333")},
		date:     textStyle{size: 18, color: hexColor("#666666")},
		footer:   textStyle{size: 18, color: hexColor("#666666")},
	}
)

// frame splits the canvas into header, content and footer rows.
type frame struct {
	header  image.Rectangle
	content image.Rectangle
	footer  image.Rectangle
}

func newFrame(th theme) frame {
	left, right := canvasPadding, Width-canvasPadding
	top, bottom := canvasPadding, Height-canvasPadding

	headerBottom := top + th.brand.lineHeight()
	footerTop := bottom - th.footer.lineHeight()

	return frame{
		header:  image.Rect(left, top, right, headerBottom),
		content: image.Rect(left, headerBottom+headerGap, right, footerTop-footerGap),
		footer:  image.Rect(left, footerTop, right, bottom),
	}
}

// cardPlan is the text layout of a declaration card, worked out before any
// pixels are drawn.
type cardPlan struct {
	card image.Rectangle

	titleLines []string
	titleTop   int

	descriptionLines []string
	descriptionTop   int

	showProgress  bool
	progressLabel string
	labelTop      int
	bar           image.Rectangle
	barFillWidth  int
}

// progressFillWidth is the filled part of the bar for a clamped percentage.
func progressFillWidth(percent int) int {
	return progressWidth * declaration.Clamp(percent) / 100
}

// planCard lays out title, description and progress inside the card.
// Description lines are capped first so the title always keeps a line.
func planCard(f frame, titleFace, descFace, progressFace font.Face, d declaration.Declaration) cardPlan {
	p := cardPlan{card: f.content}

	inner := f.content.Inset(cardPadding)
	textWidth := inner.Dx()
	textBottom := inner.Max.Y

	if d.HasProgress() {
		p.showProgress = true
		p.progressLabel = d.ProgressLabel()
		p.barFillWidth = progressFillWidth(d.ProgressPercent())

		blockBottom := f.content.Max.Y - progressBottom
		barBottom := blockBottom - progressPadY
		barTop := barBottom - progressBarH
		p.labelTop = barTop - progressLabelGap - progressStyle.lineHeight()

		barLeft := f.content.Min.X + (f.content.Dx()-progressWidth)/2
		p.bar = image.Rect(barLeft, barTop, barLeft+progressWidth, barBottom)

		// The label may be arbitrarily long; keep it on one line.
		if lines := wrapText(progressFace, p.progressLabel, progressWidth, 1); len(lines) > 0 {
			p.progressLabel = lines[0]
		}

		textBottom = p.labelTop - progressPadY - progressLabelGap
	}

	avail := textBottom - inner.Min.Y
	titleLH := titleStyle.lineHeight()
	descLH := descriptionStyle.lineHeight()

	if d.HasDescription() {
		maxDesc := (avail - titleLH - titleGap) / descLH
		if maxDesc > maxDescriptionLines {
			maxDesc = maxDescriptionLines
		}
		p.descriptionLines = wrapText(descFace, d.Description, textWidth, maxDesc)
	}

	maxTitle := (avail - titleGap - len(p.descriptionLines)*descLH) / titleLH
	if maxTitle < 1 {
		maxTitle = 1
	}
	p.titleLines = wrapText(titleFace, d.Title, textWidth, maxTitle)

	block := len(p.titleLines)*titleLH + titleGap + len(p.descriptionLines)*descLH
	p.titleTop = inner.Min.Y + (avail-block)/2
	p.descriptionTop = p.titleTop + len(p.titleLines)*titleLH + titleGap
	return p
}

// watermarkText is the phrase tiled across each watermark band.
func watermarkText() string {
	phrases := make([]string, watermarkRepeat)
	for i := range phrases {
		phrases[i] = watermarkPhrase
	}
	return strings.Join(phrases, " ")
}
