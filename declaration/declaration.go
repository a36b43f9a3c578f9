// Package declaration holds the single value object the service works on:
// what the user says they will do, an optional description and an optional
// progress figure. It is built once at the boundary (HTTP query, CLI flags,
// terminal form) and passed around by value.
package declaration

import (
	"net/url"
	"strings"
)

const (
	// DefaultTitle is drawn when a card is requested without a title.
	DefaultTitle = "これからやること宣言"

	// ProgressLabelPrefix precedes the raw progress text on the card.
	ProgressLabelPrefix = "進捗率: "

	// Hashtag is appended to share texts and printed in the card footer.
	Hashtag = "#YARUZE"
)

// Query parameter names shared by the image endpoint and the share page.
const (
	ParamTitle       = "title"
	ParamDescription = "description"
	ParamProgress    = "progress"
)

// Declaration is the transient "I will do X" value. Progress is kept as the
// raw string the user typed; see ProgressPercent for the clamped number.
type Declaration struct {
	Title       string `form:"title" yaml:"title" json:"title"`
	Description string `form:"description" yaml:"description" json:"description,omitempty"`
	Progress    string `form:"progress" yaml:"progress" json:"progress,omitempty"`
}

// FromQuery reads the three parameters from a query string. Repeated keys
// resolve to their first value.
func FromQuery(q url.Values) Declaration {
	return Declaration{
		Title:       q.Get(ParamTitle),
		Description: q.Get(ParamDescription),
		Progress:    q.Get(ParamProgress),
	}
}

// WithDefaults returns a copy with the composer's title placeholder applied.
func (d Declaration) WithDefaults() Declaration {
	if d.Title == "" {
		d.Title = DefaultTitle
	}
	return d
}

// HasTitle reports whether the declaration can be shared.
func (d Declaration) HasTitle() bool {
	return d.Title != ""
}

// HasDescription reports whether the description block is drawn.
func (d Declaration) HasDescription() bool {
	return d.Description != ""
}

// HasProgress reports whether the progress block is drawn.
func (d Declaration) HasProgress() bool {
	return d.Progress != ""
}

// ProgressPercent is the clamped fill ratio used for the progress bar.
func (d Declaration) ProgressPercent() int {
	return ParseProgress(d.Progress)
}

// ProgressLabel is the text printed above the bar. It shows the raw input,
// not the clamped value.
func (d Declaration) ProgressLabel() string {
	return ProgressLabelPrefix + d.Progress
}

// Query encodes the non-empty fields in canonical order.
func (d Declaration) Query() url.Values {
	q := url.Values{}
	if d.Title != "" {
		q.Set(ParamTitle, d.Title)
	}
	if d.Description != "" {
		q.Set(ParamDescription, d.Description)
	}
	if d.Progress != "" {
		q.Set(ParamProgress, d.Progress)
	}
	return q
}

// ShareText is the post body used by share intents: title, optional
// description and the hashtag.
func (d Declaration) ShareText() string {
	var b strings.Builder
	b.WriteString(d.Title)
	if d.Description != "" {
		b.WriteString("\n")
		b.WriteString(d.Description)
	}
	b.WriteString("\n\n")
	b.WriteString(Hashtag)
	return b.String()
}
