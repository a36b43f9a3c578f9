// Package share builds the absolute URLs a declaration is shared with: the
// share page, the composed image and the social intents pointing at them.
package share

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/xiaoyuanzhu-com/yaruze/declaration"
)

// Routes served by the web app.
const (
	SharePath = "/share"
	ImagePath = "/api/og"

	// NonceParam busts caches between preview probes. The image endpoint
	// ignores it.
	NonceParam = "t"
)

// Intent endpoints of the supported social targets.
const (
	XIntentURL    = "https://twitter.com/intent/tweet"
	LineIntentURL = "https://social-plugins.line.me/lineit/share"
)

// Links are the shareable URLs of one declaration.
type Links struct {
	ShareURL string `json:"shareUrl"`
	ImageURL string `json:"imageUrl"`
	X        string `json:"x"`
	Line     string `json:"line"`
}

// CanShare reports whether d has the one required field.
func CanShare(d declaration.Declaration) bool {
	return d.HasTitle()
}

// ShareURL is the share page address carrying the declaration.
func ShareURL(base string, d declaration.Declaration) string {
	return withQuery(base, SharePath, d.Query())
}

// ImageURL is the composed image address. A non-empty nonce is appended as
// the cache-busting parameter.
func ImageURL(base string, d declaration.Declaration, nonce string) string {
	q := d.Query()
	if nonce != "" {
		q.Set(NonceParam, nonce)
	}
	return withQuery(base, ImagePath, q)
}

// NewLinks builds every link for d. The intents carry the share page URL,
// never the raw image URL, so platforms unfurl the page metadata.
func NewLinks(base string, d declaration.Declaration) Links {
	shareURL := ShareURL(base, d)

	x := url.Values{}
	x.Set("text", d.ShareText())
	x.Set("url", shareURL)

	line := url.Values{}
	line.Set("url", shareURL)
	line.Set("text", d.Title)

	return Links{
		ShareURL: shareURL,
		ImageURL: ImageURL(base, d, ""),
		X:        XIntentURL + "?" + encodeOrdered(x, "text", "url"),
		Line:     LineIntentURL + "?" + encodeOrdered(line, "url", "text"),
	}
}

// BaseURL resolves the scheme and host used for absolute links. A configured
// public URL wins; otherwise the request host is used with http in
// development and https in production.
func BaseURL(public string, development bool, r *http.Request) string {
	if public != "" {
		return strings.TrimRight(public, "/")
	}
	scheme := "https"
	if development {
		scheme = "http"
	}
	return scheme + "://" + r.Host
}

func withQuery(base, path string, q url.Values) string {
	u := strings.TrimRight(base, "/") + path
	if len(q) == 0 {
		return u
	}
	return u + "?" + encodeOrdered(q, declaration.ParamTitle, declaration.ParamDescription, declaration.ParamProgress, NonceParam)
}

// encodeOrdered encodes q with the given keys first, in order. url.Values
// sorts keys alphabetically, which would put "description" before "title".
func encodeOrdered(q url.Values, order ...string) string {
	var b strings.Builder
	seen := make(map[string]bool, len(order))
	write := func(k string) {
		for _, v := range q[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	for _, k := range order {
		seen[k] = true
		write(k)
	}
	rest := url.Values{}
	for k, v := range q {
		if !seen[k] {
			rest[k] = v
		}
	}
	if len(rest) > 0 {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(rest.Encode())
	}
	return b.String()
}
