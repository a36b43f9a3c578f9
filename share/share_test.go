package share

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaoyuanzhu-com/yaruze/declaration"
)

const base = "https://yaruze.example"

func TestShareURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		d    declaration.Declaration
		want string
	}{
		{
			name: "title only",
			base: base,
			d:    declaration.Declaration{Title: "Learn Rust"},
			want: "https://yaruze.example/share?title=Learn+Rust",
		},
		{
			name: "canonical order",
			base: base,
			d:    declaration.Declaration{Title: "a", Description: "b", Progress: "40"},
			want: "https://yaruze.example/share?title=a&description=b&progress=40",
		},
		{
			name: "trailing slash on base",
			base: base + "/",
			d:    declaration.Declaration{Title: "a"},
			want: "https://yaruze.example/share?title=a",
		},
		{
			name: "empty declaration",
			base: base,
			d:    declaration.Declaration{},
			want: "https://yaruze.example/share",
		},
		{
			name: "escaping",
			base: base,
			d:    declaration.Declaration{Title: "走る&泳ぐ"},
			want: "https://yaruze.example/share?title=%E8%B5%B0%E3%82%8B%26%E6%B3%B3%E3%81%90",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShareURL(tt.base, tt.d))
		})
	}
}

func TestImageURL_Nonce(t *testing.T) {
	d := declaration.Declaration{Title: "a", Progress: "10"}

	assert.Equal(t, "https://yaruze.example/api/og?title=a&progress=10", ImageURL(base, d, ""))
	assert.Equal(t, "https://yaruze.example/api/og?title=a&progress=10&t=123", ImageURL(base, d, "123"))
}

func TestNewLinks(t *testing.T) {
	d := declaration.Declaration{Title: "Learn Rust", Description: "毎日30分", Progress: "40"}

	links := NewLinks(base, d)

	assert.Equal(t, ShareURL(base, d), links.ShareURL)
	assert.Equal(t, ImageURL(base, d, ""), links.ImageURL)

	x, err := url.Parse(links.X)
	require.NoError(t, err)
	assert.Equal(t, "twitter.com", x.Host)
	assert.Equal(t, "/intent/tweet", x.Path)
	assert.Equal(t, "Learn Rust\n毎日30分\n\n#YARUZE", x.Query().Get("text"))
	assert.Equal(t, links.ShareURL, x.Query().Get("url"))

	line, err := url.Parse(links.Line)
	require.NoError(t, err)
	assert.Equal(t, "social-plugins.line.me", line.Host)
	assert.Equal(t, links.ShareURL, line.Query().Get("url"))
	assert.Equal(t, "Learn Rust", line.Query().Get("text"))
}

func TestNewLinks_IntentsNeverCarryImageURL(t *testing.T) {
	links := NewLinks(base, declaration.Declaration{Title: "a"})

	for _, intent := range []string{links.X, links.Line} {
		u, err := url.Parse(intent)
		require.NoError(t, err)
		assert.NotContains(t, u.Query().Get("url"), ImagePath)
	}
}

func TestCanShare(t *testing.T) {
	assert.True(t, CanShare(declaration.Declaration{Title: "x"}))
	assert.False(t, CanShare(declaration.Declaration{Description: "x", Progress: "10"}))
}

func TestBaseURL(t *testing.T) {
	r := httptest.NewRequest("GET", "/share?title=a", nil)
	r.Host = "yaruze.local:3000"

	assert.Equal(t, "http://yaruze.local:3000", BaseURL("", true, r))
	assert.Equal(t, "https://yaruze.local:3000", BaseURL("", false, r))
	assert.Equal(t, "https://yaruze.vercel.app", BaseURL("https://yaruze.vercel.app/", true, r))
}
