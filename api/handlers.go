package api

import (
	"embed"
	"html/template"

	"github.com/xiaoyuanzhu-com/yaruze/declaration"
	"github.com/xiaoyuanzhu-com/yaruze/og"
	"github.com/xiaoyuanzhu-com/yaruze/server"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ImageRenderer composes PNG cards. *og.Composer implements it.
type ImageRenderer interface {
	RenderPNG(kind og.Kind, d declaration.Declaration) ([]byte, error)
}

// Handlers holds references to server components
type Handlers struct {
	renderer      ImageRenderer
	publicBaseURL string
	development   bool
}

// NewHandlers creates a new Handlers instance with server reference
func NewHandlers(srv *server.Server) *Handlers {
	cfg := srv.Config()
	return &Handlers{
		renderer:      srv.Composer(),
		publicBaseURL: cfg.PublicBaseURL,
		development:   cfg.IsDevelopment(),
	}
}
