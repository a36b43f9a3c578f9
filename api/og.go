package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/yaruze/declaration"
	"github.com/xiaoyuanzhu-com/yaruze/log"
	"github.com/xiaoyuanzhu-com/yaruze/og"
)

const (
	// imageCacheControl lets browsers and shared caches keep a card for an hour.
	imageCacheControl = "public, max-age=3600, s-maxage=3600"

	// imageErrorMessage is the fixed body of a failed composition.
	imageErrorMessage = "OG画像の生成に失敗しました"
)

// OGImage composes the declaration card from the query parameters.
// GET /api/og?title=&description=&progress=
func (h *Handlers) OGImage(c *gin.Context) {
	h.renderImage(c, og.KindDeclaration, declaration.FromQuery(c.Request.URL.Query()))
}

// SiteImage is the site-wide fallback preview image.
// GET /opengraph-image
func (h *Handlers) SiteImage(c *gin.Context) {
	h.renderImage(c, og.KindSiteBanner, declaration.Declaration{})
}

// ShareImage is the fallback preview image of the share page.
// GET /share/opengraph-image
func (h *Handlers) ShareImage(c *gin.Context) {
	h.renderImage(c, og.KindSharePlain, declaration.Declaration{})
}

func (h *Handlers) renderImage(c *gin.Context, kind og.Kind, d declaration.Declaration) {
	data, err := h.renderer.RenderPNG(kind, d)
	if err != nil {
		log.Error().
			Err(err).
			Str("kind", kind.String()).
			Str("request_id", c.GetString(log.ContextKeyRequestID)).
			Msg("failed to compose image")
		c.String(http.StatusInternalServerError, imageErrorMessage)
		return
	}

	c.Header("Cache-Control", imageCacheControl)
	c.Data(http.StatusOK, "image/png", data)
}
