package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all page and API routes
func SetupRoutes(r *gin.Engine, h *Handlers) {
	// Pages
	r.GET("/", h.FormPage)
	r.GET("/share", h.SharePage)

	// Fixed preview images
	r.GET("/opengraph-image", h.SiteImage)
	r.GET("/share/opengraph-image", h.ShareImage)

	// API group
	api := r.Group("/api")
	api.GET("/og", h.OGImage)
	api.GET("/links", h.GetLinks)

	// SEO and probes
	r.GET("/robots.txt", h.RobotsTxt)
	r.GET("/sitemap.xml", h.SitemapXML)
	r.GET("/healthz", h.Health)

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			RespondNotFound(c, "no such endpoint")
			return
		}
		c.String(http.StatusNotFound, "404 page not found")
	})
}
