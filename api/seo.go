package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RobotsTxt serves the robots.txt file
func (h *Handlers) RobotsTxt(c *gin.Context) {
	robotsTxt := fmt.Sprintf(`User-agent: *
Allow: /

# Disallow API endpoints
Disallow: /api/links

Sitemap: %s/sitemap.xml
`, h.baseURL(c))
	c.Header("Cache-Control", "public, max-age=86400")
	c.String(http.StatusOK, robotsTxt)
}

// SitemapXML serves the sitemap.xml file
func (h *Handlers) SitemapXML(c *gin.Context) {
	// Declarations are not stored, so the form is the only stable page.
	sitemap := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url>
    <loc>%s/</loc>
    <changefreq>monthly</changefreq>
    <priority>1.0</priority>
  </url>
</urlset>
`, h.baseURL(c))
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(sitemap))
}

// Health reports liveness.
// GET /healthz
func (h *Handlers) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
