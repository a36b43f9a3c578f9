package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/xiaoyuanzhu-com/yaruze/declaration"
	"github.com/xiaoyuanzhu-com/yaruze/og"
	"github.com/xiaoyuanzhu-com/yaruze/share"
)

const (
	siteDescription = "これからやることを宣言して、SNSでシェアしよう"

	// Sample declaration shown as the form page's own preview image.
	sampleTitle       = "やることを宣言するぜ！"
	sampleDescription = "テキストに応じてOGPが生成されるぜ！"
)

// pageMeta fills the "meta" template.
type pageMeta struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
	ImageAlt    string
}

type formPage struct {
	Meta    pageMeta
	Tagline string
}

type sharePage struct {
	Meta        pageMeta
	Tagline     string
	Declaration declaration.Declaration
	// PreviewURL is the same-origin image address for the embedded preview.
	PreviewURL string
}

func (h *Handlers) baseURL(c *gin.Context) string {
	return share.BaseURL(h.publicBaseURL, h.development, c.Request)
}

// FormPage serves the declaration form.
// GET /
func (h *Handlers) FormPage(c *gin.Context) {
	base := h.baseURL(c)
	sample := declaration.Declaration{Title: sampleTitle, Description: sampleDescription}

	page := formPage{
		Meta: pageMeta{
			Title:       og.SiteHeadline,
			Description: siteDescription,
			URL:         base + "/",
			ImageURL:    share.ImageURL(base, sample, ""),
			ImageAlt:    og.SiteHeadline,
		},
		Tagline: siteDescription,
	}

	c.Header("Cache-Control", "no-cache")
	c.Render(http.StatusOK, render.HTML{Template: pages, Name: "form.html", Data: page})
}

// SharePage is the landing page social platforms unfurl. Without a title
// there is nothing to show, so it sends the visitor to the form.
// GET /share?title=&description=&progress=
func (h *Handlers) SharePage(c *gin.Context) {
	d := declaration.FromQuery(c.Request.URL.Query())
	if !share.CanShare(d) {
		c.Redirect(http.StatusTemporaryRedirect, "/")
		return
	}

	base := h.baseURL(c)
	description := d.Description
	if description == "" {
		description = siteDescription
	}

	page := sharePage{
		Meta: pageMeta{
			Title:       d.Title,
			Description: description,
			URL:         share.ShareURL(base, d),
			ImageURL:    share.ImageURL(base, d, ""),
			ImageAlt:    d.Title,
		},
		Tagline:     siteDescription,
		Declaration: d,
		PreviewURL:  share.ImageURL("", d, ""),
	}

	c.Render(http.StatusOK, render.HTML{Template: pages, Name: "share.html", Data: page})
}
