package api

import (
	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/yaruze/declaration"
	"github.com/xiaoyuanzhu-com/yaruze/share"
)

// GetLinks returns the share page, image and intent URLs for a declaration.
// GET /api/links?title=&description=&progress=
func (h *Handlers) GetLinks(c *gin.Context) {
	var d declaration.Declaration
	if err := c.ShouldBindQuery(&d); err != nil {
		RespondBadRequest(c, "Invalid query parameters")
		return
	}

	if !share.CanShare(d) {
		RespondValidationError(c, "Title is required", []ErrorDetail{
			{Field: declaration.ParamTitle, Message: "title is required to share", Code: "required"},
		})
		return
	}

	RespondData(c, share.NewLinks(h.baseURL(c), d))
}
