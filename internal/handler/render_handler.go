package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursekit/coursekit/internal/pkg/errors"
	"github.com/coursekit/coursekit/internal/service"
)

// RenderHandler serves the published builder output of a page as HTML.
// It is the only page surface visitors hit without a token.
type RenderHandler struct {
	builders *service.BuilderService
}

func NewRenderHandler(builders *service.BuilderService) *RenderHandler {
	return &RenderHandler{builders: builders}
}

func (h *RenderHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	html, page, err := h.builders.RenderBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.IsNotFound(err) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("X-Page-Type", page.Type)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
