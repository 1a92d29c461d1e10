package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/coursekit/coursekit/internal/builder"
	"github.com/coursekit/coursekit/internal/pkg/errcode"
	"github.com/coursekit/coursekit/internal/pkg/response"
	"github.com/coursekit/coursekit/internal/service"
)

type TemplateHandler struct {
	templates *service.TemplateService
}

func NewTemplateHandler(templates *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

type templateRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Document    builder.Document `json:"document"`
}

func (h *TemplateHandler) Create(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	tpl, err := h.templates.Create(c.Request.Context(), getUserID(c), req.Name, req.Description, req.Document)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, tpl)
}

func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templates.List(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, templates)
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
