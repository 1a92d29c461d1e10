package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/coursekit/coursekit/internal/pkg/errcode"
	"github.com/coursekit/coursekit/internal/pkg/response"
	"github.com/coursekit/coursekit/internal/service"
)

type TermHandler struct {
	terms *service.TermService
}

func NewTermHandler(terms *service.TermService) *TermHandler {
	return &TermHandler{terms: terms}
}

type termRequest struct {
	Taxonomy string `json:"taxonomy"`
	Name     string `json:"name"`
}

func (h *TermHandler) Create(c *gin.Context) {
	var req termRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	term, err := h.terms.Create(c.Request.Context(), getUserID(c), req.Taxonomy, req.Name)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, term)
}

func (h *TermHandler) List(c *gin.Context) {
	terms, err := h.terms.List(c.Request.Context(), getUserID(c), c.Query("taxonomy"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, terms)
}

func (h *TermHandler) Delete(c *gin.Context) {
	if err := h.terms.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
