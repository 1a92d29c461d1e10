package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coursekit/coursekit/internal/pkg/errcode"
	"github.com/coursekit/coursekit/internal/pkg/response"
	"github.com/coursekit/coursekit/internal/service"
)

type PageHandler struct {
	pages *service.PageService
	terms *service.TermService
}

func NewPageHandler(pages *service.PageService, terms *service.TermService) *PageHandler {
	return &PageHandler{pages: pages, terms: terms}
}

type pageRequest struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Excerpt string `json:"excerpt"`
	Status  string `json:"status"`
}

func (h *PageHandler) Create(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	page, err := h.pages.Create(c.Request.Context(), getUserID(c), service.PageCreateInput{
		Type:    req.Type,
		Title:   req.Title,
		Slug:    req.Slug,
		Excerpt: req.Excerpt,
		Status:  req.Status,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, page)
}

func (h *PageHandler) List(c *gin.Context) {
	limit := uint(0)
	offset := uint(0)
	if value := c.Query("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			limit = uint(parsed)
		}
	}
	if value := c.Query("offset"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			offset = uint(parsed)
		}
	}
	if termID := c.Query("term_id"); termID != "" {
		pages, err := h.pages.ListByTerm(c.Request.Context(), getUserID(c), termID)
		if err != nil {
			handleError(c, err)
			return
		}
		response.Success(c, pages)
		return
	}
	pages, err := h.pages.List(c.Request.Context(), getUserID(c), c.Query("type"), c.Query("status"), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, pages)
}

func (h *PageHandler) Get(c *gin.Context) {
	userID := getUserID(c)
	pageID := c.Param("id")
	page, err := h.pages.Get(c.Request.Context(), userID, pageID)
	if err != nil {
		handleError(c, err)
		return
	}
	termIDs, err := h.terms.ListPageTermIDs(c.Request.Context(), userID, pageID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "term_ids": termIDs})
}

func (h *PageHandler) Update(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	err := h.pages.Update(c.Request.Context(), getUserID(c), c.Param("id"), service.PageUpdateInput{
		Title:   req.Title,
		Slug:    req.Slug,
		Excerpt: req.Excerpt,
		Status:  req.Status,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *PageHandler) Delete(c *gin.Context) {
	if err := h.pages.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

type assignTermsRequest struct {
	TermIDs []string `json:"term_ids"`
}

func (h *PageHandler) AssignTerms(c *gin.Context) {
	var req assignTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if err := h.terms.AssignToPage(c.Request.Context(), getUserID(c), c.Param("id"), req.TermIDs); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
