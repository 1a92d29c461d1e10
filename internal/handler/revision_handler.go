package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coursekit/coursekit/internal/pkg/errcode"
	"github.com/coursekit/coursekit/internal/pkg/response"
	"github.com/coursekit/coursekit/internal/service"
)

type RevisionHandler struct {
	builders *service.BuilderService
}

func NewRevisionHandler(builders *service.BuilderService) *RevisionHandler {
	return &RevisionHandler{builders: builders}
}

func (h *RevisionHandler) List(c *gin.Context) {
	revisions, err := h.builders.ListRevisions(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, revisions)
}

func (h *RevisionHandler) Get(c *gin.Context) {
	revision, err := strconv.Atoi(c.Param("revision"))
	if err != nil || revision <= 0 {
		response.Error(c, errcode.ErrInvalid, "invalid revision")
		return
	}
	rev, err := h.builders.GetRevision(c.Request.Context(), getUserID(c), c.Param("id"), revision)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, rev)
}

func (h *RevisionHandler) Restore(c *gin.Context) {
	revision, err := strconv.Atoi(c.Param("revision"))
	if err != nil || revision <= 0 {
		response.Error(c, errcode.ErrInvalid, "invalid revision")
		return
	}
	doc, newRevision, err := h.builders.Restore(c.Request.Context(), getUserID(c), c.Param("id"), revision)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"document": doc, "revision": newRevision})
}
