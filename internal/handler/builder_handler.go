package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/coursekit/coursekit/internal/builder"
	"github.com/coursekit/coursekit/internal/pkg/errcode"
	"github.com/coursekit/coursekit/internal/pkg/response"
	"github.com/coursekit/coursekit/internal/registry"
	"github.com/coursekit/coursekit/internal/service"
)

// BuilderHandler exposes the editor action surface. Every mutation endpoint
// applies one tree operation and returns the saved document plus its new
// revision.
type BuilderHandler struct {
	builders  *service.BuilderService
	templates *service.TemplateService
	reg       *registry.Registry
}

func NewBuilderHandler(builders *service.BuilderService, templates *service.TemplateService, reg *registry.Registry) *BuilderHandler {
	return &BuilderHandler{builders: builders, templates: templates, reg: reg}
}

func (h *BuilderHandler) Enable(c *gin.Context) {
	if err := h.builders.EnableBuilder(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *BuilderHandler) Get(c *gin.Context) {
	doc, revision, err := h.builders.Load(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"document": doc, "revision": revision})
}

type saveDocumentRequest struct {
	Document json.RawMessage `json:"document"`
}

// Save accepts the submitted tree in its wire form and runs it through the
// same repair path as stored state, so a client sending "50%" widths or
// id-less nodes gets them normalized instead of rejected.
func (h *BuilderHandler) Save(c *gin.Context) {
	var req saveDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	doc, err := builder.Decode(c.Request.Context(), req.Document, h.reg)
	if err != nil {
		handleError(c, err)
		return
	}
	revision, err := h.builders.Save(c.Request.Context(), getUserID(c), c.Param("id"), doc)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"revision": revision})
}

func (h *BuilderHandler) AddSection(c *gin.Context) {
	doc, revision, err := h.builders.AddSection(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"document": doc, "revision": revision})
}

func (h *BuilderHandler) DeleteSection(c *gin.Context) {
	doc, revision, err := h.builders.DeleteSection(c.Request.Context(), getUserID(c), c.Param("id"), c.Param("sectionId"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"document": doc, "revision": revision})
}

type addWidgetRequest struct {
	Type      string `json:"type"`
	SectionID string `json:"section_id"`
}

func (h *BuilderHandler) AddWidget(c *gin.Context) {
	var req addWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	doc, revision, err := h.builders.AddWidget(c.Request.Context(), getUserID(c), c.Param("id"), req.Type, req.SectionID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"document": doc, "revision": revision})
}

func (h *BuilderHandler) DeleteWidget(c *gin.Context) {
	doc, revision, err := h.builders.DeleteWidget(c.Request.Context(), getUserID(c), c.Param("id"), c.Param("widgetId"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"document": doc, "revision": revision})
}

// WidgetForm returns the settings-form description for one widget: its
// schema fields plus current stored values, so the editor can build the form.
func (h *BuilderHandler) WidgetForm(c *gin.Context) {
	doc, _, err := h.builders.Load(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	widget, ok := doc.Widget(c.Param("widgetId"))
	if !ok {
		response.Error(c, errcode.ErrNotFound, "widget not found")
		return
	}
	fields, err := h.reg.Fields(widget.Type)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"type": widget.Type, "fields": fields, "settings": widget.Settings})
}

type widgetSettingsRequest struct {
	Settings map[string]interface{} `json:"settings"`
}

func (h *BuilderHandler) UpdateWidgetSettings(c *gin.Context) {
	var req widgetSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	doc, revision, err := h.builders.UpdateWidgetSettings(c.Request.Context(), getUserID(c), c.Param("id"), c.Param("widgetId"), req.Settings)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"document": doc, "revision": revision})
}

type reorderRequest struct {
	WidgetIDs []string `json:"widget_ids"`
}

func (h *BuilderHandler) ReorderWidgets(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	doc, revision, err := h.builders.ReorderWidgets(c.Request.Context(), getUserID(c), c.Param("id"), c.Param("columnId"), req.WidgetIDs)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"document": doc, "revision": revision})
}

type applyTemplateRequest struct {
	TemplateID string `json:"template_id"`
}

func (h *BuilderHandler) ApplyTemplate(c *gin.Context) {
	var req applyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TemplateID == "" {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	userID := getUserID(c)
	sections, err := h.templates.Instantiate(c.Request.Context(), userID, req.TemplateID)
	if err != nil {
		handleError(c, err)
		return
	}
	doc, revision, err := h.builders.AppendSections(c.Request.Context(), userID, c.Param("id"), sections)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"document": doc, "revision": revision})
}

func (h *BuilderHandler) Preview(c *gin.Context) {
	markup, err := h.builders.Preview(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"markup": markup})
}
