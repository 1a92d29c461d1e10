package render

import (
	"context"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/xxxsen/common/logutil"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/coursekit/coursekit/internal/builder"
	"github.com/coursekit/coursekit/internal/registry"
)

// Renderer turns a builder document into page markup. Every widget renderer is
// a pure function of its (default-merged) settings; an unregistered widget
// type renders to nothing and never fails the page.
type Renderer struct {
	reg      *registry.Registry
	markdown goldmark.Markdown
	widgets  map[string]widgetFunc
}

type widgetFunc func(r *Renderer, settings map[string]interface{}) string

func New(reg *registry.Registry) *Renderer {
	r := &Renderer{
		reg:      reg,
		markdown: goldmark.New(),
	}
	r.widgets = map[string]widgetFunc{
		"text":            renderText,
		"heading":         renderHeading,
		"button":          renderButton,
		"image":           renderImage,
		"video":           renderVideo,
		"columns":         renderColumns,
		"course_card":     renderCourseCard,
		"course_filter":   renderCourseFilter,
		"course_register": renderCourseRegister,
	}
	return r
}

func (r *Renderer) Document(ctx context.Context, doc builder.Document) string {
	var sb strings.Builder
	sb.WriteString(`<div class="ck-builder">`)
	if len(doc.Sections) == 0 {
		sb.WriteString(`<div class="ck-empty"></div></div>`)
		return sb.String()
	}
	for _, section := range doc.Sections {
		sb.WriteString(fmt.Sprintf(`<section class="ck-section" data-id="%s">`, template.HTMLEscapeString(section.ID)))
		for _, column := range section.Columns {
			width := column.Width
			if width <= 0 || width > 100 {
				width = 100
			}
			sb.WriteString(fmt.Sprintf(`<div class="ck-column" data-id="%s" style="width:%s%%">`,
				template.HTMLEscapeString(column.ID), formatNumber(width)))
			for _, widget := range column.Widgets {
				sb.WriteString(r.Widget(ctx, widget))
			}
			sb.WriteString(`</div>`)
		}
		sb.WriteString(`</section>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func (r *Renderer) Widget(ctx context.Context, widget builder.Widget) string {
	fn, ok := r.widgets[widget.Type]
	if !ok || !r.reg.Has(widget.Type) {
		logutil.GetLogger(ctx).Warn("no renderer for widget type, rendering nothing",
			zap.String("widget_id", widget.ID),
			zap.String("widget_type", widget.Type),
		)
		return ""
	}
	settings := r.resolveSettings(widget)
	body := fn(r, settings)
	if body == "" {
		return ""
	}
	return fmt.Sprintf(`<div class="ck-widget ck-widget-%s" data-id="%s">%s</div>`,
		template.HTMLEscapeString(widget.Type), template.HTMLEscapeString(widget.ID), body)
}

// resolveSettings applies declared defaults under the stored settings. Stored
// state never contains defaults; they materialize here.
func (r *Renderer) resolveSettings(widget builder.Widget) map[string]interface{} {
	defaults, err := r.reg.Defaults(widget.Type)
	if err != nil {
		defaults = map[string]interface{}{}
	}
	resolved := make(map[string]interface{}, len(defaults)+len(widget.Settings))
	for name, value := range defaults {
		resolved[name] = value
	}
	for name, value := range widget.Settings {
		resolved[name] = value
	}
	return resolved
}

func stringSetting(settings map[string]interface{}, name string) string {
	value, ok := settings[name]
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return formatNumber(v)
	case bool:
		if v {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func boolSetting(settings map[string]interface{}, name string) bool {
	switch v := settings[name].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v == "1" || strings.EqualFold(v, "true")
	default:
		return false
	}
}

func numberSetting(settings map[string]interface{}, name string, fallback float64) float64 {
	switch v := settings[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func esc(s string) string {
	return template.HTMLEscapeString(s)
}
