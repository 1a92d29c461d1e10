package builder

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appErr "github.com/coursekit/coursekit/internal/pkg/errors"
	"github.com/coursekit/coursekit/internal/registry"
)

// Encode serializes the document to its wire form. Widgets whose type is empty
// or not registered are omitted with a warning; a malformed widget must never
// abort the save of everything around it.
func Encode(ctx context.Context, doc Document, reg *registry.Registry) ([]byte, error) {
	clean := Document{Version: doc.Version, Sections: make([]Section, 0, len(doc.Sections))}
	if clean.Version == "" {
		clean.Version = SchemaVersion
	}
	for _, section := range doc.Sections {
		outSection := Section{ID: section.ID, Settings: nonNil(section.Settings), Columns: make([]Column, 0, len(section.Columns))}
		for _, column := range section.Columns {
			outColumn := Column{ID: column.ID, Width: column.Width, Settings: nonNil(column.Settings), Widgets: make([]Widget, 0, len(column.Widgets))}
			for _, widget := range column.Widgets {
				if widget.Type == "" || !reg.Has(widget.Type) {
					logutil.GetLogger(ctx).Warn("dropping widget with unresolvable type",
						zap.String("widget_id", widget.ID),
						zap.String("widget_type", widget.Type),
					)
					continue
				}
				outColumn.Widgets = append(outColumn.Widgets, Widget{ID: widget.ID, Type: widget.Type, Settings: nonNil(widget.Settings)})
			}
			outSection.Columns = append(outSection.Columns, outColumn)
		}
		clean.Sections = append(clean.Sections, outSection)
	}
	return json.Marshal(clean)
}

type rawDocument struct {
	Version  string       `json:"version"`
	Sections []rawSection `json:"sections"`
}

type rawSection struct {
	ID       string                 `json:"id"`
	Settings map[string]interface{} `json:"settings"`
	Columns  []rawColumn            `json:"columns"`
}

type rawColumn struct {
	ID       string                 `json:"id"`
	Width    interface{}            `json:"width"`
	Settings map[string]interface{} `json:"settings"`
	Widgets  []rawWidget            `json:"widgets"`
}

type rawWidget struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`
	Settings map[string]interface{} `json:"settings"`
}

// Decode parses a stored document. The policy is repair over reject: missing
// IDs are synthesized fresh, widths are normalized, and input that cannot be
// parsed at all yields the empty document instead of an error — a broken
// builder document must never break the surrounding page. The one hard failure
// is a version from an unknown major, which fails closed rather than being
// silently misread.
func Decode(ctx context.Context, data []byte, reg *registry.Registry) (Document, error) {
	if len(data) == 0 {
		return NewDocument(), nil
	}
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		logutil.GetLogger(ctx).Warn("unparseable builder document, falling back to empty", zap.Error(err))
		return NewDocument(), nil
	}
	if !versionSupported(raw.Version) {
		return Document{}, appErr.ErrUnsupportedVersion
	}
	doc := Document{Version: SchemaVersion, Sections: make([]Section, 0, len(raw.Sections))}
	for _, rs := range raw.Sections {
		section := Section{ID: rs.ID, Settings: nonNil(rs.Settings), Columns: make([]Column, 0, len(rs.Columns))}
		if section.ID == "" {
			section.ID = NewSectionID()
		}
		for _, rc := range rs.Columns {
			column := Column{
				ID:       rc.ID,
				Width:    ParseWidth(rc.Width, 0),
				Settings: nonNil(rc.Settings),
				Widgets:  make([]Widget, 0, len(rc.Widgets)),
			}
			if column.ID == "" {
				column.ID = NewColumnID()
			}
			for _, rw := range rc.Widgets {
				if rw.Type == "" {
					logutil.GetLogger(ctx).Warn("skipping stored widget without type", zap.String("widget_id", rw.ID))
					continue
				}
				widget := Widget{ID: rw.ID, Type: rw.Type, Settings: nonNil(rw.Settings)}
				if widget.ID == "" {
					widget.ID = NewWidgetID()
				}
				column.Widgets = append(column.Widgets, widget)
			}
			section.Columns = append(section.Columns, column)
		}
		doc.Sections = append(doc.Sections, section)
	}
	return doc, nil
}

// Normalize repairs a client-submitted tree the same way Decode repairs stored
// state: synthesize missing IDs, clamp widths, drop typeless widgets, and run
// each known widget's settings through the registry coercion.
func Normalize(ctx context.Context, doc Document, reg *registry.Registry) Document {
	out := Document{Version: SchemaVersion, Sections: make([]Section, 0, len(doc.Sections))}
	for _, section := range doc.Sections {
		if section.ID == "" {
			section.ID = NewSectionID()
		}
		section.Settings = nonNil(section.Settings)
		columns := make([]Column, 0, len(section.Columns))
		for _, column := range section.Columns {
			if column.ID == "" {
				column.ID = NewColumnID()
			}
			column.Width = clampWidth(column.Width)
			column.Settings = nonNil(column.Settings)
			widgets := make([]Widget, 0, len(column.Widgets))
			for _, widget := range column.Widgets {
				if widget.Type == "" {
					logutil.GetLogger(ctx).Warn("dropping submitted widget without type", zap.String("widget_id", widget.ID))
					continue
				}
				if widget.ID == "" {
					widget.ID = NewWidgetID()
				}
				if reg.Has(widget.Type) {
					coerced, err := reg.CoerceSettings(widget.Type, nonNil(widget.Settings))
					if err == nil {
						widget.Settings = coerced
					}
				} else {
					widget.Settings = nonNil(widget.Settings)
				}
				widgets = append(widgets, widget)
			}
			column.Widgets = widgets
			columns = append(columns, column)
		}
		section.Columns = columns
		out.Sections = append(out.Sections, section)
	}
	return out
}

// ParseWidth resolves a column width from whatever presentation form the
// client submitted: a bare number, a "42%" string, or an absolute "300px"
// measured against the parent width. Anything unusable resolves to 100.
func ParseWidth(value interface{}, parentWidth float64) float64 {
	switch v := value.(type) {
	case float64:
		return clampWidth(v)
	case int:
		return clampWidth(float64(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 100
		}
		if strings.HasSuffix(s, "%") {
			parsed, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
			if err != nil {
				return 100
			}
			return clampWidth(parsed)
		}
		s = strings.TrimSuffix(s, "px")
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 100
		}
		if parentWidth <= 0 {
			return 100
		}
		return clampWidth(parsed / parentWidth * 100)
	default:
		return 100
	}
}

func clampWidth(width float64) float64 {
	if width <= 0 {
		return 100
	}
	if width > 100 {
		return 100
	}
	return width
}

// versionSupported accepts the current major only. Sibling columns are allowed
// to sum to anything; versions are not allowed to drift.
func versionSupported(version string) bool {
	if version == "" {
		return true
	}
	major, _, _ := strings.Cut(version, ".")
	currentMajor, _, _ := strings.Cut(SchemaVersion, ".")
	return major == currentMajor
}

func nonNil(settings map[string]interface{}) map[string]interface{} {
	if settings == nil {
		return map[string]interface{}{}
	}
	return settings
}
