package builder

import (
	"fmt"

	appErr "github.com/coursekit/coursekit/internal/pkg/errors"
)

// Editing operations mutate the tree in place. Each call is atomic within the
// caller's goroutine; the caller persists the whole document after every
// successful mutation, last write wins.

// AddSection appends a new section holding one full-width column and returns
// it.
func (d *Document) AddSection() *Section {
	section := Section{
		ID:       NewSectionID(),
		Settings: map[string]interface{}{},
		Columns: []Column{{
			ID:       NewColumnID(),
			Width:    100,
			Settings: map[string]interface{}{},
			Widgets:  []Widget{},
		}},
	}
	d.Sections = append(d.Sections, section)
	return &d.Sections[len(d.Sections)-1]
}

// AddWidget appends a widget of the given type with empty settings. The target
// is the section with targetSectionID when given, otherwise the last section;
// missing structure is created on the way (a section if the document is empty,
// a full-width column if the target section has none). The widget lands in the
// target section's first column.
func (d *Document) AddWidget(widgetType, targetSectionID string) (*Widget, error) {
	if widgetType == "" {
		return nil, fmt.Errorf("%w: widget type required", appErr.ErrInvalid)
	}
	var section *Section
	if targetSectionID != "" {
		section = d.findSection(targetSectionID)
		if section == nil {
			return nil, fmt.Errorf("%w: section %s", appErr.ErrNotFound, targetSectionID)
		}
	} else {
		if len(d.Sections) == 0 {
			d.AddSection()
		}
		section = &d.Sections[len(d.Sections)-1]
	}
	if len(section.Columns) == 0 {
		section.Columns = append(section.Columns, Column{
			ID:       NewColumnID(),
			Width:    100,
			Settings: map[string]interface{}{},
			Widgets:  []Widget{},
		})
	}
	column := &section.Columns[0]
	column.Widgets = append(column.Widgets, Widget{
		ID:       NewWidgetID(),
		Type:     widgetType,
		Settings: map[string]interface{}{},
	})
	return &column.Widgets[len(column.Widgets)-1], nil
}

// DeleteWidget removes the widget and reports whether it existed. Emptied
// sections stay in place; the empty state is a display concern.
func (d *Document) DeleteWidget(widgetID string) bool {
	for i := range d.Sections {
		for j := range d.Sections[i].Columns {
			column := &d.Sections[i].Columns[j]
			for k := range column.Widgets {
				if column.Widgets[k].ID == widgetID {
					column.Widgets = append(column.Widgets[:k], column.Widgets[k+1:]...)
					return true
				}
			}
		}
	}
	return false
}

// DeleteSection removes the section and everything under it.
func (d *Document) DeleteSection(sectionID string) bool {
	for i := range d.Sections {
		if d.Sections[i].ID == sectionID {
			d.Sections = append(d.Sections[:i], d.Sections[i+1:]...)
			return true
		}
	}
	return false
}

// ReorderWidgets permutes the widgets of a column into newOrder. The order
// must list exactly the column's current widget IDs; each widget keeps its id,
// type and settings untouched.
func (d *Document) ReorderWidgets(columnID string, newOrder []string) error {
	column := d.findColumn(columnID)
	if column == nil {
		return fmt.Errorf("%w: column %s", appErr.ErrNotFound, columnID)
	}
	if len(newOrder) != len(column.Widgets) {
		return fmt.Errorf("%w: order lists %d widgets, column has %d", appErr.ErrInvalid, len(newOrder), len(column.Widgets))
	}
	byID := make(map[string]Widget, len(column.Widgets))
	for _, widget := range column.Widgets {
		byID[widget.ID] = widget
	}
	reordered := make([]Widget, 0, len(newOrder))
	for _, id := range newOrder {
		widget, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: widget %s not in column", appErr.ErrInvalid, id)
		}
		delete(byID, id)
		reordered = append(reordered, widget)
	}
	column.Widgets = reordered
	return nil
}

// UpdateWidgetSettings replaces the widget's settings wholesale. The caller is
// expected to have coerced the map through the registry; id and type are never
// touched.
func (d *Document) UpdateWidgetSettings(widgetID string, settings map[string]interface{}) bool {
	widget := d.findWidget(widgetID)
	if widget == nil {
		return false
	}
	if settings == nil {
		settings = map[string]interface{}{}
	}
	widget.Settings = settings
	return true
}

// WidgetType returns the type of the widget with the given ID, if present.
func (d *Document) WidgetType(widgetID string) (string, bool) {
	widget := d.findWidget(widgetID)
	if widget == nil {
		return "", false
	}
	return widget.Type, true
}
