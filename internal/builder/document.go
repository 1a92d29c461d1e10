package builder

// SchemaVersion is written into every serialized document. Readers accept any
// version with the same major component and fail closed on the rest.
const SchemaVersion = "1.0.0"

// Document is the complete builder state for one page: an ordered tree of
// sections, each holding columns, each holding widgets. The in-memory tree is
// the single source of truth; the rendered surface is always derived from it.
type Document struct {
	Version  string    `json:"version"`
	Sections []Section `json:"sections"`
}

type Section struct {
	ID       string                 `json:"id"`
	Settings map[string]interface{} `json:"settings"`
	Columns  []Column               `json:"columns"`
}

type Column struct {
	ID       string                 `json:"id"`
	Width    float64                `json:"width"`
	Settings map[string]interface{} `json:"settings"`
	Widgets  []Widget               `json:"widgets"`
}

type Widget struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`
	Settings map[string]interface{} `json:"settings"`
}

// NewDocument returns the empty document a page starts with: current schema
// version, zero sections.
func NewDocument() Document {
	return Document{Version: SchemaVersion, Sections: []Section{}}
}

// IsEmpty reports whether the document holds no widget at all. Sections and
// columns without widgets still count as empty here; rendering keeps their
// structure regardless.
func (d *Document) IsEmpty() bool {
	for _, section := range d.Sections {
		for _, column := range section.Columns {
			if len(column.Widgets) > 0 {
				return false
			}
		}
	}
	return true
}

func (d *Document) WidgetCount() int {
	count := 0
	for _, section := range d.Sections {
		for _, column := range section.Columns {
			count += len(column.Widgets)
		}
	}
	return count
}

// Widget returns a copy of the widget with the given id.
func (d *Document) Widget(widgetID string) (Widget, bool) {
	if w := d.findWidget(widgetID); w != nil {
		return *w, true
	}
	return Widget{}, false
}

func (d *Document) findSection(sectionID string) *Section {
	for i := range d.Sections {
		if d.Sections[i].ID == sectionID {
			return &d.Sections[i]
		}
	}
	return nil
}

func (d *Document) findColumn(columnID string) *Column {
	for i := range d.Sections {
		for j := range d.Sections[i].Columns {
			if d.Sections[i].Columns[j].ID == columnID {
				return &d.Sections[i].Columns[j]
			}
		}
	}
	return nil
}

func (d *Document) findWidget(widgetID string) *Widget {
	for i := range d.Sections {
		for j := range d.Sections[i].Columns {
			column := &d.Sections[i].Columns[j]
			for k := range column.Widgets {
				if column.Widgets[k].ID == widgetID {
					return &column.Widgets[k]
				}
			}
		}
	}
	return nil
}
