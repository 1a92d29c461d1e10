package builder

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Node IDs follow the <prefix>_<unixms>_<seq> shape. The sequence counter is
// process-wide so IDs minted within the same millisecond stay distinct. IDs are
// generated once at creation and never regenerated for an existing node;
// settings edits reference widgets by ID.
var idSeq atomic.Uint64

func newNodeID(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixMilli(), idSeq.Add(1))
}

func NewSectionID() string {
	return newNodeID("section")
}

func NewColumnID() string {
	return newNodeID("col")
}

func NewWidgetID() string {
	return newNodeID("widget")
}

// RemintIDs assigns fresh IDs to every node of the document. Used when a
// layout template is instantiated into a page, so two pages built from the
// same template never share node IDs.
func RemintIDs(doc Document) Document {
	for i := range doc.Sections {
		doc.Sections[i].ID = NewSectionID()
		for j := range doc.Sections[i].Columns {
			doc.Sections[i].Columns[j].ID = NewColumnID()
			for k := range doc.Sections[i].Columns[j].Widgets {
				doc.Sections[i].Columns[j].Widgets[k].ID = NewWidgetID()
			}
		}
	}
	return doc
}
