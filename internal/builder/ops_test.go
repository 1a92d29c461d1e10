package builder

import (
	"testing"

	"github.com/stretchr/testify/require"

	appErr "github.com/coursekit/coursekit/internal/pkg/errors"
)

func TestAddSection(t *testing.T) {
	doc := NewDocument()
	section := doc.AddSection()

	require.Len(t, doc.Sections, 1)
	require.NotEmpty(t, section.ID)
	require.Len(t, section.Columns, 1)
	require.Equal(t, float64(100), section.Columns[0].Width)
	require.Empty(t, section.Columns[0].Widgets)

	second := doc.AddSection()
	require.Len(t, doc.Sections, 2)
	require.NotEqual(t, section.ID, second.ID)
}

func TestAddWidgetIntoEmptyDocument(t *testing.T) {
	doc := NewDocument()
	widget, err := doc.AddWidget("text", "")
	require.NoError(t, err)
	require.NotEmpty(t, widget.ID)
	require.Equal(t, "text", widget.Type)
	require.NotNil(t, widget.Settings)

	// A section and column were created on the way.
	require.Len(t, doc.Sections, 1)
	require.Len(t, doc.Sections[0].Columns, 1)
	require.Len(t, doc.Sections[0].Columns[0].Widgets, 1)
}

func TestAddWidgetTargetsNamedSection(t *testing.T) {
	doc := NewDocument()
	first := doc.AddSection()
	doc.AddSection()

	widget, err := doc.AddWidget("heading", first.ID)
	require.NoError(t, err)
	require.Equal(t, widget.ID, doc.Sections[0].Columns[0].Widgets[0].ID)
	require.Empty(t, doc.Sections[1].Columns[0].Widgets)
}

func TestAddWidgetDefaultsToLastSection(t *testing.T) {
	doc := NewDocument()
	doc.AddSection()
	doc.AddSection()

	widget, err := doc.AddWidget("heading", "")
	require.NoError(t, err)
	require.Equal(t, widget.ID, doc.Sections[1].Columns[0].Widgets[0].ID)
}

func TestAddWidgetMissingSection(t *testing.T) {
	doc := NewDocument()
	doc.AddSection()
	_, err := doc.AddWidget("text", "section_does_not_exist")
	require.ErrorIs(t, err, appErr.ErrNotFound)
	require.Empty(t, doc.Sections[0].Columns[0].Widgets)
}

func TestAddWidgetEmptyType(t *testing.T) {
	doc := NewDocument()
	_, err := doc.AddWidget("", "")
	require.ErrorIs(t, err, appErr.ErrInvalid)
	require.True(t, doc.IsEmpty())
}

func TestAddWidgetRepairsColumnlessSection(t *testing.T) {
	doc := Document{Version: SchemaVersion, Sections: []Section{{ID: "s1"}}}
	widget, err := doc.AddWidget("text", "s1")
	require.NoError(t, err)
	require.Len(t, doc.Sections[0].Columns, 1)
	require.Equal(t, float64(100), doc.Sections[0].Columns[0].Width)
	require.Equal(t, widget.ID, doc.Sections[0].Columns[0].Widgets[0].ID)
}

func TestDeleteWidgetKeepsEmptySection(t *testing.T) {
	doc := NewDocument()
	widget, err := doc.AddWidget("text", "")
	require.NoError(t, err)

	require.True(t, doc.DeleteWidget(widget.ID))
	require.Len(t, doc.Sections, 1)
	require.Empty(t, doc.Sections[0].Columns[0].Widgets)

	require.False(t, doc.DeleteWidget(widget.ID))
	require.False(t, doc.DeleteWidget("never_existed"))
}

func TestDeleteSection(t *testing.T) {
	doc := NewDocument()
	section := doc.AddSection()
	_, err := doc.AddWidget("text", section.ID)
	require.NoError(t, err)
	keepID := doc.AddSection().ID

	require.True(t, doc.DeleteSection(section.ID))
	require.Len(t, doc.Sections, 1)
	require.Equal(t, keepID, doc.Sections[0].ID)
	require.False(t, doc.DeleteSection(section.ID))
}

func TestReorderWidgets(t *testing.T) {
	doc := NewDocument()
	section := doc.AddSection()
	w1, err := doc.AddWidget("text", section.ID)
	require.NoError(t, err)
	id1 := w1.ID
	w2, err := doc.AddWidget("heading", section.ID)
	require.NoError(t, err)
	id2 := w2.ID
	w3, err := doc.AddWidget("text", section.ID)
	require.NoError(t, err)
	id3 := w3.ID
	columnID := doc.Sections[0].Columns[0].ID

	require.NoError(t, doc.ReorderWidgets(columnID, []string{id3, id1, id2}))
	widgets := doc.Sections[0].Columns[0].Widgets
	require.Equal(t, []string{id3, id1, id2}, []string{widgets[0].ID, widgets[1].ID, widgets[2].ID})
	require.Equal(t, "text", widgets[0].Type)
	require.Equal(t, "heading", widgets[2].Type)
}

func TestReorderWidgetsRejectsBadPermutations(t *testing.T) {
	doc := NewDocument()
	section := doc.AddSection()
	w1, err := doc.AddWidget("text", section.ID)
	require.NoError(t, err)
	w2, err := doc.AddWidget("text", section.ID)
	require.NoError(t, err)
	columnID := doc.Sections[0].Columns[0].ID

	err = doc.ReorderWidgets(columnID, []string{w1.ID})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	err = doc.ReorderWidgets(columnID, []string{w1.ID, "stranger"})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	err = doc.ReorderWidgets(columnID, []string{w1.ID, w1.ID})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	err = doc.ReorderWidgets("no_such_column", []string{w1.ID, w2.ID})
	require.ErrorIs(t, err, appErr.ErrNotFound)

	// Failed reorders leave the column untouched.
	widgets := doc.Sections[0].Columns[0].Widgets
	require.Equal(t, []string{w1.ID, w2.ID}, []string{widgets[0].ID, widgets[1].ID})
}

func TestUpdateWidgetSettings(t *testing.T) {
	doc := NewDocument()
	widget, err := doc.AddWidget("heading", "")
	require.NoError(t, err)
	id := widget.ID

	require.True(t, doc.UpdateWidgetSettings(id, map[string]interface{}{"title": "Welcome"}))
	got := doc.Sections[0].Columns[0].Widgets[0]
	require.Equal(t, id, got.ID)
	require.Equal(t, "heading", got.Type)
	require.Equal(t, map[string]interface{}{"title": "Welcome"}, got.Settings)

	// Replacement is wholesale, not a merge.
	require.True(t, doc.UpdateWidgetSettings(id, map[string]interface{}{"color": "#000"}))
	got = doc.Sections[0].Columns[0].Widgets[0]
	_, has := got.Settings["title"]
	require.False(t, has)

	require.True(t, doc.UpdateWidgetSettings(id, nil))
	require.NotNil(t, doc.Sections[0].Columns[0].Widgets[0].Settings)

	require.False(t, doc.UpdateWidgetSettings("missing", map[string]interface{}{}))
}

func TestWidgetType(t *testing.T) {
	doc := NewDocument()
	widget, err := doc.AddWidget("text", "")
	require.NoError(t, err)

	widgetType, ok := doc.WidgetType(widget.ID)
	require.True(t, ok)
	require.Equal(t, "text", widgetType)

	_, ok = doc.WidgetType("missing")
	require.False(t, ok)
}

func TestWidgetLookup(t *testing.T) {
	doc := NewDocument()
	added, err := doc.AddWidget("text", "")
	require.NoError(t, err)
	doc.UpdateWidgetSettings(added.ID, map[string]interface{}{"content": "hello"})

	widget, ok := doc.Widget(added.ID)
	require.True(t, ok)
	require.Equal(t, "text", widget.Type)
	require.Equal(t, "hello", widget.Settings["content"])

	_, ok = doc.Widget("missing")
	require.False(t, ok)
}

func TestWidgetCount(t *testing.T) {
	doc := NewDocument()
	require.Zero(t, doc.WidgetCount())
	section := doc.AddSection()
	_, err := doc.AddWidget("text", section.ID)
	require.NoError(t, err)
	_, err = doc.AddWidget("text", "")
	require.NoError(t, err)
	require.Equal(t, 2, doc.WidgetCount())
}

func TestRemintIDs(t *testing.T) {
	doc := NewDocument()
	section := doc.AddSection()
	widget, err := doc.AddWidget("text", section.ID)
	require.NoError(t, err)
	oldSection, oldColumn, oldWidget := section.ID, doc.Sections[0].Columns[0].ID, widget.ID

	doc = RemintIDs(doc)
	require.NotEqual(t, oldSection, doc.Sections[0].ID)
	require.NotEqual(t, oldColumn, doc.Sections[0].Columns[0].ID)
	require.NotEqual(t, oldWidget, doc.Sections[0].Columns[0].Widgets[0].ID)
	require.Equal(t, "text", doc.Sections[0].Columns[0].Widgets[0].Type)
}
