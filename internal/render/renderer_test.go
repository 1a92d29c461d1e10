package render

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coursekit/coursekit/internal/builder"
	"github.com/coursekit/coursekit/internal/registry"
)

func TestDocumentEmptyState(t *testing.T) {
	r := New(registry.New())
	out := r.Document(context.Background(), builder.NewDocument())
	require.Equal(t, `<div class="ck-builder"><div class="ck-empty"></div></div>`, out)
}

func TestDocumentSectionsAndColumns(t *testing.T) {
	r := New(registry.New())
	doc := builder.Document{
		Version: builder.SchemaVersion,
		Sections: []builder.Section{{
			ID: "s1",
			Columns: []builder.Column{
				{ID: "c1", Width: 66.6},
				{ID: "c2", Width: 0},
			},
		}},
	}
	out := r.Document(context.Background(), doc)
	// A placed section keeps its structure even before any widget lands in it.
	require.NotContains(t, out, `ck-empty`)
	require.Contains(t, out, `<section class="ck-section" data-id="s1">`)
	require.Contains(t, out, `data-id="c1" style="width:66.6%"`)
	// Bad widths fall back to full width.
	require.Contains(t, out, `data-id="c2" style="width:100%"`)
}

func TestWidgetUnknownTypeRendersNothing(t *testing.T) {
	r := New(registry.New())
	out := r.Widget(context.Background(), builder.Widget{ID: "w1", Type: "carousel"})
	require.Empty(t, out)
}

func TestWidgetDefaultsAppliedAtRenderTime(t *testing.T) {
	r := New(registry.New())
	// Stored settings hold only the title; tag and color come from declared
	// defaults when the widget is rendered.
	out := r.Widget(context.Background(), builder.Widget{
		ID:       "w1",
		Type:     "heading",
		Settings: map[string]interface{}{"title": "Our Teachers"},
	})
	require.Contains(t, out, `<h2 class="ck-heading"`)
	require.Contains(t, out, `color:#222222`)
	require.Contains(t, out, `>Our Teachers</h2>`)
	require.Contains(t, out, `ck-widget-heading`)
}

func TestWidgetStoredSettingsWinOverDefaults(t *testing.T) {
	r := New(registry.New())
	out := r.Widget(context.Background(), builder.Widget{
		ID:   "w1",
		Type: "heading",
		Settings: map[string]interface{}{
			"title": "Courses",
			"tag":   "h1",
			"color": "#ff0000",
		},
	})
	require.Contains(t, out, `<h1 class="ck-heading"`)
	require.Contains(t, out, `color:#ff0000`)
}

func TestHeadingRejectsArbitraryTags(t *testing.T) {
	r := New(registry.New())
	out := r.Widget(context.Background(), builder.Widget{
		ID:       "w1",
		Type:     "heading",
		Settings: map[string]interface{}{"title": "x", "tag": "script"},
	})
	require.Contains(t, out, "<h2")
	require.NotContains(t, out, "<script")
}

func TestTextRendersMarkdown(t *testing.T) {
	r := New(registry.New())
	out := r.Widget(context.Background(), builder.Widget{
		ID:       "w1",
		Type:     "text",
		Settings: map[string]interface{}{"content": "**bold** course"},
	})
	require.Contains(t, out, "<strong>bold</strong>")
}

func TestTextEscapesSettings(t *testing.T) {
	r := New(registry.New())
	out := r.Widget(context.Background(), builder.Widget{
		ID:       "w1",
		Type:     "heading",
		Settings: map[string]interface{}{"title": `<img src=x onerror=alert(1)>`},
	})
	require.NotContains(t, out, "<img")
}

func TestButtonNewTab(t *testing.T) {
	r := New(registry.New())
	out := r.Widget(context.Background(), builder.Widget{
		ID:       "w1",
		Type:     "button",
		Settings: map[string]interface{}{"label": "Enroll", "url": "/enroll", "new_tab": true},
	})
	require.Contains(t, out, `target="_blank" rel="noopener"`)
	require.Contains(t, out, `href="/enroll"`)
	require.Contains(t, out, `ck-button-primary`)
}

func TestEmptyBodyWidgetsRenderNothing(t *testing.T) {
	r := New(registry.New())
	// Required content absent means no wrapper either.
	require.Empty(t, r.Widget(context.Background(), builder.Widget{ID: "w1", Type: "image"}))
	require.Empty(t, r.Widget(context.Background(), builder.Widget{ID: "w2", Type: "video"}))
	require.Empty(t, r.Widget(context.Background(), builder.Widget{ID: "w3", Type: "course_card"}))
}

func TestCourseCardToggles(t *testing.T) {
	r := New(registry.New())
	out := r.Widget(context.Background(), builder.Widget{
		ID:       "w1",
		Type:     "course_card",
		Settings: map[string]interface{}{"course_id": "go-101", "show_teacher": false},
	})
	require.Contains(t, out, `data-course="go-101"`)
	require.Contains(t, out, "ck-course-card-excerpt")
	require.NotContains(t, out, "ck-course-card-teacher")
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache(4, 0)
	key := CacheKey("page1", 3)
	_, ok := c.Get(key)
	require.False(t, ok)

	c.Add(key, "<div></div>")
	got, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, "<div></div>", got)

	// A new revision is a new key; stale markup is never served.
	_, ok = c.Get(CacheKey("page1", 4))
	require.False(t, ok)

	// A nil cache is a no-op, not a panic.
	var nilCache *Cache
	nilCache.Add(key, "x")
	_, ok = nilCache.Get(key)
	require.False(t, ok)
}
