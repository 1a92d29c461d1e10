package service_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coursekit/coursekit/internal/builder"
	"github.com/coursekit/coursekit/internal/model"
	appErr "github.com/coursekit/coursekit/internal/pkg/errors"
	"github.com/coursekit/coursekit/internal/pkg/timeutil"
	"github.com/coursekit/coursekit/internal/registry"
	"github.com/coursekit/coursekit/internal/render"
	"github.com/coursekit/coursekit/internal/repo"
	"github.com/coursekit/coursekit/internal/service"
	"github.com/coursekit/coursekit/test/testutil"
)

func newTestID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setupBuilder(t *testing.T) (*service.BuilderService, *repo.PageRepo, func()) {
	t.Helper()
	db, cleanup := testutil.OpenTestDB(t)
	reg := registry.New()
	svc := service.NewBuilderService(
		repo.NewPageRepo(db),
		repo.NewMetaRepo(db),
		repo.NewRevisionRepo(db),
		reg,
		render.New(reg),
		render.NewCache(16, time.Minute),
		5,
	)
	return svc, repo.NewPageRepo(db), cleanup
}

// Runs without a database: the page id check rejects before any repo is
// touched, so nil repos prove storage stays out of the picture.
func TestBuilderServiceRejectsMissingPageID(t *testing.T) {
	reg := registry.New()
	svc := service.NewBuilderService(nil, nil, nil, reg, render.New(reg), nil, 5)
	ctx := context.Background()

	_, _, err := svc.Load(ctx, "user1", "")
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = svc.Save(ctx, "user1", "", builderDoc())
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func builderDoc() builder.Document {
	doc := builder.NewDocument()
	doc.AddSection()
	return doc
}

func seedPage(t *testing.T, pages *repo.PageRepo, userID string, status string) *model.Page {
	t.Helper()
	now := timeutil.NowUnix()
	page := &model.Page{
		ID:     newTestID(),
		UserID: userID,
		Type:   model.PageTypeCourse,
		Title:  "Course",
		Slug:   "course-" + newTestID(),
		Status: status,
		State:  repo.PageStateNormal,
		Ctime:  now,
		Mtime:  now,
	}
	require.NoError(t, pages.Create(context.Background(), page))
	return page
}

func TestBuilderServiceEditFlow(t *testing.T) {
	svc, pages, cleanup := setupBuilder(t)
	defer cleanup()
	ctx := context.Background()
	userID := newTestID()
	page := seedPage(t, pages, userID, model.PageStatusDraft)

	// A page with no stored document loads as the empty state.
	doc, revision, err := svc.Load(ctx, userID, page.ID)
	require.NoError(t, err)
	require.True(t, doc.IsEmpty())
	require.Zero(t, revision)

	doc, revision, err = svc.AddSection(ctx, userID, page.ID)
	require.NoError(t, err)
	require.Equal(t, 1, revision)
	sectionID := doc.Sections[0].ID

	doc, revision, err = svc.AddWidget(ctx, userID, page.ID, "heading", sectionID)
	require.NoError(t, err)
	require.Equal(t, 2, revision)
	widgetID := doc.Sections[0].Columns[0].Widgets[0].ID

	doc, revision, err = svc.UpdateWidgetSettings(ctx, userID, page.ID, widgetID, map[string]interface{}{
		"title":    "Welcome",
		"tag":      "h1",
		"speed":    "fast",
		"new_rows": float64(9),
	})
	require.NoError(t, err)
	require.Equal(t, 3, revision)
	got := doc.Sections[0].Columns[0].Widgets[0]
	require.Equal(t, "Welcome", got.Settings["title"])
	require.Equal(t, "h1", got.Settings["tag"])
	_, has := got.Settings["speed"]
	require.False(t, has)

	// Reload sees exactly what was saved.
	doc, revision, err = svc.Load(ctx, userID, page.ID)
	require.NoError(t, err)
	require.Equal(t, 3, revision)
	require.Equal(t, widgetID, doc.Sections[0].Columns[0].Widgets[0].ID)

	doc, revision, err = svc.DeleteWidget(ctx, userID, page.ID, widgetID)
	require.NoError(t, err)
	require.Equal(t, 4, revision)
	// The emptied section stays.
	require.Len(t, doc.Sections, 1)

	doc, revision, err = svc.DeleteSection(ctx, userID, page.ID, sectionID)
	require.NoError(t, err)
	require.Equal(t, 5, revision)
	require.True(t, doc.IsEmpty())
}

func TestBuilderServiceOwnership(t *testing.T) {
	svc, pages, cleanup := setupBuilder(t)
	defer cleanup()
	ctx := context.Background()
	owner := newTestID()
	page := seedPage(t, pages, owner, model.PageStatusDraft)

	_, _, err := svc.Load(ctx, newTestID(), page.ID)
	require.ErrorIs(t, err, appErr.ErrNotFound)

	_, _, err = svc.AddSection(ctx, newTestID(), page.ID)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestBuilderServiceUnknownWidgetType(t *testing.T) {
	svc, pages, cleanup := setupBuilder(t)
	defer cleanup()
	ctx := context.Background()
	userID := newTestID()
	page := seedPage(t, pages, userID, model.PageStatusDraft)

	_, _, err := svc.AddWidget(ctx, userID, page.ID, "carousel", "")
	require.ErrorIs(t, err, appErr.ErrUnknownWidgetType)
}

func TestBuilderServiceReorder(t *testing.T) {
	svc, pages, cleanup := setupBuilder(t)
	defer cleanup()
	ctx := context.Background()
	userID := newTestID()
	page := seedPage(t, pages, userID, model.PageStatusDraft)

	doc, _, err := svc.AddSection(ctx, userID, page.ID)
	require.NoError(t, err)
	sectionID := doc.Sections[0].ID
	doc, _, err = svc.AddWidget(ctx, userID, page.ID, "text", sectionID)
	require.NoError(t, err)
	id1 := doc.Sections[0].Columns[0].Widgets[0].ID
	doc, _, err = svc.AddWidget(ctx, userID, page.ID, "button", sectionID)
	require.NoError(t, err)
	id2 := doc.Sections[0].Columns[0].Widgets[1].ID
	columnID := doc.Sections[0].Columns[0].ID

	doc, _, err = svc.ReorderWidgets(ctx, userID, page.ID, columnID, []string{id2, id1})
	require.NoError(t, err)
	widgets := doc.Sections[0].Columns[0].Widgets
	require.Equal(t, id2, widgets[0].ID)
	require.Equal(t, id1, widgets[1].ID)

	_, _, err = svc.ReorderWidgets(ctx, userID, page.ID, columnID, []string{id1})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestBuilderServiceRevisionsAndRestore(t *testing.T) {
	svc, pages, cleanup := setupBuilder(t)
	defer cleanup()
	ctx := context.Background()
	userID := newTestID()
	page := seedPage(t, pages, userID, model.PageStatusDraft)

	doc, _, err := svc.AddSection(ctx, userID, page.ID)
	require.NoError(t, err)
	sectionID := doc.Sections[0].ID
	_, _, err = svc.AddWidget(ctx, userID, page.ID, "heading", sectionID)
	require.NoError(t, err)
	_, _, err = svc.DeleteSection(ctx, userID, page.ID, sectionID)
	require.NoError(t, err)

	summaries, err := svc.ListRevisions(ctx, userID, page.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	require.Equal(t, 3, summaries[0].Revision)

	// Restoring revision 2 brings the widget back as a new revision.
	doc, revision, err := svc.Restore(ctx, userID, page.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 4, revision)
	require.Len(t, doc.Sections, 1)
	require.Len(t, doc.Sections[0].Columns[0].Widgets, 1)
}

func TestBuilderServiceRevisionTrim(t *testing.T) {
	svc, pages, cleanup := setupBuilder(t)
	defer cleanup()
	ctx := context.Background()
	userID := newTestID()
	page := seedPage(t, pages, userID, model.PageStatusDraft)

	// The service was built with a keep window of 5.
	for i := 0; i < 8; i++ {
		_, _, err := svc.AddSection(ctx, userID, page.ID)
		require.NoError(t, err)
	}
	summaries, err := svc.ListRevisions(ctx, userID, page.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 5)
	require.Equal(t, 8, summaries[0].Revision)
	require.Equal(t, 4, summaries[4].Revision)
}

func TestBuilderServiceRenderBySlug(t *testing.T) {
	svc, pages, cleanup := setupBuilder(t)
	defer cleanup()
	ctx := context.Background()
	userID := newTestID()

	draft := seedPage(t, pages, userID, model.PageStatusDraft)
	_, _, err := svc.RenderBySlug(ctx, draft.Slug)
	require.ErrorIs(t, err, appErr.ErrNotFound)

	published := seedPage(t, pages, userID, model.PageStatusPublished)
	doc, _, err := svc.AddWidget(ctx, userID, published.ID, "heading", "")
	require.NoError(t, err)
	widgetID := doc.Sections[0].Columns[0].Widgets[0].ID
	_, _, err = svc.UpdateWidgetSettings(ctx, userID, published.ID, widgetID, map[string]interface{}{"title": "Hello"})
	require.NoError(t, err)

	markup, page, err := svc.RenderBySlug(ctx, published.Slug)
	require.NoError(t, err)
	require.Equal(t, published.ID, page.ID)
	require.Contains(t, markup, ">Hello</h2>")

	// Second hit comes back identical from the cache.
	cached, _, err := svc.RenderBySlug(ctx, published.Slug)
	require.NoError(t, err)
	require.Equal(t, markup, cached)
}

func TestBuilderServiceEnable(t *testing.T) {
	svc, pages, cleanup := setupBuilder(t)
	defer cleanup()
	ctx := context.Background()
	userID := newTestID()
	page := seedPage(t, pages, userID, model.PageStatusDraft)

	require.NoError(t, svc.EnableBuilder(ctx, userID, page.ID))
	fetched, err := pages.GetByID(ctx, userID, page.ID)
	require.NoError(t, err)
	require.Equal(t, 1, fetched.BuilderEnabled)

	// First activation seeds the empty document as revision 1.
	_, revision, err := svc.Load(ctx, userID, page.ID)
	require.NoError(t, err)
	require.Equal(t, 1, revision)

	// Re-enabling does not reseed.
	require.NoError(t, svc.EnableBuilder(ctx, userID, page.ID))
	_, revision, err = svc.Load(ctx, userID, page.ID)
	require.NoError(t, err)
	require.Equal(t, 1, revision)
}
