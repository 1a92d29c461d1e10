package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/coursekit/coursekit/internal/builder"
	"github.com/coursekit/coursekit/internal/model"
	appErr "github.com/coursekit/coursekit/internal/pkg/errors"
	"github.com/coursekit/coursekit/internal/pkg/timeutil"
	"github.com/coursekit/coursekit/internal/registry"
	"github.com/coursekit/coursekit/internal/render"
	"github.com/coursekit/coursekit/internal/repo"
)

// BuilderService is the load/save protocol between the editing client and
// storage. Every editing operation rewrites the whole stored document; there
// is no merging and no queueing, the last arriving save wins. A failed save
// leaves stored state as it was so the client can simply retry.
type BuilderService struct {
	pages           *repo.PageRepo
	meta            *repo.MetaRepo
	revisions       *repo.RevisionRepo
	reg             *registry.Registry
	renderer        *render.Renderer
	cache           *render.Cache
	revisionMaxKeep int
}

func NewBuilderService(pages *repo.PageRepo, meta *repo.MetaRepo, revisions *repo.RevisionRepo, reg *registry.Registry, renderer *render.Renderer, cache *render.Cache, revisionMaxKeep int) *BuilderService {
	return &BuilderService{
		pages:           pages,
		meta:            meta,
		revisions:       revisions,
		reg:             reg,
		renderer:        renderer,
		cache:           cache,
		revisionMaxKeep: revisionMaxKeep,
	}
}

// Load returns the page's current builder document. A page with no stored
// state yields the empty document, never an error; stored garbage is repaired
// to the empty document; a stored document from an unknown schema major fails
// closed.
func (s *BuilderService) Load(ctx context.Context, userID, pageID string) (builder.Document, int, error) {
	if pageID == "" {
		return builder.Document{}, 0, fmt.Errorf("%w: page id required", appErr.ErrInvalid)
	}
	if _, err := s.pages.GetByID(ctx, userID, pageID); err != nil {
		return builder.Document{}, 0, err
	}
	raw, err := s.meta.Get(ctx, pageID, repo.MetaKeyBuilderDocument)
	if err != nil {
		if appErr.IsNotFound(err) {
			return builder.NewDocument(), 0, nil
		}
		return builder.Document{}, 0, err
	}
	doc, err := builder.Decode(ctx, []byte(raw), s.reg)
	if err != nil {
		return builder.Document{}, 0, err
	}
	revision, err := s.revisions.GetLatestRevision(ctx, userID, pageID)
	if err != nil && !appErr.IsNotFound(err) {
		return builder.Document{}, 0, err
	}
	return doc, revision, nil
}

// Save normalizes and stores the whole document, replacing whatever was there,
// then records a revision. The ownership check doubles as the authorization
// gate: a caller who does not own the page changes nothing.
func (s *BuilderService) Save(ctx context.Context, userID, pageID string, doc builder.Document) (int, error) {
	if pageID == "" {
		return 0, fmt.Errorf("%w: page id required", appErr.ErrInvalid)
	}
	if _, err := s.pages.GetByID(ctx, userID, pageID); err != nil {
		return 0, err
	}
	doc = builder.Normalize(ctx, doc, s.reg)
	data, err := builder.Encode(ctx, doc, s.reg)
	if err != nil {
		return 0, err
	}
	if err := s.meta.Set(ctx, pageID, repo.MetaKeyBuilderDocument, string(data), timeutil.NowUnix()); err != nil {
		return 0, err
	}
	revision, err := s.recordRevision(ctx, userID, pageID, string(data))
	if err != nil {
		return 0, err
	}
	logutil.GetLogger(ctx).Info("builder document saved",
		zap.String("page_id", pageID),
		zap.Int("revision", revision),
		zap.Int("widgets", doc.WidgetCount()),
	)
	return revision, nil
}

func (s *BuilderService) recordRevision(ctx context.Context, userID, pageID, content string) (int, error) {
	latest, err := s.revisions.GetLatestRevision(ctx, userID, pageID)
	if err != nil && !appErr.IsNotFound(err) {
		return 0, err
	}
	revision := latest + 1
	err = s.revisions.Create(ctx, &model.Revision{
		ID:       newID(),
		UserID:   userID,
		PageID:   pageID,
		Revision: revision,
		Content:  content,
		Ctime:    timeutil.NowUnix(),
	})
	if err != nil {
		return 0, err
	}
	if err := s.revisions.TrimToKeep(ctx, userID, pageID, s.revisionMaxKeep); err != nil {
		logutil.GetLogger(ctx).Warn("revision trim failed", zap.String("page_id", pageID), zap.Error(err))
	}
	return revision, nil
}

// EnableBuilder flips the flag and seeds the empty document on first
// activation.
func (s *BuilderService) EnableBuilder(ctx context.Context, userID, pageID string) error {
	if err := s.pages.UpdateBuilderEnabled(ctx, userID, pageID, 1, timeutil.NowUnix()); err != nil {
		return err
	}
	if _, err := s.meta.Get(ctx, pageID, repo.MetaKeyBuilderDocument); err == nil || !appErr.IsNotFound(err) {
		return err
	}
	_, err := s.Save(ctx, userID, pageID, builder.NewDocument())
	return err
}

// AddSection appends a section with one full-width column and persists.
func (s *BuilderService) AddSection(ctx context.Context, userID, pageID string) (builder.Document, int, error) {
	doc, _, err := s.Load(ctx, userID, pageID)
	if err != nil {
		return builder.Document{}, 0, err
	}
	doc.AddSection()
	revision, err := s.Save(ctx, userID, pageID, doc)
	if err != nil {
		return builder.Document{}, 0, err
	}
	return doc, revision, nil
}

// AddWidget appends a widget of widgetType to the target section, creating a
// section and column as needed, and persists.
func (s *BuilderService) AddWidget(ctx context.Context, userID, pageID, widgetType, targetSectionID string) (builder.Document, int, error) {
	if !s.reg.Has(widgetType) {
		return builder.Document{}, 0, fmt.Errorf("%w: %s", appErr.ErrUnknownWidgetType, widgetType)
	}
	doc, _, err := s.Load(ctx, userID, pageID)
	if err != nil {
		return builder.Document{}, 0, err
	}
	if _, err := doc.AddWidget(widgetType, targetSectionID); err != nil {
		return builder.Document{}, 0, err
	}
	revision, err := s.Save(ctx, userID, pageID, doc)
	if err != nil {
		return builder.Document{}, 0, err
	}
	return doc, revision, nil
}

func (s *BuilderService) DeleteWidget(ctx context.Context, userID, pageID, widgetID string) (builder.Document, int, error) {
	doc, _, err := s.Load(ctx, userID, pageID)
	if err != nil {
		return builder.Document{}, 0, err
	}
	if !doc.DeleteWidget(widgetID) {
		return builder.Document{}, 0, fmt.Errorf("%w: widget %s", appErr.ErrNotFound, widgetID)
	}
	revision, err := s.Save(ctx, userID, pageID, doc)
	if err != nil {
		return builder.Document{}, 0, err
	}
	return doc, revision, nil
}

func (s *BuilderService) DeleteSection(ctx context.Context, userID, pageID, sectionID string) (builder.Document, int, error) {
	doc, _, err := s.Load(ctx, userID, pageID)
	if err != nil {
		return builder.Document{}, 0, err
	}
	if !doc.DeleteSection(sectionID) {
		return builder.Document{}, 0, fmt.Errorf("%w: section %s", appErr.ErrNotFound, sectionID)
	}
	revision, err := s.Save(ctx, userID, pageID, doc)
	if err != nil {
		return builder.Document{}, 0, err
	}
	return doc, revision, nil
}

func (s *BuilderService) ReorderWidgets(ctx context.Context, userID, pageID, columnID string, newOrder []string) (builder.Document, int, error) {
	doc, _, err := s.Load(ctx, userID, pageID)
	if err != nil {
		return builder.Document{}, 0, err
	}
	if err := doc.ReorderWidgets(columnID, newOrder); err != nil {
		return builder.Document{}, 0, err
	}
	revision, err := s.Save(ctx, userID, pageID, doc)
	if err != nil {
		return builder.Document{}, 0, err
	}
	return doc, revision, nil
}

// UpdateWidgetSettings replaces the widget's settings with the registry-coerced
// form values. Fields missing from the submission stay absent; the widget's id
// and type are untouched.
func (s *BuilderService) UpdateWidgetSettings(ctx context.Context, userID, pageID, widgetID string, raw map[string]interface{}) (builder.Document, int, error) {
	doc, _, err := s.Load(ctx, userID, pageID)
	if err != nil {
		return builder.Document{}, 0, err
	}
	widgetType, ok := doc.WidgetType(widgetID)
	if !ok {
		return builder.Document{}, 0, fmt.Errorf("%w: widget %s", appErr.ErrNotFound, widgetID)
	}
	settings, err := s.reg.CoerceSettings(widgetType, raw)
	if err != nil {
		return builder.Document{}, 0, err
	}
	doc.UpdateWidgetSettings(widgetID, settings)
	revision, err := s.Save(ctx, userID, pageID, doc)
	if err != nil {
		return builder.Document{}, 0, err
	}
	return doc, revision, nil
}

// AppendSections grafts already-built sections (for example an instantiated
// layout template) onto the end of the page's document and persists.
func (s *BuilderService) AppendSections(ctx context.Context, userID, pageID string, sections []builder.Section) (builder.Document, int, error) {
	doc, _, err := s.Load(ctx, userID, pageID)
	if err != nil {
		return builder.Document{}, 0, err
	}
	doc.Sections = append(doc.Sections, sections...)
	revision, err := s.Save(ctx, userID, pageID, doc)
	if err != nil {
		return builder.Document{}, 0, err
	}
	return doc, revision, nil
}

// Restore overwrites the current document with a stored revision's content and
// persists it as a new revision.
func (s *BuilderService) Restore(ctx context.Context, userID, pageID string, revision int) (builder.Document, int, error) {
	rev, err := s.revisions.Get(ctx, userID, pageID, revision)
	if err != nil {
		return builder.Document{}, 0, err
	}
	doc, err := builder.Decode(ctx, []byte(rev.Content), s.reg)
	if err != nil {
		return builder.Document{}, 0, err
	}
	newRevision, err := s.Save(ctx, userID, pageID, doc)
	if err != nil {
		return builder.Document{}, 0, err
	}
	return doc, newRevision, nil
}

// Preview renders the current document for its owner.
func (s *BuilderService) Preview(ctx context.Context, userID, pageID string) (string, error) {
	doc, _, err := s.Load(ctx, userID, pageID)
	if err != nil {
		return "", err
	}
	return s.renderer.Document(ctx, doc), nil
}

// RenderBySlug renders a published page for public consumption, via the
// render cache keyed by page and revision.
func (s *BuilderService) RenderBySlug(ctx context.Context, slug string) (string, *model.Page, error) {
	if slug == "" {
		return "", nil, fmt.Errorf("%w: slug required", appErr.ErrInvalid)
	}
	page, err := s.pages.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return "", nil, err
	}
	revision, err := s.revisions.GetLatestRevision(ctx, page.UserID, page.ID)
	if err != nil && !appErr.IsNotFound(err) {
		return "", nil, err
	}
	cacheKey := render.CacheKey(page.ID, revision)
	if markup, ok := s.cache.Get(cacheKey); ok {
		return markup, page, nil
	}
	raw, err := s.meta.Get(ctx, page.ID, repo.MetaKeyBuilderDocument)
	if err != nil && !appErr.IsNotFound(err) {
		return "", nil, err
	}
	doc, err := builder.Decode(ctx, []byte(raw), s.reg)
	if err != nil {
		// A page must render even when its stored document is unusable.
		logutil.GetLogger(ctx).Warn("stored document unrenderable, serving empty state",
			zap.String("page_id", page.ID), zap.Error(err))
		doc = builder.NewDocument()
	}
	markup := s.renderer.Document(ctx, doc)
	s.cache.Add(cacheKey, markup)
	return markup, page, nil
}

// ListRevisions returns revision summaries, newest first.
func (s *BuilderService) ListRevisions(ctx context.Context, userID, pageID string) ([]model.RevisionSummary, error) {
	if _, err := s.pages.GetByID(ctx, userID, pageID); err != nil {
		return nil, err
	}
	return s.revisions.ListSummaries(ctx, userID, pageID)
}

func (s *BuilderService) GetRevision(ctx context.Context, userID, pageID string, revision int) (*model.Revision, error) {
	return s.revisions.Get(ctx, userID, pageID, revision)
}
