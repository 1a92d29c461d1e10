package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/coursekit/coursekit/internal/model"
	appErr "github.com/coursekit/coursekit/internal/pkg/errors"
	"github.com/coursekit/coursekit/internal/pkg/timeutil"
	"github.com/coursekit/coursekit/internal/repo"
)

type PageService struct {
	pages     *repo.PageRepo
	meta      *repo.MetaRepo
	pageTerms *repo.PageTermRepo
}

func NewPageService(pages *repo.PageRepo, meta *repo.MetaRepo, pageTerms *repo.PageTermRepo) *PageService {
	return &PageService{pages: pages, meta: meta, pageTerms: pageTerms}
}

type PageCreateInput struct {
	Type    string
	Title   string
	Slug    string
	Excerpt string
	Status  string
}

type PageUpdateInput struct {
	Title   string
	Slug    string
	Excerpt string
	Status  string
}

func (s *PageService) Create(ctx context.Context, userID string, input PageCreateInput) (*model.Page, error) {
	if input.Title == "" || !model.ValidPageType(input.Type) {
		return nil, appErr.ErrInvalid
	}
	status := input.Status
	if status == "" {
		status = model.PageStatusDraft
	}
	if status != model.PageStatusDraft && status != model.PageStatusPublished {
		return nil, appErr.ErrInvalid
	}
	slug := input.Slug
	if slug == "" {
		slug = Slugify(input.Title)
	}
	now := timeutil.NowUnix()
	page := &model.Page{
		ID:      newID(),
		UserID:  userID,
		Type:    input.Type,
		Title:   input.Title,
		Slug:    slug,
		Excerpt: input.Excerpt,
		Status:  status,
		State:   repo.PageStateNormal,
		Ctime:   now,
		Mtime:   now,
	}
	if err := s.pages.Create(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *PageService) Get(ctx context.Context, userID, pageID string) (*model.Page, error) {
	return s.pages.GetByID(ctx, userID, pageID)
}

func (s *PageService) List(ctx context.Context, userID, pageType, status string, limit, offset uint) ([]model.Page, error) {
	if pageType != "" && !model.ValidPageType(pageType) {
		return nil, appErr.ErrInvalid
	}
	return s.pages.List(ctx, userID, pageType, status, limit, offset)
}

func (s *PageService) ListByTerm(ctx context.Context, userID, termID string) ([]model.Page, error) {
	pageIDs, err := s.pageTerms.ListPageIDsByTerm(ctx, userID, termID)
	if err != nil {
		return nil, err
	}
	return s.pages.ListByIDs(ctx, userID, pageIDs)
}

func (s *PageService) Update(ctx context.Context, userID, pageID string, input PageUpdateInput) error {
	page, err := s.pages.GetByID(ctx, userID, pageID)
	if err != nil {
		return err
	}
	if input.Title != "" {
		page.Title = input.Title
	}
	if input.Slug != "" {
		page.Slug = input.Slug
	}
	if input.Excerpt != "" {
		page.Excerpt = input.Excerpt
	}
	if input.Status != "" {
		if input.Status != model.PageStatusDraft && input.Status != model.PageStatusPublished {
			return appErr.ErrInvalid
		}
		page.Status = input.Status
	}
	page.Mtime = timeutil.NowUnix()
	return s.pages.Update(ctx, page)
}

// Delete soft-deletes the page and drops its meta and term assignments.
func (s *PageService) Delete(ctx context.Context, userID, pageID string) error {
	if err := s.pages.Delete(ctx, userID, pageID, timeutil.NowUnix()); err != nil {
		return err
	}
	if err := s.meta.Delete(ctx, pageID, repo.MetaKeyBuilderDocument); err != nil {
		return err
	}
	return s.pageTerms.DeleteByPage(ctx, userID, pageID)
}

var slugCleanRegex = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugCleanRegex.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = newID()[:8]
	}
	return slug
}
