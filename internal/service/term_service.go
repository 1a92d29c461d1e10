package service

import (
	"context"

	"github.com/coursekit/coursekit/internal/model"
	appErr "github.com/coursekit/coursekit/internal/pkg/errors"
	"github.com/coursekit/coursekit/internal/pkg/timeutil"
	"github.com/coursekit/coursekit/internal/repo"
)

type TermService struct {
	terms     *repo.TermRepo
	pageTerms *repo.PageTermRepo
	pages     *repo.PageRepo
}

func NewTermService(terms *repo.TermRepo, pageTerms *repo.PageTermRepo, pages *repo.PageRepo) *TermService {
	return &TermService{terms: terms, pageTerms: pageTerms, pages: pages}
}

func (s *TermService) Create(ctx context.Context, userID, taxonomy, name string) (*model.Term, error) {
	if name == "" || !model.ValidTaxonomy(taxonomy) {
		return nil, appErr.ErrInvalid
	}
	term := &model.Term{
		ID:       newID(),
		UserID:   userID,
		Taxonomy: taxonomy,
		Name:     name,
		Slug:     Slugify(name),
		Ctime:    timeutil.NowUnix(),
	}
	if err := s.terms.Create(ctx, term); err != nil {
		return nil, err
	}
	return term, nil
}

func (s *TermService) List(ctx context.Context, userID, taxonomy string) ([]model.Term, error) {
	if taxonomy != "" && !model.ValidTaxonomy(taxonomy) {
		return nil, appErr.ErrInvalid
	}
	return s.terms.List(ctx, userID, taxonomy)
}

// Delete removes the term and every page assignment referencing it.
func (s *TermService) Delete(ctx context.Context, userID, termID string) error {
	if err := s.terms.Delete(ctx, userID, termID); err != nil {
		return err
	}
	return s.pageTerms.DeleteByTerm(ctx, userID, termID)
}

// AssignToPage replaces the page's full term set.
func (s *TermService) AssignToPage(ctx context.Context, userID, pageID string, termIDs []string) error {
	if _, err := s.pages.GetByID(ctx, userID, pageID); err != nil {
		return err
	}
	for _, termID := range termIDs {
		if _, err := s.terms.GetByID(ctx, userID, termID); err != nil {
			return err
		}
	}
	return s.pageTerms.Replace(ctx, userID, pageID, termIDs)
}

func (s *TermService) ListPageTermIDs(ctx context.Context, userID, pageID string) ([]string, error) {
	return s.pageTerms.ListTermIDs(ctx, userID, pageID)
}
