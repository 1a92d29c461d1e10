package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/coursekit/coursekit/internal/model"
	"github.com/coursekit/coursekit/internal/pkg/dbutil"
	appErr "github.com/coursekit/coursekit/internal/pkg/errors"
)

const (
	PageStateNormal  = 1
	PageStateDeleted = 2
)

var pageColumns = []string{"id", "user_id", "type", "title", "slug", "excerpt", "status", "builder_enabled", "state", "ctime", "mtime"}

type PageRepo struct {
	db *sql.DB
}

func NewPageRepo(db *sql.DB) *PageRepo {
	return &PageRepo{db: db}
}

func (r *PageRepo) Create(ctx context.Context, page *model.Page) error {
	data := map[string]interface{}{
		"id":              page.ID,
		"user_id":         page.UserID,
		"type":            page.Type,
		"title":           page.Title,
		"slug":            page.Slug,
		"excerpt":         page.Excerpt,
		"status":          page.Status,
		"builder_enabled": page.BuilderEnabled,
		"state":           page.State,
		"ctime":           page.Ctime,
		"mtime":           page.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("pages", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if dbutil.IsConflict(err) {
		return appErr.ErrConflict
	}
	return err
}

func (r *PageRepo) Update(ctx context.Context, page *model.Page) error {
	where := map[string]interface{}{
		"id":      page.ID,
		"user_id": page.UserID,
		"state":   PageStateNormal,
	}
	update := map[string]interface{}{
		"title":   page.Title,
		"slug":    page.Slug,
		"excerpt": page.Excerpt,
		"status":  page.Status,
		"mtime":   page.Mtime,
	}
	return r.exec(ctx, where, update)
}

func (r *PageRepo) UpdateBuilderEnabled(ctx context.Context, userID, pageID string, enabled int, mtime int64) error {
	where := map[string]interface{}{
		"id":      pageID,
		"user_id": userID,
		"state":   PageStateNormal,
	}
	update := map[string]interface{}{
		"builder_enabled": enabled,
		"mtime":           mtime,
	}
	return r.exec(ctx, where, update)
}

func (r *PageRepo) Delete(ctx context.Context, userID, pageID string, mtime int64) error {
	where := map[string]interface{}{
		"id":      pageID,
		"user_id": userID,
		"state":   PageStateNormal,
	}
	update := map[string]interface{}{
		"state": PageStateDeleted,
		"mtime": mtime,
	}
	return r.exec(ctx, where, update)
}

func (r *PageRepo) exec(ctx context.Context, where, update map[string]interface{}) error {
	sqlStr, args, err := builder.BuildUpdate("pages", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *PageRepo) GetByID(ctx context.Context, userID, pageID string) (*model.Page, error) {
	where := map[string]interface{}{
		"id":      pageID,
		"user_id": userID,
		"state":   PageStateNormal,
	}
	return r.getOne(ctx, where)
}

// GetPublishedBySlug is the public lookup used by the render endpoint; it is
// not scoped by user.
func (r *PageRepo) GetPublishedBySlug(ctx context.Context, slug string) (*model.Page, error) {
	where := map[string]interface{}{
		"slug":   slug,
		"status": model.PageStatusPublished,
		"state":  PageStateNormal,
	}
	return r.getOne(ctx, where)
}

func (r *PageRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.Page, error) {
	sqlStr, args, err := builder.BuildSelect("pages", where, pageColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	page, err := scanPage(rows)
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (r *PageRepo) List(ctx context.Context, userID, pageType, status string, limit, offset uint) ([]model.Page, error) {
	where := map[string]interface{}{
		"user_id":  userID,
		"state":    PageStateNormal,
		"_orderby": "mtime desc",
	}
	if pageType != "" {
		where["type"] = pageType
	}
	if status != "" {
		where["status"] = status
	}
	if limit > 0 {
		where["_limit"] = []uint{offset, limit}
	}
	return r.list(ctx, where)
}

func (r *PageRepo) ListByIDs(ctx context.Context, userID string, ids []string) ([]model.Page, error) {
	if len(ids) == 0 {
		return []model.Page{}, nil
	}
	where := map[string]interface{}{
		"user_id": userID,
		"id in":   ids,
		"state":   PageStateNormal,
	}
	return r.list(ctx, where)
}

func (r *PageRepo) list(ctx context.Context, where map[string]interface{}) ([]model.Page, error) {
	sqlStr, args, err := builder.BuildSelect("pages", where, pageColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	pages := make([]model.Page, 0)
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, *page)
	}
	return pages, rows.Err()
}

func scanPage(rows *sql.Rows) (*model.Page, error) {
	var page model.Page
	if err := rows.Scan(&page.ID, &page.UserID, &page.Type, &page.Title, &page.Slug, &page.Excerpt, &page.Status, &page.BuilderEnabled, &page.State, &page.Ctime, &page.Mtime); err != nil {
		return nil, err
	}
	return &page, nil
}
