package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/coursekit/coursekit/internal/model"
	"github.com/coursekit/coursekit/internal/pkg/dbutil"
	appErr "github.com/coursekit/coursekit/internal/pkg/errors"
)

type TemplateRepo struct {
	db *sql.DB
}

func NewTemplateRepo(db *sql.DB) *TemplateRepo {
	return &TemplateRepo{db: db}
}

func (r *TemplateRepo) Create(ctx context.Context, tpl *model.LayoutTemplate) error {
	data := map[string]interface{}{
		"id":          tpl.ID,
		"user_id":     tpl.UserID,
		"name":        tpl.Name,
		"description": tpl.Description,
		"content":     tpl.Content,
		"built_in":    tpl.BuiltIn,
		"ctime":       tpl.Ctime,
		"mtime":       tpl.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("layout_templates", []map[string]interface{}{data})
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

// Get returns the user's own template or a built-in one.
func (r *TemplateRepo) Get(ctx context.Context, userID, templateID string) (*model.LayoutTemplate, error) {
	where := map[string]interface{}{
		"id": templateID,
		"_or": []map[string]interface{}{
			{"user_id": userID},
			{"built_in": 1},
		},
	}
	sqlStr, args, err := builder.BuildSelect("layout_templates", where, []string{"id", "user_id", "name", "description", "content", "built_in", "ctime", "mtime"})
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
	var tpl model.LayoutTemplate
	if err := rows.Scan(&tpl.ID, &tpl.UserID, &tpl.Name, &tpl.Description, &tpl.Content, &tpl.BuiltIn, &tpl.Ctime, &tpl.Mtime); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *TemplateRepo) ListMeta(ctx context.Context, userID string) ([]model.LayoutTemplateMeta, error) {
	where := map[string]interface{}{
		"_or": []map[string]interface{}{
			{"user_id": userID},
			{"built_in": 1},
		},
		"_orderby": "built_in desc, mtime desc",
	}
	sqlStr, args, err := builder.BuildSelect("layout_templates", where, []string{"id", "user_id", "name", "description", "built_in", "ctime", "mtime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	templates := make([]model.LayoutTemplateMeta, 0)
	for rows.Next() {
		var tpl model.LayoutTemplateMeta
		if err := rows.Scan(&tpl.ID, &tpl.UserID, &tpl.Name, &tpl.Description, &tpl.BuiltIn, &tpl.Ctime, &tpl.Mtime); err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

func (r *TemplateRepo) Delete(ctx context.Context, userID, templateID string) error {
	where := map[string]interface{}{
		"id":       templateID,
		"user_id":  userID,
		"built_in": 0,
	}
	sqlStr, args, err := builder.BuildDelete("layout_templates", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
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
