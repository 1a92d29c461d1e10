package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/coursekit/coursekit/internal/model"
	"github.com/coursekit/coursekit/internal/pkg/dbutil"
	appErr "github.com/coursekit/coursekit/internal/pkg/errors"
)

type TermRepo struct {
	db *sql.DB
}

func NewTermRepo(db *sql.DB) *TermRepo {
	return &TermRepo{db: db}
}

func (r *TermRepo) Create(ctx context.Context, term *model.Term) error {
	data := map[string]interface{}{
		"id":       term.ID,
		"user_id":  term.UserID,
		"taxonomy": term.Taxonomy,
		"name":     term.Name,
		"slug":     term.Slug,
		"ctime":    term.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("terms", []map[string]interface{}{data})
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

func (r *TermRepo) GetByID(ctx context.Context, userID, termID string) (*model.Term, error) {
	where := map[string]interface{}{
		"id":      termID,
		"user_id": userID,
	}
	sqlStr, args, err := builder.BuildSelect("terms", where, []string{"id", "user_id", "taxonomy", "name", "slug", "ctime"})
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
	var term model.Term
	if err := rows.Scan(&term.ID, &term.UserID, &term.Taxonomy, &term.Name, &term.Slug, &term.Ctime); err != nil {
		return nil, err
	}
	return &term, nil
}

func (r *TermRepo) List(ctx context.Context, userID, taxonomy string) ([]model.Term, error) {
	where := map[string]interface{}{
		"user_id":  userID,
		"_orderby": "name asc",
	}
	if taxonomy != "" {
		where["taxonomy"] = taxonomy
	}
	sqlStr, args, err := builder.BuildSelect("terms", where, []string{"id", "user_id", "taxonomy", "name", "slug", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	terms := make([]model.Term, 0)
	for rows.Next() {
		var term model.Term
		if err := rows.Scan(&term.ID, &term.UserID, &term.Taxonomy, &term.Name, &term.Slug, &term.Ctime); err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

func (r *TermRepo) Delete(ctx context.Context, userID, termID string) error {
	where := map[string]interface{}{
		"id":      termID,
		"user_id": userID,
	}
	sqlStr, args, err := builder.BuildDelete("terms", where)
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
