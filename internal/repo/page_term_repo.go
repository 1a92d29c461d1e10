package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/coursekit/coursekit/internal/pkg/dbutil"
)

type PageTermRepo struct {
	db *sql.DB
}

func NewPageTermRepo(db *sql.DB) *PageTermRepo {
	return &PageTermRepo{db: db}
}

// Replace swaps the full term set of a page.
func (r *PageTermRepo) Replace(ctx context.Context, userID, pageID string, termIDs []string) error {
	if err := r.DeleteByPage(ctx, userID, pageID); err != nil {
		return err
	}
	if len(termIDs) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(termIDs))
	for _, termID := range termIDs {
		rows = append(rows, map[string]interface{}{
			"page_id": pageID,
			"term_id": termID,
			"user_id": userID,
		})
	}
	sqlStr, args, err := builder.BuildInsert("page_terms", rows)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *PageTermRepo) ListTermIDs(ctx context.Context, userID, pageID string) ([]string, error) {
	where := map[string]interface{}{
		"user_id": userID,
		"page_id": pageID,
	}
	return r.listIDs(ctx, where, "term_id")
}

func (r *PageTermRepo) ListPageIDsByTerm(ctx context.Context, userID, termID string) ([]string, error) {
	where := map[string]interface{}{
		"user_id": userID,
		"term_id": termID,
	}
	return r.listIDs(ctx, where, "page_id")
}

func (r *PageTermRepo) listIDs(ctx context.Context, where map[string]interface{}, column string) ([]string, error) {
	sqlStr, args, err := builder.BuildSelect("page_terms", where, []string{column})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PageTermRepo) DeleteByPage(ctx context.Context, userID, pageID string) error {
	where := map[string]interface{}{
		"user_id": userID,
		"page_id": pageID,
	}
	sqlStr, args, err := builder.BuildDelete("page_terms", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *PageTermRepo) DeleteByTerm(ctx context.Context, userID, termID string) error {
	where := map[string]interface{}{
		"user_id": userID,
		"term_id": termID,
	}
	sqlStr, args, err := builder.BuildDelete("page_terms", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
