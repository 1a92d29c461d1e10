package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/coursekit/coursekit/internal/model"
	"github.com/coursekit/coursekit/internal/pkg/dbutil"
	appErr "github.com/coursekit/coursekit/internal/pkg/errors"
)

type RevisionRepo struct {
	db *sql.DB
}

func NewRevisionRepo(db *sql.DB) *RevisionRepo {
	return &RevisionRepo{db: db}
}

func (r *RevisionRepo) Create(ctx context.Context, revision *model.Revision) error {
	data := map[string]interface{}{
		"id":       revision.ID,
		"user_id":  revision.UserID,
		"page_id":  revision.PageID,
		"revision": revision.Revision,
		"content":  revision.Content,
		"ctime":    revision.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("revisions", []map[string]interface{}{data})
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

func (r *RevisionRepo) GetLatestRevision(ctx context.Context, userID, pageID string) (int, error) {
	where := map[string]interface{}{
		"user_id":  userID,
		"page_id":  pageID,
		"_orderby": "revision desc",
		"_limit":   []uint{0, 1},
	}
	sqlStr, args, err := builder.BuildSelect("revisions", where, []string{"revision"})
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return 0, appErr.ErrNotFound
	}
	var revision int
	if err := rows.Scan(&revision); err != nil {
		return 0, err
	}
	return revision, nil
}

func (r *RevisionRepo) Get(ctx context.Context, userID, pageID string, revision int) (*model.Revision, error) {
	where := map[string]interface{}{
		"user_id":  userID,
		"page_id":  pageID,
		"revision": revision,
	}
	sqlStr, args, err := builder.BuildSelect("revisions", where, []string{"id", "user_id", "page_id", "revision", "content", "ctime"})
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
	var rev model.Revision
	if err := rows.Scan(&rev.ID, &rev.UserID, &rev.PageID, &rev.Revision, &rev.Content, &rev.Ctime); err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *RevisionRepo) ListSummaries(ctx context.Context, userID, pageID string) ([]model.RevisionSummary, error) {
	where := map[string]interface{}{
		"user_id":  userID,
		"page_id":  pageID,
		"_orderby": "revision desc",
	}
	sqlStr, args, err := builder.BuildSelect("revisions", where, []string{"id", "page_id", "revision", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	revisions := make([]model.RevisionSummary, 0)
	for rows.Next() {
		var rev model.RevisionSummary
		if err := rows.Scan(&rev.ID, &rev.PageID, &rev.Revision, &rev.Ctime); err != nil {
			return nil, err
		}
		revisions = append(revisions, rev)
	}
	return revisions, rows.Err()
}

// TrimToKeep drops everything older than the newest keep revisions of a page.
func (r *RevisionRepo) TrimToKeep(ctx context.Context, userID, pageID string, keep int) error {
	if keep <= 0 {
		return nil
	}
	latest, err := r.GetLatestRevision(ctx, userID, pageID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil
		}
		return err
	}
	where := map[string]interface{}{
		"user_id":    userID,
		"page_id":    pageID,
		"revision <": latest - keep + 1,
	}
	sqlStr, args, err := builder.BuildDelete("revisions", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// DeleteBefore removes revisions older than the cutoff across all pages; used
// by the nightly prune job.
func (r *RevisionRepo) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	where := map[string]interface{}{
		"ctime <": cutoff,
	}
	sqlStr, args, err := builder.BuildDelete("revisions", where)
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
