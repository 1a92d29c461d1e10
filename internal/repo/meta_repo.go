package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/coursekit/coursekit/internal/pkg/dbutil"
	appErr "github.com/coursekit/coursekit/internal/pkg/errors"
)

// MetaKeyBuilderDocument is where a page's serialized builder document lives.
const MetaKeyBuilderDocument = "builder_document"

// MetaRepo is a generic per-page key/value store. The builder document is one
// key; the whole value is replaced on every write.
type MetaRepo struct {
	db *sql.DB
}

func NewMetaRepo(db *sql.DB) *MetaRepo {
	return &MetaRepo{db: db}
}

func (r *MetaRepo) Get(ctx context.Context, pageID, key string) (string, error) {
	where := map[string]interface{}{
		"page_id":  pageID,
		"meta_key": key,
	}
	sqlStr, args, err := builder.BuildSelect("page_meta", where, []string{"meta_value"})
	if err != nil {
		return "", err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return "", err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return "", appErr.ErrNotFound
	}
	var value string
	if err := rows.Scan(&value); err != nil {
		return "", err
	}
	return value, nil
}

func (r *MetaRepo) Set(ctx context.Context, pageID, key, value string, mtime int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO page_meta (page_id, meta_key, meta_value, mtime) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (page_id, meta_key) DO UPDATE SET meta_value = EXCLUDED.meta_value, mtime = EXCLUDED.mtime`,
		pageID, key, value, mtime)
	return err
}

func (r *MetaRepo) Delete(ctx context.Context, pageID, key string) error {
	where := map[string]interface{}{
		"page_id":  pageID,
		"meta_key": key,
	}
	sqlStr, args, err := builder.BuildDelete("page_meta", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
