package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/coursekit/coursekit/internal/repo"
)

// RevisionPruneJob drops builder revisions older than maxAgeDays. Per-page
// retention is already capped at save time; this clears out long-abandoned
// pages.
type RevisionPruneJob struct {
	revisions  *repo.RevisionRepo
	maxAgeDays int
}

func NewRevisionPruneJob(revisions *repo.RevisionRepo, maxAgeDays int) *RevisionPruneJob {
	return &RevisionPruneJob{revisions: revisions, maxAgeDays: maxAgeDays}
}

func (j *RevisionPruneJob) Name() string {
	return "revision_prune"
}

func (j *RevisionPruneJob) Run(ctx context.Context) error {
	if j.revisions == nil {
		return nil
	}
	maxAgeDays := j.maxAgeDays
	if maxAgeDays <= 0 {
		maxAgeDays = 90
	}
	cutoff := time.Now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour).Unix()
	deleted, err := j.revisions.DeleteBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logutil.GetLogger(ctx).Info("pruned old revisions", zap.Int64("deleted", deleted))
	}
	return nil
}
