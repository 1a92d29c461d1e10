package repo_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coursekit/coursekit/internal/model"
	appErr "github.com/coursekit/coursekit/internal/pkg/errors"
	"github.com/coursekit/coursekit/internal/pkg/timeutil"
	"github.com/coursekit/coursekit/internal/repo"
	"github.com/coursekit/coursekit/test/testutil"
)

func TestRevisionRepoCreateAndTrim(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	revisions := repo.NewRevisionRepo(db)
	userID := newTestID()
	pageID := newTestID()

	_, err := revisions.GetLatestRevision(context.Background(), userID, pageID)
	require.ErrorIs(t, err, appErr.ErrNotFound)

	for i := 1; i <= 5; i++ {
		require.NoError(t, revisions.Create(context.Background(), &model.Revision{
			ID:       newTestID(),
			UserID:   userID,
			PageID:   pageID,
			Revision: i,
			Content:  fmt.Sprintf(`{"version":"1.0.0","sections":[],"n":%d}`, i),
			Ctime:    timeutil.NowUnix(),
		}))
	}

	latest, err := revisions.GetLatestRevision(context.Background(), userID, pageID)
	require.NoError(t, err)
	require.Equal(t, 5, latest)

	rev, err := revisions.Get(context.Background(), userID, pageID, 3)
	require.NoError(t, err)
	require.Contains(t, rev.Content, `"n":3`)

	// Revisions of one user's page are invisible to others.
	_, err = revisions.Get(context.Background(), newTestID(), pageID, 3)
	require.ErrorIs(t, err, appErr.ErrNotFound)

	require.NoError(t, revisions.TrimToKeep(context.Background(), userID, pageID, 2))
	summaries, err := revisions.ListSummaries(context.Background(), userID, pageID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, 5, summaries[0].Revision)
	require.Equal(t, 4, summaries[1].Revision)
}

func TestRevisionRepoDuplicateRevisionConflict(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	revisions := repo.NewRevisionRepo(db)
	userID := newTestID()
	pageID := newTestID()
	rev := &model.Revision{
		ID: newTestID(), UserID: userID, PageID: pageID,
		Revision: 1, Content: "{}", Ctime: timeutil.NowUnix(),
	}
	require.NoError(t, revisions.Create(context.Background(), rev))
	rev.ID = newTestID()
	require.ErrorIs(t, revisions.Create(context.Background(), rev), appErr.ErrConflict)
}
