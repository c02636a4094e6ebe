package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/core"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/domain/model"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/testutil"
)

// scheduleAt creates an application and puts it in interview_scheduled with
// the given local date and HH:MM time.
func scheduleAt(t *testing.T, repo *ApplicationRepo, date time.Time, hhmm string) *model.Application {
	t.Helper()
	ctx := context.Background()

	app := createTestApplication(t, repo)
	moveToStatus(t, repo, app.ID, model.StatusUnderReview)

	scheduled, err := repo.ScheduleInterview(ctx, core.ScheduleInterviewParams{
		ID:   app.ID,
		From: model.StatusUnderReview,
		Date: date,
		Time: hhmm,
		Mode: model.ModePhone,
	})
	require.NoError(t, err)
	require.NotNil(t, scheduled)
	return scheduled
}

func TestMarkMissedInterviews_CutoffBoundary(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := newTestRepo(db, nil)
		ctx := context.Background()

		day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		past := scheduleAt(t, repo, day, "09:00")
		exact := scheduleAt(t, repo, day, "12:00")
		future := scheduleAt(t, repo, day, "15:00")

		now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
		marked, err := repo.MarkMissedInterviews(ctx, now, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(1), marked)

		got, err := repo.GetByID(ctx, past.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusMissedInterview, got.Status)

		// strictly-before comparison: the slot starting exactly now survives
		got, err = repo.GetByID(ctx, exact.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusInterviewScheduled, got.Status)

		got, err = repo.GetByID(ctx, future.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusInterviewScheduled, got.Status)
	})
}

func TestMarkMissedInterviews_Idempotent(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := newTestRepo(db, nil)
		ctx := context.Background()

		day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		scheduleAt(t, repo, day, "08:00")
		scheduleAt(t, repo, day, "09:30")

		now := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

		marked, err := repo.MarkMissedInterviews(ctx, now, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(2), marked)

		again, err := repo.MarkMissedInterviews(ctx, now, 100)
		require.NoError(t, err)
		assert.Zero(t, again)
	})
}

func TestMarkMissedInterviews_BatchesUntilDrained(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := newTestRepo(db, nil)
		ctx := context.Background()

		day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 5; i++ {
			scheduleAt(t, repo, day, "08:00")
		}

		now := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
		marked, err := repo.MarkMissedInterviews(ctx, now, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(5), marked)
	})
}

func TestMarkMissedInterviews_SkipsConcurrentlyDecidedRows(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := newTestRepo(db, nil)
		ctx := context.Background()

		day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		hiredApp := scheduleAt(t, repo, day, "09:00")
		staleApp := scheduleAt(t, repo, day, "09:00")

		// A decision lands between the interview slot elapsing and the sweep.
		hired, err := repo.UpdateStatus(ctx, core.UpdateStatusParams{
			ID: hiredApp.ID, From: model.StatusInterviewScheduled, To: model.StatusHired,
		})
		require.NoError(t, err)
		require.NotNil(t, hired)

		now := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
		marked, err := repo.MarkMissedInterviews(ctx, now, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(1), marked)

		got, err := repo.GetByID(ctx, hiredApp.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusHired, got.Status)

		got, err = repo.GetByID(ctx, staleApp.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusMissedInterview, got.Status)
	})
}

func TestMarkMissedInterviews_RejectsBadBatchSize(t *testing.T) {
	repo := NewApplicationRepo(nil, RepoConfig{})

	_, err := repo.MarkMissedInterviews(context.Background(), time.Now(), 0)
	assert.Error(t, err)
}
