package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/core"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/domain/model"
	apperrors "github.com/WhisperedCloud/Job-portal-sub000/internal/errors"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/testutil"
)

func newTestRepo(db *sql.DB, tp TimeProvider) *ApplicationRepo {
	return NewApplicationRepo(db, RepoConfig{TimeProvider: tp})
}

func createTestApplication(t *testing.T, repo *ApplicationRepo) *model.Application {
	t.Helper()
	app, err := repo.Create(context.Background(), &model.CreateApplicationRequest{
		CandidateID: uuid.NewString(),
		JobID:       uuid.NewString(),
	})
	require.NoError(t, err)
	return app
}

// moveToStatus walks an application along legal transitions into the target
// status via direct conditional updates.
func moveToStatus(t *testing.T, repo *ApplicationRepo, id string, target model.ApplicationStatus) *model.Application {
	t.Helper()
	ctx := context.Background()

	app, err := repo.UpdateStatus(ctx, core.UpdateStatusParams{
		ID: id, From: model.StatusApplied, To: model.StatusUnderReview,
	})
	require.NoError(t, err)
	require.NotNil(t, app)
	if target == model.StatusUnderReview {
		return app
	}
	t.Fatalf("unsupported target status %s", target)
	return nil
}

func TestApplicationRepo_Create(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		tp := testutil.NewTestTimeProvider(testutil.TestTime())
		repo := newTestRepo(db, tp)

		app := createTestApplication(t, repo)

		assert.NotEmpty(t, app.ID)
		assert.Equal(t, model.StatusApplied, app.Status)
		assert.Zero(t, app.RescheduledCount)
		assert.Nil(t, app.InterviewDate)
		assert.Nil(t, app.InterviewTime)
		assert.False(t, app.HasInterview())
		assert.Equal(t, testutil.TestTime(), app.AppliedAt.UTC())
	})
}

func TestApplicationRepo_Create_DuplicateIsConflict(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := newTestRepo(db, nil)
		req := &model.CreateApplicationRequest{
			CandidateID: uuid.NewString(),
			JobID:       uuid.NewString(),
		}

		_, err := repo.Create(context.Background(), req)
		require.NoError(t, err)

		_, err = repo.Create(context.Background(), req)
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err), "duplicate apply should map to conflict, got %v", err)
	})
}

func TestApplicationRepo_GetByID_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := newTestRepo(db, nil)

		_, err := repo.GetByID(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, ErrApplicationNotFound)
	})
}

func TestApplicationRepo_ListByCandidate_OrderedNewestFirst(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		tp := testutil.NewTestTimeProvider(testutil.TestTime())
		repo := newTestRepo(db, tp)
		ctx := context.Background()
		candidateID := uuid.NewString()

		var ids []string
		for i := 0; i < 3; i++ {
			app, err := repo.Create(ctx, &model.CreateApplicationRequest{
				CandidateID: candidateID,
				JobID:       uuid.NewString(),
			})
			require.NoError(t, err)
			ids = append(ids, app.ID)
			tp.AddTime(time.Hour)
		}

		apps, err := repo.ListByCandidate(ctx, candidateID)
		require.NoError(t, err)
		require.Len(t, apps, 3)

		// newest first
		assert.Equal(t, ids[2], apps[0].ID)
		assert.Equal(t, ids[1], apps[1].ID)
		assert.Equal(t, ids[0], apps[2].ID)

		other, err := repo.ListByCandidate(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Empty(t, other)
	})
}

func TestApplicationRepo_UpdateStatus_ConditionalGuard(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := newTestRepo(db, nil)
		ctx := context.Background()
		app := createTestApplication(t, repo)

		updated, err := repo.UpdateStatus(ctx, core.UpdateStatusParams{
			ID: app.ID, From: model.StatusApplied, To: model.StatusUnderReview,
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, model.StatusUnderReview, updated.Status)

		// Guard no longer matches: the row is under_review now.
		lost, err := repo.UpdateStatus(ctx, core.UpdateStatusParams{
			ID: app.ID, From: model.StatusApplied, To: model.StatusRejected,
		})
		require.NoError(t, err)
		assert.Nil(t, lost)

		current, err := repo.GetByID(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusUnderReview, current.Status)
	})
}

func TestApplicationRepo_ScheduleInterview_FirstSchedule(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		tp := testutil.NewTestTimeProvider(testutil.TestTime())
		repo := newTestRepo(db, tp)
		ctx := context.Background()

		app := createTestApplication(t, repo)
		moveToStatus(t, repo, app.ID, model.StatusUnderReview)

		link := "https://meet.example/x"
		scheduled, err := repo.ScheduleInterview(ctx, core.ScheduleInterviewParams{
			ID:   app.ID,
			From: model.StatusUnderReview,
			Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			Time: "10:00",
			Mode: model.ModeVideo,
			Link: &link,
		})
		require.NoError(t, err)
		require.NotNil(t, scheduled)

		assert.Equal(t, model.StatusInterviewScheduled, scheduled.Status)
		assert.Equal(t, 0, scheduled.RescheduledCount)
		assert.Nil(t, scheduled.RescheduleReason)
		require.NotNil(t, scheduled.InterviewScheduledAt)
		assert.Equal(t, testutil.TestTime(), scheduled.InterviewScheduledAt.UTC())
		require.True(t, scheduled.HasInterview())
		assert.Equal(t, "10:00", *scheduled.InterviewTime)
		assert.Equal(t, model.ModeVideo, *scheduled.InterviewMode)
		assert.Equal(t, link, *scheduled.InterviewLink)
	})
}

func TestApplicationRepo_ScheduleInterview_RescheduleIncrementsCounter(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		tp := testutil.NewTestTimeProvider(testutil.TestTime())
		repo := newTestRepo(db, tp)
		ctx := context.Background()

		app := createTestApplication(t, repo)
		moveToStatus(t, repo, app.ID, model.StatusUnderReview)

		link := "https://meet.example/x"
		first, err := repo.ScheduleInterview(ctx, core.ScheduleInterviewParams{
			ID:   app.ID,
			From: model.StatusUnderReview,
			Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			Time: "10:00",
			Mode: model.ModeVideo,
			Link: &link,
		})
		require.NoError(t, err)
		require.Equal(t, 0, first.RescheduledCount)

		tp.AddTime(time.Hour)
		reason := "conflict"
		venue := "HQ, Floor 4"
		second, err := repo.ScheduleInterview(ctx, core.ScheduleInterviewParams{
			ID:           app.ID,
			From:         model.StatusInterviewScheduled,
			Date:         time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC),
			Time:         "15:30",
			Mode:         model.ModeInPerson,
			Venue:        &venue,
			IsReschedule: true,
			Reason:       &reason,
		})
		require.NoError(t, err)
		require.NotNil(t, second)

		assert.Equal(t, model.StatusInterviewScheduled, second.Status)
		assert.Equal(t, 1, second.RescheduledCount)
		require.NotNil(t, second.RescheduleReason)
		assert.Equal(t, "conflict", *second.RescheduleReason)
		// interview fields overwritten wholesale
		assert.Equal(t, "15:30", *second.InterviewTime)
		assert.Equal(t, model.ModeInPerson, *second.InterviewMode)
		assert.Equal(t, venue, *second.InterviewVenue)
		assert.Nil(t, second.InterviewLink)

		tp.AddTime(time.Hour)
		third, err := repo.ScheduleInterview(ctx, core.ScheduleInterviewParams{
			ID:           app.ID,
			From:         model.StatusInterviewScheduled,
			Date:         time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC),
			Time:         "09:00",
			Mode:         model.ModePhone,
			IsReschedule: true,
			Reason:       &reason,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, third.RescheduledCount)
	})
}

func TestApplicationRepo_ScheduleInterview_GuardMismatch(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := newTestRepo(db, nil)
		ctx := context.Background()

		app := createTestApplication(t, repo)

		// Still in applied; the under_review guard matches nothing.
		scheduled, err := repo.ScheduleInterview(ctx, core.ScheduleInterviewParams{
			ID:   app.ID,
			From: model.StatusUnderReview,
			Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			Time: "10:00",
			Mode: model.ModePhone,
		})
		require.NoError(t, err)
		assert.Nil(t, scheduled)

		current, err := repo.GetByID(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusApplied, current.Status)
		assert.False(t, current.HasInterview())
	})
}

func TestApplicationRepo_Stats(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := newTestRepo(db, nil)
		ctx := context.Background()

		a := createTestApplication(t, repo)
		createTestApplication(t, repo)
		moveToStatus(t, repo, a.ID, model.StatusUnderReview)

		stats, err := repo.Stats(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, stats.Applied, 1)
		assert.GreaterOrEqual(t, stats.UnderReview, 1)
	})
}
