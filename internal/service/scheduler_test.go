package service

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/domain/model"
	apperrors "github.com/WhisperedCloud/Job-portal-sub000/internal/errors"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/observability/notify"
)

type fixedTimeProvider struct {
	now time.Time
}

func (f fixedTimeProvider) Now() time.Time { return f.now }

type captureNotifier struct {
	payloads []notify.InterviewScheduledPayload
}

func (c *captureNotifier) NotifyInterviewScheduled(ctx context.Context, payload notify.InterviewScheduledPayload) {
	c.payloads = append(c.payloads, payload)
}

func scheduledApp() *model.Application {
	app := appInStatus(model.StatusInterviewScheduled)
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	tm := "10:00"
	mode := model.ModeVideo
	link := "https://meet.example/x"
	app.InterviewDate = &date
	app.InterviewTime = &tm
	app.InterviewMode = &mode
	app.InterviewLink = &link
	return app
}

func validScheduleRequest() *model.ScheduleInterviewRequest {
	link := "https://meet.example/x"
	return &model.ScheduleInterviewRequest{
		Date: "2025-04-01",
		Time: "10:00",
		Mode: model.ModeVideo,
		Link: &link,
	}
}

func TestNewSchedulerService(t *testing.T) {
	t.Run("creates service with valid options", func(t *testing.T) {
		svc, err := NewSchedulerService(SchedulerServiceOptions{Repo: &mockApplicationRepo{}})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("returns error when repo is nil", func(t *testing.T) {
		_, err := NewSchedulerService(SchedulerServiceOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ApplicationRepository is required")
	})
}

func TestSchedulerService_ScheduleInterview(t *testing.T) {
	today := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first schedule from under_review", func(t *testing.T) {
		repo := &mockApplicationRepo{
			app:            appInStatus(model.StatusUnderReview),
			scheduleResult: scheduledApp(),
		}
		notifier := &captureNotifier{}
		cache := newMockCache()
		svc, err := NewSchedulerService(SchedulerServiceOptions{
			Repo:         repo,
			Cache:        cache,
			Notifier:     notifier,
			TimeProvider: fixedTimeProvider{now: today},
		})
		require.NoError(t, err)

		app, err := svc.ScheduleInterview(context.Background(), repo.app.ID, validScheduleRequest())
		require.NoError(t, err)
		assert.Equal(t, model.StatusInterviewScheduled, app.Status)

		require.Len(t, repo.scheduleCalls, 1)
		call := repo.scheduleCalls[0]
		assert.Equal(t, model.StatusUnderReview, call.From)
		assert.False(t, call.IsReschedule)
		assert.Equal(t, "10:00", call.Time)

		require.Len(t, notifier.payloads, 1)
		assert.False(t, notifier.payloads[0].IsReschedule)
		assert.Equal(t, "2025-04-01", notifier.payloads[0].InterviewDate)

		assert.Contains(t, cache.deletes, candidateCacheKeyPrefix+app.CandidateID)
	})

	t.Run("schedule from interview_scheduled is a reschedule", func(t *testing.T) {
		result := scheduledApp()
		result.RescheduledCount = 1
		reason := "panel conflict"
		result.RescheduleReason = &reason

		repo := &mockApplicationRepo{
			app:            scheduledApp(),
			scheduleResult: result,
		}
		notifier := &captureNotifier{}
		svc, err := NewSchedulerService(SchedulerServiceOptions{
			Repo:         repo,
			Notifier:     notifier,
			TimeProvider: fixedTimeProvider{now: today},
		})
		require.NoError(t, err)

		req := validScheduleRequest()
		req.RescheduleReason = &reason

		app, err := svc.ScheduleInterview(context.Background(), repo.app.ID, req)
		require.NoError(t, err)
		assert.Equal(t, 1, app.RescheduledCount)

		require.Len(t, repo.scheduleCalls, 1)
		assert.True(t, repo.scheduleCalls[0].IsReschedule)

		require.Len(t, notifier.payloads, 1)
		assert.True(t, notifier.payloads[0].IsReschedule)
		assert.Equal(t, "panel conflict", notifier.payloads[0].RescheduleReason)
	})

	t.Run("schedule from missed_interview is a reschedule", func(t *testing.T) {
		repo := &mockApplicationRepo{
			app:            appInStatus(model.StatusMissedInterview),
			scheduleResult: scheduledApp(),
		}
		svc, err := NewSchedulerService(SchedulerServiceOptions{
			Repo:         repo,
			TimeProvider: fixedTimeProvider{now: today},
		})
		require.NoError(t, err)

		_, err = svc.ScheduleInterview(context.Background(), repo.app.ID, validScheduleRequest())
		require.NoError(t, err)

		require.Len(t, repo.scheduleCalls, 1)
		assert.True(t, repo.scheduleCalls[0].IsReschedule)
	})

	t.Run("rejects schedule from applied", func(t *testing.T) {
		repo := &mockApplicationRepo{app: appInStatus(model.StatusApplied)}
		svc, err := NewSchedulerService(SchedulerServiceOptions{
			Repo:         repo,
			TimeProvider: fixedTimeProvider{now: today},
		})
		require.NoError(t, err)

		_, err = svc.ScheduleInterview(context.Background(), repo.app.ID, validScheduleRequest())
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Empty(t, repo.scheduleCalls)
	})

	t.Run("validation failures never reach the repo", func(t *testing.T) {
		repo := &mockApplicationRepo{app: appInStatus(model.StatusUnderReview)}
		svc, err := NewSchedulerService(SchedulerServiceOptions{
			Repo:         repo,
			TimeProvider: fixedTimeProvider{now: today},
		})
		require.NoError(t, err)

		tests := []struct {
			name      string
			mutate    func(*model.ScheduleInterviewRequest)
			wantField string
		}{
			{
				name:      "past date",
				mutate:    func(r *model.ScheduleInterviewRequest) { r.Date = "2025-02-01" },
				wantField: "date",
			},
			{
				name:      "bad time format",
				mutate:    func(r *model.ScheduleInterviewRequest) { r.Time = "25:99" },
				wantField: "time",
			},
			{
				name: "in-person without venue",
				mutate: func(r *model.ScheduleInterviewRequest) {
					r.Mode = model.ModeInPerson
					r.Venue = nil
				},
				wantField: "venue",
			},
			{
				name: "video without link",
				mutate: func(r *model.ScheduleInterviewRequest) {
					r.Link = nil
				},
				wantField: "link",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := validScheduleRequest()
				tt.mutate(req)

				_, err := svc.ScheduleInterview(context.Background(), repo.app.ID, req)
				require.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
				assert.Equal(t, tt.wantField, apperrors.GetField(err))
			})
		}

		assert.Empty(t, repo.scheduleCalls)
	})

	t.Run("maps lost race to conflict", func(t *testing.T) {
		repo := &mockApplicationRepo{
			app:            appInStatus(model.StatusUnderReview),
			scheduleResult: nil,
		}
		svc, err := NewSchedulerService(SchedulerServiceOptions{
			Repo:         repo,
			TimeProvider: fixedTimeProvider{now: today},
		})
		require.NoError(t, err)

		_, err = svc.ScheduleInterview(context.Background(), repo.app.ID, validScheduleRequest())
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("missing application is not found", func(t *testing.T) {
		svc, err := NewSchedulerService(SchedulerServiceOptions{
			Repo:         &mockApplicationRepo{},
			TimeProvider: fixedTimeProvider{now: today},
		})
		require.NoError(t, err)

		_, err = svc.ScheduleInterview(context.Background(), "missing", validScheduleRequest())
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestSchedulerService_CalendarInvite(t *testing.T) {
	t.Run("builds invite for scheduled interview", func(t *testing.T) {
		repo := &mockApplicationRepo{app: scheduledApp()}
		svc, err := NewSchedulerService(SchedulerServiceOptions{Repo: repo})
		require.NoError(t, err)

		inviteURL, err := svc.CalendarInvite(context.Background(), repo.app.ID)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(inviteURL, "https://calendar.google.com/calendar/render"))

		parsed, err := url.Parse(inviteURL)
		require.NoError(t, err)
		assert.Equal(t, "20250401T100000/20250401T110000", parsed.Query().Get("dates"))
	})

	t.Run("no interview yields conflict", func(t *testing.T) {
		repo := &mockApplicationRepo{app: appInStatus(model.StatusUnderReview)}
		svc, err := NewSchedulerService(SchedulerServiceOptions{Repo: repo})
		require.NoError(t, err)

		_, err = svc.CalendarInvite(context.Background(), repo.app.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})
}
