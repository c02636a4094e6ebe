// Package service provides business logic services for the job portal
// application workflow.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/core"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/data"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/domain/calendar"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/domain/model"
	apperrors "github.com/WhisperedCloud/Job-portal-sub000/internal/errors"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/observability/metrics"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/observability/notify"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/observability/statsd"
)

// TimeProvider abstracts wall clock access for deterministic tests.
type TimeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }

// InterviewNotifier fans interview notifications out to configured sinks.
// Delivery is best effort and must never fail the scheduling call.
type InterviewNotifier interface {
	NotifyInterviewScheduled(ctx context.Context, payload notify.InterviewScheduledPayload)
}

// SchedulerServiceOptions groups dependencies for SchedulerService.
type SchedulerServiceOptions struct {
	Repo         core.ApplicationRepository // Required: application repository
	Cache        core.CacheRepository       // Optional: per-candidate list cache
	Notifier     InterviewNotifier          // Optional: outbound notifications
	TimeProvider TimeProvider               // Optional: defaults to wall clock
	Logger       *slog.Logger               // Optional: structured logger
	Metrics      statsd.Sink                // Optional: metrics sink (StatsD-compatible)
}

// SchedulerService handles scheduling and rescheduling of interviews.
//
// A first schedule moves the application from under_review to
// interview_scheduled. Scheduling again from interview_scheduled or
// missed_interview counts as a reschedule: the interview fields are
// overwritten wholesale and the reschedule counter increments.
type SchedulerService struct {
	repo         core.ApplicationRepository
	cache        core.CacheRepository
	notifier     InterviewNotifier
	timeProvider TimeProvider
	logger       *slog.Logger
	metrics      statsd.Sink
}

// NewSchedulerService constructs a new SchedulerService.
func NewSchedulerService(opts SchedulerServiceOptions) (*SchedulerService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ApplicationRepository is required")
	}

	tp := opts.TimeProvider
	if tp == nil {
		tp = realTimeProvider{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "scheduler_service")
	}

	return &SchedulerService{
		repo:         opts.Repo,
		cache:        opts.Cache,
		notifier:     opts.Notifier,
		timeProvider: tp,
		logger:       logger,
		metrics:      opts.Metrics,
	}, nil
}

// ScheduleInterview validates and applies a schedule or reschedule request.
func (s *SchedulerService) ScheduleInterview(
	ctx context.Context,
	id string,
	req *model.ScheduleInterviewRequest,
) (*model.Application, error) {
	start := s.timeProvider.Now()

	if err := req.Validate(start); err != nil {
		return nil, validationError(err)
	}

	app, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event, err := model.ScheduleEventFor(app.Status)
	if err != nil {
		s.emitTransition(event, app.Status, metrics.ResultError, start, err)
		return nil, apperrors.Validation(err.Error())
	}
	isReschedule := event == model.EventReschedule

	date, err := req.DateValue()
	if err != nil {
		return nil, apperrors.ValidationField("date", "interview date must be YYYY-MM-DD")
	}

	updated, err := s.repo.ScheduleInterview(ctx, core.ScheduleInterviewParams{
		ID:           id,
		From:         app.Status,
		Date:         date,
		Time:         req.Time,
		Mode:         req.Mode,
		Venue:        req.Venue,
		Link:         req.Link,
		Notes:        req.Notes,
		IsReschedule: isReschedule,
		Reason:       req.RescheduleReason,
	})
	if err != nil {
		s.emitTransition(event, app.Status, metrics.ResultError, start, err)
		return nil, err
	}
	if updated == nil {
		s.emitTransition(event, app.Status, metrics.ResultNoop, start, nil)
		return nil, apperrors.Wrap(ErrTransitionConflict, apperrors.ErrCodeConflict, "application status changed, reload and retry")
	}

	s.emitTransition(event, app.Status, metrics.ResultSuccess, start, nil)
	s.invalidateCandidateCache(ctx, updated.CandidateID)
	s.notify(ctx, updated, isReschedule)

	if s.logger != nil {
		s.logger.InfoContext(ctx, "interview scheduled",
			"application_id", updated.ID,
			"date", req.Date,
			"time", req.Time,
			"mode", req.Mode,
			"reschedule", isReschedule,
			"rescheduled_count", updated.RescheduledCount,
		)
	}

	return updated, nil
}

// CalendarInvite returns a calendar URL for the application's interview.
func (s *SchedulerService) CalendarInvite(ctx context.Context, id string) (string, error) {
	app, err := s.getByID(ctx, id)
	if err != nil {
		return "", err
	}

	inviteURL, err := calendar.InviteURL(app)
	if err != nil {
		if errors.Is(err, model.ErrNoInterview) {
			return "", apperrors.Conflict("application has no scheduled interview")
		}
		return "", err
	}
	return inviteURL, nil
}

func (s *SchedulerService) getByID(ctx context.Context, id string) (*model.Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrApplicationNotFound) {
			return nil, apperrors.NotFound("application not found")
		}
		return nil, err
	}
	return app, nil
}

// notify fans the schedule event out to the configured sinks. Failures are
// logged by the notifier and never surface to the caller.
func (s *SchedulerService) notify(ctx context.Context, app *model.Application, isReschedule bool) {
	if s.notifier == nil || !app.HasInterview() {
		return
	}

	payload := notify.InterviewScheduledPayload{
		ApplicationID: app.ID,
		CandidateID:   app.CandidateID,
		JobID:         app.JobID,
		InterviewDate: app.InterviewDate.Format(model.InterviewDateLayout),
		InterviewTime: *app.InterviewTime,
		IsReschedule:  isReschedule,
		OccurredAt:    s.timeProvider.Now(),
	}
	if app.InterviewMode != nil {
		payload.InterviewMode = string(*app.InterviewMode)
	}
	if app.InterviewVenue != nil {
		payload.InterviewVenue = *app.InterviewVenue
	}
	if app.InterviewLink != nil {
		payload.InterviewLink = *app.InterviewLink
	}
	if app.RescheduleReason != nil && isReschedule {
		payload.RescheduleReason = *app.RescheduleReason
	}

	s.notifier.NotifyInterviewScheduled(ctx, payload)
}

func (s *SchedulerService) emitTransition(
	event model.TransitionEvent,
	from model.ApplicationStatus,
	result string,
	start time.Time,
	err error,
) {
	metrics.EmitTransition(s.metrics, metrics.TransitionMetric{
		Event:    string(event),
		From:     string(from),
		To:       string(model.StatusInterviewScheduled),
		Result:   result,
		Duration: time.Since(start),
		Err:      err,
	})
}

func (s *SchedulerService) invalidateCandidateCache(ctx context.Context, candidateID string) {
	if s.cache == nil || candidateID == "" {
		return
	}
	if _, err := s.cache.Delete(ctx, candidateCacheKeyPrefix+candidateID); err != nil && s.logger != nil {
		s.logger.DebugContext(ctx, "cache invalidation failed",
			"candidate_id", candidateID,
			"error", err,
		)
	}
}
