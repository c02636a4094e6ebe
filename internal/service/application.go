package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/core"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/data"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/domain/model"
	apperrors "github.com/WhisperedCloud/Job-portal-sub000/internal/errors"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/observability/metrics"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/observability/statsd"
)

// ErrTransitionConflict is returned when a conditional status write lost a
// race: the application moved to a different status between read and write.
var ErrTransitionConflict = errors.New("application status changed concurrently")

const candidateCacheKeyPrefix = "applications:candidate:"

// CandidateCacheKey returns the cache key holding a candidate's application
// list. Exposed for cache maintenance tooling.
func CandidateCacheKey(candidateID string) string {
	return candidateCacheKeyPrefix + candidateID
}

// ApplicationServiceOptions groups dependencies for ApplicationService.
type ApplicationServiceOptions struct {
	Repo     core.ApplicationRepository // Required: application repository
	Cache    core.CacheRepository       // Optional: per-candidate list cache
	CacheTTL time.Duration              // Optional: TTL for cached lists
	Logger   *slog.Logger               // Optional: structured logger
	Metrics  statsd.Sink                // Optional: metrics sink (StatsD-compatible)
}

// ApplicationService orchestrates the application lifecycle: applying,
// review, terminal decisions, and reads. Every status change goes through
// the shared transition table and a conditional write, so a stale caller
// can never overwrite a newer status.
type ApplicationService struct {
	repo     core.ApplicationRepository
	cache    core.CacheRepository
	cacheTTL time.Duration
	logger   *slog.Logger
	metrics  statsd.Sink
}

// NewApplicationService constructs a new ApplicationService.
func NewApplicationService(opts ApplicationServiceOptions) (*ApplicationService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ApplicationRepository is required")
	}

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "application_service")
	}

	return &ApplicationService{
		repo:     opts.Repo,
		cache:    opts.Cache,
		cacheTTL: ttl,
		logger:   logger,
		metrics:  opts.Metrics,
	}, nil
}

// Apply submits a new application for a candidate and job. A candidate can
// hold at most one application per job; a duplicate surfaces as a conflict.
func (s *ApplicationService) Apply(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	app, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.invalidateCandidateCache(ctx, app.CandidateID)
	return app, nil
}

// GetByID retrieves an application by ID.
func (s *ApplicationService) GetByID(ctx context.Context, id string) (*model.Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrApplicationNotFound) {
			return nil, apperrors.NotFound("application not found")
		}
		return nil, err
	}
	return app, nil
}

// ListByCandidate returns a candidate's applications, newest first. Results
// are served from cache when available and repopulated on miss.
func (s *ApplicationService) ListByCandidate(ctx context.Context, candidateID string) ([]*model.Application, error) {
	key := candidateCacheKeyPrefix + candidateID

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
			var apps []*model.Application
			if err := json.Unmarshal(cached, &apps); err == nil {
				return apps, nil
			}
			// Corrupt entry; fall through to the database.
			s.invalidateCandidateCache(ctx, candidateID)
		}
	}

	apps, err := s.repo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(apps); err == nil {
			if err := s.cache.Set(ctx, key, encoded, s.cacheTTL); err != nil && s.logger != nil {
				s.logger.DebugContext(ctx, "cache set failed", "key", key, "error", err)
			}
		}
	}

	return apps, nil
}

// Review moves an application from applied to under_review.
func (s *ApplicationService) Review(ctx context.Context, id string) (*model.Application, error) {
	return s.transition(ctx, id, model.EventReview)
}

// Decide records a terminal recruiter decision (hired or rejected).
func (s *ApplicationService) Decide(ctx context.Context, id string, req *model.DecisionRequest) (*model.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	event := model.EventHire
	if req.Status == model.StatusRejected {
		event = model.EventReject
	}
	return s.transition(ctx, id, event)
}

// Stats returns application counts per workflow state.
func (s *ApplicationService) Stats(ctx context.Context) (*model.ApplicationStats, error) {
	return s.repo.Stats(ctx)
}

// transition applies a single event to the application's current status via
// the transition table and a conditional write.
func (s *ApplicationService) transition(ctx context.Context, id string, event model.TransitionEvent) (*model.Application, error) {
	start := time.Now()

	app, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := model.NextStatus(app.Status, event)
	if err != nil {
		s.emitTransition(event, app.Status, "", metrics.ResultError, start, err)
		return nil, apperrors.Validation(err.Error())
	}

	updated, err := s.repo.UpdateStatus(ctx, core.UpdateStatusParams{
		ID:   id,
		From: app.Status,
		To:   next,
	})
	if err != nil {
		s.emitTransition(event, app.Status, next, metrics.ResultError, start, err)
		return nil, err
	}
	if updated == nil {
		s.emitTransition(event, app.Status, next, metrics.ResultNoop, start, nil)
		return nil, apperrors.Wrap(ErrTransitionConflict, apperrors.ErrCodeConflict, "application status changed, reload and retry")
	}

	s.emitTransition(event, app.Status, next, metrics.ResultSuccess, start, nil)
	s.invalidateCandidateCache(ctx, updated.CandidateID)

	if s.logger != nil {
		s.logger.InfoContext(ctx, "application transitioned",
			"application_id", updated.ID,
			"event", event,
			"from", app.Status,
			"to", updated.Status,
		)
	}

	return updated, nil
}

func (s *ApplicationService) emitTransition(
	event model.TransitionEvent,
	from, to model.ApplicationStatus,
	result string,
	start time.Time,
	err error,
) {
	metrics.EmitTransition(s.metrics, metrics.TransitionMetric{
		Event:    string(event),
		From:     string(from),
		To:       string(to),
		Result:   result,
		Duration: time.Since(start),
		Err:      err,
	})
}

func (s *ApplicationService) invalidateCandidateCache(ctx context.Context, candidateID string) {
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

// validationError maps a model validation failure onto the error taxonomy,
// preserving the offending field when known.
func validationError(err error) error {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return apperrors.ValidationField(ve.Field, ve.Message)
	}
	return apperrors.Validation(err.Error())
}
