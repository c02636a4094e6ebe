package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/WhisperedCloud/Job-portal-sub000/config"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/core"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/observability/metrics"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/observability/statsd"
)

// SweepServiceOptions groups dependencies for SweepService.
type SweepServiceOptions struct {
	Repo         core.SweepRepository // Required: sweep repository
	Config       config.SweepConfig   // Required: sweeper configuration
	TimeProvider TimeProvider         // Optional: defaults to wall clock
	Logger       *slog.Logger         // Optional: structured logger
	Metrics      statsd.Sink          // Optional: metrics sink (StatsD-compatible)
}

// SweepService detects missed interviews server-side.
//
// Each pass samples the clock once and marks every interview_scheduled
// application whose interview slot has elapsed as missed_interview. The
// sweep is idempotent and safe to run concurrently with recruiter actions:
// rows that change status before the sweep commits are left alone.
type SweepService struct {
	repo         core.SweepRepository
	config       config.SweepConfig
	timeProvider TimeProvider
	logger       *slog.Logger
	metrics      statsd.Sink
}

// NewSweepService constructs a new SweepService.
func NewSweepService(opts SweepServiceOptions) (*SweepService, error) {
	if opts.Repo == nil {
		return nil, errors.New("SweepRepository is required")
	}

	tp := opts.TimeProvider
	if tp == nil {
		tp = realTimeProvider{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "sweep_service")
		logger.Debug("SweepService initialized",
			"interval", opts.Config.Interval,
			"batch_size", opts.Config.BatchSize,
		)
	}

	return &SweepService{
		repo:         opts.Repo,
		config:       opts.Config,
		timeProvider: tp,
		logger:       logger,
		metrics:      opts.Metrics,
	}, nil
}

// Run starts the sweep loop and runs until the context is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *SweepService) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting sweep service", "interval", s.config.Interval)
	}

	// Add jitter to prevent thundering herd if multiple instances start together
	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	// Run a sweep immediately after jitter
	if _, err := s.Sweep(ctx); err != nil {
		s.logSweepError(err, "initial sweep")
	}

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.InfoContext(ctx, "sweep service stopping", "reason", ctx.Err())
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logSweepError(err, "sweep")
				// Continue running despite errors
			}
		}
	}
}

// Sweep performs a single detection pass and returns how many applications
// were marked missed.
func (s *SweepService) Sweep(ctx context.Context) (int64, error) {
	start := time.Now()
	now := s.timeProvider.Now()

	marked, err := s.repo.MarkMissedInterviews(ctx, now, s.config.BatchSize)
	elapsed := time.Since(start)

	result := metrics.ResultSuccess
	switch {
	case err != nil:
		result = metrics.ResultError
	case marked == 0:
		result = metrics.ResultNoop
	}

	metrics.EmitSweep(s.metrics, metrics.SweepMetric{
		Marked:   marked,
		Result:   result,
		Duration: elapsed,
		Err:      suppressContextCancellation(err),
	})

	if err != nil {
		if isContextCancellation(err) {
			return marked, context.Canceled
		}
		return marked, err
	}

	if marked > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "marked missed interviews",
			"count", marked,
			"cutoff", now,
			"elapsed", elapsed,
		)
	}

	return marked, nil
}

// waitWithJitter adds a random delay up to 10% of the interval to prevent thundering herd.
func (s *SweepService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// If crypto/rand fails, skip jitter rather than failing startup
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		}
		return
	}

	// Use modulo on uint64 before converting to avoid overflow
	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
		// Graceful shutdown during jitter
	}
}

func (s *SweepService) logSweepError(err error, label string) {
	if err == nil || s.logger == nil {
		return
	}

	if isContextCancellation(err) {
		s.logger.Debug(label+" cancelled by context", "error", err)
		return
	}

	s.logger.Error(label+" failed", "error", err)
}

func isContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func suppressContextCancellation(err error) error {
	if isContextCancellation(err) {
		return nil
	}
	return err
}
