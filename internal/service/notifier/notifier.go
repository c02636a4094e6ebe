// Package notifier fans interview notifications out to registered sinks.
package notifier

import (
	"context"
	"log/slog"
	"sync"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/observability/notify"
)

// SinkRegistration pairs a sink implementation with a human-readable name for logging.
type SinkRegistration struct {
	Name string
	Sink notify.Sink
}

// Options configures the notifier service.
type Options struct {
	Logger *slog.Logger
	Sinks  []SinkRegistration
}

// Service dispatches interview notifications to all registered sinks.
// Sink failures are logged and swallowed: a notification must never fail
// the transition that produced it.
type Service struct {
	logger *slog.Logger
	sinks  []SinkRegistration
}

// NewService constructs a notifier.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "interview_notifier")
	}

	var sinks []SinkRegistration
	for _, entry := range opts.Sinks {
		if entry.Sink == nil {
			continue
		}
		name := entry.Name
		if name == "" {
			name = "sink"
		}
		sinks = append(sinks, SinkRegistration{
			Name: name,
			Sink: entry.Sink,
		})
	}

	return &Service{
		logger: logger,
		sinks:  sinks,
	}
}

// NotifyInterviewScheduled fans the payload out to all sinks.
func (s *Service) NotifyInterviewScheduled(ctx context.Context, payload notify.InterviewScheduledPayload) {
	if len(s.sinks) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, entry := range s.sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := entry.Sink.SendInterviewScheduled(ctx, payload); err != nil {
				s.logger.Error("interview notification delivery error",
					"sink", entry.Name,
					"application_id", payload.ApplicationID,
					"candidate_id", payload.CandidateID,
					"error", err,
				)
			}
		}()
	}
	wg.Wait()
}

// Enabled reports whether the notifier has any active sinks.
func (s *Service) Enabled() bool {
	return len(s.sinks) > 0
}
