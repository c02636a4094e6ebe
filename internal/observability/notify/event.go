// Package notify defines the outbound notification surface for interview
// workflow events. Delivery is best effort; failures never affect the
// transition that triggered them.
package notify

import (
	"context"
	"time"
)

// InterviewScheduledPayload is the canonical data emitted when an interview
// is scheduled or rescheduled.
type InterviewScheduledPayload struct {
	ApplicationID    string
	CandidateID      string
	JobID            string
	InterviewDate    string
	InterviewTime    string
	InterviewMode    string
	InterviewVenue   string
	InterviewLink    string
	IsReschedule     bool
	RescheduleReason string
	OccurredAt       time.Time
}

// Sink describes a destination capable of consuming interview notifications.
type Sink interface {
	SendInterviewScheduled(ctx context.Context, payload InterviewScheduledPayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload InterviewScheduledPayload) error

// SendInterviewScheduled implements the Sink interface.
func (f SinkFunc) SendInterviewScheduled(ctx context.Context, payload InterviewScheduledPayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
