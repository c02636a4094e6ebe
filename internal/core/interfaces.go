package core

import (
	"context"
	"time"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// UpdateStatusParams groups parameters for ApplicationRepository.UpdateStatus
// to keep param count ≤3. From is the expected current status; the write is
// conditional on it still holding at write time.
type UpdateStatusParams struct {
	ID   string
	From model.ApplicationStatus
	To   model.ApplicationStatus
}

// ScheduleInterviewParams groups parameters for
// ApplicationRepository.ScheduleInterview. The write is conditional on
// From still being the row's status. IsReschedule controls the
// reschedule counter and reason.
type ScheduleInterviewParams struct {
	ID           string
	From         model.ApplicationStatus
	Date         time.Time
	Time         string
	Mode         model.InterviewMode
	Venue        *string
	Link         *string
	Notes        *string
	IsReschedule bool
	Reason       *string
}

// ApplicationRepository defines the interface for application data operations.
type ApplicationRepository interface {
	Create(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error)
	GetByID(ctx context.Context, id string) (*model.Application, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]*model.Application, error)
	// UpdateStatus performs a conditional status write. Returns the updated
	// application, or (nil, nil) when the guard did not match any row.
	UpdateStatus(ctx context.Context, params UpdateStatusParams) (*model.Application, error)
	// ScheduleInterview writes the interview sub-record and moves the row to
	// interview_scheduled, guarded on the expected prior status. Returns
	// (nil, nil) when the guard did not match.
	ScheduleInterview(ctx context.Context, params ScheduleInterviewParams) (*model.Application, error)
	Stats(ctx context.Context) (*model.ApplicationStats, error)
}

// SweepRepository defines the interface for the missed-interview sweep.
type SweepRepository interface {
	// MarkMissedInterviews transitions every interview_scheduled application
	// whose interview instant is strictly before now to missed_interview.
	// Processes up to batchSize rows per statement to prevent long locks.
	// Returns the number of applications transitioned.
	MarkMissedInterviews(ctx context.Context, now time.Time, batchSize int) (int64, error)
}

// CacheRepository defines the interface for cache operations.
type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns (nil, nil) on a cache miss.
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	Health(ctx context.Context) error
}
