// Package devseed populates a development database with applications in every
// workflow state, including one with an already-elapsed interview so the
// sweeper has something to pick up.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/core"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/data"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/domain/model"
	apperrors "github.com/WhisperedCloud/Job-portal-sub000/internal/errors"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/service"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB           *sql.DB
	repo         *data.ApplicationRepo
	applications *service.ApplicationService
	scheduler    *service.SchedulerService
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB) (Services, error) {
	repo := data.NewApplicationRepo(db, data.RepoConfig{})

	applications, err := service.NewApplicationService(service.ApplicationServiceOptions{Repo: repo})
	if err != nil {
		return Services{}, fmt.Errorf("build application service: %w", err)
	}

	scheduler, err := service.NewSchedulerService(service.SchedulerServiceOptions{Repo: repo})
	if err != nil {
		return Services{}, fmt.Errorf("build scheduler service: %w", err)
	}

	return Services{
		DB:           db,
		repo:         repo,
		applications: applications,
		scheduler:    scheduler,
	}, nil
}

// seedSpec describes one application to create and the state to leave it in.
type seedSpec struct {
	name        string
	candidateID string
	jobID       string
	advance     func(ctx context.Context, svcs Services, id string) error
}

// Fixed IDs keep reseeding idempotent: applying twice for the same
// candidate/job pair is a conflict, which Run treats as already seeded.
func defaultSeedSpecs() []seedSpec {
	return []seedSpec{
		{
			name:        "applied",
			candidateID: "11111111-aaaa-4aaa-8aaa-111111111111",
			jobID:       "99999999-bbbb-4bbb-8bbb-999999999901",
		},
		{
			name:        "under review",
			candidateID: "22222222-aaaa-4aaa-8aaa-222222222222",
			jobID:       "99999999-bbbb-4bbb-8bbb-999999999902",
			advance:     advanceToReview,
		},
		{
			name:        "interview scheduled",
			candidateID: "33333333-aaaa-4aaa-8aaa-333333333333",
			jobID:       "99999999-bbbb-4bbb-8bbb-999999999903",
			advance:     advanceToScheduled,
		},
		{
			name:        "interview in the past",
			candidateID: "44444444-aaaa-4aaa-8aaa-444444444444",
			jobID:       "99999999-bbbb-4bbb-8bbb-999999999904",
			advance:     advanceToElapsedInterview,
		},
		{
			name:        "hired",
			candidateID: "55555555-aaaa-4aaa-8aaa-555555555555",
			jobID:       "99999999-bbbb-4bbb-8bbb-999999999905",
			advance:     advanceToHired,
		},
		{
			name:        "rejected",
			candidateID: "66666666-aaaa-4aaa-8aaa-666666666666",
			jobID:       "99999999-bbbb-4bbb-8bbb-999999999906",
			advance:     advanceToRejected,
		},
	}
}

// Run executes the full development seeding workflow against the provided DB.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	failures := 0
	for _, spec := range defaultSeedSpecs() {
		created, err := seedApplication(ctx, svcs, spec)
		if err != nil {
			failures++
			if logger != nil {
				logger.ErrorContext(ctx, "seed application failed", "seed", spec.name, "error", err)
			}
			continue
		}
		if logger != nil {
			if created {
				logger.InfoContext(ctx, "seeded application", "seed", spec.name, "candidate_id", spec.candidateID)
			} else {
				logger.InfoContext(ctx, "application already seeded", "seed", spec.name, "candidate_id", spec.candidateID)
			}
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

// seedApplication creates one application and walks it to the target state.
// Returns false without error when the application already exists.
func seedApplication(ctx context.Context, svcs Services, spec seedSpec) (bool, error) {
	app, err := svcs.applications.Apply(ctx, &model.CreateApplicationRequest{
		CandidateID: spec.candidateID,
		JobID:       spec.jobID,
	})
	if err != nil {
		if apperrors.IsConflict(err) {
			return false, nil
		}
		return false, err
	}

	if spec.advance != nil {
		if err := spec.advance(ctx, svcs, app.ID); err != nil {
			return false, err
		}
	}
	return true, nil
}

func advanceToReview(ctx context.Context, svcs Services, id string) error {
	_, err := svcs.applications.Review(ctx, id)
	return err
}

func advanceToScheduled(ctx context.Context, svcs Services, id string) error {
	if err := advanceToReview(ctx, svcs, id); err != nil {
		return err
	}

	link := "https://meet.example.com/dev-interview"
	_, err := svcs.scheduler.ScheduleInterview(ctx, id, &model.ScheduleInterviewRequest{
		Date: time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		Time: "10:00",
		Mode: model.ModeVideo,
		Link: &link,
	})
	return err
}

// advanceToElapsedInterview schedules through the repository directly: the
// service rejects past dates, but the sweeper needs an elapsed interview to
// find during development.
func advanceToElapsedInterview(ctx context.Context, svcs Services, id string) error {
	if err := advanceToReview(ctx, svcs, id); err != nil {
		return err
	}

	yesterday, err := time.Parse(model.InterviewDateLayout, time.Now().AddDate(0, 0, -1).Format(model.InterviewDateLayout))
	if err != nil {
		return err
	}

	updated, err := svcs.repo.ScheduleInterview(ctx, core.ScheduleInterviewParams{
		ID:   id,
		From: model.StatusUnderReview,
		Date: yesterday,
		Time: "09:00",
		Mode: model.ModePhone,
	})
	if err != nil {
		return err
	}
	if updated == nil {
		return fmt.Errorf("application %s changed state during seeding", id)
	}
	return nil
}

func advanceToHired(ctx context.Context, svcs Services, id string) error {
	if err := advanceToScheduled(ctx, svcs, id); err != nil {
		return err
	}
	_, err := svcs.applications.Decide(ctx, id, &model.DecisionRequest{Status: model.StatusHired})
	return err
}

func advanceToRejected(ctx context.Context, svcs Services, id string) error {
	if err := advanceToReview(ctx, svcs, id); err != nil {
		return err
	}
	_, err := svcs.applications.Decide(ctx, id, &model.DecisionRequest{Status: model.StatusRejected})
	return err
}
