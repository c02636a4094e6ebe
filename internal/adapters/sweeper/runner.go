// Package sweeper provides adapters for running the missed-interview sweeper.
package sweeper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/WhisperedCloud/Job-portal-sub000/config"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/core"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/data"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/observability/statsd"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/service"
)

// Runner provides a simple adapter to run the sweep loop.
// It constructs the sweep service and runs the detection loop.
type Runner struct {
	sweeper *service.SweepService
	logger  *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB     *sql.DB
	Config config.SweepConfig
	Logger *slog.Logger

	// Optional dependency injection for testing/decoupling
	Repo    core.SweepRepository
	Metrics statsd.Sink
}

// NewRunner creates a new sweeper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.DB == nil && opts.Repo == nil {
		return nil, errors.New("database connection is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	repo := opts.Repo
	if repo == nil {
		repo = data.NewApplicationRepo(opts.DB, data.RepoConfig{Logger: opts.Logger})
	}

	sweeper, err := service.NewSweepService(service.SweepServiceOptions{
		Repo:    repo,
		Config:  opts.Config,
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("wire sweep service: %w", err)
	}

	return &Runner{
		sweeper: sweeper,
		logger:  opts.Logger,
	}, nil
}

// Run starts the sweep loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting sweeper runner")
	return r.sweeper.Run(ctx)
}
