package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/WhisperedCloud/Job-portal-sub000/internal/errors"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/data/pgxutil"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/domain/model"
)

// RepoConfig holds configuration options for the application repository.
type RepoConfig struct {
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

// ApplicationRepo provides database operations for application workflow management.
type ApplicationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// NewApplicationRepo creates a new ApplicationRepo instance with the given database connection and configuration.
func NewApplicationRepo(db *sql.DB, cfg RepoConfig) *ApplicationRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}

	return &ApplicationRepo{
		DB:           db,
		timeProvider: tp,
		logger:       cfg.Logger,
	}
}

const applicationColumns = `
  id,
  candidate_id,
  job_id,
  status,
  interview_date,
  interview_time,
  interview_mode,
  interview_venue,
  interview_link,
  interview_notes,
  interview_scheduled_at,
  interview_rescheduled_count,
  reschedule_reason,
  applied_at,
  updated_at
`

// Create inserts a fresh application in status applied. A duplicate
// (candidate_id, job_id) pair surfaces as a conflict AppError.
func (r *ApplicationRepo) Create(
	ctx context.Context,
	req *model.CreateApplicationRequest,
) (*model.Application, error) {
	if req == nil {
		return nil, errors.New("create application request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()

	var app *model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, qerr := pgxConn.Query(ctx, `
			INSERT INTO applications (candidate_id, job_id, status, applied_at, updated_at)
			VALUES ($1, $2, 'applied', $3, $3)
			RETURNING `+applicationColumns,
			req.CandidateID, req.JobID, now)
		if qerr != nil {
			return fmt.Errorf("insert application: %w", qerr)
		}
		defer rows.Close()

		var cerr error
		app, cerr = collectApplicationFromRows(rows)
		return cerr
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return app, nil
}

// GetByID retrieves an application by its ID.
func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	var app *model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, qerr := pgxConn.Query(ctx, `
			SELECT `+applicationColumns+`
			FROM applications
			WHERE id = $1
		`, id)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()

		var cerr error
		app, cerr = collectApplicationFromRows(rows)
		return cerr
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}

// ListByCandidate returns all of a candidate's applications, newest first.
func (r *ApplicationRepo) ListByCandidate(ctx context.Context, candidateID string) ([]*model.Application, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE candidate_id = $1
		ORDER BY applied_at DESC
	`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			_ = cerr
		}
	}()

	apps := make([]*model.Application, 0)
	for rows.Next() {
		app, serr := scanApplicationFromRow(rows)
		if serr != nil {
			return nil, fmt.Errorf("scan application: %w", serr)
		}
		apps = append(apps, app)
	}
	if rerr := rows.Err(); rerr != nil {
		return nil, fmt.Errorf("list applications: %w", rerr)
	}
	return apps, nil
}

// Stats returns counts of applications in each workflow state.
func (r *ApplicationRepo) Stats(ctx context.Context) (*model.ApplicationStats, error) {
	var s model.ApplicationStats
	err := r.DB.QueryRowContext(ctx, `
  SELECT
    count(*) FILTER (WHERE status = 'applied')             AS applied,
    count(*) FILTER (WHERE status = 'under_review')        AS under_review,
    count(*) FILTER (WHERE status = 'interview_scheduled') AS interview_scheduled,
    count(*) FILTER (WHERE status = 'missed_interview')    AS missed_interview,
    count(*) FILTER (WHERE status = 'rejected')            AS rejected,
    count(*) FILTER (WHERE status = 'hired')               AS hired
  FROM applications
  `).Scan(
		&s.Applied,
		&s.UnderReview,
		&s.InterviewScheduled,
		&s.MissedInterview,
		&s.Rejected,
		&s.Hired,
	)
	if err != nil {
		return nil, fmt.Errorf("application stats: %w", err)
	}
	return &s, nil
}

// collectApplicationFromRows collects a single application from pgx rows.
func collectApplicationFromRows(rows pgx.Rows) (*model.Application, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, pgx.ErrNoRows
	}

	app, err := scanApplicationFromRow(rows)
	if err != nil {
		return nil, err
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, rowsErr
	}

	return app, nil
}

type applicationRowScanner interface {
	Scan(dest ...any) error
}

type applicationRowData struct {
	interviewDate        sql.NullTime
	interviewScheduledAt sql.NullTime

	interviewTime, interviewMode, interviewVenue sql.NullString
	interviewLink, interviewNotes                sql.NullString
	rescheduleReason                             sql.NullString
}

func (d *applicationRowData) scanInto(scanner applicationRowScanner, app *model.Application) error {
	return scanner.Scan(
		&app.ID,
		&app.CandidateID,
		&app.JobID,
		&app.Status,
		&d.interviewDate,
		&d.interviewTime,
		&d.interviewMode,
		&d.interviewVenue,
		&d.interviewLink,
		&d.interviewNotes,
		&d.interviewScheduledAt,
		&app.RescheduledCount,
		&d.rescheduleReason,
		&app.AppliedAt,
		&app.UpdatedAt,
	)
}

func (d *applicationRowData) apply(app *model.Application) {
	app.InterviewDate = cloneNullableDate(d.interviewDate)
	app.InterviewTime = cloneNullableString(d.interviewTime)
	app.InterviewMode = cloneNullableMode(d.interviewMode)
	app.InterviewVenue = cloneNullableString(d.interviewVenue)
	app.InterviewLink = cloneNullableString(d.interviewLink)
	app.InterviewNotes = cloneNullableString(d.interviewNotes)
	app.InterviewScheduledAt = cloneNullableTime(d.interviewScheduledAt)
	app.RescheduleReason = cloneNullableString(d.rescheduleReason)
}

func scanApplicationFromRow(scanner applicationRowScanner) (*model.Application, error) {
	app := &model.Application{}
	var data applicationRowData
	if err := data.scanInto(scanner, app); err != nil {
		return nil, err
	}

	data.apply(app)
	return app, nil
}

func cloneNullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func cloneNullableTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

// cloneNullableDate keeps the date as stored, without UTC normalization.
// interview_date is a DATE column carrying a naive portal-local day.
func cloneNullableDate(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func cloneNullableMode(ns sql.NullString) *model.InterviewMode {
	if !ns.Valid {
		return nil
	}
	m := model.InterviewMode(ns.String)
	return &m
}
