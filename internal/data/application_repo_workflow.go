package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/core"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/data/pgxutil"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/domain/model"
)

// UpdateStatus performs a conditional status write: the row is updated only
// if its status still equals params.From at write time. Returns (nil, nil)
// when the guard matches no row, so the caller can distinguish a lost race
// from a hard failure. The guard is the only concurrency control between a
// recruiter action and the background sweep.
func (r *ApplicationRepo) UpdateStatus(
	ctx context.Context,
	params core.UpdateStatusParams,
) (*model.Application, error) {
	if !params.To.Valid() || !params.From.Valid() {
		return nil, fmt.Errorf("invalid status transition %q -> %q", params.From, params.To)
	}

	now := r.timeProvider.Now().UTC()

	var app *model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, qerr := pgxConn.Query(ctx, `
			UPDATE applications
			SET status = $2,
			    updated_at = $3
			WHERE id = $1 AND status = $4
			RETURNING `+applicationColumns,
			params.ID, params.To, now, params.From)
		if qerr != nil {
			return fmt.Errorf("update status: %w", qerr)
		}
		defer rows.Close()

		var cerr error
		app, cerr = collectApplicationFromRows(rows)
		return cerr
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

// ScheduleInterview writes the full interview sub-record and moves the row
// to interview_scheduled in one conditional statement. All interview fields
// are overwritten with the new values. On a reschedule the counter is
// incremented and the reason recorded; on a first schedule both are left
// untouched. Returns (nil, nil) when the status guard matches no row.
func (r *ApplicationRepo) ScheduleInterview(
	ctx context.Context,
	params core.ScheduleInterviewParams,
) (*model.Application, error) {
	if !params.Mode.Valid() {
		return nil, fmt.Errorf("invalid interview mode: %s", params.Mode)
	}
	if !params.From.Valid() {
		return nil, fmt.Errorf("invalid prior status: %s", params.From)
	}

	now := r.timeProvider.Now().UTC()

	counterDelta := 0
	if params.IsReschedule {
		counterDelta = 1
	}

	var app *model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, qerr := pgxConn.Query(ctx, `
			UPDATE applications
			SET status = 'interview_scheduled',
			    interview_date = $2,
			    interview_time = $3,
			    interview_mode = $4,
			    interview_venue = $5,
			    interview_link = $6,
			    interview_notes = $7,
			    interview_scheduled_at = $8,
			    interview_rescheduled_count = interview_rescheduled_count + $9,
			    reschedule_reason = CASE WHEN $9 > 0 THEN $10 ELSE reschedule_reason END,
			    updated_at = $8
			WHERE id = $1 AND status = $11
			RETURNING `+applicationColumns,
			params.ID,
			params.Date,
			params.Time,
			params.Mode,
			params.Venue,
			params.Link,
			params.Notes,
			now,
			counterDelta,
			params.Reason,
			params.From)
		if qerr != nil {
			return fmt.Errorf("schedule interview: %w", qerr)
		}
		defer rows.Close()

		var cerr error
		app, cerr = collectApplicationFromRows(rows)
		return cerr
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}
