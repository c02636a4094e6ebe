package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/data/pgxutil"
)

// Advisory lock namespace for sweep operations.
// Using two-arg pg_try_advisory_xact_lock(major, minor) for proper namespacing.
// Major key 2100 is reserved for workflow sweep operations.
const (
	advisoryLockSweepMajor  = 2100
	advisoryLockSweepMissed = 1 // minor key for MarkMissedInterviews
)

// MarkMissedInterviews transitions applications still in interview_scheduled
// whose interview instant (interview_date + interview_time) is strictly
// before now to missed_interview. The caller samples now once per pass so a
// single pass has one consistent cutover instant. Each UPDATE is guarded on
// status = 'interview_scheduled', so a concurrent human transition always
// wins; matching zero rows is the expected outcome of losing that race.
// Processes up to batchSize rows per statement and loops until no rows
// match. Returns the total number of applications transitioned.
func (r *ApplicationRepo) MarkMissedInterviews(
	ctx context.Context,
	now time.Time,
	batchSize int,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batch size must be greater than zero, got %d", batchSize)
	}

	// interview_date + interview_time::time yields a naive timestamp, so the
	// cutoff is sent as a naive timestamp literal in the same frame. No
	// timezone conversion happens on either side of the comparison.
	cutoff := now.Format("2006-01-02 15:04:05")

	var total int64
	for {
		var rowsAffected int64
		err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
			Fn: func(tx *sql.Tx) error {
				var locked bool
				if err := tx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1, $2)", advisoryLockSweepMajor, advisoryLockSweepMissed).Scan(&locked); err != nil {
					return fmt.Errorf("acquire advisory lock: %w", err)
				}
				if !locked {
					rowsAffected = 0
					return nil
				}

				res, err := tx.ExecContext(ctx, `
					UPDATE applications
					SET status = 'missed_interview',
						updated_at = $1
					WHERE id IN (
						SELECT id FROM applications
						WHERE status = 'interview_scheduled'
						  AND interview_date + interview_time::time < $2::timestamp
						ORDER BY interview_date, interview_time
						LIMIT $3
					)
					AND status = 'interview_scheduled'
				`, now.UTC(), cutoff, batchSize)
				if err != nil {
					return fmt.Errorf("mark missed interviews: %w", err)
				}

				ra, err := res.RowsAffected()
				if err != nil {
					return fmt.Errorf("rows affected: %w", err)
				}
				rowsAffected = ra
				return nil
			},
		})
		if err != nil {
			return total, err
		}

		total += rowsAffected
		if rowsAffected < int64(batchSize) {
			return total, nil
		}
	}
}
