// Package migrate applies the embedded SQL schema migrations.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Advisory lock serialising concurrent migrators. Major key 2100 is the
// workflow namespace; minor key 0 is reserved for schema migrations.
const (
	advisoryLockMajor = 2100
	advisoryLockMinor = 0
)

type migration struct {
	version string
	file    string
}

// Run applies every embedded migration that has not been recorded in
// schema_migrations yet, in filename order. Safe to call repeatedly and
// from multiple processes at once.
func Run(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	pending, err := pendingMigrations(ctx, db)
	if err != nil {
		return err
	}

	logger := slog.Default().With("component", "migrations")
	for _, m := range pending {
		if err := apply(ctx, db, logger, m); err != nil {
			return err
		}
	}
	return nil
}

// pendingMigrations lists embedded migrations not yet recorded, sorted by
// filename so numeric prefixes run in order.
func pendingMigrations(ctx context.Context, db *sql.DB) ([]migration, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}

	var pending []migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		version := strings.TrimSuffix(e.Name(), ".sql")
		if applied[version] {
			continue
		}
		pending = append(pending, migration{version: version, file: e.Name()})
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].file < pending[j].file })
	return pending, nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// apply runs one migration inside a transaction holding the migration
// advisory lock. A concurrent migrator that already applied the version
// while we waited turns this into a no-op via the ON CONFLICT guard.
func apply(ctx context.Context, db *sql.DB, logger *slog.Logger, m migration) error {
	contents, err := migrationsFS.ReadFile("migrations/" + m.file)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", m.file, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			logger.ErrorContext(ctx, "migration rollback failed",
				"migration", m.file,
				"error", rollbackErr,
			)
		}
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, advisoryLockMajor, advisoryLockMinor); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1) ON CONFLICT (version) DO NOTHING`, m.version)
	if err != nil {
		return fmt.Errorf("record migration %s: %w", m.file, err)
	}
	if inserted, raErr := res.RowsAffected(); raErr == nil && inserted == 0 {
		// Applied by a concurrent migrator while we waited on the lock.
		return tx.Commit()
	}

	logger.InfoContext(ctx, "applying migration", "version", m.version)
	if _, err := tx.ExecContext(ctx, string(contents)); err != nil {
		return fmt.Errorf("exec migration %s: %w", m.file, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", m.file, err)
	}
	return nil
}
