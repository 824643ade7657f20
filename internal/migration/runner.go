package migration

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/unseriousprof/edgi-vid-library/internal/errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Runner applies registered migrations in order, at most once each,
// recording applied versions in the schema_migrations ledger. It is
// forward-only: there are no down migrations, and a reverse step would
// have to be authored and registered explicitly as its own migration.
type Runner struct {
	db         *sqlx.DB
	migrations []*Migration
}

// Status describes one registered migration against the ledger.
type Status struct {
	Version   string     `json:"version"`
	Name      string     `json:"name"`
	Applied   bool       `json:"applied"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
}

// NewRunner creates a runner over the given migration sequence. The
// sequence is validated eagerly; a malformed migration is a programming
// error, not a runtime condition.
func NewRunner(db *sqlx.DB, migrations []*Migration) (*Runner, error) {
	seen := make(map[string]bool, len(migrations))
	prev := ""
	for _, m := range migrations {
		if err := m.Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid migration")
		}
		if seen[m.Version] {
			return nil, fmt.Errorf("duplicate migration version %s", m.Version)
		}
		if m.Version <= prev {
			return nil, fmt.Errorf("migration %s out of order after %s", m.Version, prev)
		}
		seen[m.Version] = true
		prev = m.Version
	}
	return &Runner{db: db, migrations: migrations}, nil
}

// Up applies every pending migration. The first failure halts the run:
// these are one-shot structural changes and a partial application needs
// human remediation, not a blind retry.
func (r *Runner) Up(ctx context.Context) error {
	if err := r.ensureLedger(ctx); err != nil {
		return err
	}

	applied, err := r.appliedVersions(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to read migration ledger")
	}

	for _, m := range r.migrations {
		if checksum, ok := applied[m.Version]; ok {
			if checksum != m.Checksum() {
				return errors.New(errors.CodeChecksumMismatch,
					fmt.Sprintf("migration %s was applied with a different definition", m.Version))
			}
			continue
		}
		if err := r.apply(ctx, m); err != nil {
			return errors.Wrapf(err, "migration %s (%s) failed", m.Version, m.Name)
		}
	}
	return nil
}

// Statuses reports every registered migration against the ledger.
func (r *Runner) Statuses(ctx context.Context) ([]Status, error) {
	if err := r.ensureLedger(ctx); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryxContext(ctx,
		`SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read migration ledger")
	}
	defer rows.Close()

	appliedAt := make(map[string]time.Time)
	for rows.Next() {
		var version string
		var at time.Time
		if err := rows.Scan(&version, &at); err != nil {
			return nil, err
		}
		appliedAt[version] = at
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(r.migrations))
	for _, m := range r.migrations {
		s := Status{Version: m.Version, Name: m.Name}
		if at, ok := appliedAt[m.Version]; ok {
			s.Applied = true
			s.AppliedAt = &at
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}

func (r *Runner) ensureLedger(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			checksum TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`)
	if err != nil {
		return errors.Wrap(err, "failed to create migration ledger")
	}
	return nil
}

func (r *Runner) appliedVersions(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]string)
	for rows.Next() {
		var version, checksum string
		if err := rows.Scan(&version, &checksum); err != nil {
			return nil, err
		}
		applied[version] = checksum
	}
	return applied, rows.Err()
}

// apply runs one migration inside a single transaction so an interrupted
// run leaves no partially-populated tables behind.
func (r *Runner) apply(ctx context.Context, m *Migration) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, phase := range m.Phases {
		if phase.Gate != nil {
			if err := phase.Gate(ctx, tx); err != nil {
				return errors.Wrapf(err, "%s gate rejected", phase.Kind)
			}
		}
		for _, stmt := range phase.Statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return classifyError(phase, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, checksum) VALUES ($1, $2)`,
		m.Version, m.Checksum()); err != nil {
		return errors.Wrap(err, "failed to record migration")
	}

	return tx.Commit()
}

// classifyError maps postgres error codes onto the migration error kinds
// so callers can tell a schema conflict from bad source data.
func classifyError(phase Phase, err error) error {
	var pqErr *pq.Error
	if !stderrors.As(err, &pqErr) {
		return errors.Wrapf(err, "%s phase failed", phase.Kind)
	}
	msg := fmt.Sprintf("%s phase: %s", phase.Kind, pqErr.Message)
	switch pqErr.Code {
	case "42P07", "42710": // duplicate_table, duplicate_object
		return errors.SchemaConflict(msg, err)
	case "42P01", "42704": // undefined_table, undefined_object
		return errors.SchemaConflict(msg, err)
	case "23503": // foreign_key_violation
		return errors.ReferentialViolation(msg, err)
	case "23502", "23514", "23505": // not_null, check, unique
		return errors.ConstraintViolation(msg, err)
	case "22P02", "22003", "22001": // bad cast, numeric overflow, truncation
		return errors.CastFailure(msg, err)
	}
	return errors.Wrapf(err, "%s phase failed", phase.Kind)
}

// CountRows is a small helper for gates that assert emptiness.
func CountRows(ctx context.Context, tx *sqlx.Tx, query string) (int, error) {
	var n int
	if err := tx.QueryRowContext(ctx, query).Scan(&n); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}
