package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned by ReadRun for an unknown ID.
var ErrRunNotFound = errors.New("run not found")

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var created string
	if err := row.Scan(&run.ID, &run.Suite, &run.Digest, &run.Document, &run.Passed, &run.Failed, &created); err != nil {
		return Run{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	run.CreatedAt = t
	return run, nil
}

// ReadRun returns a run with its verdicts in recorded order.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, suite, digest, document, passed, failed, created_at
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}

	verdicts, err := s.readVerdicts(ctx, id)
	if err != nil {
		return Run{}, err
	}
	run.Verdicts = verdicts
	return run, nil
}

func (s *Store) readVerdicts(ctx context.Context, runID string) ([]VerdictRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT case_name, direction, check_name, status, class, message
		FROM verdicts
		WHERE run_id = ?
		ORDER BY ordinal ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query verdicts: %w", err)
	}
	defer rows.Close()

	verdicts := []VerdictRow{}
	for rows.Next() {
		var v VerdictRow
		if err := rows.Scan(&v.Case, &v.Direction, &v.Check, &v.Status, &v.Class, &v.Message); err != nil {
			return nil, fmt.Errorf("scan verdict: %w", err)
		}
		verdicts = append(verdicts, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verdicts: %w", err)
	}
	return verdicts, nil
}

// RunFilter narrows ListRuns.
type RunFilter struct {
	// Suite keeps only runs of the named suite. Empty keeps every suite.
	Suite string

	// Limit caps the result. Zero or less returns every matching run.
	Limit int
}

// ListRuns returns matching runs newest first, without verdicts.
func (s *Store) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, suite, digest, document, passed, failed, created_at FROM runs`
	args := []any{}
	if filter.Suite != "" {
		query += ` WHERE suite = ?`
		args = append(args, filter.Suite)
	}
	query += ` ORDER BY seq DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
