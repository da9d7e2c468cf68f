package store

import (
	"context"
	"fmt"
	"time"
)

// WriteRun inserts a run and its verdicts in one transaction.
// Writing a run whose ID already exists is an error.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, suite, digest, document, passed, failed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Suite,
		run.Digest,
		run.Document,
		run.Passed,
		run.Failed,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write run %s: %w", run.ID, err)
	}

	for i, v := range run.Verdicts {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO verdicts (run_id, ordinal, case_name, direction, check_name, status, class, message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, i, v.Case, v.Direction, v.Check, v.Status, v.Class, v.Message)
		if err != nil {
			return fmt.Errorf("write run %s: verdict %d: %w", run.ID, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run %s: commit: %w", run.ID, err)
	}
	return nil
}
