package store

import (
	"context"
	"fmt"

	"github.com/roach88/bankcheck/internal/harness"
)

var _ harness.Recorder = (*Store)(nil)

// BeginRun inserts the run row. Counters stay zero until EndRun.
func (s *Store) BeginRun(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, seq) VALUES (?, ?)`,
		runID, s.clock.Next(),
	)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// RecordTrace writes a trace verdict and all of its steps in one
// transaction.
func (s *Store) RecordTrace(ctx context.Context, runID string, r *harness.TraceResult) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record trace: %w", err)
	}
	defer tx.Rollback()

	seq := s.clock.Next()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO trace_results (run_id, seq, trace_id, pass, decode_error, steps)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, seq, r.ID, boolToInt(r.Pass), r.DecodeError, len(r.Steps))
	if err != nil {
		return fmt.Errorf("record trace %s: %w", r.ID, err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO step_results
		(run_id, trace_seq, step, action, expected_state, actual_state,
		 expected_digest, actual_digest, expected_error, actual_error,
		 state_match, error_match)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("record trace %s: %w", r.ID, err)
	}
	defer stmt.Close()

	for _, step := range r.Steps {
		expected, expectedDigest, err := marshalState(step.ExpectedState)
		if err != nil {
			return fmt.Errorf("record trace %s step %d: %w", r.ID, step.Index, err)
		}
		actual, actualDigest, err := marshalState(step.ActualState)
		if err != nil {
			return fmt.Errorf("record trace %s step %d: %w", r.ID, step.Index, err)
		}
		_, err = stmt.ExecContext(ctx,
			runID, seq, step.Index, step.Action,
			expected, actual, expectedDigest, actualDigest,
			step.ExpectedError, step.ActualError,
			boolToInt(step.StateMatch), boolToInt(step.ErrorMatch),
		)
		if err != nil {
			return fmt.Errorf("record trace %s step %d: %w", r.ID, step.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record trace %s: commit: %w", r.ID, err)
	}
	return nil
}

// EndRun stores the final counters and marks the run finished.
func (s *Store) EndRun(ctx context.Context, runID string, sum harness.Summary) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET
			finished = 1,
			traces = ?, passed_traces = ?, failed_traces = ?, decode_failures = ?,
			steps = ?, state_mismatches = ?, error_mismatches = ?
		WHERE id = ?
	`,
		sum.Traces, sum.PassedTraces, sum.FailedTraces, sum.DecodeFailures,
		sum.Steps, sum.StateMismatches, sum.ErrorMismatches,
		runID,
	)
	if err != nil {
		return fmt.Errorf("end run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("end run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("end run %s: %w", runID, ErrNotFound)
	}
	return nil
}
