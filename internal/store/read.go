package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/bankcheck/internal/bank"
	"github.com/roach88/bankcheck/internal/harness"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("not found")

// RunRecord is a stored run with its counters.
type RunRecord struct {
	ID       string `db:"id" json:"id"`
	Seq      int64  `db:"seq" json:"seq"`
	Finished bool   `db:"finished" json:"finished"`

	Traces          int `db:"traces" json:"traces"`
	PassedTraces    int `db:"passed_traces" json:"passed_traces"`
	FailedTraces    int `db:"failed_traces" json:"failed_traces"`
	DecodeFailures  int `db:"decode_failures" json:"decode_failures"`
	Steps           int `db:"steps" json:"steps"`
	StateMismatches int `db:"state_mismatches" json:"state_mismatches"`
	ErrorMismatches int `db:"error_mismatches" json:"error_mismatches"`
}

// Summary returns the counters as a harness summary.
func (r RunRecord) Summary() harness.Summary {
	return harness.Summary{
		Traces:          r.Traces,
		PassedTraces:    r.PassedTraces,
		FailedTraces:    r.FailedTraces,
		DecodeFailures:  r.DecodeFailures,
		Steps:           r.Steps,
		StateMismatches: r.StateMismatches,
		ErrorMismatches: r.ErrorMismatches,
	}
}

// TraceRecord is a stored trace verdict. Steps holds only the mismatched
// steps when returned by ReadFailures.
type TraceRecord struct {
	Seq         int64  `db:"seq" json:"seq"`
	TraceID     string `db:"trace_id" json:"trace_id"`
	Pass        bool   `db:"pass" json:"pass"`
	DecodeError string `db:"decode_error" json:"decode_error,omitempty"`
	StepCount   int    `db:"steps" json:"step_count"`

	Steps []harness.StepResult `db:"-" json:"steps"`
}

type stepRow struct {
	TraceSeq       int64  `db:"trace_seq"`
	Step           int    `db:"step"`
	Action         string `db:"action"`
	ExpectedState  string `db:"expected_state"`
	ActualState    string `db:"actual_state"`
	ExpectedDigest string `db:"expected_digest"`
	ActualDigest   string `db:"actual_digest"`
	ExpectedError  string `db:"expected_error"`
	ActualError    string `db:"actual_error"`
	StateMatch     bool   `db:"state_match"`
	ErrorMatch     bool   `db:"error_match"`
}

// ListRuns returns all runs ordered by seq.
// Returns an empty slice (not nil) when there are none.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	runs := []RunRecord{}
	err := s.db.SelectContext(ctx, &runs, `
		SELECT id, seq, finished, traces, passed_traces, failed_traces, decode_failures,
		       steps, state_mismatches, error_mismatches
		FROM runs
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns one run. Wraps ErrNotFound when it does not exist.
func (s *Store) ReadRun(ctx context.Context, runID string) (RunRecord, error) {
	var run RunRecord
	err := s.db.GetContext(ctx, &run, `
		SELECT id, seq, finished, traces, passed_traces, failed_traces, decode_failures,
		       steps, state_mismatches, error_mismatches
		FROM runs
		WHERE id = ?
	`, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("read run %s: %w", runID, err)
	}
	return run, nil
}

// LatestRun returns the run with the highest seq.
func (s *Store) LatestRun(ctx context.Context) (RunRecord, error) {
	var id string
	err := s.db.GetContext(ctx, &id, `SELECT id FROM runs ORDER BY seq DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("latest run: %w", ErrNotFound)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("latest run: %w", err)
	}
	return s.ReadRun(ctx, id)
}

// ReadFailures returns the failing traces of a run in seq order, each with
// its mismatched steps decoded back into step results.
func (s *Store) ReadFailures(ctx context.Context, runID string) ([]TraceRecord, error) {
	if _, err := s.ReadRun(ctx, runID); err != nil {
		return nil, err
	}

	traces := []TraceRecord{}
	err := s.db.SelectContext(ctx, &traces, `
		SELECT seq, trace_id, pass, decode_error, steps
		FROM trace_results
		WHERE run_id = ? AND pass = 0
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read failing traces: %w", err)
	}

	var rows []stepRow
	err = s.db.SelectContext(ctx, &rows, `
		SELECT trace_seq, step, action, expected_state, actual_state,
		       expected_digest, actual_digest, expected_error, actual_error,
		       state_match, error_match
		FROM step_results
		WHERE run_id = ? AND (state_match = 0 OR error_match = 0)
		ORDER BY trace_seq ASC, step ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read failing steps: %w", err)
	}

	bySeq := make(map[int64]*TraceRecord, len(traces))
	for i := range traces {
		traces[i].Steps = []harness.StepResult{}
		bySeq[traces[i].Seq] = &traces[i]
	}
	for _, row := range rows {
		tr, ok := bySeq[row.TraceSeq]
		if !ok {
			continue
		}
		step, err := row.stepResult()
		if err != nil {
			return nil, fmt.Errorf("trace %s step %d: %w", tr.TraceID, row.Step, err)
		}
		tr.Steps = append(tr.Steps, step)
	}
	return traces, nil
}

func (r stepRow) stepResult() (harness.StepResult, error) {
	var expected, actual *bank.State
	var err error
	if expected, err = unmarshalState(r.ExpectedState); err != nil {
		return harness.StepResult{}, err
	}
	if actual, err = unmarshalState(r.ActualState); err != nil {
		return harness.StepResult{}, err
	}
	sr := harness.StepResult{
		Index:         r.Step,
		Action:        r.Action,
		ExpectedState: expected,
		ActualState:   actual,
		ExpectedError: r.ExpectedError,
		ActualError:   r.ActualError,
		StateMatch:    r.StateMatch,
		ErrorMatch:    r.ErrorMatch,
	}
	if !sr.StateMatch {
		sr.StateDiff = harness.StateDiff(expected, actual)
	}
	return sr, nil
}

// CountMismatchedDigests counts stored steps whose expected and actual
// digests differ. It always equals the run's state mismatch count.
func (s *Store) CountMismatchedDigests(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM step_results
		WHERE run_id = ? AND expected_digest != actual_digest
	`, runID)
	if err != nil {
		return 0, fmt.Errorf("count mismatched digests: %w", err)
	}
	return n, nil
}
