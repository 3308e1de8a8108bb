package harness

import (
	"github.com/roach88/bankcheck/internal/bank"
)

// Report is the outcome of one run over a list of traces.
type Report struct {
	// RunID identifies the run; UUIDv7 unless a generator is injected.
	RunID string `json:"run_id"`

	// Traces holds one result per source, in source order.
	Traces []TraceResult `json:"traces"`

	Summary Summary `json:"summary"`
}

// Pass reports whether every trace conformed.
func (r *Report) Pass() bool {
	return r.Summary.FailedTraces == 0
}

// Failures returns the failing traces.
func (r *Report) Failures() []TraceResult {
	var out []TraceResult
	for _, t := range r.Traces {
		if !t.Pass {
			out = append(out, t)
		}
	}
	return out
}

// TraceResult is the verdict for one trace.
type TraceResult struct {
	ID string `json:"id"`

	// Steps holds the steps compared before the trace ended or failed to
	// decode.
	Steps []StepResult `json:"steps"`

	// DecodeError is set when the trace could not be read or a step could
	// not be decoded. Steps after that point were not run.
	DecodeError string `json:"decode_error,omitempty"`

	// Pass is true when every step matched and nothing failed to decode.
	Pass bool `json:"pass"`
}

// MismatchedSteps returns the steps that failed either comparison.
func (t *TraceResult) MismatchedSteps() []StepResult {
	var out []StepResult
	for _, s := range t.Steps {
		if !s.Pass() {
			out = append(out, s)
		}
	}
	return out
}

// StepResult carries the four compared values of a step and their verdicts.
type StepResult struct {
	Index  int    `json:"index"`
	Action string `json:"action"`

	ExpectedState *bank.State `json:"expected_state"`
	ActualState   *bank.State `json:"actual_state"`

	// ExpectedError and ActualError are trace error strings; "" means no
	// error.
	ExpectedError string `json:"expected_error"`
	ActualError   string `json:"actual_error"`

	StateMatch bool `json:"state_match"`
	ErrorMatch bool `json:"error_match"`

	// StateDiff is a (-expected +actual) diff, set on state mismatch.
	StateDiff string `json:"state_diff,omitempty"`
}

// Pass reports whether both comparisons matched.
func (s StepResult) Pass() bool {
	return s.StateMatch && s.ErrorMatch
}

// Summary counts the outcomes of a run.
type Summary struct {
	Traces         int `json:"traces"`
	PassedTraces   int `json:"passed_traces"`
	FailedTraces   int `json:"failed_traces"`
	DecodeFailures int `json:"decode_failures"`

	Steps           int `json:"steps"`
	StateMismatches int `json:"state_mismatches"`
	ErrorMismatches int `json:"error_mismatches"`
}

// Add folds one trace result into the summary.
func (s *Summary) Add(t *TraceResult) {
	s.Traces++
	if t.Pass {
		s.PassedTraces++
	} else {
		s.FailedTraces++
	}
	if t.DecodeError != "" {
		s.DecodeFailures++
	}
	for _, step := range t.Steps {
		s.Steps++
		if !step.StateMatch {
			s.StateMismatches++
		}
		if !step.ErrorMatch {
			s.ErrorMismatches++
		}
	}
}
