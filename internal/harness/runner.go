package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/bankcheck/internal/bank"
	"github.com/roach88/bankcheck/internal/engine"
	"github.com/roach88/bankcheck/internal/trace"
)

// Runner replays traces against the bank. The zero value is usable: it
// uses the default messages, a discard logger, no recorder and UUIDv7 run
// ids.
type Runner struct {
	// Messages renders bank error codes as trace error strings.
	Messages bank.Messages

	Logger *slog.Logger

	// Recorder receives results as they are produced. Optional.
	Recorder Recorder

	// Resync re-seeds the running state from the expected state after a
	// state mismatch instead of carrying the divergent state forward.
	Resync bool

	// IDs generates the run id. Optional.
	IDs IDGenerator
}

func (r *Runner) messages() bank.Messages {
	if r.Messages == nil {
		return bank.DefaultMessages()
	}
	return r.Messages
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}

func (r *Runner) recorder() Recorder {
	if r.Recorder == nil {
		return nopRecorder{}
	}
	return r.Recorder
}

func (r *Runner) ids() IDGenerator {
	if r.IDs == nil {
		return UUIDv7Generator{}
	}
	return r.IDs
}

// Run replays every source in order and returns the report. Conformance
// failures and undecodable traces are recorded in the report; the error
// return is reserved for cancellation and recorder failures, in which case
// the report covers the traces finished so far.
func (r *Runner) Run(ctx context.Context, sources []trace.Source) (*Report, error) {
	logger := r.logger()
	rec := r.recorder()

	report := &Report{RunID: r.ids().Generate(), Traces: make([]TraceResult, 0, len(sources))}
	logger.Info("run starting", "run_id", report.RunID, "traces", len(sources), "resync", r.Resync)

	if err := rec.BeginRun(ctx, report.RunID); err != nil {
		return report, fmt.Errorf("begin run: %w", err)
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result := r.RunSource(src)
		report.Traces = append(report.Traces, *result)
		report.Summary.Add(result)

		if err := rec.RecordTrace(ctx, report.RunID, result); err != nil {
			return report, fmt.Errorf("record trace %s: %w", result.ID, err)
		}
	}

	if err := rec.EndRun(ctx, report.RunID, report.Summary); err != nil {
		return report, fmt.Errorf("end run: %w", err)
	}

	s := report.Summary
	logger.Info("run finished",
		"run_id", report.RunID,
		"traces", s.Traces,
		"failed", s.FailedTraces,
		"decode_failures", s.DecodeFailures,
		"steps", s.Steps,
	)
	return report, nil
}

// RunSource loads and replays one source.
func (r *Runner) RunSource(src trace.Source) *TraceResult {
	t, err := src.Load()
	if err != nil {
		r.logger().Warn("trace load failed", "trace", src.ID(), "error", err)
		return &TraceResult{ID: src.ID(), Steps: []StepResult{}, DecodeError: err.Error()}
	}
	return r.RunTrace(t)
}

// RunTrace replays one trace. The bank state is seeded from step 0's
// expected state and every step, step 0 included, is dispatched and
// compared.
func (r *Runner) RunTrace(t *trace.Trace) *TraceResult {
	logger := r.logger().With("trace", t.ID)
	result := &TraceResult{ID: t.ID, Steps: make([]StepResult, 0, len(t.Steps))}

	fail := func(err error) *TraceResult {
		logger.Warn("trace decode failed", "steps", len(result.Steps), "error", err)
		result.DecodeError = err.Error()
		result.Pass = false
		return result
	}

	if len(t.Steps) == 0 {
		return fail(&trace.DecodeError{Path: trace.KeyStates, Err: fmt.Errorf("trace has no states")})
	}
	state, err := t.Steps[0].ExpectedState()
	if err != nil {
		return fail(err)
	}

	dispatcher := engine.NewDispatcher(logger)
	messages := r.messages()
	pass := true

	for _, step := range t.Steps {
		sr, err := runStep(logger, dispatcher, messages, state, step)
		if err != nil {
			return fail(err)
		}
		result.Steps = append(result.Steps, sr)

		if !sr.Pass() {
			pass = false
			logger.Debug("step mismatch",
				"step", sr.Index,
				"action", sr.Action,
				"state_match", sr.StateMatch,
				"error_match", sr.ErrorMatch,
			)
		}
		if !sr.StateMatch && r.Resync {
			state = sr.ExpectedState.Clone()
		}
	}

	result.Pass = pass
	logger.Debug("trace checked", "steps", len(result.Steps), "pass", pass)
	return result
}

// runStep mutates state by the step's action and compares the outcome.
func runStep(logger *slog.Logger, d *engine.Dispatcher, messages bank.Messages, state *bank.State, step trace.Step) (StepResult, error) {
	action := bank.ParseAction(step.Action)
	code, err := d.Dispatch(state, action, engine.Picks(step.Picks))
	if err != nil {
		return StepResult{}, trace.WithPath(step.Path()+"."+trace.KeyNondetPicks, err)
	}
	if action == bank.ActionUnknown {
		logger.Warn("unknown action", "action", step.Action, "step", step.Index)
	}

	expected, err := step.ExpectedState()
	if err != nil {
		return StepResult{}, err
	}
	expectedErr, err := step.ExpectedError()
	if err != nil {
		return StepResult{}, err
	}

	sr := StepResult{
		Index:         step.Index,
		Action:        step.Action,
		ExpectedState: expected,
		ActualState:   state.Clone(),
		ExpectedError: expectedErr,
		ActualError:   messages.Text(code),
	}
	compareStep(&sr)
	return sr, nil
}
