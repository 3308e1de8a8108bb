package harness

import "context"

// Recorder persists run results as they are produced. The store package
// provides the SQLite implementation.
type Recorder interface {
	// BeginRun is called once before the first trace.
	BeginRun(ctx context.Context, runID string) error

	// RecordTrace is called after each trace, in source order.
	RecordTrace(ctx context.Context, runID string, result *TraceResult) error

	// EndRun is called once after the last trace with the final summary.
	EndRun(ctx context.Context, runID string, summary Summary) error
}

// nopRecorder is used when no Recorder is configured.
type nopRecorder struct{}

func (nopRecorder) BeginRun(context.Context, string) error                 { return nil }
func (nopRecorder) RecordTrace(context.Context, string, *TraceResult) error { return nil }
func (nopRecorder) EndRun(context.Context, string, Summary) error           { return nil }
