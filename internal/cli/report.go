package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/bankcheck/internal/harness"
	"github.com/roach88/bankcheck/internal/store"
)

// latestRun selects the most recent run for --run.
const latestRun = "latest"

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Database string
	Run      string // optional; empty lists runs
}

// RunFailures is the JSON payload for one run's failures.
type RunFailures struct {
	Run    store.RunRecord     `json:"run"`
	Traces []store.TraceRecord `json:"traces"`
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show recorded runs",
		Long: `Read results recorded by 'check --db'.

Without --run every recorded run is listed. With --run the failing
traces of that run are printed with their mismatched steps; use
--run latest for the most recent run.

Examples:
  bankcheck report --db results.db
  bankcheck report --db results.db --run latest
  bankcheck report --db results.db --run 0190b8e2-... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Run, "run", "", "run id, or \"latest\"")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runReport(opts *ReportOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Opening creates the file, so a missing database is checked first.
	if _, err := os.Stat(opts.Database); errors.Is(err, os.ErrNotExist) {
		return commandError(formatter, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("database not found: %s", opts.Database)})
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return commandError(formatter, &LoadError{Code: ErrCodeStore, Message: err.Error()})
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Run == "" {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return commandError(formatter, &LoadError{Code: ErrCodeStore, Message: err.Error()})
		}
		if opts.Format == "json" {
			return formatter.Success(runs)
		}
		return outputRunsText(formatter, runs)
	}

	var run store.RunRecord
	if opts.Run == latestRun {
		run, err = st.LatestRun(ctx)
	} else {
		run, err = st.ReadRun(ctx, opts.Run)
	}
	if err != nil {
		return commandError(formatter, storeError(err))
	}

	traces, err := st.ReadFailures(ctx, run.ID)
	if err != nil {
		return commandError(formatter, storeError(err))
	}

	if opts.Format == "json" {
		return formatter.Success(RunFailures{Run: run, Traces: traces})
	}
	return harness.WriteText(formatter.Writer, failureReport(run, traces), false)
}

func storeError(err error) *LoadError {
	if errors.Is(err, store.ErrNotFound) {
		return &LoadError{Code: ErrCodeNotFound, Message: err.Error()}
	}
	return &LoadError{Code: ErrCodeStore, Message: err.Error()}
}

// failureReport rebuilds a harness report from stored failures so it
// prints like a live run.
func failureReport(run store.RunRecord, traces []store.TraceRecord) *harness.Report {
	r := &harness.Report{
		RunID:   run.ID,
		Traces:  make([]harness.TraceResult, 0, len(traces)),
		Summary: run.Summary(),
	}
	for _, t := range traces {
		r.Traces = append(r.Traces, harness.TraceResult{
			ID:          t.TraceID,
			Steps:       t.Steps,
			DecodeError: t.DecodeError,
			Pass:        t.Pass,
		})
	}
	return r
}

func outputRunsText(formatter *OutputFormatter, runs []store.RunRecord) error {
	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(formatter.Writer)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Seq", "Run", "Finished", "Traces", "Passed", "Failed", "Undecodable", "Steps"})
	for _, r := range runs {
		t.AppendRow(table.Row{r.Seq, r.ID, r.Finished, r.Traces, r.PassedTraces, r.FailedTraces, r.DecodeFailures, r.Steps})
	}
	t.Render()
	return nil
}
