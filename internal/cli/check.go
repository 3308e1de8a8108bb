package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/bankcheck/internal/config"
	"github.com/roach88/bankcheck/internal/harness"
	"github.com/roach88/bankcheck/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Dir      string
	Prefix   string
	Suffix   string
	Count    int
	Database string
	Resync   bool

	// IDs overrides run id generation. Tests only.
	IDs harness.IDGenerator
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return newCheckCommand(&CheckOptions{RootOptions: rootOpts})
}

func newCheckCommand(opts *CheckOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Replay traces and report divergences",
		Long: `Replay ITF traces (or YAML scenarios) against the bank and compare every
step's state and error with the trace.

Without paths the numbered sequence <dir>/<prefix><i><suffix> is used,
for i from 0 to --count-1. With --count -1 the sequence stops at the
first missing file. Directories expand to their trace files in natural
order.

Exit codes:
  0 - Every trace conforms
  1 - One or more traces diverged or failed to decode
  2 - Command error (bad config, missing paths, etc.)

Examples:
  bankcheck check
  bankcheck check --dir ./traces --count -1
  bankcheck check traces/out3.itf.json scenarios/
  bankcheck check --db results.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", "directory of numbered traces (default from config)")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "numbered trace file prefix (default from config)")
	cmd.Flags().StringVar(&opts.Suffix, "suffix", "", "numbered trace file suffix (default from config)")
	cmd.Flags().IntVar(&opts.Count, "count", 0, "number of numbered traces, -1 to stop at the first gap (default from config)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record results in this SQLite database")
	cmd.Flags().BoolVar(&opts.Resync, "resync", false, "reseed the running state from the trace after a state mismatch")

	return cmd
}

// applyFlags overrides config values with flags the user set.
func (opts *CheckOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Traces.Dir = opts.Dir
	}
	if flags.Changed("prefix") {
		cfg.Traces.Prefix = opts.Prefix
	}
	if flags.Changed("suffix") {
		cfg.Traces.Suffix = opts.Suffix
	}
	if flags.Changed("count") {
		cfg.Traces.Count = opts.Count
	}
	if flags.Changed("db") {
		cfg.DB = opts.Database
	}
	if flags.Changed("resync") {
		cfg.Resync = opts.Resync
	}
}

func runCheck(opts *CheckOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Count < -1 {
		return commandError(formatter, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("invalid --count %d: must be -1 or greater", opts.Count)})
	}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return commandError(formatter, err)
	}
	opts.applyFlags(cmd, cfg)

	logger := newLogger(cmd.ErrOrStderr(), cfg.Level(), opts.Verbose)

	sources, err := loadSources(cfg, args)
	if err != nil {
		return commandError(formatter, err)
	}
	formatter.VerboseLog("Checking %d trace(s)", len(sources))

	runner := &harness.Runner{
		Messages: cfg.BankMessages(),
		Logger:   logger,
		Resync:   cfg.Resync,
		IDs:      opts.IDs,
	}

	if cfg.DB != "" {
		logger.Info("opening database", "path", cfg.DB)
		st, err := store.Open(cfg.DB)
		if err != nil {
			return commandError(formatter, &LoadError{Code: ErrCodeStore, Message: err.Error()})
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		runner.Recorder = st
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := runner.Run(ctx, sources)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("run interrupted", "checked", len(report.Traces), "total", len(sources))
			return commandError(formatter, &LoadError{Code: ErrCodeCancelled, Message: "run interrupted"})
		}
		return commandError(formatter, &LoadError{Code: ErrCodeStore, Message: err.Error()})
	}

	if opts.Format == "json" {
		return formatter.RunResult(report.RunID, report, checkFailure(report))
	}
	return outputCheckText(cmd, report, opts.Verbose)
}

func checkFailure(report *harness.Report) error {
	if report.Pass() {
		return nil
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d of %d trace(s) failed", report.Summary.FailedTraces, report.Summary.Traces))
}

func outputCheckText(cmd *cobra.Command, report *harness.Report, verbose bool) error {
	if err := harness.WriteText(cmd.OutOrStdout(), report, verbose); err != nil {
		return err
	}
	return checkFailure(report)
}
