package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/bankcheck/internal/config"
	"github.com/roach88/bankcheck/internal/trace"
)

// LoadError is a command setup failure with a stable code.
type LoadError struct {
	Code    string
	Message string
	Details string // CUE positions or other context, shown with --verbose
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric   = "E001" // Generic/unknown error
	ErrCodeNotFound  = "E002" // Path or run not found
	ErrCodeConfig    = "E003" // Config failed to load or validate
	ErrCodeNoTraces  = "E004" // Nothing to check
	ErrCodeStore     = "E005" // Results database error
	ErrCodeDecode    = "E006" // Trace could not be decoded
	ErrCodeCancelled = "E007" // Interrupted
)

// loadConfig resolves the --config file, or the defaults without one.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err == nil {
		return cfg, nil
	}
	le := &LoadError{Code: ErrCodeConfig, Message: err.Error()}
	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		le.Details = cfgErr.Detail
		if errors.Is(cfgErr.Err, os.ErrNotExist) {
			le.Code = ErrCodeNotFound
		}
	}
	return nil, le
}

// loadSources expands explicit paths, or falls back to the numbered
// sequence described by cfg.
func loadSources(cfg *config.Config, paths []string) ([]trace.Source, error) {
	var (
		sources []trace.Source
		err     error
	)
	if len(paths) > 0 {
		sources, err = trace.Expand(paths)
	} else {
		sources, err = trace.Numbered(cfg.Traces.Dir, cfg.Traces.Prefix, cfg.Traces.Suffix, cfg.Traces.Count)
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: err.Error()}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}
	if len(sources) == 0 {
		return nil, &LoadError{Code: ErrCodeNoTraces, Message: "no traces found"}
	}
	return sources, nil
}

// newLogger builds the text logger used by commands. --verbose forces
// debug regardless of the configured level.
func newLogger(w io.Writer, level slog.Level, verbose bool) *slog.Logger {
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// commandError reports err and returns the exit error for a command
// failure. JSON output gets the error envelope on stdout; text output
// leaves printing to the caller of Execute.
func commandError(formatter *OutputFormatter, err error) error {
	var le *LoadError
	if !errors.As(err, &le) {
		le = &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}
	if formatter.Format == "json" {
		var details interface{}
		if le.Details != "" {
			details = le.Details
		}
		_ = formatter.Error(le.Code, le.Message, details)
	} else if le.Details != "" {
		formatter.VerboseLog("%s", le.Details)
	}
	return NewExitError(ExitCommandError, le.Error())
}
