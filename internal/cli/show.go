package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/bankcheck/internal/bank"
	"github.com/roach88/bankcheck/internal/itf"
	"github.com/roach88/bankcheck/internal/trace"
)

// ShowStep is one decoded trace step.
type ShowStep struct {
	Index  int             `json:"index"`
	Action string          `json:"action"`
	Picks  json.RawMessage `json:"picks"`
	State  *bank.State     `json:"state"`
	Error  string          `json:"error"`
}

// ShowResult is the decoded trace.
type ShowResult struct {
	Trace string     `json:"trace"`
	Steps []ShowStep `json:"steps"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <trace>",
		Short: "Print the decoded steps of one trace",
		Long: `Decode one trace and print each step's action, picks, expected state
and expected error without running the bank.

Examples:
  bankcheck show traces/out0.itf.json
  bankcheck show scenarios/buy_then_sell.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runShow(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	t, err := trace.FileSource{Path: path}.Load()
	if err != nil {
		code := ErrCodeDecode
		if errors.Is(err, os.ErrNotExist) {
			code = ErrCodeNotFound
		}
		return commandError(formatter, &LoadError{Code: code, Message: err.Error()})
	}

	result, err := decodeSteps(t)
	if err != nil {
		return commandError(formatter, &LoadError{Code: ErrCodeDecode, Message: err.Error()})
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return outputShowText(formatter, result)
}

func decodeSteps(t *trace.Trace) (ShowResult, error) {
	result := ShowResult{Trace: t.ID, Steps: make([]ShowStep, 0, len(t.Steps))}
	for _, step := range t.Steps {
		state, err := step.ExpectedState()
		if err != nil {
			return result, err
		}
		errMsg, err := step.ExpectedError()
		if err != nil {
			return result, err
		}
		picks := []byte("{}")
		if len(step.Picks) > 0 {
			if picks, err = itf.MarshalCanonical(step.Picks); err != nil {
				return result, trace.WithPath(step.Path()+"."+trace.KeyNondetPicks, err)
			}
		}
		result.Steps = append(result.Steps, ShowStep{
			Index:  step.Index,
			Action: step.Action,
			Picks:  picks,
			State:  state,
			Error:  errMsg,
		})
	}
	return result, nil
}

func outputShowText(formatter *OutputFormatter, result ShowResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Trace %s (%d steps)\n", result.Trace, len(result.Steps))
	for _, s := range result.Steps {
		fmt.Fprintf(&b, "\nstep %d %s\n", s.Index, s.Action)
		fmt.Fprintf(&b, "  picks: %s\n", s.Picks)
		fmt.Fprintf(&b, "  state: %s\n", s.State)
		fmt.Fprintf(&b, "  error: %s\n", errorOrNone(s.Error))
	}
	_, err := fmt.Fprint(formatter.Writer, b.String())
	return err
}

func errorOrNone(msg string) string {
	if msg == "" {
		return "(none)"
	}
	return msg
}
