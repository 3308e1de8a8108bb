package harness

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/roach88/bankcheck/internal/bank"
)

const noError = "(none)"

// WriteText writes a human-readable report. Failing steps are always
// written with their four compared values; passing steps only when
// verbose is set. A summary table closes the report.
func WriteText(w io.Writer, r *Report, verbose bool) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s\n", r.RunID)
	for i := range r.Traces {
		writeTrace(&b, &r.Traces[i], verbose)
	}
	b.WriteString("\n")
	b.WriteString(SummaryTable(r.Summary))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTrace(b *strings.Builder, t *TraceResult, verbose bool) {
	verdict := "PASS"
	if !t.Pass {
		verdict = "FAIL"
	}
	fmt.Fprintf(b, "\nTrace %s: %s (%d steps)\n", t.ID, verdict, len(t.Steps))

	for _, s := range t.Steps {
		if s.Pass() && !verbose {
			continue
		}
		writeStep(b, s)
	}
	if t.DecodeError != "" {
		fmt.Fprintf(b, "  decode error: %s\n", t.DecodeError)
	}
}

func writeStep(b *strings.Builder, s StepResult) {
	var problems []string
	if !s.StateMatch {
		problems = append(problems, "state mismatch")
	}
	if !s.ErrorMatch {
		problems = append(problems, "error mismatch")
	}
	status := "ok"
	if len(problems) > 0 {
		status = strings.Join(problems, ", ")
	}

	fmt.Fprintf(b, "  step %d %s: %s\n", s.Index, s.Action, status)
	fmt.Fprintf(b, "    expected state: %s\n", stateText(s.ExpectedState))
	fmt.Fprintf(b, "    actual state:   %s\n", stateText(s.ActualState))
	fmt.Fprintf(b, "    expected error: %s\n", errorText(s.ExpectedError))
	fmt.Fprintf(b, "    actual error:   %s\n", errorText(s.ActualError))
	if s.StateDiff != "" {
		b.WriteString("    diff (-expected +actual):\n")
		for _, line := range strings.Split(strings.TrimRight(s.StateDiff, "\n"), "\n") {
			fmt.Fprintf(b, "      %s\n", line)
		}
	}
}

func stateText(s *bank.State) string {
	if s == nil {
		return "-"
	}
	return s.String()
}

func errorText(msg string) string {
	if msg == "" {
		return noError
	}
	return msg
}

// SummaryTable renders the run counters as a table.
func SummaryTable(s Summary) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Traces", "Passed", "Failed", "Undecodable", "Steps", "State mismatches", "Error mismatches"})
	t.AppendRow(table.Row{s.Traces, s.PassedTraces, s.FailedTraces, s.DecodeFailures, s.Steps, s.StateMismatches, s.ErrorMismatches})
	return t.Render()
}
