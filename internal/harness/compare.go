package harness

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/roach88/bankcheck/internal/bank"
)

// compareStep fills the verdicts of a step whose four values are set.
func compareStep(r *StepResult) {
	r.StateMatch = r.ExpectedState.Equal(r.ActualState)
	r.ErrorMatch = r.ExpectedError == r.ActualError
	if !r.StateMatch {
		r.StateDiff = StateDiff(r.ExpectedState, r.ActualState)
	}
}

// StateDiff renders the difference between two states as a
// (-expected +actual) diff. Nil and empty maps compare equal, matching
// bank.State.Equal.
func StateDiff(expected, actual *bank.State) string {
	return cmp.Diff(expected, actual, cmpopts.EquateEmpty())
}
