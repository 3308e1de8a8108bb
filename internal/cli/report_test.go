package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bankcheck/internal/store"
)

func executeReport(t *testing.T, rootOpts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewReportCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// recordedDB runs check once against a passing and a failing trace and
// returns the database path.
func recordedDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTrace(t, dir, "out0.itf.json", depositTrace())
	writeTrace(t, dir, "out1.itf.json", overdraftTrace())
	db := filepath.Join(t.TempDir(), "results.db")

	_, err := executeCheck(t, &RootOptions{Format: "text"}, "--dir", dir, "--count", "2", "--db", db)
	require.Error(t, err)
	require.Equal(t, ExitFailure, GetExitCode(err))
	return db
}

func TestReportCommand_ListRuns(t *testing.T) {
	db := recordedDB(t)

	out, err := executeReport(t, &RootOptions{Format: "text"}, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "UNDECODABLE")
}

func TestReportCommand_ListRunsJSON(t *testing.T) {
	db := recordedDB(t)

	out, err := executeReport(t, &RootOptions{Format: "json"}, "--db", db)
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		Data   []store.RunRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	run := resp.Data[0]
	assert.Equal(t, "run-1", run.ID)
	assert.True(t, run.Finished)
	assert.Equal(t, 2, run.Traces)
	assert.Equal(t, 1, run.FailedTraces)
}

func TestReportCommand_EmptyDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")
	s, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	out, err := executeReport(t, &RootOptions{Format: "text"}, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestReportCommand_LatestFailures(t *testing.T) {
	db := recordedDB(t)

	out, err := executeReport(t, &RootOptions{Format: "text"}, "--db", db, "--run", "latest")
	require.NoError(t, err)

	assert.Contains(t, out, "Run run-1")
	assert.Contains(t, out, "out1.itf.json: FAIL")
	assert.NotContains(t, out, "out0.itf.json")
	assert.Contains(t, out, "step 1 withdraw_action: error mismatch")
	assert.Contains(t, out, "actual error:   Balance is too low")
}

func TestReportCommand_RunFailuresJSON(t *testing.T) {
	db := recordedDB(t)

	out, err := executeReport(t, &RootOptions{Format: "json"}, "--db", db, "--run", "run-1")
	require.NoError(t, err)

	var resp struct {
		Data RunFailures `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "run-1", resp.Data.Run.ID)
	require.Len(t, resp.Data.Traces, 1)
	tr := resp.Data.Traces[0]
	assert.Equal(t, 2, tr.StepCount)
	require.Len(t, tr.Steps, 1)
	assert.Equal(t, "Balance is too low", tr.Steps[0].ActualError)
	assert.False(t, tr.Steps[0].ErrorMatch)
}

func TestReportCommand_UnknownRun(t *testing.T) {
	db := recordedDB(t)

	_, err := executeReport(t, &RootOptions{Format: "text"}, "--db", db, "--run", "no-such-run")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
}

func TestReportCommand_MissingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	_, err := executeReport(t, &RootOptions{Format: "text"}, "--db", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}

func TestReportCommand_RequiresDB(t *testing.T) {
	_, err := executeReport(t, &RootOptions{Format: "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}
