package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-data-pipeline/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpenAndPing(t *testing.T) {
	st := openTestStore(t)
	assert.NoError(t, st.Ping())
}

func TestExecuteCommandAndQuery(t *testing.T) {
	st := openTestStore(t)

	_, err := st.ExecuteCommand(`CREATE TABLE things (name TEXT, score REAL)`)
	require.NoError(t, err)

	affected, err := st.ExecuteCommand(`INSERT INTO things (name, score) VALUES (?, ?)`, "widget", 9.5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	rows, err := st.ExecuteQuery(`SELECT name, score FROM things WHERE name = ?`, "widget")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "widget", rows[0]["name"])
	assert.Equal(t, 9.5, rows[0]["score"])
}

func TestExecuteQueryEmptyResult(t *testing.T) {
	st := openTestStore(t)

	rows, err := st.ExecuteQuery(`SELECT id FROM runs WHERE id = ?`, "nope")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExecuteCommandError(t *testing.T) {
	st := openTestStore(t)

	_, err := st.ExecuteCommand(`INSERT INTO does_not_exist (x) VALUES (1)`)
	assert.Error(t, err)
}

func TestSaveAndGetRun(t *testing.T) {
	st := openTestStore(t)

	spec := model.RunSpec{
		Source:              model.Source{Type: "sample", RecordCount: 50},
		ConfirmRegionDelete: true,
	}
	require.NoError(t, st.SaveRun("run-1", spec))

	run, err := st.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run["id"])
	assert.Equal(t, "pending", run["status"])

	got, ok := run["spec"].(model.RunSpec)
	require.True(t, ok)
	assert.Equal(t, "sample", got.Source.Type)
	assert.Equal(t, 50, got.Source.RecordCount)
	assert.True(t, got.ConfirmRegionDelete)
}

func TestGetRunNotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.GetRun("missing")
	assert.Error(t, err)
}

func TestUpdateRunStatus(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.SaveRun("run-1", model.RunSpec{}))
	require.NoError(t, st.UpdateRunStatus("run-1", "completed"))

	run, err := st.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", run["status"])
}

func TestSaveAndGetRunErrors(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.SaveRun("run-1", model.RunSpec{}))
	require.NoError(t, st.SaveRunError("run-1", errors.New("stage blew up")))
	require.NoError(t, st.SaveRunError("run-1", nil)) // nil errors are ignored

	runErrors, err := st.GetRunErrors("run-1")
	require.NoError(t, err)
	require.Len(t, runErrors, 1)
	assert.Equal(t, "stage blew up", runErrors[0]["error_message"])
}

func TestStageProgress(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.SaveRun("run-1", model.RunSpec{}))

	started := time.Now().UTC()
	ended := started.Add(2 * time.Second)
	require.NoError(t, st.SaveStageProgress("run-1", "clean", "completed", started, &ended, 95))
	require.NoError(t, st.SaveStageProgress("run-1", "load", "failed", started, nil, 0))

	progress, err := st.GetRunProgress("run-1")
	require.NoError(t, err)
	require.Len(t, progress, 2)
	assert.Equal(t, "clean", progress[0]["stage"])
	assert.Equal(t, "completed", progress[0]["status"])
	assert.Equal(t, "load", progress[1]["stage"])
	assert.Equal(t, "failed", progress[1]["status"])
}

func TestRunLogs(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.SaveRun("run-1", model.RunSpec{}))
	require.NoError(t, st.SaveRunLog("run-1", "extract", "info", "Extracted 100 raw records"))
	require.NoError(t, st.SaveRunLog("run-1", "clean", "info", "Cleaned data: 95 valid, 5 invalid"))

	logs, err := st.GetRunLogs("run-1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "extract", logs[0]["stage"])
	assert.Equal(t, "clean", logs[1]["stage"])
}

func TestListRuns(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.SaveRun("run-1", model.RunSpec{}))
	require.NoError(t, st.SaveRun("run-2", model.RunSpec{}))

	runs, err := st.ListRuns()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
