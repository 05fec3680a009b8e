package store

import (
	"encoding/json"
	"fmt"
	"time"

	"sales-data-pipeline/internal/model"
)

// SaveRun stores a new pipeline run with status "pending".
func (s *Store) SaveRun(runID string, spec model.RunSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.ExecuteCommand(`INSERT INTO runs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, string(specJSON), "pending", now, now)
	return err
}

// UpdateRunStatus updates a run's status.
func (s *Store) UpdateRunStatus(runID, status string) error {
	now := time.Now().UTC()
	_, err := s.ExecuteCommand(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		status, now, runID)
	return err
}

// SaveRunError records an error for a run.
func (s *Store) SaveRunError(runID string, runErr error) error {
	if runErr == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := s.ExecuteCommand(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, runErr.Error(), now)
	return err
}

// ListRuns returns all runs, newest first, with basic info.
func (s *Store) ListRuns() ([]map[string]interface{}, error) {
	return s.ExecuteQuery(`SELECT id, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
}

// GetRun fetches the full run spec and status.
func (s *Store) GetRun(runID string) (map[string]interface{}, error) {
	rows, err := s.ExecuteQuery(`SELECT spec, status, created_at, updated_at FROM runs WHERE id = ?`, runID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("run %s not found", runID)
	}

	var spec model.RunSpec
	if specJSON, ok := rows[0]["spec"].(string); ok {
		if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
			return nil, err
		}
	}

	return map[string]interface{}{
		"id":        runID,
		"spec":      spec,
		"status":    rows[0]["status"],
		"createdAt": rows[0]["created_at"],
		"updatedAt": rows[0]["updated_at"],
	}, nil
}

// GetRunErrors returns all recorded errors for a run.
func (s *Store) GetRunErrors(runID string) ([]map[string]interface{}, error) {
	return s.ExecuteQuery(`SELECT error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
}

// SaveStageProgress records the state of one pipeline stage within a run.
func (s *Store) SaveStageProgress(runID, stage, status string, startedAt time.Time, endedAt *time.Time, records int) error {
	var ended interface{}
	if endedAt != nil {
		ended = *endedAt
	}
	_, err := s.ExecuteCommand(`INSERT INTO run_stages (run_id, stage, status, started_at, ended_at, records) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage, status, startedAt, ended, records)
	return err
}

// GetRunProgress returns the recorded stage history for a run.
func (s *Store) GetRunProgress(runID string) ([]map[string]interface{}, error) {
	return s.ExecuteQuery(`SELECT stage, status, started_at, ended_at, records FROM run_stages WHERE run_id = ? ORDER BY id`, runID)
}

// SaveRunLog appends a log line for a run stage.
func (s *Store) SaveRunLog(runID, stage, level, message string) error {
	now := time.Now().UTC()
	_, err := s.ExecuteCommand(`INSERT INTO run_logs (run_id, stage, level, message, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, stage, level, message, now)
	return err
}

// GetRunLogs returns the recorded log lines for a run.
func (s *Store) GetRunLogs(runID string) ([]map[string]interface{}, error) {
	return s.ExecuteQuery(`SELECT stage, level, message, created_at FROM run_logs WHERE run_id = ? ORDER BY id`, runID)
}
