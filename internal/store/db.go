package store

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the SQLite database behind two primitives: ExecuteQuery for
// SELECTs and ExecuteCommand for everything else. Each call runs on its own
// pooled connection and releases it on every exit path. All SQL is
// parameterized; values are never interpolated into statements.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at dbPath and
// prepares the run-tracking tables.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initTrackingTables(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies database connectivity.
func (s *Store) Ping() error {
	return s.db.Ping()
}

func (s *Store) initTrackingTables() error {
	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		spec TEXT,
		status TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`
	stageTable := `
	CREATE TABLE IF NOT EXISTS run_stages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		stage TEXT,
		status TEXT,
		started_at DATETIME,
		ended_at DATETIME,
		records INTEGER
	);
	`
	logTable := `
	CREATE TABLE IF NOT EXISTS run_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		stage TEXT,
		level TEXT,
		message TEXT,
		created_at DATETIME
	);
	`

	for _, query := range []string{runTable, errorTable, stageTable, logTable} {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteQuery runs a parameterized SELECT and returns the result set as a
// slice of column-name to value maps.
func (s *Store) ExecuteQuery(query string, args ...interface{}) ([]map[string]interface{}, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Printf("❌ Query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

// ExecuteCommand runs a parameterized INSERT/UPDATE/DELETE/DDL statement
// and returns the affected row count.
func (s *Store) ExecuteCommand(command string, args ...interface{}) (int64, error) {
	result, err := s.db.Exec(command, args...)
	if err != nil {
		log.Printf("❌ Command failed: %v", err)
		return 0, err
	}
	return result.RowsAffected()
}
