// Package state persists comparison run history in a local sqlite
// database.
package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Manager handles run history persistence
type Manager struct {
	db *sql.DB
}

// RunRecord represents a single completed comparison run
type RunRecord struct {
	ID          int64
	RunID       string
	SourceA     string
	SourceB     string
	StartTime   time.Time
	EndTime     time.Time
	Status      string // "success" or "failed"
	TotalA      int
	TotalB      int
	OnlyInA     int
	OnlyInB     int
	Both        int
	FullMatches int
	ReportPath  string
	ExportPath  string
	Error       string
}

// NewManager creates a new state manager backed by dataDir/sitediff.db
func NewManager(dataDir string) (*Manager, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sitediff.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Limit connection pool to prevent "database is locked" errors
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode and busy timeout: %w", err)
	}

	manager := &Manager{db: db}

	if err := manager.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return manager, nil
}

func (m *Manager) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		source_a TEXT NOT NULL,
		source_b TEXT NOT NULL,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		total_a INTEGER DEFAULT 0,
		total_b INTEGER DEFAULT 0,
		only_in_a INTEGER DEFAULT 0,
		only_in_b INTEGER DEFAULT 0,
		both INTEGER DEFAULT 0,
		full_matches INTEGER DEFAULT 0,
		report_path TEXT,
		export_path TEXT,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_sources_time ON runs(source_a, source_b, start_time DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`

	_, err := m.db.Exec(schema)
	return err
}

// SaveRun records a completed comparison run
func (m *Manager) SaveRun(record RunRecord) error {
	if record.Status != "success" && record.Status != "failed" {
		return fmt.Errorf("invalid status: %s (must be 'success' or 'failed')", record.Status)
	}

	query := `
		INSERT INTO runs (run_id, source_a, source_b, start_time, end_time, status,
			total_a, total_b, only_in_a, only_in_b, both, full_matches,
			report_path, export_path, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := m.db.Exec(query,
		record.RunID,
		record.SourceA,
		record.SourceB,
		record.StartTime,
		record.EndTime,
		record.Status,
		record.TotalA,
		record.TotalB,
		record.OnlyInA,
		record.OnlyInB,
		record.Both,
		record.FullMatches,
		record.ReportPath,
		record.ExportPath,
		record.Error,
	)

	if err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}

	return nil
}

// GetHistory retrieves run history for a source pair
func (m *Manager) GetHistory(sourceA, sourceB string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query := selectColumns + `
		WHERE source_a = ? AND source_b = ?
		ORDER BY start_time DESC
		LIMIT ?
	`

	rows, err := m.db.Query(query, sourceA, sourceB, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// GetAllHistory retrieves recent runs across all source pairs
func (m *Manager) GetAllHistory(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query := selectColumns + `
		ORDER BY start_time DESC
		LIMIT ?
	`

	rows, err := m.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query all history: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// GetLastSuccess retrieves the most recent successful run for a source
// pair, or nil when none exists
func (m *Manager) GetLastSuccess(sourceA, sourceB string) (*RunRecord, error) {
	query := selectColumns + `
		WHERE source_a = ? AND source_b = ? AND status = 'success'
		ORDER BY start_time DESC
		LIMIT 1
	`

	row := m.db.QueryRow(query, sourceA, sourceB)
	record, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last success: %w", err)
	}

	return record, nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

const selectColumns = `
	SELECT id, run_id, source_a, source_b, start_time, end_time, status,
		total_a, total_b, only_in_a, only_in_b, both, full_matches,
		report_path, export_path, error
	FROM runs
`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*RunRecord, error) {
	var record RunRecord
	err := s.Scan(
		&record.ID,
		&record.RunID,
		&record.SourceA,
		&record.SourceB,
		&record.StartTime,
		&record.EndTime,
		&record.Status,
		&record.TotalA,
		&record.TotalB,
		&record.OnlyInA,
		&record.OnlyInB,
		&record.Both,
		&record.FullMatches,
		&record.ReportPath,
		&record.ExportPath,
		&record.Error,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func scanRuns(rows *sql.Rows) ([]RunRecord, error) {
	var records []RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}
