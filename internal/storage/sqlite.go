// Package storage persists trial outcomes to SQLite so a session can be
// analyzed after the fact. Uses the pure-Go modernc.org/sqlite driver to
// avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for trial results.
type Store struct {
	db *sql.DB
}

// TrialResult is one completed (or abandoned) trial.
type TrialResult struct {
	ID         int64
	Region     string
	TrialIndex int
	Seed       uint64
	TargetDoor uint32
	Attempts   uint32
	Alignment  *float32 // target-door alignment at the last check, nil if never checked
	Won        bool
	WinSecs    *float32 // elapsed seconds at the win, nil on a loss
	CreatedAt  time.Time
}

// Open creates or opens a SQLite database at the given path. It expands
// a leading ~, creates parent directories, and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS trial_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			region TEXT NOT NULL,
			trial_index INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			target_door INTEGER NOT NULL,
			attempts INTEGER NOT NULL DEFAULT 0,
			alignment REAL,
			won INTEGER NOT NULL DEFAULT 0,
			win_secs REAL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_trial_results_region ON trial_results(region);
		CREATE INDEX IF NOT EXISTS idx_trial_results_recent ON trial_results(region, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records a trial outcome and returns the inserted ID.
func (s *Store) SaveResult(r TrialResult) (int64, error) {
	var alignment, winSecs any
	if r.Alignment != nil {
		alignment = float64(*r.Alignment)
	}
	if r.WinSecs != nil {
		winSecs = float64(*r.WinSecs)
	}

	res, err := s.db.Exec(
		`INSERT INTO trial_results
		 (region, trial_index, seed, target_door, attempts, alignment, won, win_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Region, r.TrialIndex, int64(r.Seed), r.TargetDoor, r.Attempts,
		alignment, r.Won, winSecs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save trial result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// Results retrieves the most recent trial results for a region, newest
// first.
func (s *Store) Results(region string, limit int) ([]TrialResult, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, region, trial_index, seed, target_door, attempts, alignment, won, win_secs, created_at
		 FROM trial_results
		 WHERE region = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		region, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query trial results: %w", err)
	}
	defer rows.Close()

	var results []TrialResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// SessionStats contains aggregated outcomes for a region.
type SessionStats struct {
	Region      string
	Trials      int
	Wins        int
	AvgAttempts float64
}

// Stats aggregates the recorded trials for a region.
func (s *Store) Stats(region string) (*SessionStats, error) {
	stats := &SessionStats{Region: region}
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(won), 0), COALESCE(AVG(attempts), 0)
		 FROM trial_results WHERE region = ?`,
		region,
	).Scan(&stats.Trials, &stats.Wins, &stats.AvgAttempts)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get session stats: %w", err)
	}
	return stats, nil
}

// ClearResults deletes all recorded trials for a region.
func (s *Store) ClearResults(region string) error {
	if _, err := s.db.Exec("DELETE FROM trial_results WHERE region = ?", region); err != nil {
		return fmt.Errorf("storage: cannot clear trial results: %w", err)
	}
	return nil
}

func scanResult(rows *sql.Rows) (TrialResult, error) {
	var r TrialResult
	var seed int64
	var alignment, winSecs sql.NullFloat64
	var createdAt any

	if err := rows.Scan(&r.ID, &r.Region, &r.TrialIndex, &seed, &r.TargetDoor,
		&r.Attempts, &alignment, &r.Won, &winSecs, &createdAt); err != nil {
		return r, fmt.Errorf("storage: cannot scan row: %w", err)
	}

	r.Seed = uint64(seed)
	if alignment.Valid {
		v := float32(alignment.Float64)
		r.Alignment = &v
	}
	if winSecs.Valid {
		v := float32(winSecs.Float64)
		r.WinSecs = &v
	}

	// Parse the datetime - handle both time.Time and string
	switch v := createdAt.(type) {
	case time.Time:
		r.CreatedAt = v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			r.CreatedAt = parsed
		}
	}

	return r, nil
}
