package db

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/reelscribe/backend/internal/auth"
	"github.com/reelscribe/backend/internal/db/models"
)

type Database struct {
	db *sql.DB
}

func NewSQLite(path string) (*Database, error) {
	sqlDB, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	d := &Database{db: sqlDB}
	if err := d.migrate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Database) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS service_accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		client_id TEXT UNIQUE NOT NULL,
		secret TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		video_url TEXT NOT NULL,
		source TEXT,
		transcript_path TEXT,
		error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		completed_at DATETIME
	);
	`
	_, err := d.db.Exec(schema)
	return err
}

// EnsureServiceAccount creates the bootstrap service account if no accounts
// exist yet.
func (d *Database) EnsureServiceAccount(clientID, secret string) error {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM service_accounts").Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := auth.HashSecret(secret)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(
		"INSERT INTO service_accounts (client_id, secret) VALUES (?, ?)",
		clientID, hash,
	)
	return err
}

func (d *Database) GetServiceAccount(clientID string) (*models.ServiceAccount, error) {
	a := &models.ServiceAccount{}
	err := d.db.QueryRow(
		"SELECT id, client_id, secret, created_at FROM service_accounts WHERE client_id = ?",
		clientID,
	).Scan(&a.ID, &a.ClientID, &a.Secret, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// RecordRun stores the history row for a completed run.
func (d *Database) RecordRun(runID, videoURL, source, transcriptPath string) error {
	_, err := d.db.Exec(
		"INSERT INTO runs (run_id, video_url, source, transcript_path, completed_at) VALUES (?, ?, ?, ?, ?)",
		runID, videoURL, source, transcriptPath, time.Now(),
	)
	return err
}

// RecordRunFailure stores the history row for a failed run.
func (d *Database) RecordRunFailure(runID, videoURL, errMsg string) error {
	_, err := d.db.Exec(
		"INSERT INTO runs (run_id, video_url, error, completed_at) VALUES (?, ?, ?, ?)",
		runID, videoURL, errMsg, time.Now(),
	)
	return err
}

// ListRuns returns run history, newest first.
func (d *Database) ListRuns(limit int) ([]*models.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.Query(`
		SELECT run_id, video_url, source, transcript_path, error, created_at, completed_at
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run := &models.Run{}
		var source, transcriptPath, errMsg sql.NullString
		var completedAt sql.NullTime
		if err := rows.Scan(&run.RunID, &run.VideoURL, &source, &transcriptPath,
			&errMsg, &run.CreatedAt, &completedAt); err != nil {
			return nil, err
		}
		run.Source = source.String
		run.TranscriptPath = transcriptPath.String
		run.Error = errMsg.String
		if completedAt.Valid {
			run.CompletedAt = &completedAt.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns a single run by ID.
func (d *Database) GetRun(runID string) (*models.Run, error) {
	run := &models.Run{}
	var source, transcriptPath, errMsg sql.NullString
	var completedAt sql.NullTime
	err := d.db.QueryRow(`
		SELECT run_id, video_url, source, transcript_path, error, created_at, completed_at
		FROM runs WHERE run_id = ?`, runID,
	).Scan(&run.RunID, &run.VideoURL, &source, &transcriptPath, &errMsg, &run.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	run.Source = source.String
	run.TranscriptPath = transcriptPath.String
	run.Error = errMsg.String
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	return run, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}
