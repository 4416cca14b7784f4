package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"focusdesk/internal/core/session"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	task_name TEXT NOT NULL,
	start_time INTEGER NOT NULL,
	end_time INTEGER NOT NULL,
	duration_minutes INTEGER NOT NULL,
	reminder_count INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	recorded_at INTEGER NOT NULL,
	UNIQUE(task_name, start_time)
);
CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start_time DESC);
`

// HistoryRecord is one stored session.
type HistoryRecord struct {
	ID              string
	Session         session.FocusSession
	DurationMinutes int
	RecordedAt      time.Time
}

// History keeps finished sessions in a SQLite database.
type History struct {
	db  *sql.DB
	now func() time.Time
}

// OpenHistory opens or creates the history database at path.
func OpenHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &History{db: db, now: time.Now}, nil
}

// Close releases the database handle.
func (history *History) Close() error {
	if err := history.db.Close(); err != nil {
		return fmt.Errorf("close history db: %w", err)
	}
	return nil
}

// Persist upserts every started and stopped session, keyed by task name and start time.
func (history *History) Persist(ctx context.Context, sessions []session.FocusSession) error {
	if len(sessions) == 0 {
		return nil
	}
	tx, err := history.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history tx: %w", err)
	}
	defer tx.Rollback()

	recordedAt := history.now().UnixNano()
	for _, current := range sessions {
		if !current.IsStarted() || current.EndTime.IsZero() {
			continue
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO sessions
			(id, task_name, start_time, end_time, duration_minutes, reminder_count, status, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(task_name, start_time) DO UPDATE SET
				end_time = excluded.end_time,
				duration_minutes = excluded.duration_minutes,
				reminder_count = excluded.reminder_count,
				status = excluded.status,
				recorded_at = excluded.recorded_at`,
			uuid.NewString(),
			current.TaskName,
			current.StartTime.UnixNano(),
			current.EndTime.UnixNano(),
			current.DurationMinutes(),
			current.ReminderCount,
			string(current.Status),
			recordedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert session %q: %w", current.TaskName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history tx: %w", err)
	}
	return nil
}

// Recent returns up to limit sessions, newest first.
func (history *History) Recent(ctx context.Context, limit int) ([]HistoryRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := history.db.QueryContext(ctx, `SELECT id, task_name, start_time, end_time,
		duration_minutes, reminder_count, status, recorded_at
		FROM sessions ORDER BY start_time DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []HistoryRecord
	for rows.Next() {
		var (
			record               HistoryRecord
			start, end, recorded int64
			status               string
		)
		if err := rows.Scan(&record.ID, &record.Session.TaskName, &start, &end,
			&record.DurationMinutes, &record.Session.ReminderCount, &status, &recorded); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		record.Session.StartTime = time.Unix(0, start)
		record.Session.EndTime = time.Unix(0, end)
		record.Session.Status = session.Status(status)
		record.RecordedAt = time.Unix(0, recorded)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return records, nil
}
