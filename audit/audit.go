// Package audit records one event per certificate issuance attempt for
// later analytics. Recording is strictly secondary to issuance: a failed
// write is logged by the caller and never blocks the signed record.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/yashbavkar26/agri-backend/interfaces"
)

const schema = `
CREATE TABLE IF NOT EXISTS advisory_audit (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id     TEXT NOT NULL DEFAULT '',
	lang        TEXT NOT NULL DEFAULT '',
	input_text  TEXT NOT NULL,
	answer_text TEXT NOT NULL,
	ts          INTEGER NOT NULL,
	outcome     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_advisory_audit_ts ON advisory_audit (ts);
`

// SQLiteRecorder persists audit events in a local SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the audit database at path and
// applies the schema.
func OpenSQLite(path string) (*SQLiteRecorder, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("audit database path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping audit db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply audit schema: %w", err)
	}

	return &SQLiteRecorder{db: db}, nil
}

// Record inserts one audit event.
func (r *SQLiteRecorder) Record(ctx context.Context, event interfaces.AuditEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO advisory_audit (user_id, lang, input_text, answer_text, ts, outcome)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.UserID, event.Lang, event.InputText, event.AnswerText,
		event.Timestamp.UTC().UnixMilli(), event.Outcome)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Count returns the number of recorded events, optionally filtered by
// outcome (empty string counts everything).
func (r *SQLiteRecorder) Count(ctx context.Context, outcome string) (int, error) {
	query := `SELECT COUNT(*) FROM advisory_audit`
	args := []any{}
	if outcome != "" {
		query += ` WHERE outcome = ?`
		args = append(args, outcome)
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return n, nil
}

// Close closes the database handle.
func (r *SQLiteRecorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// LogRecorder writes audit events to the structured log. Used when no audit
// database is configured.
type LogRecorder struct {
	Log *slog.Logger
}

// Record implements interfaces.AuditRecorder.
func (r *LogRecorder) Record(ctx context.Context, event interfaces.AuditEvent) error {
	r.Log.Info("Advisory issuance audit",
		"userID", event.UserID,
		"lang", event.Lang,
		"inputText", event.InputText,
		"answerText", event.AnswerText,
		"ts", event.Timestamp,
		"outcome", event.Outcome)
	return nil
}
