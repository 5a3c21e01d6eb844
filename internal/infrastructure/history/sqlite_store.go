// Package history persists completed traces in a local SQLite database for
// the history command.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/sysq/internal/domain"
	"github.com/doeshing/sysq/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS traces (
	id          TEXT PRIMARY KEY,
	created_at  TIMESTAMP NOT NULL,
	query       TEXT NOT NULL,
	goal        TEXT NOT NULL,
	domain      TEXT NOT NULL,
	safety      TEXT NOT NULL,
	answer      TEXT NOT NULL,
	confidence  TEXT NOT NULL,
	success     INTEGER NOT NULL,
	elapsed_ms  INTEGER NOT NULL,
	trace_json  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_traces_created_at ON traces(created_at DESC);
`

type SQLiteStore struct {
	db *sql.DB
}

var _ ports.TraceStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and if needed creates) the database at path. The
// parent directory is created with user-only data kept out of group reach.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// Single CLI process; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(tr domain.Trace) error {
	payload, err := json.Marshal(tr)
	if err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO traces (id, created_at, query, goal, domain, safety, answer, confidence, success, elapsed_ms, trace_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tr.ID, tr.CreatedAt, tr.Query, string(tr.Goal), string(tr.Domain), tr.SafetyLevel,
		tr.Answer, string(tr.Confidence), tr.Success, tr.ElapsedMS, string(payload),
	)
	if err != nil {
		return fmt.Errorf("save trace: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(limit int) ([]domain.Trace, error) {
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}
	rows, err := s.db.Query(`SELECT trace_json FROM traces ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list traces: %w", err)
	}
	defer rows.Close()

	var traces []domain.Trace
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan trace: %w", err)
		}
		var tr domain.Trace
		if err := json.Unmarshal([]byte(payload), &tr); err != nil {
			return nil, fmt.Errorf("decode trace: %w", err)
		}
		traces = append(traces, tr)
	}
	return traces, rows.Err()
}

func (s *SQLiteStore) Prune(retainDays int) (int, error) {
	if retainDays <= 0 {
		retainDays = domain.DefaultHistoryRetainDays
	}
	cutoff := time.Now().AddDate(0, 0, -retainDays)
	res, err := s.db.Exec(`DELETE FROM traces WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune traces: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
