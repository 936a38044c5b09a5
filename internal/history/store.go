// Package history archives phase executions and research results in SQLite
// so earlier runs can be listed and inspected.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/speckit/internal/models"
)

// MemoryPath opens a private in-memory archive.
const MemoryPath = ":memory:"

// PhaseEntry is one archived phase execution
type PhaseEntry struct {
	ID            int64
	RunID         string
	Phase         models.PhaseID
	Status        models.ValidationStatus
	CriteriaMet   int
	CriteriaTotal int
	Report        models.PhaseExecutionReport
	CompletedAt   time.Time
}

// ResearchEntry is one archived research result
type ResearchEntry struct {
	ID            int64
	RunID         string
	Name          string
	Query         string
	Model         models.ModelSelector
	ResponseChars int
	SourceCount   int
	FollowUpCount int
	Result        models.ResearchResult
	ResearchedAt  time.Time
}

// RunSummary counts what a run archived
type RunSummary struct {
	RunID        string
	Phases       int
	Research     int
	LastRecorded time.Time
}

// Store is the SQLite archive
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the archive at dbPath and applies
// pending migrations.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == MemoryPath {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordPhase archives a phase execution report under runID.
func (s *Store) RecordPhase(ctx context.Context, runID string, report models.PhaseExecutionReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal phase report: %w", err)
	}

	v := report.Validation
	_, err = s.db.ExecContext(ctx, `INSERT INTO phase_executions
		(run_id, phase, status, criteria_met, criteria_total, report, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID,
		string(report.Phase),
		string(v.OverallStatus),
		len(v.CriteriaMet),
		len(v.CriteriaMet)+len(v.CriteriaFailed),
		string(data),
		report.CompletedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert phase execution: %w", err)
	}
	return nil
}

// RecordResearch archives a research result under runID.
func (s *Store) RecordResearch(ctx context.Context, runID, name string, result models.ResearchResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal research result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO research_results
		(run_id, name, query, model, response_chars, source_count, follow_up_count, result, researched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		name,
		result.Query,
		string(result.ModelUsed),
		len(result.Response),
		len(result.Sources),
		len(result.FollowUpInsights),
		string(data),
		result.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert research result: %w", err)
	}
	return nil
}

// ListPhases returns archived phase executions in insertion order. An empty
// runID lists every run.
func (s *Store) ListPhases(ctx context.Context, runID string) ([]PhaseEntry, error) {
	query := `SELECT id, run_id, phase, status, criteria_met, criteria_total, report, completed_at
		FROM phase_executions`
	var args []any
	if runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query phase executions: %w", err)
	}
	defer rows.Close()

	var entries []PhaseEntry
	for rows.Next() {
		var e PhaseEntry
		var phase, status, report string
		if err := rows.Scan(&e.ID, &e.RunID, &phase, &status, &e.CriteriaMet, &e.CriteriaTotal, &report, &e.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan phase execution: %w", err)
		}
		e.Phase = models.PhaseID(phase)
		e.Status = models.ValidationStatus(status)
		if err := json.Unmarshal([]byte(report), &e.Report); err != nil {
			return nil, fmt.Errorf("unmarshal phase report %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListResearch returns archived research results in insertion order. An
// empty runID lists every run.
func (s *Store) ListResearch(ctx context.Context, runID string) ([]ResearchEntry, error) {
	query := `SELECT id, run_id, name, query, model, response_chars, source_count, follow_up_count, result, researched_at
		FROM research_results`
	var args []any
	if runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query research results: %w", err)
	}
	defer rows.Close()

	var entries []ResearchEntry
	for rows.Next() {
		var e ResearchEntry
		var model, result string
		if err := rows.Scan(&e.ID, &e.RunID, &e.Name, &e.Query, &model, &e.ResponseChars,
			&e.SourceCount, &e.FollowUpCount, &result, &e.ResearchedAt); err != nil {
			return nil, fmt.Errorf("scan research result: %w", err)
		}
		e.Model = models.ModelSelector(model)
		if err := json.Unmarshal([]byte(result), &e.Result); err != nil {
			return nil, fmt.Errorf("unmarshal research result %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Runs summarizes every run, most recently recorded first.
func (s *Store) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, SUM(phases), SUM(research), MAX(recorded)
		FROM (
			SELECT run_id, 1 AS phases, 0 AS research, recorded_at AS recorded FROM phase_executions
			UNION ALL
			SELECT run_id, 0, 1, recorded_at FROM research_results
		)
		GROUP BY run_id
		ORDER BY MAX(recorded) DESC, run_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var recorded string
		if err := rows.Scan(&r.RunID, &r.Phases, &r.Research, &recorded); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.LastRecorded = parseSQLiteTime(recorded)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// parseSQLiteTime reads CURRENT_TIMESTAMP text; aggregated columns lose the
// declared type so the driver hands them back as strings.
func parseSQLiteTime(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
