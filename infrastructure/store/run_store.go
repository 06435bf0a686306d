package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shareaudit/database"
	"shareaudit/domain/crawl"
	"shareaudit/domain/report"
	"shareaudit/logging"
)

// ErrRunNotFound means no run with the requested ID has been persisted.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is one row of the run history listing.
type RunSummary struct {
	Run     crawl.Run      `json:"run"`
	Summary report.Summary `json:"summary"`
	Errors  int            `json:"errors"`
}

// RunStore persists finished crawl runs: lifecycle metadata, summary
// counters, and the full report document.
type RunStore struct {
	db     *database.Database
	logger *logging.Logger
}

// NewRunStore creates a run store.
func NewRunStore(db *database.Database) *RunStore {
	return &RunStore{
		db:     db,
		logger: logging.Default().WithComponent("run_store"),
	}
}

// SaveRun persists a completed run and its report.
func (s *RunStore) SaveRun(ctx context.Context, run crawl.Run, rep *report.Report) error {
	doc, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	var completedAt any
	if run.CompletedAt != nil {
		completedAt = run.CompletedAt.UTC().Format(time.RFC3339Nano)
	}

	_, err = s.db.DB().ExecContext(ctx, `
		INSERT INTO runs (
			run_id, status, started_at, completed_at, duration_ms, error,
			sites, libraries, links, permissions, error_count, report_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		string(run.Status),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		completedAt,
		run.DurationMs,
		run.Error,
		rep.Summary.Sites,
		rep.Summary.Libraries,
		rep.Summary.Links,
		rep.Summary.Permissions,
		len(rep.Errors),
		string(doc),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	s.logger.Store("saved run", "run_id", run.ID, "status", string(run.Status))
	return nil
}

// ListRuns returns run history, most recent first.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.DB().QueryContext(ctx, `
		SELECT run_id, status, started_at, completed_at, duration_ms, error,
		       sites, libraries, links, permissions, error_count
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			rs          RunSummary
			startedAt   string
			completedAt sql.NullString
		)
		if err := rows.Scan(
			&rs.Run.ID, &rs.Run.Status, &startedAt, &completedAt, &rs.Run.DurationMs, &rs.Run.Error,
			&rs.Summary.Sites, &rs.Summary.Libraries, &rs.Summary.Links, &rs.Summary.Permissions,
			&rs.Errors,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		if rs.Run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at for run %s: %w", rs.Run.ID, err)
		}
		if completedAt.Valid {
			t, err := time.Parse(time.RFC3339Nano, completedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parse completed_at for run %s: %w", rs.Run.ID, err)
			}
			rs.Run.CompletedAt = &t
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

// GetReport loads the full report document of one run.
func (s *RunStore) GetReport(ctx context.Context, runID string) (*report.Report, error) {
	var doc string
	err := s.db.DB().QueryRowContext(ctx,
		`SELECT report_json FROM runs WHERE run_id = ?`, runID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("load report for run %s: %w", runID, err)
	}

	var rep report.Report
	if err := json.Unmarshal([]byte(doc), &rep); err != nil {
		return nil, fmt.Errorf("decode report for run %s: %w", runID, err)
	}
	return &rep, nil
}
