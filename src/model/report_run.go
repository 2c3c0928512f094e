package model

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/username/kuyumcu/backend/src/logger"
)

// Outcomes of a report generation attempt.
const (
	RunGenerated = "generated"
	RunSkipped   = "skipped"
	RunFailed    = "failed"
)

// Triggers of a report generation attempt.
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// ReportRun is a row in the report_runs table: one attempt to generate a daily report.
type ReportRun struct {
	ID           int64
	ReportDate   string // YYYY-MM-DD
	Trigger      string
	Outcome      string
	ReportID     sql.NullString
	ErrorMessage sql.NullString
	FiredAt      time.Time
	DurationMS   int64
}

// firedAtLayout keeps fired_at fixed-width so ORDER BY on the TEXT column is chronological.
const firedAtLayout = "2006-01-02T15:04:05.000000000Z"

// ReportRunView is the JSON shape of a ReportRun.
type ReportRunView struct {
	ID         int64     `json:"id"`
	ReportDate string    `json:"reportDate"`
	Trigger    string    `json:"trigger"`
	Outcome    string    `json:"outcome"`
	ReportID   string    `json:"reportId,omitempty"`
	Error      string    `json:"error,omitempty"`
	FiredAt    time.Time `json:"firedAt"`
	DurationMS int64     `json:"durationMs"`
}

func (r ReportRun) View() ReportRunView {
	return ReportRunView{
		ID:         r.ID,
		ReportDate: r.ReportDate,
		Trigger:    r.Trigger,
		Outcome:    r.Outcome,
		ReportID:   r.ReportID.String,
		Error:      r.ErrorMessage.String,
		FiredAt:    r.FiredAt,
		DurationMS: r.DurationMS,
	}
}

// InsertReportRun records a generation attempt and sets run.ID.
func InsertReportRun(db *sql.DB, run *ReportRun) error {
	query := `INSERT INTO report_runs (report_date, trigger_source, outcome, report_id, error_message, fired_at, duration_ms)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := db.Exec(query,
		run.ReportDate,
		run.Trigger,
		run.Outcome,
		run.ReportID,
		run.ErrorMessage,
		run.FiredAt.UTC().Format(firedAtLayout),
		run.DurationMS,
	)
	if err != nil {
		logger.L.Error("Failed to insert report run", "reportDate", run.ReportDate, "outcome", run.Outcome, "error", err)
		return fmt.Errorf("failed to insert report run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read report run id: %w", err)
	}
	run.ID = id
	return nil
}

// ListReportRuns returns the most recent runs first.
func ListReportRuns(db *sql.DB, limit int) ([]ReportRun, error) {
	query := `SELECT id, report_date, trigger_source, outcome, report_id, error_message, fired_at, duration_ms
			  FROM report_runs ORDER BY fired_at DESC, id DESC LIMIT ?`
	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query report runs: %w", err)
	}
	defer rows.Close()

	runs := []ReportRun{}
	for rows.Next() {
		var run ReportRun
		var firedAt string
		if err := rows.Scan(
			&run.ID,
			&run.ReportDate,
			&run.Trigger,
			&run.Outcome,
			&run.ReportID,
			&run.ErrorMessage,
			&firedAt,
			&run.DurationMS,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report run: %w", err)
		}
		t, err := time.Parse(firedAtLayout, firedAt)
		if err != nil {
			logger.L.Warn("Unparseable fired_at in report_runs", "id", run.ID, "value", firedAt)
		}
		run.FiredAt = t
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report runs: %w", err)
	}
	return runs, nil
}
