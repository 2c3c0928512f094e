// backend/src/services/interfaces.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/username/kuyumcu/backend/src/model"
	"github.com/username/kuyumcu/backend/src/models"
)

// Define common service errors
var (
	ErrRunHistoryUnavailable = errors.New("report run history is not available")
)

// ReportStore is the part of the store the report service needs.
type ReportStore interface {
	Snapshot() (models.Snapshot, error)
	HasReport(day string) (bool, error)
	Reports() ([]models.DailyReport, error)
	Report(day string) (*models.DailyReport, bool, error)
	AppendReport(report *models.DailyReport) (bool, error)
	Version() (string, error)
}

// ReportService builds, persists and lists daily reports.
type ReportService interface {
	// Today returns the calendar day of now in the report location.
	Today(now time.Time) string

	// BuildReport aggregates an ad-hoc report for day without persisting it.
	BuildReport(ctx context.Context, day string) (*models.DailyReport, error)

	// ReportText returns the persisted text for day, or the text of an ad-hoc report.
	ReportText(ctx context.Context, day string) (string, error)

	// GenerateDailyReport persists the report for the day of now unless one exists.
	// created is false when the day was already covered.
	GenerateDailyReport(ctx context.Context, now time.Time, trigger string) (report *models.DailyReport, created bool, err error)

	ListReports(ctx context.Context) ([]models.DailyReport, error)
	RecentRuns(ctx context.Context, limit int) ([]model.ReportRun, error)
	InvalidateCache()
}
