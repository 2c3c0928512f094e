// backend/src/services/report_service.go
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/kuyumcu/backend/src/logger"
	"github.com/username/kuyumcu/backend/src/metrics"
	"github.com/username/kuyumcu/backend/src/model"
	"github.com/username/kuyumcu/backend/src/models"
	"github.com/username/kuyumcu/backend/src/processors"
)

const (
	ckReportPreview        = "report_preview_day_%s_v_%s"
	DefaultCacheExpiration = 5 * time.Minute
	CacheCleanupInterval   = 10 * time.Minute
)

type reportServiceImpl struct {
	store       ReportStore
	processor   *processors.ReportProcessor
	runsDB      *sql.DB
	reportCache *cache.Cache
	now         func() time.Time
}

// NewReportService wires the report service. runsDB may be nil, in which case run history is
// only counted in metrics.
func NewReportService(store ReportStore, processor *processors.ReportProcessor, runsDB *sql.DB, reportCache *cache.Cache) ReportService {
	return &reportServiceImpl{
		store:       store,
		processor:   processor,
		runsDB:      runsDB,
		reportCache: reportCache,
		now:         time.Now,
	}
}

func (s *reportServiceImpl) Today(now time.Time) string {
	return s.processor.Day(now)
}

func (s *reportServiceImpl) BuildReport(ctx context.Context, day string) (*models.DailyReport, error) {
	version, err := s.store.Version()
	if err != nil {
		return nil, err
	}
	cacheKey := fmt.Sprintf(ckReportPreview, day, version)
	if cached, found := s.reportCache.Get(cacheKey); found {
		logger.FromContext(ctx).Debug("Report preview served from cache", "date", day)
		return cached.(*models.DailyReport), nil
	}

	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	report, err := s.processor.Build(snap, day, s.now())
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(cacheKey, report, cache.DefaultExpiration)
	return report, nil
}

func (s *reportServiceImpl) ReportText(ctx context.Context, day string) (string, error) {
	saved, found, err := s.store.Report(day)
	if err != nil {
		return "", err
	}
	if found && saved.ReportText != "" {
		return saved.ReportText, nil
	}
	report, err := s.BuildReport(ctx, day)
	if err != nil {
		return "", err
	}
	return report.ReportText, nil
}

func (s *reportServiceImpl) GenerateDailyReport(ctx context.Context, now time.Time, trigger string) (*models.DailyReport, bool, error) {
	log := logger.FromContext(ctx)
	start := time.Now()
	day := s.processor.Day(now)

	exists, err := s.store.HasReport(day)
	if err != nil {
		s.recordRun(ctx, day, trigger, model.RunFailed, "", err, now, time.Since(start))
		return nil, false, fmt.Errorf("failed to check existing report for %s: %w", day, err)
	}
	if exists {
		log.Info("Report already exists, skipping", "date", day, "trigger", trigger)
		s.recordRun(ctx, day, trigger, model.RunSkipped, "", nil, now, time.Since(start))
		return nil, false, nil
	}

	snap, err := s.store.Snapshot()
	if err != nil {
		s.recordRun(ctx, day, trigger, model.RunFailed, "", err, now, time.Since(start))
		return nil, false, fmt.Errorf("failed to read store for %s: %w", day, err)
	}
	report, err := s.processor.Build(snap, day, now)
	if err != nil {
		s.recordRun(ctx, day, trigger, model.RunFailed, "", err, now, time.Since(start))
		return nil, false, err
	}
	report.ID = models.ID(uuid.NewString())

	created, err := s.store.AppendReport(report)
	if err != nil {
		s.recordRun(ctx, day, trigger, model.RunFailed, "", err, now, time.Since(start))
		return nil, false, fmt.Errorf("failed to persist report for %s: %w", day, err)
	}
	if !created {
		log.Info("Report appeared while generating, skipping", "date", day, "trigger", trigger)
		s.recordRun(ctx, day, trigger, model.RunSkipped, "", nil, now, time.Since(start))
		return nil, false, nil
	}

	s.InvalidateCache()
	log.Info("Daily report generated", "date", day, "trigger", trigger, "reportId", report.ID,
		"transactions", report.TransactionCount, "warnings", len(report.Warnings))
	s.recordRun(ctx, day, trigger, model.RunGenerated, string(report.ID), nil, now, time.Since(start))
	return report, true, nil
}

func (s *reportServiceImpl) ListReports(ctx context.Context) ([]models.DailyReport, error) {
	return s.store.Reports()
}

func (s *reportServiceImpl) RecentRuns(ctx context.Context, limit int) ([]model.ReportRun, error) {
	if s.runsDB == nil {
		return nil, ErrRunHistoryUnavailable
	}
	return model.ListReportRuns(s.runsDB, limit)
}

func (s *reportServiceImpl) InvalidateCache() {
	s.reportCache.Flush()
}

func (s *reportServiceImpl) recordRun(ctx context.Context, day, trigger, outcome, reportID string, runErr error, firedAt time.Time, elapsed time.Duration) {
	metrics.RecordReportRun(outcome, elapsed)
	if runErr != nil {
		logger.FromContext(ctx).Error("Daily report generation failed", "date", day, "trigger", trigger, "error", runErr)
	}
	if s.runsDB == nil {
		return
	}

	run := &model.ReportRun{
		ReportDate: day,
		Trigger:    trigger,
		Outcome:    outcome,
		ReportID:   sql.NullString{String: reportID, Valid: reportID != ""},
		FiredAt:    firedAt,
		DurationMS: elapsed.Milliseconds(),
	}
	if runErr != nil {
		run.ErrorMessage = sql.NullString{String: runErr.Error(), Valid: true}
	}
	if err := model.InsertReportRun(s.runsDB, run); err != nil {
		logger.FromContext(ctx).Warn("Could not record report run", "date", day, "error", err)
	}
}
