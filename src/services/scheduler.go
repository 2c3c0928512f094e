// backend/src/services/scheduler.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/username/kuyumcu/backend/src/logger"
	"github.com/username/kuyumcu/backend/src/model"
)

// DailyReportSpec fires at 20:00 every day in the scheduler's location.
const DailyReportSpec = "0 20 * * *"

// DailyScheduler runs the end-of-day report generation. Each fire is followed by a fresh
// "next 20:00" computation in the report location, so the trigger follows DST changes.
type DailyScheduler struct {
	service  ReportService
	loc      *time.Location
	cron     *cron.Cron
	schedule cron.Schedule
	now      func() time.Time
}

func NewDailyScheduler(service ReportService, loc *time.Location) (*DailyScheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	schedule, err := cron.ParseStandard(DailyReportSpec)
	if err != nil {
		return nil, fmt.Errorf("invalid report schedule %q: %w", DailyReportSpec, err)
	}

	cronLog := cronLogger{}
	s := &DailyScheduler{
		service:  service,
		loc:      loc,
		schedule: schedule,
		now:      time.Now,
	}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.Fire(context.Background())
	}))
	return s, nil
}

// NextRun returns the first 20:00 in the report location strictly after now.
func (s *DailyScheduler) NextRun(now time.Time) time.Time {
	return s.schedule.Next(now.In(s.loc))
}

// Start begins scheduling in the background.
func (s *DailyScheduler) Start() {
	now := s.now()
	next := s.NextRun(now)
	s.cron.Start()
	logger.L.Info("Daily report scheduled",
		"nextRun", next.Format(time.RFC3339),
		"minutesUntil", int(next.Sub(now).Minutes()),
		"location", s.loc.String())
}

// Stop halts scheduling and waits for a running fire to complete or ctx to expire.
func (s *DailyScheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		logger.L.Info("Daily report scheduler stopped")
	case <-ctx.Done():
		logger.L.Warn("Daily report scheduler stop timed out", "error", ctx.Err())
	}
}

// Fire generates today's report. Failures are logged and recorded by the report service and do not
// affect later fires.
func (s *DailyScheduler) Fire(ctx context.Context) {
	now := s.now()
	report, created, err := s.service.GenerateDailyReport(ctx, now, model.TriggerSchedule)
	switch {
	case err != nil:
		logger.FromContext(ctx).Warn("Scheduled report run failed, will retry at next fire",
			"nextRun", s.NextRun(now).Format(time.RFC3339))
	case created:
		logger.FromContext(ctx).Info("Scheduled report run complete", "date", report.Date,
			"nextRun", s.NextRun(now).Format(time.RFC3339))
	default:
		logger.FromContext(ctx).Info("Scheduled report run skipped", "date", s.service.Today(now))
	}
}

// cronLogger routes robfig/cron's internal logging through the application logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.L.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.L.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
