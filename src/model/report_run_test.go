package model

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/kuyumcu/backend/src/database"
)

func openRunsDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(db))
	return db
}

func TestInsertAndListReportRuns(t *testing.T) {
	db := openRunsDB(t)
	base := time.Date(2024, 6, 1, 17, 0, 0, 0, time.UTC)

	runs := []*ReportRun{
		{ReportDate: "2024-06-01", Trigger: TriggerSchedule, Outcome: RunGenerated, ReportID: sql.NullString{String: "abc", Valid: true}, FiredAt: base, DurationMS: 12},
		{ReportDate: "2024-06-01", Trigger: TriggerManual, Outcome: RunSkipped, FiredAt: base.Add(500 * time.Millisecond)},
		{ReportDate: "2024-06-02", Trigger: TriggerSchedule, Outcome: RunFailed, ErrorMessage: sql.NullString{String: "store document is malformed", Valid: true}, FiredAt: base.Add(24 * time.Hour)},
	}
	for _, run := range runs {
		require.NoError(t, InsertReportRun(db, run))
		assert.NotZero(t, run.ID)
	}

	got, err := ListReportRuns(db, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, RunFailed, got[0].Outcome)
	assert.Equal(t, RunSkipped, got[1].Outcome)
	assert.Equal(t, RunGenerated, got[2].Outcome)
	assert.True(t, got[1].FiredAt.Equal(base.Add(500*time.Millisecond)))

	view := got[2].View()
	assert.Equal(t, "abc", view.ReportID)
	assert.Equal(t, int64(12), view.DurationMS)
	assert.Equal(t, "store document is malformed", got[0].View().Error)

	limited, err := ListReportRuns(db, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "2024-06-02", limited[0].ReportDate)
}

func TestListReportRuns_Empty(t *testing.T) {
	runs, err := ListReportRuns(openRunsDB(t), 5)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}
