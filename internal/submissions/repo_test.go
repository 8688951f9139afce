package submissions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/internal/periods"
	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
)

func setupSubmissionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS submission_periods (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  year INTEGER NOT NULL,
  month INTEGER NOT NULL,
  period_number INTEGER NOT NULL,
  starts_on DATETIME NOT NULL,
  ends_on DATETIME NOT NULL,
  deadline DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS submissions (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  station_id TEXT NOT NULL,
  period_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'DRAFT',
  submitted_at DATETIME,
  reviewed_at DATETIME,
  decided_at DATETIME,
  forwarded_at DATETIME,
  return_reason TEXT,
  forward_note TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS submission_checks (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  submission_id TEXT NOT NULL,
  obligation_id TEXT NOT NULL,
  value TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS obligations (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  catalog_version_id TEXT NOT NULL,
  code TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT,
  field_type TEXT NOT NULL,
  criticality TEXT NOT NULL DEFAULT 'MEDIUM',
  sort_order INTEGER NOT NULL DEFAULT 0,
  active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	t.Cleanup(func() {
		db.Exec("DELETE FROM submission_checks")
		db.Exec("DELETE FROM submissions")
		db.Exec("DELETE FROM submission_periods")
		db.Exec("DELETE FROM obligations")
	})

	return db
}

func insertPeriodRow(t *testing.T, db *gorm.DB, year, month, number int) *models.SubmissionPeriod {
	t.Helper()
	day := (number-1)*10 + 1
	period := &models.SubmissionPeriod{
		ID:           uuid.New(),
		Year:         year,
		Month:        month,
		PeriodNumber: number,
		StartsOn:     time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
		EndsOn:       time.Date(year, time.Month(month), day+9, 0, 0, 0, 0, time.UTC),
		Deadline:     time.Date(year, time.Month(month), day+11, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(period).Error)
	return period
}

func insertSubmissionRow(t *testing.T, db *gorm.DB, stationID uuid.UUID, periodID uuid.UUID, status enums.SubmissionStatus) *models.Submission {
	t.Helper()
	submission := &models.Submission{
		ID:        uuid.New(),
		StationID: stationID,
		PeriodID:  periodID,
		Status:    status,
	}
	require.NoError(t, db.Create(submission).Error)
	return submission
}

func TestLatestForStationInWindowsIgnoresOlderPeriods(t *testing.T) {
	db := setupSubmissionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	stationID := uuid.New()
	stale := insertPeriodRow(t, db, 2025, 1, 1)
	insertSubmissionRow(t, db, stationID, stale.ID, enums.SubmissionStatusApproved)

	windows := periods.WindowsFor(2026, time.August)[1:]
	_, err := repo.LatestForStationInWindows(ctx, stationID, windows)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLatestForStationInWindowsPrefersNewerWindow(t *testing.T) {
	db := setupSubmissionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	stationID := uuid.New()
	older := insertPeriodRow(t, db, 2026, 8, 2)
	newer := insertPeriodRow(t, db, 2026, 8, 3)
	insertSubmissionRow(t, db, stationID, older.ID, enums.SubmissionStatusApproved)
	want := insertSubmissionRow(t, db, stationID, newer.ID, enums.SubmissionStatusSubmitted)

	windows := periods.WindowsFor(2026, time.August)[1:]
	got, err := repo.LatestForStationInWindows(ctx, stationID, windows)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	require.NotNil(t, got.Period)
	assert.Equal(t, 3, got.Period.PeriodNumber)
}

func TestLatestForStationInWindowsScopedToStation(t *testing.T) {
	db := setupSubmissionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	period := insertPeriodRow(t, db, 2026, 9, 1)
	insertSubmissionRow(t, db, uuid.New(), period.ID, enums.SubmissionStatusApproved)

	windows := periods.WindowsFor(2026, time.September)[:1]
	_, err := repo.LatestForStationInWindows(ctx, uuid.New(), windows)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLatestForStationInWindowsEmptyWindowList(t *testing.T) {
	db := setupSubmissionsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.LatestForStationInWindows(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
