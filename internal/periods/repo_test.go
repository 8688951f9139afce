package periods

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPeriodsTestDB(t *testing.T) *gorm.DB {
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
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_periods_year_month_number
ON submission_periods (year, month, period_number);`).Error)

	return db
}

func TestUpsertIsIdempotent(t *testing.T) {
	db := setupPeriodsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	windows := WindowsFor(2031, time.March)
	require.NoError(t, repo.Upsert(ctx, windows))
	require.NoError(t, repo.Upsert(ctx, windows))

	rows, err := repo.ListForMonth(ctx, 2031, 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	for i, row := range rows {
		assert.Equal(t, i+1, row.PeriodNumber)
		assert.Equal(t, 2031, row.Year)
		assert.Equal(t, 3, row.Month)
	}
}

func TestUpsertRefreshesDates(t *testing.T) {
	db := setupPeriodsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	windows := WindowsFor(2032, time.June)
	require.NoError(t, repo.Upsert(ctx, windows))

	shifted := make([]Window, len(windows))
	copy(shifted, windows)
	shifted[0].Deadline = shifted[0].Deadline.AddDate(0, 0, 1)
	require.NoError(t, repo.Upsert(ctx, shifted))

	rows, err := repo.ListForMonth(ctx, 2032, 6)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, shifted[0].Deadline.Unix(), rows[0].Deadline.UTC().Unix())
}

func TestFindByKey(t *testing.T) {
	db := setupPeriodsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, WindowsFor(2033, time.September)))

	period, err := repo.FindByKey(ctx, 2033, 9, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, period.PeriodNumber)
	assert.Equal(t, 11, period.StartsOn.UTC().Day())
	assert.Equal(t, 20, period.EndsOn.UTC().Day())

	_, err = repo.FindByKey(ctx, 2033, 9, 4)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListRecentOrdersNewestFirst(t *testing.T) {
	db := setupPeriodsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, WindowsFor(2034, time.January)))
	require.NoError(t, repo.Upsert(ctx, WindowsFor(2034, time.February)))

	rows, err := repo.ListRecent(ctx, 4)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, 2, rows[0].Month)
	assert.Equal(t, 3, rows[0].PeriodNumber)
	assert.Equal(t, 2, rows[1].Month)
	assert.Equal(t, 1, rows[2].PeriodNumber)
}
