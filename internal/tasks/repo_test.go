package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
)

func setupTasksTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS stations (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  company_id TEXT NOT NULL,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  amdika TEXT,
  latitude REAL,
  longitude REAL,
  storage_capacity_liters NUMERIC,
  active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS tasks (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  station_id TEXT NOT NULL,
  submission_id TEXT,
  type TEXT NOT NULL,
  severity TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'AWAITING_COMPANY',
  title TEXT NOT NULL,
  detail TEXT,
  due_date DATETIME,
  created_by TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS task_messages (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  task_id TEXT NOT NULL,
  author_id TEXT NOT NULL,
  body TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	t.Cleanup(func() {
		db.Exec("DELETE FROM task_messages")
		db.Exec("DELETE FROM tasks")
		db.Exec("DELETE FROM stations")
	})

	return db
}

func insertTestStation(t *testing.T, db *gorm.DB, companyID uuid.UUID, slug string) *models.Station {
	t.Helper()
	station := &models.Station{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      slug,
		Slug:      slug,
		Active:    true,
	}
	require.NoError(t, db.Create(station).Error)
	return station
}

func insertTestTask(t *testing.T, repo *Repository, stationID uuid.UUID, title string, taskType enums.TaskType, severity enums.TaskSeverity, status enums.TaskStatus, createdAt time.Time) {
	t.Helper()
	task := &models.Task{
		StationID: stationID,
		Type:      taskType,
		Severity:  severity,
		Status:    status,
		Title:     title,
		CreatedBy: uuid.New(),
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), task))
}

func TestListPrioritizeHighRiskOrdering(t *testing.T) {
	db := setupTasksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	station := insertTestStation(t, db, uuid.New(), "ordering-station")
	base := time.Date(2026, time.August, 1, 9, 0, 0, 0, time.UTC)

	// Oldest first so creation order cannot mask the risk ranking.
	insertTestTask(t, repo, station.ID, "routine action", enums.TaskTypeAction, enums.TaskSeverityMajor, enums.TaskStatusAwaitingCompany, base)
	insertTestTask(t, repo, station.ID, "critical sanction", enums.TaskTypeSanction, enums.TaskSeverityCritical, enums.TaskStatusAwaitingCompany, base.Add(time.Hour))
	insertTestTask(t, repo, station.ID, "escalated minor sanction", enums.TaskTypeSanction, enums.TaskSeverityMinor, enums.TaskStatusEscalated, base.Add(2*time.Hour))
	insertTestTask(t, repo, station.ID, "escalated critical action", enums.TaskTypeAction, enums.TaskSeverityCritical, enums.TaskStatusEscalated, base.Add(3*time.Hour))

	rows, err := repo.List(ctx, ListFilter{PrioritizeHighRisk: true}, nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// Escalation outranks everything, then sanction, then severity.
	assert.Equal(t, "escalated minor sanction", rows[0].Title)
	assert.Equal(t, "escalated critical action", rows[1].Title)
	assert.Equal(t, "critical sanction", rows[2].Title)
	assert.Equal(t, "routine action", rows[3].Title)
}

func TestListDefaultOrdersNewestFirst(t *testing.T) {
	db := setupTasksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	station := insertTestStation(t, db, uuid.New(), "recency-station")
	base := time.Date(2026, time.August, 10, 9, 0, 0, 0, time.UTC)

	insertTestTask(t, repo, station.ID, "older", enums.TaskTypeAction, enums.TaskSeverityMinor, enums.TaskStatusAwaitingCompany, base)
	insertTestTask(t, repo, station.ID, "newer", enums.TaskTypeAction, enums.TaskSeverityMinor, enums.TaskStatusAwaitingCompany, base.Add(time.Hour))

	rows, err := repo.List(ctx, ListFilter{}, nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "newer", rows[0].Title)
	assert.Equal(t, "older", rows[1].Title)
}

func TestListScopesByCompany(t *testing.T) {
	db := setupTasksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	companyID := uuid.New()
	mine := insertTestStation(t, db, companyID, "scoped-mine")
	other := insertTestStation(t, db, uuid.New(), "scoped-other")
	base := time.Date(2026, time.August, 20, 9, 0, 0, 0, time.UTC)

	insertTestTask(t, repo, mine.ID, "visible", enums.TaskTypeAction, enums.TaskSeverityMinor, enums.TaskStatusAwaitingCompany, base)
	insertTestTask(t, repo, other.ID, "hidden", enums.TaskTypeAction, enums.TaskSeverityMinor, enums.TaskStatusAwaitingCompany, base)

	rows, err := repo.List(ctx, ListFilter{}, &companyID, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "visible", rows[0].Title)
}
