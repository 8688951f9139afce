package periods

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
)

// Repository handles reporting period persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert persists windows idempotently on (year, month, period_number).
// Re-running generation never duplicates periods; date columns are
// refreshed in case the rules changed.
func (r *Repository) Upsert(ctx context.Context, windows []Window) error {
	if len(windows) == 0 {
		return nil
	}
	rows := make([]models.SubmissionPeriod, 0, len(windows))
	for _, w := range windows {
		rows = append(rows, models.SubmissionPeriod{
			Year:         w.Year,
			Month:        w.Month,
			PeriodNumber: w.PeriodNumber,
			StartsOn:     w.StartsOn,
			EndsOn:       w.EndsOn,
			Deadline:     w.Deadline,
		})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "year"}, {Name: "month"}, {Name: "period_number"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"starts_on", "ends_on", "deadline"}),
	}).Create(&rows).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SubmissionPeriod, error) {
	var period models.SubmissionPeriod
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&period).Error; err != nil {
		return nil, err
	}
	return &period, nil
}

// FindByKey loads a period by its natural key.
func (r *Repository) FindByKey(ctx context.Context, year, month, number int) (*models.SubmissionPeriod, error) {
	var period models.SubmissionPeriod
	err := r.db.WithContext(ctx).
		Where("year = ? AND month = ? AND period_number = ?", year, month, number).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

// ListForMonth returns the periods of one month in order.
func (r *Repository) ListForMonth(ctx context.Context, year, month int) ([]models.SubmissionPeriod, error) {
	var rows []models.SubmissionPeriod
	err := r.db.WithContext(ctx).
		Where("year = ? AND month = ?", year, month).
		Order("period_number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListRecent returns the most recent periods ending on or before the
// given day, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.SubmissionPeriod, error) {
	if limit <= 0 {
		limit = 6
	}
	var rows []models.SubmissionPeriod
	err := r.db.WithContext(ctx).
		Order("year DESC, month DESC, period_number DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
