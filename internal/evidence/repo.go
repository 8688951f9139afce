package evidence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
)

// Repository handles evidence metadata persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, row *models.Evidence) error {
	if row == nil {
		return fmt.Errorf("evidence is required")
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Evidence, error) {
	var row models.Evidence
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListForStation returns a station's evidence newest-first, optionally
// narrowed to one submission.
func (r *Repository) ListForStation(ctx context.Context, stationID uuid.UUID, submissionID *uuid.UUID, limit int) ([]models.Evidence, error) {
	if limit <= 0 {
		limit = 100
	}
	query := r.db.WithContext(ctx).Model(&models.Evidence{}).
		Where("station_id = ?", stationID).
		Order("created_at DESC").
		Limit(limit)
	if submissionID != nil {
		query = query.Where("submission_id = ?", *submissionID)
	}
	var rows []models.Evidence
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Evidence{}).Error
}
