package stations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/pagination"
)

// Repository handles station persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, station *models.Station) error {
	if station == nil {
		return fmt.Errorf("station is required")
	}
	return r.db.WithContext(ctx).Create(station).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Station, error) {
	var station models.Station
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&station).Error; err != nil {
		return nil, err
	}
	return &station, nil
}

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Station, error) {
	var station models.Station
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&station).Error; err != nil {
		return nil, err
	}
	return &station, nil
}

// CountWithSlugPrefix reports how many stations already use the slug or a
// numbered variant of it, for suffix allocation.
func (r *Repository) CountWithSlugPrefix(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Station{}).
		Where("slug = ? OR slug LIKE ?", slug, slug+"-%").
		Count(&count).Error
	return count, err
}

// List returns stations newest-first, optionally scoped to a company.
func (r *Repository) List(ctx context.Context, companyID *uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Station, error) {
	query := r.db.WithContext(ctx).Model(&models.Station{}).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Station
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActiveIDs returns every active station's ID. Used by the period
// materializer and oversight queue.
func (r *Repository) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Station{}).
		Where("active = ?", true).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) Update(ctx context.Context, station *models.Station) error {
	if station == nil {
		return fmt.Errorf("station is required")
	}
	return r.db.WithContext(ctx).Save(station).Error
}
