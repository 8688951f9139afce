package companies

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/pagination"
)

// Repository handles company persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, company *models.Company) error {
	if company == nil {
		return fmt.Errorf("company is required")
	}
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *Repository) FindByTaxID(ctx context.Context, taxID string) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).Where("tax_id = ?", taxID).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// List returns companies newest-first with a cursor, fetching one extra
// row to detect the next page.
func (r *Repository) List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Company, error) {
	query := r.db.WithContext(ctx).Model(&models.Company{}).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID,
		)
	}
	var rows []models.Company
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, company *models.Company) error {
	if company == nil {
		return fmt.Errorf("company is required")
	}
	return r.db.WithContext(ctx).Save(company).Error
}
