package obligations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
)

// Repository handles obligation catalog persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ActiveVersion returns the currently published catalog version.
func (r *Repository) ActiveVersion(ctx context.Context) (*models.ObligationCatalogVersion, error) {
	var version models.ObligationCatalogVersion
	err := r.db.WithContext(ctx).Where("active = ?", true).First(&version).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// ListVersions returns all catalog versions newest-first.
func (r *Repository) ListVersions(ctx context.Context) ([]models.ObligationCatalogVersion, error) {
	var versions []models.ObligationCatalogVersion
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// ListActiveForVersion returns the active obligations of one version in
// catalog order.
func (r *Repository) ListActiveForVersion(ctx context.Context, versionID uuid.UUID) ([]models.Obligation, error) {
	var rows []models.Obligation
	err := r.db.WithContext(ctx).
		Where("catalog_version_id = ? AND active = ?", versionID, true).
		Order("sort_order ASC, code ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Obligation, error) {
	var obligation models.Obligation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&obligation).Error; err != nil {
		return nil, err
	}
	return &obligation, nil
}

func (r *Repository) Create(ctx context.Context, obligation *models.Obligation) error {
	if obligation == nil {
		return fmt.Errorf("obligation is required")
	}
	return r.db.WithContext(ctx).Create(obligation).Error
}

func (r *Repository) Update(ctx context.Context, obligation *models.Obligation) error {
	if obligation == nil {
		return fmt.Errorf("obligation is required")
	}
	return r.db.WithContext(ctx).Save(obligation).Error
}

// CreateVersion inserts a new catalog version. Activation is a separate
// step so drafts can be assembled before publishing.
func (r *Repository) CreateVersion(ctx context.Context, version *models.ObligationCatalogVersion) error {
	if version == nil {
		return fmt.Errorf("catalog version is required")
	}
	return r.db.WithContext(ctx).Create(version).Error
}

// ActivateVersion publishes one version and retires the rest, in one
// transaction so exactly one version is active at any time.
func (r *Repository) ActivateVersion(ctx context.Context, versionID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ObligationCatalogVersion{}).
			Where("active = ?", true).
			Update("active", false).Error; err != nil {
			return err
		}
		res := tx.Model(&models.ObligationCatalogVersion{}).
			Where("id = ?", versionID).
			Update("active", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
