package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Station is a fuel station belonging to exactly one company. AMDIKA is the
// national registry identifier used as a display/reference code.
type Station struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID             uuid.UUID       `gorm:"column:company_id;type:uuid;not null;index"`
	Name                  string          `gorm:"column:name;not null"`
	Slug                  string          `gorm:"column:slug;not null;unique"`
	AMDIKA                string          `gorm:"column:amdika"`
	Latitude              float64         `gorm:"column:latitude"`
	Longitude             float64         `gorm:"column:longitude"`
	StorageCapacityLiters decimal.Decimal `gorm:"column:storage_capacity_liters;type:numeric(12,2)"`
	Active                bool            `gorm:"column:active;not null;default:true"`
	CreatedAt             time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
