package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/pkg/enums"
)

// ObligationCatalogVersion groups obligations into a published catalog
// revision. Only one version is active at a time.
type ObligationCatalogVersion struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Label         string     `gorm:"column:label;not null;unique"`
	EffectiveFrom *time.Time `gorm:"column:effective_from"`
	Active        bool       `gorm:"column:active;not null;default:false"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// Obligation is one regulatory requirement definition in the catalog.
type Obligation struct {
	ID               uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CatalogVersionID uuid.UUID                 `gorm:"column:catalog_version_id;type:uuid;not null;uniqueIndex:uq_obligations_version_code"`
	Code             string                    `gorm:"column:code;not null;uniqueIndex:uq_obligations_version_code"`
	Title            string                    `gorm:"column:title;not null"`
	Description      string                    `gorm:"column:description"`
	FieldType        enums.ObligationFieldType `gorm:"column:field_type;type:text;not null"`
	Criticality      enums.Criticality         `gorm:"column:criticality;type:text;not null;default:'MEDIUM'"`
	SortOrder        int                       `gorm:"column:sort_order;not null;default:0"`
	Active           bool                      `gorm:"column:active;not null;default:true"`
	CreatedAt        time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
