package stations

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
)

// StationDTO exposes station data in API responses.
type StationDTO struct {
	ID                    uuid.UUID       `json:"id"`
	CompanyID             uuid.UUID       `json:"company_id"`
	Name                  string          `json:"name"`
	Slug                  string          `json:"slug"`
	AMDIKA                string          `json:"amdika,omitempty"`
	Latitude              float64         `json:"latitude,omitempty"`
	Longitude             float64         `json:"longitude,omitempty"`
	StorageCapacityLiters decimal.Decimal `json:"storage_capacity_liters"`
	Active                bool            `json:"active"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// CreateStationInput holds creation-time data for a new station.
type CreateStationInput struct {
	CompanyID             uuid.UUID
	Name                  string
	AMDIKA                string
	Latitude              float64
	Longitude             float64
	StorageCapacityLiters decimal.Decimal
}

// UpdateStationInput captures the mutable station fields. Nil means keep.
type UpdateStationInput struct {
	Name                  *string
	AMDIKA                *string
	Latitude              *float64
	Longitude             *float64
	StorageCapacityLiters *decimal.Decimal
	Active                *bool
}

// FromModel maps the persisted station into a DTO.
func FromModel(m *models.Station) *StationDTO {
	if m == nil {
		return nil
	}
	return &StationDTO{
		ID:                    m.ID,
		CompanyID:             m.CompanyID,
		Name:                  m.Name,
		Slug:                  m.Slug,
		AMDIKA:                m.AMDIKA,
		Latitude:              m.Latitude,
		Longitude:             m.Longitude,
		StorageCapacityLiters: m.StorageCapacityLiters,
		Active:                m.Active,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// FromModels maps a slice of stations.
func FromModels(rows []models.Station) []StationDTO {
	out := make([]StationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
