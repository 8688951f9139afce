package obligations

import (
	"time"

	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
)

// ObligationDTO exposes one catalog requirement in API responses.
type ObligationDTO struct {
	ID               uuid.UUID                 `json:"id"`
	CatalogVersionID uuid.UUID                 `json:"catalog_version_id"`
	Code             string                    `json:"code"`
	Title            string                    `json:"title"`
	Description      string                    `json:"description,omitempty"`
	FieldType        enums.ObligationFieldType `json:"field_type"`
	Criticality      enums.Criticality         `json:"criticality"`
	SortOrder        int                       `json:"sort_order"`
	Active           bool                      `json:"active"`
}

// CatalogVersionDTO describes a published catalog revision.
type CatalogVersionDTO struct {
	ID            uuid.UUID  `json:"id"`
	Label         string     `json:"label"`
	EffectiveFrom *time.Time `json:"effective_from,omitempty"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CreateObligationInput holds creation-time data for a catalog entry.
type CreateObligationInput struct {
	Code        string
	Title       string
	Description string
	FieldType   enums.ObligationFieldType
	Criticality enums.Criticality
	SortOrder   int
}

// FromModel maps the persisted obligation into a DTO.
func FromModel(m *models.Obligation) *ObligationDTO {
	if m == nil {
		return nil
	}
	return &ObligationDTO{
		ID:               m.ID,
		CatalogVersionID: m.CatalogVersionID,
		Code:             m.Code,
		Title:            m.Title,
		Description:      m.Description,
		FieldType:        m.FieldType,
		Criticality:      m.Criticality,
		SortOrder:        m.SortOrder,
		Active:           m.Active,
	}
}

// FromModels maps a slice of obligations.
func FromModels(rows []models.Obligation) []ObligationDTO {
	out := make([]ObligationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func versionFromModel(m *models.ObligationCatalogVersion) *CatalogVersionDTO {
	if m == nil {
		return nil
	}
	return &CatalogVersionDTO{
		ID:            m.ID,
		Label:         m.Label,
		EffectiveFrom: m.EffectiveFrom,
		Active:        m.Active,
		CreatedAt:     m.CreatedAt,
	}
}
