package companies

import (
	"time"

	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
)

// CompanyDTO exposes company data in API responses.
type CompanyDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	TaxID        string    `json:"tax_id"`
	ContactEmail string    `json:"contact_email,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateCompanyInput holds creation-time data for a new company.
type CreateCompanyInput struct {
	Name         string
	TaxID        string
	ContactEmail string
	ContactPhone string
}

// UpdateCompanyInput captures the mutable company fields. Nil means keep.
type UpdateCompanyInput struct {
	Name         *string
	ContactEmail *string
	ContactPhone *string
	Active       *bool
}

// FromModel maps the persisted company into a DTO.
func FromModel(m *models.Company) *CompanyDTO {
	if m == nil {
		return nil
	}
	return &CompanyDTO{
		ID:           m.ID,
		Name:         m.Name,
		TaxID:        m.TaxID,
		ContactEmail: m.ContactEmail,
		ContactPhone: m.ContactPhone,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromModels maps a slice of companies.
func FromModels(rows []models.Company) []CompanyDTO {
	out := make([]CompanyDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
