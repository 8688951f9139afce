package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/rbac"
)

// UserDTO exposes safe account data in API responses.
type UserDTO struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Role      rbac.Role  `json:"role"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	StationID *uuid.UUID `json:"station_id,omitempty"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateUserInput holds creation-time data for a new account.
type CreateUserInput struct {
	Email     string
	FullName  string
	Role      rbac.Role
	CompanyID *uuid.UUID
	StationID *uuid.UUID
	Password  string
}

// UpdateUserInput captures the mutable account fields. Nil means keep.
type UpdateUserInput struct {
	FullName  *string
	Role      *rbac.Role
	CompanyID *uuid.UUID
	StationID *uuid.UUID
	Active    *bool
}

// FromModel maps the persisted user into a DTO.
func FromModel(m *models.User) *UserDTO {
	if m == nil {
		return nil
	}
	return &UserDTO{
		ID:        m.ID,
		Email:     m.Email,
		FullName:  m.FullName,
		Role:      m.Role,
		CompanyID: m.CompanyID,
		StationID: m.StationID,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromModels maps a slice of users.
func FromModels(rows []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
