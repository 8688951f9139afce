package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/pkg/rbac"
)

// User is a login identity. Company and station affiliation are optional and
// depend on the role: customs reviewers and system admins carry neither.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"column:email;not null;unique"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FullName     string     `gorm:"column:full_name;not null"`
	Role         rbac.Role  `gorm:"column:role;type:text;not null"`
	CompanyID    *uuid.UUID `gorm:"column:company_id;type:uuid"`
	StationID    *uuid.UUID `gorm:"column:station_id;type:uuid"`
	Active       bool       `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
