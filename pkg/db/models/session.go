package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Session is a server-side login session. Data carries the claims snapshot
// (role, company, station) so the auth middleware avoids a user lookup.
type Session struct {
	SID       uuid.UUID      `gorm:"column:sid;type:uuid;primaryKey"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index"`
	Data      datatypes.JSON `gorm:"column:data;type:jsonb;not null"`
	ExpiresAt time.Time      `gorm:"column:expires_at;not null;index"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}
