package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/fuelguard/fuelguard-backend/pkg/enums"
)

// AuditLog is an append-only record of mutations against domain entities.
// Diff holds a JSON object of changed fields (before/after).
type AuditLog struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ActorID    uuid.UUID         `gorm:"column:actor_id;type:uuid;not null"`
	Action     enums.AuditAction `gorm:"column:action;type:text;not null"`
	EntityType string            `gorm:"column:entity_type;not null;index:idx_audit_entity"`
	EntityID   uuid.UUID         `gorm:"column:entity_id;type:uuid;not null;index:idx_audit_entity"`
	Diff       datatypes.JSON    `gorm:"column:diff;type:jsonb"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}
