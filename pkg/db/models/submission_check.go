package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SubmissionCheck is a station's recorded answer to one obligation within one
// submission. Value is a JSON document: {"value": <bool|string>} for plain
// answers, plus {"validUntil": "YYYY-MM-DD"} for DATE obligations.
type SubmissionCheck struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SubmissionID uuid.UUID      `gorm:"column:submission_id;type:uuid;not null;uniqueIndex:uq_checks_submission_obligation"`
	ObligationID uuid.UUID      `gorm:"column:obligation_id;type:uuid;not null;uniqueIndex:uq_checks_submission_obligation"`
	Value        datatypes.JSON `gorm:"column:value;type:jsonb"`
	Notes        string         `gorm:"column:notes"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`

	Obligation *Obligation `gorm:"foreignKey:ObligationID"`
}
