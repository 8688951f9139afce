package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/pkg/enums"
)

// Submission is one compliance report for a (station, period) pair.
type Submission struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StationID    uuid.UUID              `gorm:"column:station_id;type:uuid;not null;uniqueIndex:uq_submissions_station_period"`
	PeriodID     uuid.UUID              `gorm:"column:period_id;type:uuid;not null;uniqueIndex:uq_submissions_station_period"`
	Status       enums.SubmissionStatus `gorm:"column:status;type:text;not null;default:'DRAFT'"`
	SubmittedAt  *time.Time             `gorm:"column:submitted_at"`
	ReviewedAt   *time.Time             `gorm:"column:reviewed_at"`
	DecidedAt    *time.Time             `gorm:"column:decided_at"`
	ForwardedAt  *time.Time             `gorm:"column:forwarded_at"`
	ReturnReason string                 `gorm:"column:return_reason"`
	ForwardNote  string                 `gorm:"column:forward_note"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime"`

	Checks []SubmissionCheck `gorm:"foreignKey:SubmissionID"`
	Period *SubmissionPeriod `gorm:"foreignKey:PeriodID"`
}

// Editable reports whether check values may still be changed.
func (s Submission) Editable() bool {
	return s.Status == enums.SubmissionStatusDraft
}

// Forwarded reports whether the submission has entered the oversight queue.
func (s Submission) Forwarded() bool {
	return s.ForwardedAt != nil
}
