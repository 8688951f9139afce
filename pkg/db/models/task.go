package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/pkg/enums"
)

// Task is a follow-up action or sanction tied to a station, optionally
// originating from a rejected submission.
type Task struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StationID    uuid.UUID          `gorm:"column:station_id;type:uuid;not null;index"`
	SubmissionID *uuid.UUID         `gorm:"column:submission_id;type:uuid"`
	Type         enums.TaskType     `gorm:"column:type;type:text;not null"`
	Severity     enums.TaskSeverity `gorm:"column:severity;type:text;not null"`
	Category     string             `gorm:"column:category;not null"`
	Status       enums.TaskStatus   `gorm:"column:status;type:text;not null;default:'AWAITING_COMPANY'"`
	Title        string             `gorm:"column:title;not null"`
	Detail       string             `gorm:"column:detail"`
	DueDate      *time.Time         `gorm:"column:due_date"`
	CreatedBy    uuid.UUID          `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`

	Messages []TaskMessage `gorm:"foreignKey:TaskID"`
}
