package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskMessage is one entry in a task's append-only thread.
type TaskMessage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TaskID    uuid.UUID `gorm:"column:task_id;type:uuid;not null;index"`
	AuthorID  uuid.UUID `gorm:"column:author_id;type:uuid;not null"`
	Body      string    `gorm:"column:body;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
