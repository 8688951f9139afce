package tasks

import (
	"time"

	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
)

// TaskDTO exposes a follow-up action or sanction in API responses.
type TaskDTO struct {
	ID           uuid.UUID          `json:"id"`
	StationID    uuid.UUID          `json:"station_id"`
	SubmissionID *uuid.UUID         `json:"submission_id,omitempty"`
	Type         enums.TaskType     `json:"type"`
	Severity     enums.TaskSeverity `json:"severity"`
	Category     string             `json:"category"`
	Status       enums.TaskStatus   `json:"status"`
	Title        string             `json:"title"`
	Detail       string             `json:"detail,omitempty"`
	DueDate      *time.Time         `json:"due_date,omitempty"`
	CreatedBy    uuid.UUID          `json:"created_by"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Messages     []MessageDTO       `json:"messages,omitempty"`
}

// MessageDTO is one entry in a task thread.
type MessageDTO struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTaskInput holds creation-time data for a new task.
type CreateTaskInput struct {
	StationID    uuid.UUID
	SubmissionID *uuid.UUID
	Type         enums.TaskType
	Severity     enums.TaskSeverity
	Category     string
	Title        string
	Detail       string
	DueDate      *time.Time
}

// ListFilter narrows task queries.
type ListFilter struct {
	StationID          *uuid.UUID
	Status             *enums.TaskStatus
	PrioritizeHighRisk bool
}

// FromModel maps the persisted task into a DTO.
func FromModel(m *models.Task) *TaskDTO {
	if m == nil {
		return nil
	}
	dto := &TaskDTO{
		ID:           m.ID,
		StationID:    m.StationID,
		SubmissionID: m.SubmissionID,
		Type:         m.Type,
		Severity:     m.Severity,
		Category:     m.Category,
		Status:       m.Status,
		Title:        m.Title,
		Detail:       m.Detail,
		DueDate:      m.DueDate,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	for i := range m.Messages {
		msg := &m.Messages[i]
		dto.Messages = append(dto.Messages, MessageDTO{
			ID:        msg.ID,
			AuthorID:  msg.AuthorID,
			Body:      msg.Body,
			CreatedAt: msg.CreatedAt,
		})
	}
	return dto
}

// FromModels maps a slice of tasks without threads.
func FromModels(rows []models.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
