package submissions

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/internal/periods"
	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
)

// CheckDTO exposes one obligation answer in API responses.
type CheckDTO struct {
	ID             uuid.UUID                 `json:"id"`
	ObligationID   uuid.UUID                 `json:"obligation_id"`
	ObligationCode string                    `json:"obligation_code,omitempty"`
	Title          string                    `json:"title,omitempty"`
	FieldType      enums.ObligationFieldType `json:"field_type,omitempty"`
	Criticality    enums.Criticality         `json:"criticality,omitempty"`
	Value          any                       `json:"value,omitempty"`
	ValidUntil     string                    `json:"valid_until,omitempty"`
	Notes          string                    `json:"notes,omitempty"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// SubmissionDTO exposes one compliance report in API responses.
type SubmissionDTO struct {
	ID           uuid.UUID              `json:"id"`
	StationID    uuid.UUID              `json:"station_id"`
	PeriodID     uuid.UUID              `json:"period_id"`
	Status       enums.SubmissionStatus `json:"status"`
	SubmittedAt  *time.Time             `json:"submitted_at,omitempty"`
	ReviewedAt   *time.Time             `json:"reviewed_at,omitempty"`
	DecidedAt    *time.Time             `json:"decided_at,omitempty"`
	ForwardedAt  *time.Time             `json:"forwarded_at,omitempty"`
	ReturnReason string                 `json:"return_reason,omitempty"`
	ForwardNote  string                 `json:"forward_note,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	Period       *periods.PeriodDTO     `json:"period,omitempty"`
	Checks       []CheckDTO             `json:"checks,omitempty"`
}

// UpdateCheckInput carries one answer update. Value is the plain answer
// (bool for BOOLEAN, string for TEXT); ValidUntil is the expiry date for
// DATE obligations in YYYY-MM-DD form.
type UpdateCheckInput struct {
	ObligationID uuid.UUID
	Value        any
	ValidUntil   string
	Notes        *string
}

// ForwardBulkInput selects approved submissions for the oversight queue.
type ForwardBulkInput struct {
	SubmissionIDs []uuid.UUID
	Notes         map[uuid.UUID]string
}

// ForwardBulkResult reports the outcome per requested submission.
type ForwardBulkResult struct {
	Forwarded        []uuid.UUID `json:"forwarded"`
	AlreadyForwarded []uuid.UUID `json:"already_forwarded"`
	Skipped          []uuid.UUID `json:"skipped"`
}

// storedValue is the persisted JSON shape of a check answer.
type storedValue struct {
	Value      any    `json:"value"`
	ValidUntil string `json:"validUntil,omitempty"`
}

// FromModel maps the persisted submission into a DTO.
func FromModel(m *models.Submission) *SubmissionDTO {
	if m == nil {
		return nil
	}
	dto := &SubmissionDTO{
		ID:           m.ID,
		StationID:    m.StationID,
		PeriodID:     m.PeriodID,
		Status:       m.Status,
		SubmittedAt:  m.SubmittedAt,
		ReviewedAt:   m.ReviewedAt,
		DecidedAt:    m.DecidedAt,
		ForwardedAt:  m.ForwardedAt,
		ReturnReason: m.ReturnReason,
		ForwardNote:  m.ForwardNote,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Period != nil {
		dto.Period = &periods.PeriodDTO{
			ID:           m.Period.ID,
			Year:         m.Period.Year,
			Month:        m.Period.Month,
			PeriodNumber: m.Period.PeriodNumber,
			StartsOn:     m.Period.StartsOn,
			EndsOn:       m.Period.EndsOn,
			Deadline:     m.Period.Deadline,
		}
	}
	for i := range m.Checks {
		dto.Checks = append(dto.Checks, checkFromModel(&m.Checks[i]))
	}
	return dto
}

// FromModels maps a slice of submissions without nested checks.
func FromModels(rows []models.Submission) []SubmissionDTO {
	out := make([]SubmissionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func checkFromModel(m *models.SubmissionCheck) CheckDTO {
	dto := CheckDTO{
		ID:           m.ID,
		ObligationID: m.ObligationID,
		Notes:        m.Notes,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Obligation != nil {
		dto.ObligationCode = m.Obligation.Code
		dto.Title = m.Obligation.Title
		dto.FieldType = m.Obligation.FieldType
		dto.Criticality = m.Obligation.Criticality
	}
	if len(m.Value) > 0 {
		var stored storedValue
		if err := json.Unmarshal(m.Value, &stored); err == nil {
			dto.Value = stored.Value
			dto.ValidUntil = stored.ValidUntil
		}
	}
	return dto
}
