package models

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionPeriod is a fixed reporting window. Periods are generated by the
// period job or seed tooling, never created by users.
type SubmissionPeriod struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Year         int       `gorm:"column:year;not null;uniqueIndex:uq_periods_year_month_number"`
	Month        int       `gorm:"column:month;not null;uniqueIndex:uq_periods_year_month_number"`
	PeriodNumber int       `gorm:"column:period_number;not null;uniqueIndex:uq_periods_year_month_number"`
	StartsOn     time.Time `gorm:"column:starts_on;not null"`
	EndsOn       time.Time `gorm:"column:ends_on;not null"`
	Deadline     time.Time `gorm:"column:deadline;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
