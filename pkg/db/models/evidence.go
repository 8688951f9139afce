package models

import (
	"time"

	"github.com/google/uuid"
)

// Evidence is an uploaded file attached to a station, and optionally to a
// submission or a specific obligation.
type Evidence struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StationID    uuid.UUID  `gorm:"column:station_id;type:uuid;not null;index"`
	SubmissionID *uuid.UUID `gorm:"column:submission_id;type:uuid"`
	ObligationID *uuid.UUID `gorm:"column:obligation_id;type:uuid"`
	UploadedBy   uuid.UUID  `gorm:"column:uploaded_by;type:uuid;not null"`
	FileName     string     `gorm:"column:file_name;not null"`
	StorageKey   string     `gorm:"column:storage_key;not null;unique"`
	ContentType  string     `gorm:"column:content_type;not null"`
	SizeBytes    int64      `gorm:"column:size_bytes;not null"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}
