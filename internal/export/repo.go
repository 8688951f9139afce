package export

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/pkg/enums"
)

// OversightRow is one forwarded submission joined with its station,
// company, and period for reporting.
type OversightRow struct {
	SubmissionID string
	CompanyName  string
	CompanyTaxID string
	StationName  string
	StationSlug  string
	Year         int
	Month        int
	PeriodNumber int
	Status       enums.SubmissionStatus
	SubmittedAt  *time.Time
	ForwardedAt  *time.Time
	DecidedAt    *time.Time
	ForwardNote  string
	ReturnReason string
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	return &Repository{db: db}, nil
}

// ListOversightRows returns all forwarded submissions, optionally filtered
// by status, ordered by forward time.
func (r *Repository) ListOversightRows(ctx context.Context, status *enums.SubmissionStatus) ([]OversightRow, error) {
	query := r.db.WithContext(ctx).
		Table("submissions").
		Select(`submissions.id AS submission_id,
			companies.name AS company_name,
			companies.tax_id AS company_tax_id,
			stations.name AS station_name,
			stations.slug AS station_slug,
			submission_periods.year AS year,
			submission_periods.month AS month,
			submission_periods.period_number AS period_number,
			submissions.status AS status,
			submissions.submitted_at AS submitted_at,
			submissions.forwarded_at AS forwarded_at,
			submissions.decided_at AS decided_at,
			submissions.forward_note AS forward_note,
			submissions.return_reason AS return_reason`).
		Joins("JOIN stations ON stations.id = submissions.station_id").
		Joins("JOIN companies ON companies.id = stations.company_id").
		Joins("JOIN submission_periods ON submission_periods.id = submissions.period_id").
		Where("submissions.forwarded_at IS NOT NULL").
		Order("submissions.forwarded_at ASC, submissions.id ASC")
	if status != nil {
		query = query.Where("submissions.status = ?", *status)
	}
	var rows []OversightRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
