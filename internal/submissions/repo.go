package submissions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/internal/periods"
	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
	"github.com/fuelguard/fuelguard-backend/pkg/pagination"
)

// Repository handles submission and check persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithChecks inserts a submission and its pre-populated checks in
// one transaction.
func (r *Repository) CreateWithChecks(ctx context.Context, submission *models.Submission, checks []models.SubmissionCheck) error {
	if submission == nil {
		return fmt.Errorf("submission is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
			return err
		}
		for i := range checks {
			checks[i].SubmissionID = submission.ID
		}
		if len(checks) > 0 {
			if err := tx.Create(&checks).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID loads a submission with its checks, obligations and period.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Preload("Checks.Obligation").
		Preload("Period").
		Where("id = ?", id).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByStationAndPeriod loads the unique submission for one window.
func (r *Repository) FindByStationAndPeriod(ctx context.Context, stationID, periodID uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Preload("Checks.Obligation").
		Preload("Period").
		Where("station_id = ? AND period_id = ?", stationID, periodID).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// LatestForStationInWindows returns the station's most recent
// submission falling inside one of the given reporting windows, with
// checks loaded for evaluation. A submission from an older period never
// satisfies a later window.
func (r *Repository) LatestForStationInWindows(ctx context.Context, stationID uuid.UUID, windows []periods.Window) (*models.Submission, error) {
	if len(windows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	windowFilter := r.db.Session(&gorm.Session{NewDB: true}).
		Where("p.year = ? AND p.month = ? AND p.period_number = ?",
			windows[0].Year, windows[0].Month, windows[0].PeriodNumber)
	for _, w := range windows[1:] {
		windowFilter = windowFilter.Or("p.year = ? AND p.month = ? AND p.period_number = ?",
			w.Year, w.Month, w.PeriodNumber)
	}

	var submission models.Submission
	err := r.db.WithContext(ctx).
		Preload("Checks.Obligation").
		Preload("Period").
		Joins("JOIN submission_periods p ON p.id = submissions.period_id").
		Where("submissions.station_id = ?", stationID).
		Where(windowFilter).
		Order("p.year DESC, p.month DESC, p.period_number DESC").
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListForStation returns the station's submissions newest-first.
func (r *Repository) ListForStation(ctx context.Context, stationID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Submission, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Period").
		Where("station_id = ?", stationID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Submission
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListForCompany returns submissions of a company's stations, optionally
// filtered by status. Used for the company inbox.
func (r *Repository) ListForCompany(ctx context.Context, companyID uuid.UUID, status *enums.SubmissionStatus, cursor *pagination.Cursor, limit int) ([]models.Submission, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Period").
		Joins("JOIN stations s ON s.id = submissions.station_id").
		Where("s.company_id = ?", companyID).
		Order("submissions.created_at DESC, submissions.id DESC").
		Limit(limit)
	if status != nil {
		query = query.Where("submissions.status = ?", *status)
	}
	if cursor != nil {
		query = query.Where("(submissions.created_at, submissions.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Submission
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListForwarded returns submissions in the oversight queue, optionally
// filtered by status, oldest forward first so reviewers drain in order.
func (r *Repository) ListForwarded(ctx context.Context, status *enums.SubmissionStatus, limit int) ([]models.Submission, error) {
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	query := r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Period").
		Where("forwarded_at IS NOT NULL").
		Order("forwarded_at ASC, id ASC").
		Limit(limit)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var rows []models.Submission
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, submission *models.Submission) error {
	if submission == nil {
		return fmt.Errorf("submission is required")
	}
	return r.db.WithContext(ctx).Save(submission).Error
}

// FindCheck loads one answer row within a submission.
func (r *Repository) FindCheck(ctx context.Context, submissionID, obligationID uuid.UUID) (*models.SubmissionCheck, error) {
	var check models.SubmissionCheck
	err := r.db.WithContext(ctx).
		Where("submission_id = ? AND obligation_id = ?", submissionID, obligationID).
		First(&check).Error
	if err != nil {
		return nil, err
	}
	return &check, nil
}

func (r *Repository) UpdateCheck(ctx context.Context, check *models.SubmissionCheck) error {
	if check == nil {
		return fmt.Errorf("check is required")
	}
	return r.db.WithContext(ctx).Save(check).Error
}

// MarkForwarded stamps forwardedAt and the note on one submission,
// guarded against double-forwarding at the row level.
func (r *Repository) MarkForwarded(ctx context.Context, id uuid.UUID, at time.Time, note string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("id = ? AND status = ? AND forwarded_at IS NULL", id, enums.SubmissionStatusApproved).
		Updates(map[string]any{"forwarded_at": at, "forward_note": note})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
