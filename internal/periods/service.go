package periods

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
)

// PeriodDTO exposes a reporting window in API responses.
type PeriodDTO struct {
	ID           uuid.UUID `json:"id"`
	Year         int       `json:"year"`
	Month        int       `json:"month"`
	PeriodNumber int       `json:"period_number"`
	StartsOn     time.Time `json:"starts_on"`
	EndsOn       time.Time `json:"ends_on"`
	Deadline     time.Time `json:"deadline"`
}

type periodRepository interface {
	Upsert(ctx context.Context, windows []Window) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SubmissionPeriod, error)
	FindByKey(ctx context.Context, year, month, number int) (*models.SubmissionPeriod, error)
	ListForMonth(ctx context.Context, year, month int) ([]models.SubmissionPeriod, error)
	ListRecent(ctx context.Context, limit int) ([]models.SubmissionPeriod, error)
}

// Service exposes period generation and lookup.
type Service interface {
	Generate(ctx context.Context, year, month int) ([]PeriodDTO, error)
	Current(ctx context.Context, now time.Time) (*PeriodDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PeriodDTO, error)
	ListForMonth(ctx context.Context, year, month int) ([]PeriodDTO, error)
	ListRecent(ctx context.Context, limit int) ([]PeriodDTO, error)
}

type service struct {
	repo periodRepository
}

// NewService builds a period service with the provided repository.
func NewService(repo periodRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("period repository required")
	}
	return &service{repo: repo}, nil
}

// Generate materializes the month's three windows and returns them.
func (s *service) Generate(ctx context.Context, year, month int) ([]PeriodDTO, error) {
	if year < 2000 || year > 2100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "year out of range")
	}
	if month < 1 || month > 12 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "month out of range")
	}
	windows := WindowsFor(year, time.Month(month))
	if err := s.repo.Upsert(ctx, windows); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert periods")
	}
	return s.ListForMonth(ctx, year, month)
}

// Current resolves the persisted period containing the given instant,
// materializing the month on demand when it has not been generated yet.
func (s *service) Current(ctx context.Context, now time.Time) (*PeriodDTO, error) {
	w := WindowAt(now)
	period, err := s.repo.FindByKey(ctx, w.Year, w.Month, w.PeriodNumber)
	if err == nil {
		return fromModel(period), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load current period")
	}

	if err := s.repo.Upsert(ctx, WindowsFor(w.Year, time.Month(w.Month))); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "materialize current month")
	}
	period, err = s.repo.FindByKey(ctx, w.Year, w.Month, w.PeriodNumber)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load current period")
	}
	return fromModel(period), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*PeriodDTO, error) {
	period, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "period not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load period")
	}
	return fromModel(period), nil
}

func (s *service) ListForMonth(ctx context.Context, year, month int) ([]PeriodDTO, error) {
	rows, err := s.repo.ListForMonth(ctx, year, month)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list periods")
	}
	return fromModels(rows), nil
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]PeriodDTO, error) {
	rows, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent periods")
	}
	return fromModels(rows), nil
}

func fromModel(m *models.SubmissionPeriod) *PeriodDTO {
	if m == nil {
		return nil
	}
	return &PeriodDTO{
		ID:           m.ID,
		Year:         m.Year,
		Month:        m.Month,
		PeriodNumber: m.PeriodNumber,
		StartsOn:     m.StartsOn,
		EndsOn:       m.EndsOn,
		Deadline:     m.Deadline,
	}
}

func fromModels(rows []models.SubmissionPeriod) []PeriodDTO {
	out := make([]PeriodDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModel(&rows[i]))
	}
	return out
}
