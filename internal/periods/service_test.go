package periods

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
)

type stubPeriodRepo struct {
	upserted [][]Window
	byKey    map[string]*models.SubmissionPeriod
	byID     map[uuid.UUID]*models.SubmissionPeriod
	forMonth []models.SubmissionPeriod
	err      error
}

func periodKey(year, month, number int) string {
	return fmt.Sprintf("%04d-%02d-%d", year, month, number)
}

func (s *stubPeriodRepo) Upsert(_ context.Context, windows []Window) error {
	if s.err != nil {
		return s.err
	}
	s.upserted = append(s.upserted, windows)
	if s.byKey == nil {
		s.byKey = map[string]*models.SubmissionPeriod{}
	}
	for _, w := range windows {
		key := periodKey(w.Year, w.Month, w.PeriodNumber)
		if _, ok := s.byKey[key]; ok {
			continue
		}
		s.byKey[key] = &models.SubmissionPeriod{
			ID:           uuid.New(),
			Year:         w.Year,
			Month:        w.Month,
			PeriodNumber: w.PeriodNumber,
			StartsOn:     w.StartsOn,
			EndsOn:       w.EndsOn,
			Deadline:     w.Deadline,
		}
	}
	return nil
}

func (s *stubPeriodRepo) FindByID(_ context.Context, id uuid.UUID) (*models.SubmissionPeriod, error) {
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPeriodRepo) FindByKey(_ context.Context, year, month, number int) (*models.SubmissionPeriod, error) {
	if p, ok := s.byKey[periodKey(year, month, number)]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPeriodRepo) ListForMonth(_ context.Context, _, _ int) ([]models.SubmissionPeriod, error) {
	return s.forMonth, nil
}

func (s *stubPeriodRepo) ListRecent(_ context.Context, _ int) ([]models.SubmissionPeriod, error) {
	return s.forMonth, nil
}

func TestNewServiceRequiresRepository(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil repository")
	}
}

func TestGenerateValidatesRange(t *testing.T) {
	svc, err := NewService(&stubPeriodRepo{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	cases := []struct{ year, month int }{
		{1999, 6},
		{2101, 6},
		{2026, 0},
		{2026, 13},
	}
	for _, tc := range cases {
		_, gotErr := svc.Generate(context.Background(), tc.year, tc.month)
		typed := pkgerrors.As(gotErr)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Errorf("Generate(%d, %d): got %v, want validation error", tc.year, tc.month, gotErr)
		}
	}
}

func TestGenerateUpsertsThreeWindows(t *testing.T) {
	repo := &stubPeriodRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, err := svc.Generate(context.Background(), 2026, 7); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(repo.upserted) != 1 || len(repo.upserted[0]) != 3 {
		t.Fatalf("expected one upsert of three windows, got %v", repo.upserted)
	}
}

func TestGenerateWrapsRepositoryFailure(t *testing.T) {
	repo := &stubPeriodRepo{err: errors.New("db down")}
	svc, _ := NewService(repo)

	_, err := svc.Generate(context.Background(), 2026, 7)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("got %v, want dependency error", err)
	}
}

func TestCurrentMaterializesMissingMonth(t *testing.T) {
	repo := &stubPeriodRepo{}
	svc, _ := NewService(repo)

	now := time.Date(2026, time.August, 15, 9, 30, 0, 0, time.UTC)
	period, err := svc.Current(context.Background(), now)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if period.Year != 2026 || period.Month != 8 || period.PeriodNumber != 2 {
		t.Fatalf("Current resolved %d-%02d P%d, want 2026-08 P2", period.Year, period.Month, period.PeriodNumber)
	}
	if len(repo.upserted) != 1 {
		t.Fatalf("expected one materializing upsert, got %d", len(repo.upserted))
	}
}

func TestCurrentReusesExistingPeriod(t *testing.T) {
	repo := &stubPeriodRepo{}
	if err := repo.Upsert(context.Background(), WindowsFor(2026, time.August)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo.upserted = nil
	svc, _ := NewService(repo)

	now := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)
	period, err := svc.Current(context.Background(), now)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if period.PeriodNumber != 1 {
		t.Fatalf("resolved period %d, want 1", period.PeriodNumber)
	}
	if len(repo.upserted) != 0 {
		t.Fatal("Current wrote periods that already existed")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := NewService(&stubPeriodRepo{})

	_, err := svc.GetByID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("got %v, want not found", err)
	}
}
