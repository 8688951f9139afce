package compliance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/internal/periods"
	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
)

type stubComplianceSubmissions struct {
	byWindow map[string]*models.Submission
}

func windowKey(year, month, number int) string {
	return fmt.Sprintf("%04d-%02d-%d", year, month, number)
}

func (s *stubComplianceSubmissions) LatestForStationInWindows(_ context.Context, stationID uuid.UUID, windows []periods.Window) (*models.Submission, error) {
	for _, w := range windows {
		if sub, ok := s.byWindow[windowKey(w.Year, w.Month, w.PeriodNumber)]; ok && sub.StationID == stationID {
			return sub, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type stubComplianceStations struct {
	byID map[uuid.UUID]*models.Station
}

func (s *stubComplianceStations) FindByID(_ context.Context, id uuid.UUID) (*models.Station, error) {
	if station, ok := s.byID[id]; ok {
		return station, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubComplianceStations) ListActiveIDs(_ context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	return ids, nil
}

type complianceFixture struct {
	submissions *stubComplianceSubmissions
	stations    *stubComplianceStations
	svc         *service
}

func newComplianceFixture(t *testing.T, now time.Time) *complianceFixture {
	t.Helper()
	fx := &complianceFixture{
		submissions: &stubComplianceSubmissions{byWindow: map[string]*models.Submission{}},
		stations:    &stubComplianceStations{byID: map[uuid.UUID]*models.Station{}},
	}
	fx.svc = &service{
		submissions: fx.submissions,
		stations:    fx.stations,
		now:         func() time.Time { return now },
	}
	return fx
}

func (fx *complianceFixture) addStation(companyID uuid.UUID) *models.Station {
	station := &models.Station{ID: uuid.New(), CompanyID: companyID, Active: true}
	fx.stations.byID[station.ID] = station
	return station
}

func satisfiedSubmission(t *testing.T, stationID uuid.UUID) *models.Submission {
	t.Helper()
	return &models.Submission{
		ID:        uuid.New(),
		StationID: stationID,
		Status:    enums.SubmissionStatusApproved,
		Checks: []models.SubmissionCheck{
			checkWith(t, "OBL-001", enums.ObligationFieldBoolean, true, ""),
		},
	}
}

func TestForStationStaleSubmissionIsPendingReport(t *testing.T) {
	now := time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC)
	fx := newComplianceFixture(t, now)
	station := fx.addStation(uuid.New())

	// A fully satisfied report, but filed for a window over a year old.
	fx.submissions.byWindow[windowKey(2025, 1, 1)] = satisfiedSubmission(t, station.ID)

	got, err := fx.svc.ForStation(context.Background(), nil, station.ID)
	if err != nil {
		t.Fatalf("ForStation: %v", err)
	}
	if got.Status != enums.ComplianceStatusPendingReport {
		t.Fatalf("status %s, want PENDING_REPORT for a station with no submission in the required period", got.Status)
	}
	if len(got.Violations) != 0 {
		t.Fatalf("pending report carried %d violations", len(got.Violations))
	}
}

func TestForStationCurrentWindowSubmissionIsEvaluated(t *testing.T) {
	now := time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC)
	fx := newComplianceFixture(t, now)
	station := fx.addStation(uuid.New())

	// August 31 falls in the third window of the month.
	fx.submissions.byWindow[windowKey(2026, 8, 3)] = satisfiedSubmission(t, station.ID)

	got, err := fx.svc.ForStation(context.Background(), nil, station.ID)
	if err != nil {
		t.Fatalf("ForStation: %v", err)
	}
	if got.Status != enums.ComplianceStatusCompliant {
		t.Fatalf("status %s, want COMPLIANT", got.Status)
	}
}

func TestForStationPreviousWindowStillCounts(t *testing.T) {
	// Early in window P2, a report filed for P1 keeps the badge green.
	now := time.Date(2026, time.August, 12, 10, 0, 0, 0, time.UTC)
	fx := newComplianceFixture(t, now)
	station := fx.addStation(uuid.New())

	fx.submissions.byWindow[windowKey(2026, 8, 1)] = satisfiedSubmission(t, station.ID)

	got, err := fx.svc.ForStation(context.Background(), nil, station.ID)
	if err != nil {
		t.Fatalf("ForStation: %v", err)
	}
	if got.Status != enums.ComplianceStatusCompliant {
		t.Fatalf("status %s, want COMPLIANT for a previous-window report", got.Status)
	}
}

func TestForStationWindowRollsOverMonthBoundary(t *testing.T) {
	// September 1 sits in P1; the previous window is August P3.
	now := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)
	fx := newComplianceFixture(t, now)
	station := fx.addStation(uuid.New())

	fx.submissions.byWindow[windowKey(2026, 8, 3)] = satisfiedSubmission(t, station.ID)

	got, err := fx.svc.ForStation(context.Background(), nil, station.ID)
	if err != nil {
		t.Fatalf("ForStation: %v", err)
	}
	if got.Status != enums.ComplianceStatusCompliant {
		t.Fatalf("status %s, want COMPLIANT across the month boundary", got.Status)
	}
}

func TestForStationScopedToCompany(t *testing.T) {
	now := time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC)
	fx := newComplianceFixture(t, now)
	station := fx.addStation(uuid.New())
	otherCompany := uuid.New()

	_, err := fx.svc.ForStation(context.Background(), &otherCompany, station.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("got %v, want not found for out-of-scope station", err)
	}
}
