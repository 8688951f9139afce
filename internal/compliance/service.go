package compliance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/internal/periods"
	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
)

type submissionFinder interface {
	LatestForStationInWindows(ctx context.Context, stationID uuid.UUID, windows []periods.Window) (*models.Submission, error)
}

type stationLister interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Station, error)
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StationCompliance pairs a station with its derived evaluation.
type StationCompliance struct {
	StationID  uuid.UUID              `json:"station_id"`
	Status     enums.ComplianceStatus `json:"status"`
	Violations []Violation            `json:"violations,omitempty"`
}

// Service derives compliance badges for dashboards.
type Service interface {
	ForStation(ctx context.Context, companyScope *uuid.UUID, stationID uuid.UUID) (*StationCompliance, error)
	ForStations(ctx context.Context, stationIDs []uuid.UUID) ([]StationCompliance, error)
}

type service struct {
	submissions submissionFinder
	stations    stationLister
	now         func() time.Time
}

// NewService builds the compliance service.
func NewService(submissions submissionFinder, stations stationLister) (Service, error) {
	if submissions == nil {
		return nil, fmt.Errorf("submission repository required")
	}
	if stations == nil {
		return nil, fmt.Errorf("station repository required")
	}
	return &service{
		submissions: submissions,
		stations:    stations,
		now:         time.Now,
	}, nil
}

func (s *service) ForStation(ctx context.Context, companyScope *uuid.UUID, stationID uuid.UUID) (*StationCompliance, error) {
	station, err := s.stations.FindByID(ctx, stationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "station not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load station")
	}
	if companyScope != nil && station.CompanyID != *companyScope {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "station not found")
	}

	result, err := s.evaluateStation(ctx, stationID)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) ForStations(ctx context.Context, stationIDs []uuid.UUID) ([]StationCompliance, error) {
	out := make([]StationCompliance, 0, len(stationIDs))
	for _, id := range stationIDs {
		result, err := s.evaluateStation(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *result)
	}
	return out, nil
}

// evaluateStation grades the station against the active reporting
// window, falling back to its immediate predecessor so a station is not
// marked pending the moment a new window opens. A submission from any
// older period does not count; the window lookup returns nothing and
// the station shows PENDING_REPORT.
func (s *service) evaluateStation(ctx context.Context, stationID uuid.UUID) (*StationCompliance, error) {
	now := s.now().UTC()
	current := periods.WindowAt(now)
	windows := []periods.Window{current, periods.PreviousWindow(current)}

	submission, err := s.submissions.LatestForStationInWindows(ctx, stationID, windows)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load latest submission")
	}

	eval := Evaluate(submission, now)
	return &StationCompliance{
		StationID:  stationID,
		Status:     eval.Status,
		Violations: eval.Violations,
	}, nil
}
