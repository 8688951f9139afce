package stations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/internal/audit"
	"github.com/fuelguard/fuelguard-backend/pkg/db"
	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/pagination"
)

const auditEntity = "station"

type stationRepository interface {
	Create(ctx context.Context, station *models.Station) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Station, error)
	CountWithSlugPrefix(ctx context.Context, slug string) (int64, error)
	List(ctx context.Context, companyID *uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Station, error)
	Update(ctx context.Context, station *models.Station) error
}

type companyChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

// Service exposes station registry operations. companyScope restricts
// reads and writes to one company for company-bound actors; nil means
// unrestricted (customs and system roles).
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateStationInput) (*StationDTO, error)
	GetByID(ctx context.Context, companyScope *uuid.UUID, id uuid.UUID) (*StationDTO, error)
	List(ctx context.Context, companyScope *uuid.UUID, companyID *uuid.UUID, params pagination.Params) ([]StationDTO, string, error)
	Update(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, id uuid.UUID, input UpdateStationInput) (*StationDTO, error)
	Deactivate(ctx context.Context, actorID, id uuid.UUID) error
}

type service struct {
	repo      stationRepository
	companies companyChecker
	audit     *audit.Recorder
}

// NewService builds a station service with the provided repositories.
func NewService(repo stationRepository, companies companyChecker, recorder *audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("station repository required")
	}
	if companies == nil {
		return nil, fmt.Errorf("company repository required")
	}
	return &service{repo: repo, companies: companies, audit: recorder}, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateStationInput) (*StationDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "station name is required")
	}
	if input.CompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}

	company, err := s.companies.FindByID(ctx, input.CompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	if !company.Active {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "company is inactive")
	}

	slug, err := s.allocateSlug(ctx, name)
	if err != nil {
		return nil, err
	}

	station := &models.Station{
		CompanyID:             input.CompanyID,
		Name:                  name,
		Slug:                  slug,
		AMDIKA:                strings.TrimSpace(input.AMDIKA),
		Latitude:              input.Latitude,
		Longitude:             input.Longitude,
		StorageCapacityLiters: input.StorageCapacityLiters,
		Active:                true,
	}
	if err := s.repo.Create(ctx, station); err != nil {
		if db.IsUniqueViolation(err, "stations_slug_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "station slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create station")
	}

	s.audit.Record(ctx, actorID, enums.AuditActionCreate, auditEntity, station.ID, map[string]any{
		"name":       station.Name,
		"slug":       station.Slug,
		"company_id": station.CompanyID.String(),
	})
	return FromModel(station), nil
}

func (s *service) GetByID(ctx context.Context, companyScope *uuid.UUID, id uuid.UUID) (*StationDTO, error) {
	station, err := s.findStation(ctx, id)
	if err != nil {
		return nil, err
	}
	if companyScope != nil && station.CompanyID != *companyScope {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "station not found")
	}
	return FromModel(station), nil
}

func (s *service) List(ctx context.Context, companyScope *uuid.UUID, companyID *uuid.UUID, params pagination.Params) ([]StationDTO, string, error) {
	// Company-bound actors only ever see their own company.
	filter := companyID
	if companyScope != nil {
		filter = companyScope
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, filter, cursor, limit+1)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stations")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return FromModels(rows), next, nil
}

func (s *service) Update(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, id uuid.UUID, input UpdateStationInput) (*StationDTO, error) {
	station, err := s.findStation(ctx, id)
	if err != nil {
		return nil, err
	}
	if companyScope != nil && station.CompanyID != *companyScope {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "station not found")
	}

	before := snapshot(station)

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "station name cannot be empty")
		}
		station.Name = name
	}
	if input.AMDIKA != nil {
		station.AMDIKA = strings.TrimSpace(*input.AMDIKA)
	}
	if input.Latitude != nil {
		station.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		station.Longitude = *input.Longitude
	}
	if input.StorageCapacityLiters != nil {
		if input.StorageCapacityLiters.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage capacity cannot be negative")
		}
		station.StorageCapacityLiters = *input.StorageCapacityLiters
	}
	if input.Active != nil {
		station.Active = *input.Active
	}

	if err := s.repo.Update(ctx, station); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update station")
	}

	if diff := audit.FieldDiff(before, snapshot(station)); diff != nil {
		s.audit.Record(ctx, actorID, enums.AuditActionUpdate, auditEntity, station.ID, diff)
	}
	return FromModel(station), nil
}

func (s *service) Deactivate(ctx context.Context, actorID, id uuid.UUID) error {
	station, err := s.findStation(ctx, id)
	if err != nil {
		return err
	}
	if !station.Active {
		return nil
	}
	station.Active = false
	if err := s.repo.Update(ctx, station); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate station")
	}
	s.audit.Record(ctx, actorID, enums.AuditActionUpdate, auditEntity, station.ID, map[string]any{
		"active": map[string]any{"before": true, "after": false},
	})
	return nil
}

func (s *service) findStation(ctx context.Context, id uuid.UUID) (*models.Station, error) {
	station, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "station not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load station")
	}
	return station, nil
}

// allocateSlug derives a URL-safe slug from the station name, appending
// a numeric suffix when the base slug is taken.
func (s *service) allocateSlug(ctx context.Context, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "station"
	}
	count, err := s.repo.CountWithSlugPrefix(ctx, base)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate slug")
	}
	if count == 0 {
		return base, nil
	}
	return fmt.Sprintf("%s-%d", base, count+1), nil
}

// Slugify lowercases and strips the name down to ASCII letters, digits
// and hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) && r < unicode.MaxASCII, unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func snapshot(m *models.Station) map[string]any {
	return map[string]any{
		"name":                    m.Name,
		"amdika":                  m.AMDIKA,
		"latitude":                m.Latitude,
		"longitude":               m.Longitude,
		"storage_capacity_liters": m.StorageCapacityLiters.String(),
		"active":                  m.Active,
	}
}
