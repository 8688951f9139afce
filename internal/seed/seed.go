package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/internal/periods"
	"github.com/fuelguard/fuelguard-backend/internal/stations"
	"github.com/fuelguard/fuelguard-backend/pkg/config"
	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
	"github.com/fuelguard/fuelguard-backend/pkg/rbac"
	"github.com/fuelguard/fuelguard-backend/pkg/security"
)

// DemoPassword is the shared password of every seeded account. Only meant
// for local and staging environments.
const DemoPassword = "Fuelguard!Demo2026"

// Seeder bootstraps demo data for local development and staging. Every
// step is idempotent, so re-running the command never duplicates rows.
type Seeder struct {
	db          *gorm.DB
	logg        *logger.Logger
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

func New(db *gorm.DB, logg *logger.Logger, passwordCfg config.PasswordConfig) (*Seeder, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Seeder{db: db, logg: logg, passwordCfg: passwordCfg, now: time.Now}, nil
}

// Run seeds companies, stations, users, the obligation catalog, the
// current month's periods, one draft submission and one open task.
func (s *Seeder) Run(ctx context.Context) error {
	companies, err := s.seedCompanies(ctx)
	if err != nil {
		return fmt.Errorf("seed companies: %w", err)
	}
	stationRows, err := s.seedStations(ctx, companies)
	if err != nil {
		return fmt.Errorf("seed stations: %w", err)
	}
	admin, err := s.seedUsers(ctx, companies, stationRows)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	catalog, err := s.seedCatalog(ctx)
	if err != nil {
		return fmt.Errorf("seed obligation catalog: %w", err)
	}
	period, err := s.seedPeriods(ctx)
	if err != nil {
		return fmt.Errorf("seed periods: %w", err)
	}
	if err := s.seedSubmission(ctx, stationRows[0], period, catalog); err != nil {
		return fmt.Errorf("seed submission: %w", err)
	}
	if err := s.seedTask(ctx, stationRows[0], admin); err != nil {
		return fmt.Errorf("seed task: %w", err)
	}
	s.logg.Info(ctx, "demo data seeded")
	return nil
}

func (s *Seeder) seedCompanies(ctx context.Context) ([]models.Company, error) {
	defs := []models.Company{
		{Name: "Hellenic Fuels S.A.", TaxID: "094276381", ContactEmail: "compliance@hellenicfuels.gr", ContactPhone: "+30 210 555 0101", Active: true},
		{Name: "Aegean Petroleum Group", TaxID: "099744123", ContactEmail: "ops@aegeanpetroleum.gr", ContactPhone: "+30 231 055 0202", Active: true},
	}
	out := make([]models.Company, 0, len(defs))
	for _, def := range defs {
		var row models.Company
		err := s.db.WithContext(ctx).
			Where("tax_id = ?", def.TaxID).
			Attrs(def).
			FirstOrCreate(&row).Error
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Seeder) seedStations(ctx context.Context, companies []models.Company) ([]models.Station, error) {
	defs := []models.Station{
		{CompanyID: companies[0].ID, Name: "Alpha Peiraias", AMDIKA: "GR-PIR-0417", Latitude: 37.9421, Longitude: 23.6465, StorageCapacityLiters: decimal.NewFromInt(120000), Active: true},
		{CompanyID: companies[0].ID, Name: "Alpha Glyfada", AMDIKA: "GR-GLF-0892", Latitude: 37.8622, Longitude: 23.7545, StorageCapacityLiters: decimal.NewFromInt(85000), Active: true},
		{CompanyID: companies[1].ID, Name: "Aegean Thessaloniki Port", AMDIKA: "GR-THE-1204", Latitude: 40.6321, Longitude: 22.9348, StorageCapacityLiters: decimal.NewFromInt(200000), Active: true},
	}
	out := make([]models.Station, 0, len(defs))
	for _, def := range defs {
		def.Slug = stations.Slugify(def.Name)
		var row models.Station
		err := s.db.WithContext(ctx).
			Where("company_id = ? AND name = ?", def.CompanyID, def.Name).
			Attrs(def).
			FirstOrCreate(&row).Error
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Seeder) seedUsers(ctx context.Context, companies []models.Company, stationRows []models.Station) (*models.User, error) {
	hash, err := security.HashPassword(DemoPassword, s.passwordCfg)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	defs := []models.User{
		{Email: "admin@fuelguard.gr", FullName: "System Administrator", Role: rbac.RoleSystemAdmin},
		{Email: "reviewer@customs.gr", FullName: "Eleni Papadaki", Role: rbac.RoleCustomsReviewer},
		{Email: "admin@hellenicfuels.gr", FullName: "Nikos Karras", Role: rbac.RoleCompanyAdmin, CompanyID: &companies[0].ID},
		{Email: "operator@hellenicfuels.gr", FullName: "Maria Antoniou", Role: rbac.RoleStationOperator, CompanyID: &companies[0].ID, StationID: &stationRows[0].ID},
		{Email: "admin@aegeanpetroleum.gr", FullName: "Giorgos Lemonis", Role: rbac.RoleCompanyAdmin, CompanyID: &companies[1].ID},
	}
	var admin models.User
	for _, def := range defs {
		def.PasswordHash = hash
		def.Active = true
		var row models.User
		err := s.db.WithContext(ctx).
			Where("email = ?", def.Email).
			Attrs(def).
			FirstOrCreate(&row).Error
		if err != nil {
			return nil, err
		}
		if row.Role == rbac.RoleSystemAdmin {
			admin = row
		}
	}
	return &admin, nil
}

func (s *Seeder) seedCatalog(ctx context.Context) ([]models.Obligation, error) {
	effectiveFrom := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	var version models.ObligationCatalogVersion
	err := s.db.WithContext(ctx).
		Where("label = ?", "2026.1").
		Attrs(models.ObligationCatalogVersion{Label: "2026.1", EffectiveFrom: &effectiveFrom, Active: true}).
		FirstOrCreate(&version).Error
	if err != nil {
		return nil, err
	}

	defs := []models.Obligation{
		{Code: "OBL-001", Title: "Inflow/outflow system operational", Description: "The station's metering system reports to the customs inflow/outflow registry.", FieldType: enums.ObligationFieldBoolean, Criticality: enums.CriticalityHigh, SortOrder: 1},
		{Code: "OBL-002", Title: "Tank calibration certificate", Description: "Calibration certificate for storage tanks, renewed annually.", FieldType: enums.ObligationFieldDate, Criticality: enums.CriticalityHigh, SortOrder: 2},
		{Code: "OBL-003", Title: "Fuel quality sampling", Description: "Latest fuel quality sample sent to the state chemistry lab.", FieldType: enums.ObligationFieldDate, Criticality: enums.CriticalityMedium, SortOrder: 3},
		{Code: "OBL-004", Title: "Fiscal memory sealed", Description: "Pump fiscal memory units carry intact customs seals.", FieldType: enums.ObligationFieldBoolean, Criticality: enums.CriticalityHigh, SortOrder: 4},
		{Code: "OBL-005", Title: "Licensed operator on record", Description: "Name of the licensed operator responsible for the station.", FieldType: enums.ObligationFieldText, Criticality: enums.CriticalityLow, SortOrder: 5},
		{Code: "OBL-006", Title: "Fire safety certificate", Description: "Fire department operating certificate for the premises.", FieldType: enums.ObligationFieldDate, Criticality: enums.CriticalityMedium, SortOrder: 6},
	}
	out := make([]models.Obligation, 0, len(defs))
	for _, def := range defs {
		def.CatalogVersionID = version.ID
		def.Active = true
		var row models.Obligation
		err := s.db.WithContext(ctx).
			Where("catalog_version_id = ? AND code = ?", version.ID, def.Code).
			Attrs(def).
			FirstOrCreate(&row).Error
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Seeder) seedPeriods(ctx context.Context) (*models.SubmissionPeriod, error) {
	now := s.now().UTC()
	repo := periods.NewRepository(s.db)
	if err := repo.Upsert(ctx, periods.WindowsFor(now.Year(), now.Month())); err != nil {
		return nil, err
	}
	current := periods.WindowAt(now)
	return repo.FindByKey(ctx, current.Year, current.Month, current.PeriodNumber)
}

func (s *Seeder) seedSubmission(ctx context.Context, station models.Station, period *models.SubmissionPeriod, catalog []models.Obligation) error {
	var submission models.Submission
	err := s.db.WithContext(ctx).
		Where("station_id = ? AND period_id = ?", station.ID, period.ID).
		Attrs(models.Submission{StationID: station.ID, PeriodID: period.ID, Status: enums.SubmissionStatusDraft}).
		FirstOrCreate(&submission).Error
	if err != nil {
		return err
	}
	for _, obligation := range catalog {
		var check models.SubmissionCheck
		err := s.db.WithContext(ctx).
			Where("submission_id = ? AND obligation_id = ?", submission.ID, obligation.ID).
			Attrs(models.SubmissionCheck{SubmissionID: submission.ID, ObligationID: obligation.ID}).
			FirstOrCreate(&check).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedTask(ctx context.Context, station models.Station, admin *models.User) error {
	var task models.Task
	return s.db.WithContext(ctx).
		Where("station_id = ? AND category = ?", station.ID, "demo_onboarding").
		Attrs(models.Task{
			StationID: station.ID,
			Type:      enums.TaskTypeAction,
			Severity:  enums.TaskSeverityMinor,
			Category:  "demo_onboarding",
			Status:    enums.TaskStatusAwaitingCompany,
			Title:     "Confirm station contact details",
			Detail:    "Verify the station phone number and responsible operator in the registry.",
			CreatedBy: admin.ID,
		}).
		FirstOrCreate(&task).Error
}

// BackfillStationSlugs assigns a slug to any station missing one. Older
// registry imports predate the slug column.
func BackfillStationSlugs(ctx context.Context, db *gorm.DB, logg *logger.Logger) error {
	var rows []models.Station
	if err := db.WithContext(ctx).Where("slug IS NULL OR slug = ''").Find(&rows).Error; err != nil {
		return err
	}
	for _, row := range rows {
		base := stations.Slugify(row.Name)
		slug := base
		for i := 2; ; i++ {
			var count int64
			if err := db.WithContext(ctx).Model(&models.Station{}).
				Where("slug = ? AND id <> ?", slug, row.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				break
			}
			slug = fmt.Sprintf("%s-%d", base, i)
		}
		if err := db.WithContext(ctx).Model(&models.Station{}).
			Where("id = ?", row.ID).
			Update("slug", slug).Error; err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "station_id", row.ID.String()), "station slug backfilled")
	}
	return nil
}
