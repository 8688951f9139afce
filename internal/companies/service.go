package companies

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/internal/audit"
	"github.com/fuelguard/fuelguard-backend/pkg/db"
	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/pagination"
)

const auditEntity = "company"

type companyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Company, error)
	Update(ctx context.Context, company *models.Company) error
}

// Service exposes company registry operations.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateCompanyInput) (*CompanyDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CompanyDTO, error)
	List(ctx context.Context, params pagination.Params) ([]CompanyDTO, string, error)
	Update(ctx context.Context, actorID, id uuid.UUID, input UpdateCompanyInput) (*CompanyDTO, error)
	Deactivate(ctx context.Context, actorID, id uuid.UUID) error
}

type service struct {
	repo  companyRepository
	audit *audit.Recorder
}

// NewService builds a company service with the provided repository.
func NewService(repo companyRepository, recorder *audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("company repository required")
	}
	return &service{repo: repo, audit: recorder}, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateCompanyInput) (*CompanyDTO, error) {
	name := strings.TrimSpace(input.Name)
	taxID := strings.TrimSpace(input.TaxID)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name is required")
	}
	if taxID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax id is required")
	}

	company := &models.Company{
		Name:         name,
		TaxID:        taxID,
		ContactEmail: strings.TrimSpace(input.ContactEmail),
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		Active:       true,
	}
	if err := s.repo.Create(ctx, company); err != nil {
		if db.IsUniqueViolation(err, "companies_tax_id_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a company with this tax id already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create company")
	}

	s.audit.Record(ctx, actorID, enums.AuditActionCreate, auditEntity, company.ID, map[string]any{
		"name":   company.Name,
		"tax_id": company.TaxID,
	})
	return FromModel(company), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*CompanyDTO, error) {
	company, err := s.findCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(company), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]CompanyDTO, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, cursor, limit+1)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list companies")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return FromModels(rows), next, nil
}

func (s *service) Update(ctx context.Context, actorID, id uuid.UUID, input UpdateCompanyInput) (*CompanyDTO, error) {
	company, err := s.findCompany(ctx, id)
	if err != nil {
		return nil, err
	}

	before := map[string]any{
		"name":          company.Name,
		"contact_email": company.ContactEmail,
		"contact_phone": company.ContactPhone,
		"active":        company.Active,
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name cannot be empty")
		}
		company.Name = name
	}
	if input.ContactEmail != nil {
		company.ContactEmail = strings.TrimSpace(*input.ContactEmail)
	}
	if input.ContactPhone != nil {
		company.ContactPhone = strings.TrimSpace(*input.ContactPhone)
	}
	if input.Active != nil {
		company.Active = *input.Active
	}

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update company")
	}

	after := map[string]any{
		"name":          company.Name,
		"contact_email": company.ContactEmail,
		"contact_phone": company.ContactPhone,
		"active":        company.Active,
	}
	if diff := audit.FieldDiff(before, after); diff != nil {
		s.audit.Record(ctx, actorID, enums.AuditActionUpdate, auditEntity, company.ID, diff)
	}
	return FromModel(company), nil
}

func (s *service) Deactivate(ctx context.Context, actorID, id uuid.UUID) error {
	company, err := s.findCompany(ctx, id)
	if err != nil {
		return err
	}
	if !company.Active {
		return nil
	}
	company.Active = false
	if err := s.repo.Update(ctx, company); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate company")
	}
	s.audit.Record(ctx, actorID, enums.AuditActionUpdate, auditEntity, company.ID, map[string]any{
		"active": map[string]any{"before": true, "after": false},
	})
	return nil
}

func (s *service) findCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	return company, nil
}
