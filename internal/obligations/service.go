package obligations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/internal/audit"
	"github.com/fuelguard/fuelguard-backend/pkg/db"
	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
)

const auditEntity = "obligation"

type catalogRepository interface {
	ActiveVersion(ctx context.Context) (*models.ObligationCatalogVersion, error)
	ListVersions(ctx context.Context) ([]models.ObligationCatalogVersion, error)
	ListActiveForVersion(ctx context.Context, versionID uuid.UUID) ([]models.Obligation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Obligation, error)
	Create(ctx context.Context, obligation *models.Obligation) error
	Update(ctx context.Context, obligation *models.Obligation) error
	CreateVersion(ctx context.Context, version *models.ObligationCatalogVersion) error
	ActivateVersion(ctx context.Context, versionID uuid.UUID) error
}

// Service exposes the obligation catalog.
type Service interface {
	ListActive(ctx context.Context) ([]ObligationDTO, error)
	ListVersions(ctx context.Context) ([]CatalogVersionDTO, error)
	CreateObligation(ctx context.Context, actorID, versionID uuid.UUID, input CreateObligationInput) (*ObligationDTO, error)
	RetireObligation(ctx context.Context, actorID, id uuid.UUID) error
	CreateVersion(ctx context.Context, actorID uuid.UUID, label string, effectiveFrom *time.Time) (*CatalogVersionDTO, error)
	ActivateVersion(ctx context.Context, actorID, versionID uuid.UUID) error
}

type service struct {
	repo  catalogRepository
	audit *audit.Recorder
}

// NewService builds a catalog service with the provided repository.
func NewService(repo catalogRepository, recorder *audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, audit: recorder}, nil
}

// ListActive returns the obligations of the published catalog version.
func (s *service) ListActive(ctx context.Context) ([]ObligationDTO, error) {
	version, err := s.repo.ActiveVersion(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no active obligation catalog")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active catalog")
	}
	rows, err := s.repo.ListActiveForVersion(ctx, version.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list obligations")
	}
	return FromModels(rows), nil
}

func (s *service) ListVersions(ctx context.Context) ([]CatalogVersionDTO, error) {
	versions, err := s.repo.ListVersions(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalog versions")
	}
	out := make([]CatalogVersionDTO, 0, len(versions))
	for i := range versions {
		out = append(out, *versionFromModel(&versions[i]))
	}
	return out, nil
}

func (s *service) CreateObligation(ctx context.Context, actorID, versionID uuid.UUID, input CreateObligationInput) (*ObligationDTO, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	title := strings.TrimSpace(input.Title)
	if code == "" || title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code and title are required")
	}
	if !input.FieldType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown field type")
	}
	criticality := input.Criticality
	if criticality == "" {
		criticality = enums.CriticalityMedium
	}
	if !criticality.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown criticality")
	}

	obligation := &models.Obligation{
		CatalogVersionID: versionID,
		Code:             code,
		Title:            title,
		Description:      strings.TrimSpace(input.Description),
		FieldType:        input.FieldType,
		Criticality:      criticality,
		SortOrder:        input.SortOrder,
		Active:           true,
	}
	if err := s.repo.Create(ctx, obligation); err != nil {
		if db.IsUniqueViolation(err, "uq_obligations_version_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "obligation code already exists in this version")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create obligation")
	}

	s.audit.Record(ctx, actorID, enums.AuditActionCreate, auditEntity, obligation.ID, map[string]any{
		"code":       obligation.Code,
		"field_type": string(obligation.FieldType),
	})
	return FromModel(obligation), nil
}

// RetireObligation deactivates a catalog entry. Existing checks keep
// their reference; new submissions stop materializing it.
func (s *service) RetireObligation(ctx context.Context, actorID, id uuid.UUID) error {
	obligation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "obligation not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load obligation")
	}
	if !obligation.Active {
		return nil
	}
	obligation.Active = false
	if err := s.repo.Update(ctx, obligation); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retire obligation")
	}
	s.audit.Record(ctx, actorID, enums.AuditActionUpdate, auditEntity, obligation.ID, map[string]any{
		"active": map[string]any{"before": true, "after": false},
	})
	return nil
}

func (s *service) CreateVersion(ctx context.Context, actorID uuid.UUID, label string, effectiveFrom *time.Time) (*CatalogVersionDTO, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "label is required")
	}
	version := &models.ObligationCatalogVersion{
		Label:         label,
		EffectiveFrom: effectiveFrom,
		Active:        false,
	}
	if err := s.repo.CreateVersion(ctx, version); err != nil {
		if db.IsUniqueViolation(err, "obligation_catalog_versions_label_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "catalog version label already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create catalog version")
	}
	s.audit.Record(ctx, actorID, enums.AuditActionCreate, "obligation_catalog_version", version.ID, map[string]any{
		"label": version.Label,
	})
	return versionFromModel(version), nil
}

func (s *service) ActivateVersion(ctx context.Context, actorID, versionID uuid.UUID) error {
	if err := s.repo.ActivateVersion(ctx, versionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "catalog version not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate catalog version")
	}
	s.audit.Record(ctx, actorID, enums.AuditActionUpdate, "obligation_catalog_version", versionID, map[string]any{
		"active": map[string]any{"before": false, "after": true},
	})
	return nil
}
