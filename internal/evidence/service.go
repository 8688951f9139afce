package evidence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/internal/audit"
	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
)

const auditEntity = "evidence"

type evidenceRepository interface {
	Create(ctx context.Context, row *models.Evidence) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Evidence, error)
	ListForStation(ctx context.Context, stationID uuid.UUID, submissionID *uuid.UUID, limit int) ([]models.Evidence, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type stationFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Station, error)
}

type fileStore interface {
	ValidateContentType(contentType string) error
	Save(r io.Reader, originalName string) (string, int64, error)
	Open(key string) (io.ReadCloser, error)
	Delete(key string) error
}

// EvidenceDTO exposes evidence metadata in API responses.
type EvidenceDTO struct {
	ID           uuid.UUID  `json:"id"`
	StationID    uuid.UUID  `json:"station_id"`
	SubmissionID *uuid.UUID `json:"submission_id,omitempty"`
	ObligationID *uuid.UUID `json:"obligation_id,omitempty"`
	UploadedBy   uuid.UUID  `json:"uploaded_by"`
	FileName     string     `json:"file_name"`
	ContentType  string     `json:"content_type"`
	SizeBytes    int64      `json:"size_bytes"`
	CreatedAt    time.Time  `json:"created_at"`
}

// UploadInput accompanies one multipart file upload.
type UploadInput struct {
	StationID    uuid.UUID
	SubmissionID *uuid.UUID
	ObligationID *uuid.UUID
	FileName     string
	ContentType  string
	Body         io.Reader
}

// Download pairs evidence metadata with its content stream. The caller
// owns closing Body.
type Download struct {
	Meta EvidenceDTO
	Body io.ReadCloser
}

// Service exposes evidence upload, download and listing.
type Service interface {
	Upload(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, input UploadInput) (*EvidenceDTO, error)
	Open(ctx context.Context, companyScope *uuid.UUID, id uuid.UUID) (*Download, error)
	ListForStation(ctx context.Context, companyScope *uuid.UUID, stationID uuid.UUID, submissionID *uuid.UUID, limit int) ([]EvidenceDTO, error)
	Delete(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, id uuid.UUID) error
}

type service struct {
	repo     evidenceRepository
	stations stationFinder
	store    fileStore
	audit    *audit.Recorder
}

// NewService builds the evidence service.
func NewService(repo evidenceRepository, stations stationFinder, store fileStore, recorder *audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("evidence repository required")
	}
	if stations == nil {
		return nil, fmt.Errorf("station repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("file store required")
	}
	return &service{repo: repo, stations: stations, store: store, audit: recorder}, nil
}

func (s *service) Upload(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, input UploadInput) (*EvidenceDTO, error) {
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file name is required")
	}
	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file body is required")
	}
	if err := s.store.ValidateContentType(input.ContentType); err != nil {
		return nil, err
	}
	if err := s.checkStationScope(ctx, companyScope, input.StationID); err != nil {
		return nil, err
	}

	key, size, err := s.store.Save(input.Body, fileName)
	if err != nil {
		return nil, err
	}

	row := &models.Evidence{
		StationID:    input.StationID,
		SubmissionID: input.SubmissionID,
		ObligationID: input.ObligationID,
		UploadedBy:   actorID,
		FileName:     fileName,
		StorageKey:   key,
		ContentType:  input.ContentType,
		SizeBytes:    size,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		// Orphaned files are worse than a failed upload.
		_ = s.store.Delete(key)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record evidence")
	}

	s.audit.Record(ctx, actorID, enums.AuditActionCreate, auditEntity, row.ID, map[string]any{
		"file_name":  row.FileName,
		"station_id": row.StationID.String(),
	})
	return fromModel(row), nil
}

func (s *service) Open(ctx context.Context, companyScope *uuid.UUID, id uuid.UUID) (*Download, error) {
	row, err := s.loadScoped(ctx, companyScope, id)
	if err != nil {
		return nil, err
	}
	body, err := s.store.Open(row.StorageKey)
	if err != nil {
		return nil, err
	}
	return &Download{Meta: *fromModel(row), Body: body}, nil
}

func (s *service) ListForStation(ctx context.Context, companyScope *uuid.UUID, stationID uuid.UUID, submissionID *uuid.UUID, limit int) ([]EvidenceDTO, error) {
	if err := s.checkStationScope(ctx, companyScope, stationID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListForStation(ctx, stationID, submissionID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list evidence")
	}
	out := make([]EvidenceDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, id uuid.UUID) error {
	row, err := s.loadScoped(ctx, companyScope, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete evidence")
	}
	if err := s.store.Delete(row.StorageKey); err != nil {
		return err
	}
	s.audit.Record(ctx, actorID, enums.AuditActionDelete, auditEntity, id, nil)
	return nil
}

func (s *service) loadScoped(ctx context.Context, companyScope *uuid.UUID, id uuid.UUID) (*models.Evidence, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "evidence not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load evidence")
	}
	if err := s.checkStationScope(ctx, companyScope, row.StationID); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *service) checkStationScope(ctx context.Context, companyScope *uuid.UUID, stationID uuid.UUID) error {
	station, err := s.stations.FindByID(ctx, stationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "station not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load station")
	}
	if companyScope != nil && station.CompanyID != *companyScope {
		return pkgerrors.New(pkgerrors.CodeNotFound, "station not found")
	}
	return nil
}

func fromModel(m *models.Evidence) *EvidenceDTO {
	if m == nil {
		return nil
	}
	return &EvidenceDTO{
		ID:           m.ID,
		StationID:    m.StationID,
		SubmissionID: m.SubmissionID,
		ObligationID: m.ObligationID,
		UploadedBy:   m.UploadedBy,
		FileName:     m.FileName,
		ContentType:  m.ContentType,
		SizeBytes:    m.SizeBytes,
		CreatedAt:    m.CreatedAt,
	}
}
