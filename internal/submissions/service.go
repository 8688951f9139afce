package submissions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/internal/audit"
	"github.com/fuelguard/fuelguard-backend/internal/obligations"
	"github.com/fuelguard/fuelguard-backend/internal/periods"
	"github.com/fuelguard/fuelguard-backend/pkg/db"
	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/pagination"
)

const auditEntity = "submission"

type submissionRepository interface {
	CreateWithChecks(ctx context.Context, submission *models.Submission, checks []models.SubmissionCheck) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	FindByStationAndPeriod(ctx context.Context, stationID, periodID uuid.UUID) (*models.Submission, error)
	ListForStation(ctx context.Context, stationID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Submission, error)
	ListForCompany(ctx context.Context, companyID uuid.UUID, status *enums.SubmissionStatus, cursor *pagination.Cursor, limit int) ([]models.Submission, error)
	ListForwarded(ctx context.Context, status *enums.SubmissionStatus, limit int) ([]models.Submission, error)
	Update(ctx context.Context, submission *models.Submission) error
	FindCheck(ctx context.Context, submissionID, obligationID uuid.UUID) (*models.SubmissionCheck, error)
	UpdateCheck(ctx context.Context, check *models.SubmissionCheck) error
	MarkForwarded(ctx context.Context, id uuid.UUID, at time.Time, note string) (bool, error)
}

type stationFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Station, error)
}

type obligationLister interface {
	ListActive(ctx context.Context) ([]obligations.ObligationDTO, error)
}

type periodResolver interface {
	Current(ctx context.Context, now time.Time) (*periods.PeriodDTO, error)
}

// RejectionHook runs after a customs rejection, typically to open a
// follow-up task. The submission is already persisted when it fires.
type RejectionHook func(ctx context.Context, actorID uuid.UUID, submission *models.Submission, reason string) error

// Service drives the submission lifecycle.
type Service interface {
	Ensure(ctx context.Context, actorID, stationID uuid.UUID, companyScope, stationScope *uuid.UUID) (*SubmissionDTO, error)
	GetByID(ctx context.Context, companyScope *uuid.UUID, id uuid.UUID) (*SubmissionDTO, error)
	ListForStation(ctx context.Context, companyScope *uuid.UUID, stationID uuid.UUID, params pagination.Params) ([]SubmissionDTO, string, error)
	Inbox(ctx context.Context, companyID uuid.UUID, status *enums.SubmissionStatus, params pagination.Params) ([]SubmissionDTO, string, error)
	OversightQueue(ctx context.Context, status *enums.SubmissionStatus, limit int) ([]SubmissionDTO, error)

	UpdateCheck(ctx context.Context, actorID uuid.UUID, companyScope, stationScope *uuid.UUID, submissionID uuid.UUID, input UpdateCheckInput) (*SubmissionDTO, error)
	Submit(ctx context.Context, actorID uuid.UUID, companyScope, stationScope *uuid.UUID, id uuid.UUID) (*SubmissionDTO, error)
	Recall(ctx context.Context, actorID uuid.UUID, companyScope, stationScope *uuid.UUID, id uuid.UUID) (*SubmissionDTO, error)
	StartReview(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, id uuid.UUID) (*SubmissionDTO, error)
	Approve(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, id uuid.UUID) (*SubmissionDTO, error)
	Return(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, id uuid.UUID, reason string) (*SubmissionDTO, error)
	Reopen(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, id uuid.UUID) (*SubmissionDTO, error)
	ForwardBulk(ctx context.Context, actorID, companyID uuid.UUID, input ForwardBulkInput) (*ForwardBulkResult, error)
	OversightDecision(ctx context.Context, actorID, id uuid.UUID, approve bool, reason string) (*SubmissionDTO, error)
}

type service struct {
	repo        submissionRepository
	stations    stationFinder
	obligations obligationLister
	periods     periodResolver
	audit       *audit.Recorder
	onRejection RejectionHook
	now         func() time.Time
}

// NewService builds the submission service. rejectionHook may be nil.
func NewService(repo submissionRepository, stations stationFinder, catalog obligationLister, periodSvc periodResolver, recorder *audit.Recorder, rejectionHook RejectionHook) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("submission repository required")
	}
	if stations == nil {
		return nil, fmt.Errorf("station repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("obligation catalog required")
	}
	if periodSvc == nil {
		return nil, fmt.Errorf("period service required")
	}
	return &service{
		repo:        repo,
		stations:    stations,
		obligations: catalog,
		periods:     periodSvc,
		audit:       recorder,
		onRejection: rejectionHook,
		now:         time.Now,
	}, nil
}

// Ensure fetches or creates the station's DRAFT submission for the
// current period, pre-populating one empty check per active obligation.
func (s *service) Ensure(ctx context.Context, actorID, stationID uuid.UUID, companyScope, stationScope *uuid.UUID) (*SubmissionDTO, error) {
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
	if stationScope != nil && station.ID != *stationScope {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "station operators may only report for their own station")
	}
	if !station.Active {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "station is inactive")
	}

	period, err := s.periods.Current(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByStationAndPeriod(ctx, stationID, period.ID)
	if err == nil {
		return FromModel(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submission")
	}

	catalog, err := s.obligations.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	submission := &models.Submission{
		StationID: stationID,
		PeriodID:  period.ID,
		Status:    enums.SubmissionStatusDraft,
	}
	checks := make([]models.SubmissionCheck, 0, len(catalog))
	for _, obligation := range catalog {
		checks = append(checks, models.SubmissionCheck{
			ObligationID: obligation.ID,
		})
	}
	if err := s.repo.CreateWithChecks(ctx, submission, checks); err != nil {
		// A concurrent ensure for the same window hits the unique
		// constraint; the row it created is the answer.
		if db.IsUniqueViolation(err, "uq_submissions_station_period") {
			existing, findErr := s.repo.FindByStationAndPeriod(ctx, stationID, period.ID)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load submission")
			}
			return FromModel(existing), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create submission")
	}

	s.audit.Record(ctx, actorID, enums.AuditActionCreate, auditEntity, submission.ID, map[string]any{
		"station_id": stationID.String(),
		"period_id":  period.ID.String(),
	})

	created, err := s.repo.FindByID(ctx, submission.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload submission")
	}
	return FromModel(created), nil
}

func (s *service) GetByID(ctx context.Context, companyScope *uuid.UUID, id uuid.UUID) (*SubmissionDTO, error) {
	submission, err := s.loadScoped(ctx, companyScope, id)
	if err != nil {
		return nil, err
	}
	return FromModel(submission), nil
}

func (s *service) ListForStation(ctx context.Context, companyScope *uuid.UUID, stationID uuid.UUID, params pagination.Params) ([]SubmissionDTO, string, error) {
	station, err := s.stations.FindByID(ctx, stationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "station not found")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load station")
	}
	if companyScope != nil && station.CompanyID != *companyScope {
		return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "station not found")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListForStation(ctx, stationID, cursor, limit+1)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list submissions")
	}
	return paginate(rows, limit)
}

// Inbox lists a company's submissions awaiting attention.
func (s *service) Inbox(ctx context.Context, companyID uuid.UUID, status *enums.SubmissionStatus, params pagination.Params) ([]SubmissionDTO, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListForCompany(ctx, companyID, status, cursor, limit+1)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list company submissions")
	}
	return paginate(rows, limit)
}

// OversightQueue lists forwarded submissions for customs review.
func (s *service) OversightQueue(ctx context.Context, status *enums.SubmissionStatus, limit int) ([]SubmissionDTO, error) {
	rows, err := s.repo.ListForwarded(ctx, status, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list oversight queue")
	}
	return FromModels(rows), nil
}

// UpdateCheck records an answer. Only DRAFT submissions are editable,
// and a station operator may only touch their own station's draft.
func (s *service) UpdateCheck(ctx context.Context, actorID uuid.UUID, companyScope, stationScope *uuid.UUID, submissionID uuid.UUID, input UpdateCheckInput) (*SubmissionDTO, error) {
	submission, err := s.loadStationScoped(ctx, companyScope, stationScope, submissionID)
	if err != nil {
		return nil, err
	}
	if !submission.Editable() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checks can only be edited while the submission is a draft")
	}

	check, err := s.repo.FindCheck(ctx, submissionID, input.ObligationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "check not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load check")
	}

	if input.ValidUntil != "" {
		if _, err := time.Parse("2006-01-02", input.ValidUntil); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid_until must be a YYYY-MM-DD date")
		}
	}

	if input.Value != nil || input.ValidUntil != "" {
		raw, err := json.Marshal(storedValue{Value: input.Value, ValidUntil: input.ValidUntil})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode check value")
		}
		check.Value = datatypes.JSON(raw)
	}
	if input.Notes != nil {
		check.Notes = strings.TrimSpace(*input.Notes)
	}

	if err := s.repo.UpdateCheck(ctx, check); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update check")
	}

	s.audit.Record(ctx, actorID, enums.AuditActionUpdate, "submission_check", check.ID, map[string]any{
		"submission_id": submissionID.String(),
		"obligation_id": input.ObligationID.String(),
	})
	return s.GetByID(ctx, companyScope, submissionID)
}

// Submit moves DRAFT to SUBMITTED. Every check must carry a value; the
// incomplete obligation codes come back in the error details.
func (s *service) Submit(ctx context.Context, actorID uuid.UUID, companyScope, stationScope *uuid.UUID, id uuid.UUID) (*SubmissionDTO, error) {
	submission, err := s.loadStationScoped(ctx, companyScope, stationScope, id)
	if err != nil {
		return nil, err
	}
	if submission.Status != enums.SubmissionStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only draft submissions can be submitted")
	}

	if missing := incompleteChecks(submission); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "all checks must be completed before submitting").
			WithDetails(map[string]any{"incomplete": missing})
	}

	now := s.now().UTC()
	from := submission.Status
	submission.Status = enums.SubmissionStatusSubmitted
	submission.SubmittedAt = &now
	submission.ReturnReason = ""
	if err := s.repo.Update(ctx, submission); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit submission")
	}
	s.audit.Transition(ctx, actorID, auditEntity, submission.ID, string(from), string(submission.Status), nil)
	return FromModel(submission), nil
}

// Recall pulls a SUBMITTED submission back to DRAFT before company
// review has started.
func (s *service) Recall(ctx context.Context, actorID uuid.UUID, companyScope, stationScope *uuid.UUID, id uuid.UUID) (*SubmissionDTO, error) {
	submission, err := s.loadStationScoped(ctx, companyScope, stationScope, id)
	if err != nil {
		return nil, err
	}
	if submission.Status != enums.SubmissionStatusSubmitted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only submitted submissions can be recalled")
	}

	from := submission.Status
	submission.Status = enums.SubmissionStatusDraft
	submission.SubmittedAt = nil
	if err := s.repo.Update(ctx, submission); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recall submission")
	}
	s.audit.Transition(ctx, actorID, auditEntity, submission.ID, string(from), string(submission.Status), nil)
	return FromModel(submission), nil
}

// StartReview moves SUBMITTED to UNDER_REVIEW.
func (s *service) StartReview(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, id uuid.UUID) (*SubmissionDTO, error) {
	submission, err := s.loadScoped(ctx, companyScope, id)
	if err != nil {
		return nil, err
	}
	if submission.Status != enums.SubmissionStatusSubmitted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only submitted submissions can enter review")
	}

	now := s.now().UTC()
	from := submission.Status
	submission.Status = enums.SubmissionStatusUnderReview
	submission.ReviewedAt = &now
	if err := s.repo.Update(ctx, submission); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start review")
	}
	s.audit.Transition(ctx, actorID, auditEntity, submission.ID, string(from), string(submission.Status), nil)
	return FromModel(submission), nil
}

// Approve moves UNDER_REVIEW to APPROVED.
func (s *service) Approve(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, id uuid.UUID) (*SubmissionDTO, error) {
	submission, err := s.loadScoped(ctx, companyScope, id)
	if err != nil {
		return nil, err
	}
	if submission.Status != enums.SubmissionStatusUnderReview {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only submissions under review can be approved")
	}

	now := s.now().UTC()
	from := submission.Status
	submission.Status = enums.SubmissionStatusApproved
	submission.DecidedAt = &now
	if err := s.repo.Update(ctx, submission); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve submission")
	}
	s.audit.Transition(ctx, actorID, auditEntity, submission.ID, string(from), string(submission.Status), nil)
	return FromModel(submission), nil
}

// Return sends UNDER_REVIEW back to DRAFT with a mandatory reason.
func (s *service) Return(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, id uuid.UUID, reason string) (*SubmissionDTO, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a return reason is required")
	}

	submission, err := s.loadScoped(ctx, companyScope, id)
	if err != nil {
		return nil, err
	}
	if submission.Status != enums.SubmissionStatusUnderReview {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only submissions under review can be returned")
	}

	from := submission.Status
	submission.Status = enums.SubmissionStatusDraft
	submission.SubmittedAt = nil
	submission.ReviewedAt = nil
	submission.ReturnReason = reason
	if err := s.repo.Update(ctx, submission); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "return submission")
	}
	s.audit.Transition(ctx, actorID, auditEntity, submission.ID, string(from), string(submission.Status), map[string]any{"reason": reason})
	return FromModel(submission), nil
}

// Reopen brings a terminal submission back to DRAFT. Forwarded
// submissions belong to customs and stay closed on the company side.
func (s *service) Reopen(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, id uuid.UUID) (*SubmissionDTO, error) {
	submission, err := s.loadScoped(ctx, companyScope, id)
	if err != nil {
		return nil, err
	}
	if !submission.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only approved or rejected submissions can be reopened")
	}
	if submission.Forwarded() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "forwarded submissions cannot be reopened by the company")
	}

	from := submission.Status
	submission.Status = enums.SubmissionStatusDraft
	submission.SubmittedAt = nil
	submission.ReviewedAt = nil
	submission.DecidedAt = nil
	if err := s.repo.Update(ctx, submission); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reopen submission")
	}
	s.audit.Transition(ctx, actorID, auditEntity, submission.ID, string(from), string(submission.Status), nil)
	return FromModel(submission), nil
}

// ForwardBulk sends the company's approved submissions to the oversight
// queue. Already-forwarded and out-of-state rows are skipped, never
// duplicated.
func (s *service) ForwardBulk(ctx context.Context, actorID, companyID uuid.UUID, input ForwardBulkInput) (*ForwardBulkResult, error) {
	if len(input.SubmissionIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one submission id is required")
	}

	now := s.now().UTC()
	result := &ForwardBulkResult{}
	for _, id := range input.SubmissionIDs {
		submission, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submission")
		}

		station, err := s.stations.FindByID(ctx, submission.StationID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load station")
		}
		if station.CompanyID != companyID {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		if submission.Forwarded() {
			result.AlreadyForwarded = append(result.AlreadyForwarded, id)
			continue
		}

		forwarded, err := s.repo.MarkForwarded(ctx, id, now, input.Notes[id])
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "forward submission")
		}
		if !forwarded {
			// Lost a race or not APPROVED. Either way nothing happened.
			result.Skipped = append(result.Skipped, id)
			continue
		}
		result.Forwarded = append(result.Forwarded, id)
		s.audit.Record(ctx, actorID, enums.AuditActionUpdate, auditEntity, id, map[string]any{
			"forwarded_at": now.Format(time.RFC3339),
		})
	}
	return result, nil
}

// OversightDecision lets customs approve or reject a forwarded
// submission. A rejection fires the hook so a task can be opened.
func (s *service) OversightDecision(ctx context.Context, actorID, id uuid.UUID, approve bool, reason string) (*SubmissionDTO, error) {
	submission, err := s.loadScoped(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if !submission.Forwarded() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "submission is not in the oversight queue")
	}

	from := submission.Status
	now := s.now().UTC()
	if approve {
		submission.Status = enums.SubmissionStatusApproved
	} else {
		if strings.TrimSpace(reason) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a rejection reason is required")
		}
		submission.Status = enums.SubmissionStatusRejected
		submission.ReturnReason = strings.TrimSpace(reason)
	}
	submission.DecidedAt = &now

	if err := s.repo.Update(ctx, submission); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record decision")
	}
	s.audit.Transition(ctx, actorID, auditEntity, submission.ID, string(from), string(submission.Status), nil)

	if !approve && s.onRejection != nil {
		if err := s.onRejection(ctx, actorID, submission, submission.ReturnReason); err != nil {
			return nil, err
		}
	}
	return FromModel(submission), nil
}

func (s *service) loadScoped(ctx context.Context, companyScope *uuid.UUID, id uuid.UUID) (*models.Submission, error) {
	submission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submission")
	}
	if companyScope != nil {
		station, err := s.stations.FindByID(ctx, submission.StationID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load station")
		}
		if station.CompanyID != *companyScope {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
		}
	}
	return submission, nil
}

// loadStationScoped additionally pins the submission to the actor's own
// station. Company admins carry no station scope and pass through.
func (s *service) loadStationScoped(ctx context.Context, companyScope, stationScope *uuid.UUID, id uuid.UUID) (*models.Submission, error) {
	submission, err := s.loadScoped(ctx, companyScope, id)
	if err != nil {
		return nil, err
	}
	if stationScope != nil && submission.StationID != *stationScope {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "station operators may only act on their own station's submissions")
	}
	return submission, nil
}

// incompleteChecks returns the obligation codes whose answers are still
// empty, per field type.
func incompleteChecks(submission *models.Submission) []string {
	var missing []string
	for i := range submission.Checks {
		check := &submission.Checks[i]
		if checkComplete(check) {
			continue
		}
		if check.Obligation != nil {
			missing = append(missing, check.Obligation.Code)
		} else {
			missing = append(missing, check.ObligationID.String())
		}
	}
	return missing
}

func checkComplete(check *models.SubmissionCheck) bool {
	if len(check.Value) == 0 {
		return false
	}
	var stored storedValue
	if err := json.Unmarshal(check.Value, &stored); err != nil {
		return false
	}

	fieldType := enums.ObligationFieldBoolean
	if check.Obligation != nil {
		fieldType = check.Obligation.FieldType
	}
	switch fieldType {
	case enums.ObligationFieldBoolean:
		_, ok := stored.Value.(bool)
		return ok
	case enums.ObligationFieldDate:
		return stored.ValidUntil != ""
	case enums.ObligationFieldText:
		s, ok := stored.Value.(string)
		return ok && strings.TrimSpace(s) != ""
	}
	return false
}

func paginate(rows []models.Submission, limit int) ([]SubmissionDTO, string, error) {
	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return FromModels(rows), next, nil
}
