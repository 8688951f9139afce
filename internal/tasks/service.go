package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/internal/audit"
	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
)

const auditEntity = "task"

type taskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, filter ListFilter, companyID *uuid.UUID, limit int) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	CreateMessage(ctx context.Context, message *models.TaskMessage) error
}

type stationFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Station, error)
}

// Service exposes the task and ticket subsystem.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateTaskInput) (*TaskDTO, error)
	GetByID(ctx context.Context, companyScope *uuid.UUID, id uuid.UUID) (*TaskDTO, error)
	List(ctx context.Context, companyScope *uuid.UUID, filter ListFilter, limit int) ([]TaskDTO, error)
	Transition(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, id uuid.UUID, next enums.TaskStatus, canManage bool) (*TaskDTO, error)
	AddMessage(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, id uuid.UUID, body string) (*TaskDTO, error)
}

type service struct {
	repo     taskRepository
	stations stationFinder
	audit    *audit.Recorder
}

// NewService builds the task service.
func NewService(repo taskRepository, stations stationFinder, recorder *audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("task repository required")
	}
	if stations == nil {
		return nil, fmt.Errorf("station repository required")
	}
	return &service{repo: repo, stations: stations, audit: recorder}, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateTaskInput) (*TaskDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "task title is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown task type")
	}
	if !input.Severity.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown task severity")
	}

	if _, err := s.stations.FindByID(ctx, input.StationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "station not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load station")
	}

	task := &models.Task{
		StationID:    input.StationID,
		SubmissionID: input.SubmissionID,
		Type:         input.Type,
		Severity:     input.Severity,
		Category:     strings.TrimSpace(input.Category),
		Status:       enums.TaskStatusAwaitingCompany,
		Title:        title,
		Detail:       strings.TrimSpace(input.Detail),
		DueDate:      input.DueDate,
		CreatedBy:    actorID,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create task")
	}

	s.audit.Record(ctx, actorID, enums.AuditActionCreate, auditEntity, task.ID, map[string]any{
		"type":     string(task.Type),
		"severity": string(task.Severity),
		"title":    task.Title,
	})
	return FromModel(task), nil
}

func (s *service) GetByID(ctx context.Context, companyScope *uuid.UUID, id uuid.UUID) (*TaskDTO, error) {
	task, err := s.loadScoped(ctx, companyScope, id)
	if err != nil {
		return nil, err
	}
	return FromModel(task), nil
}

func (s *service) List(ctx context.Context, companyScope *uuid.UUID, filter ListFilter, limit int) ([]TaskDTO, error) {
	rows, err := s.repo.List(ctx, filter, companyScope, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tasks")
	}
	return FromModels(rows), nil
}

// Transition advances the task workflow, rejecting jumps the state
// machine does not allow. Moving a task into review or closing it is a
// customs action and needs the manage grant; a company responder only
// marks the task responded or escalates it.
func (s *service) Transition(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, id uuid.UUID, next enums.TaskStatus, canManage bool) (*TaskDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown task status")
	}
	if !canManage && (next == enums.TaskStatusInReview || next == enums.TaskStatusClosed) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only customs reviewers can review or close tasks")
	}

	task, err := s.loadScoped(ctx, companyScope, id)
	if err != nil {
		return nil, err
	}
	if !task.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move task from %s to %s", task.Status, next))
	}

	from := task.Status
	task.Status = next
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update task")
	}
	s.audit.Transition(ctx, actorID, auditEntity, task.ID, string(from), string(next), nil)
	return FromModel(task), nil
}

// AddMessage appends to the task thread. Closed tasks accept no new
// messages.
func (s *service) AddMessage(ctx context.Context, actorID uuid.UUID, companyScope *uuid.UUID, id uuid.UUID, body string) (*TaskDTO, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}

	task, err := s.loadScoped(ctx, companyScope, id)
	if err != nil {
		return nil, err
	}
	if task.Status == enums.TaskStatusClosed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "closed tasks cannot receive messages")
	}

	message := &models.TaskMessage{
		TaskID:   task.ID,
		AuthorID: actorID,
		Body:     body,
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
	}
	return s.GetByID(ctx, companyScope, id)
}

func (s *service) loadScoped(ctx context.Context, companyScope *uuid.UUID, id uuid.UUID) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load task")
	}
	if companyScope != nil {
		station, err := s.stations.FindByID(ctx, task.StationID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load station")
		}
		if station.CompanyID != *companyScope {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
		}
	}
	return task, nil
}

// FromRejectedSubmission opens a sanction task when customs rejects a
// forwarded submission.
func FromRejectedSubmission(svc Service) func(ctx context.Context, actorID uuid.UUID, submission *models.Submission, reason string) error {
	return func(ctx context.Context, actorID uuid.UUID, submission *models.Submission, reason string) error {
		_, err := svc.Create(ctx, actorID, CreateTaskInput{
			StationID:    submission.StationID,
			SubmissionID: &submission.ID,
			Type:         enums.TaskTypeSanction,
			Severity:     enums.TaskSeverityMajor,
			Category:     "submission_rejection",
			Title:        "Rejected compliance submission",
			Detail:       reason,
		})
		return err
	}
}
