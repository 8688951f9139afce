package tasks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
)

type stubTaskRepo struct {
	tasks    map[uuid.UUID]*models.Task
	messages []*models.TaskMessage
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: map[uuid.UUID]*models.Task{}}
}

func (s *stubTaskRepo) add(task *models.Task) *models.Task {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	s.tasks[task.ID] = task
	return task
}

func (s *stubTaskRepo) Create(_ context.Context, task *models.Task) error {
	task.ID = uuid.New()
	s.tasks[task.ID] = task
	return nil
}

func (s *stubTaskRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Task, error) {
	if task, ok := s.tasks[id]; ok {
		return task, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTaskRepo) List(_ context.Context, _ ListFilter, _ *uuid.UUID, _ int) ([]models.Task, error) {
	var rows []models.Task
	for _, task := range s.tasks {
		rows = append(rows, *task)
	}
	return rows, nil
}

func (s *stubTaskRepo) Update(_ context.Context, task *models.Task) error {
	s.tasks[task.ID] = task
	return nil
}

func (s *stubTaskRepo) CreateMessage(_ context.Context, message *models.TaskMessage) error {
	message.ID = uuid.New()
	s.messages = append(s.messages, message)
	if task, ok := s.tasks[message.TaskID]; ok {
		task.Messages = append(task.Messages, *message)
	}
	return nil
}

type stubTaskStations struct {
	stations map[uuid.UUID]*models.Station
}

func (s *stubTaskStations) add(companyID uuid.UUID) *models.Station {
	if s.stations == nil {
		s.stations = map[uuid.UUID]*models.Station{}
	}
	station := &models.Station{ID: uuid.New(), CompanyID: companyID, Active: true}
	s.stations[station.ID] = station
	return station
}

func (s *stubTaskStations) FindByID(_ context.Context, id uuid.UUID) (*models.Station, error) {
	if station, ok := s.stations[id]; ok {
		return station, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type taskFixture struct {
	repo     *stubTaskRepo
	stations *stubTaskStations
	svc      Service
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	repo := newStubTaskRepo()
	stations := &stubTaskStations{}
	svc, err := NewService(repo, stations, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &taskFixture{repo: repo, stations: stations, svc: svc}
}

func TestCreateValidatesInput(t *testing.T) {
	fx := newTaskFixture(t)
	station := fx.stations.add(uuid.New())

	cases := []struct {
		name  string
		input CreateTaskInput
	}{
		{"empty title", CreateTaskInput{StationID: station.ID, Type: enums.TaskTypeAction, Severity: enums.TaskSeverityMinor}},
		{"unknown type", CreateTaskInput{StationID: station.ID, Title: "t", Type: "NOTICE", Severity: enums.TaskSeverityMinor}},
		{"unknown severity", CreateTaskInput{StationID: station.ID, Title: "t", Type: enums.TaskTypeAction, Severity: "FATAL"}},
	}
	for _, tc := range cases {
		_, err := fx.svc.Create(context.Background(), uuid.New(), tc.input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Errorf("%s: got %v, want validation error", tc.name, err)
		}
	}
}

func TestCreateRequiresExistingStation(t *testing.T) {
	fx := newTaskFixture(t)

	_, err := fx.svc.Create(context.Background(), uuid.New(), CreateTaskInput{
		StationID: uuid.New(),
		Title:     "inspect pumps",
		Type:      enums.TaskTypeAction,
		Severity:  enums.TaskSeverityMinor,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestCreateStartsAwaitingCompany(t *testing.T) {
	fx := newTaskFixture(t)
	station := fx.stations.add(uuid.New())
	actor := uuid.New()

	got, err := fx.svc.Create(context.Background(), actor, CreateTaskInput{
		StationID: station.ID,
		Title:     "  expired fire certificate  ",
		Detail:    "renew and upload proof",
		Type:      enums.TaskTypeSanction,
		Severity:  enums.TaskSeverityCritical,
		Category:  "fire_safety",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Status != enums.TaskStatusAwaitingCompany {
		t.Errorf("status %s, want AWAITING_COMPANY", got.Status)
	}
	if got.Title != "expired fire certificate" {
		t.Errorf("title %q not trimmed", got.Title)
	}
}

func TestTransitionFollowsWorkflow(t *testing.T) {
	fx := newTaskFixture(t)
	station := fx.stations.add(uuid.New())
	task := fx.repo.add(&models.Task{StationID: station.ID, Status: enums.TaskStatusAwaitingCompany})

	for _, next := range []enums.TaskStatus{
		enums.TaskStatusCompanyResponded,
		enums.TaskStatusInReview,
		enums.TaskStatusClosed,
	} {
		got, err := fx.svc.Transition(context.Background(), uuid.New(), nil, task.ID, next, true)
		if err != nil {
			t.Fatalf("Transition to %s: %v", next, err)
		}
		if got.Status != next {
			t.Fatalf("status %s, want %s", got.Status, next)
		}
	}

	_, err := fx.svc.Transition(context.Background(), uuid.New(), nil, task.ID, enums.TaskStatusInReview, true)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("closed task transition: got %v, want state conflict", err)
	}
}

func TestTransitionRejectsWorkflowJumps(t *testing.T) {
	fx := newTaskFixture(t)
	station := fx.stations.add(uuid.New())
	task := fx.repo.add(&models.Task{StationID: station.ID, Status: enums.TaskStatusAwaitingCompany})

	_, err := fx.svc.Transition(context.Background(), uuid.New(), nil, task.ID, enums.TaskStatusClosed, true)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("got %v, want state conflict", err)
	}
}

func TestTransitionEscalationFromAnyOpenState(t *testing.T) {
	fx := newTaskFixture(t)
	station := fx.stations.add(uuid.New())
	task := fx.repo.add(&models.Task{StationID: station.ID, Status: enums.TaskStatusAwaitingCompany})

	got, err := fx.svc.Transition(context.Background(), uuid.New(), nil, task.ID, enums.TaskStatusEscalated, false)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if got.Status != enums.TaskStatusEscalated {
		t.Fatalf("status %s, want ESCALATED", got.Status)
	}
}

func TestTransitionReviewAndCloseNeedManageGrant(t *testing.T) {
	fx := newTaskFixture(t)
	station := fx.stations.add(uuid.New())
	task := fx.repo.add(&models.Task{StationID: station.ID, Status: enums.TaskStatusCompanyResponded})

	_, err := fx.svc.Transition(context.Background(), uuid.New(), nil, task.ID, enums.TaskStatusInReview, false)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("review without manage grant: got %v, want forbidden", err)
	}

	escalated := fx.repo.add(&models.Task{StationID: station.ID, Status: enums.TaskStatusEscalated})
	_, err = fx.svc.Transition(context.Background(), uuid.New(), nil, escalated.ID, enums.TaskStatusClosed, false)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("close without manage grant: got %v, want forbidden", err)
	}

	got, err := fx.svc.Transition(context.Background(), uuid.New(), nil, task.ID, enums.TaskStatusInReview, true)
	if err != nil {
		t.Fatalf("Transition with manage grant: %v", err)
	}
	if got.Status != enums.TaskStatusInReview {
		t.Fatalf("status %s, want IN_REVIEW", got.Status)
	}
}

func TestTransitionScopedToCompany(t *testing.T) {
	fx := newTaskFixture(t)
	station := fx.stations.add(uuid.New())
	task := fx.repo.add(&models.Task{StationID: station.ID, Status: enums.TaskStatusAwaitingCompany})
	otherCompany := uuid.New()

	_, err := fx.svc.Transition(context.Background(), uuid.New(), &otherCompany, task.ID, enums.TaskStatusCompanyResponded, false)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("got %v, want not found for out-of-scope task", err)
	}
}

func TestAddMessageAppendsToThread(t *testing.T) {
	fx := newTaskFixture(t)
	station := fx.stations.add(uuid.New())
	task := fx.repo.add(&models.Task{StationID: station.ID, Status: enums.TaskStatusAwaitingCompany})
	author := uuid.New()

	got, err := fx.svc.AddMessage(context.Background(), author, nil, task.ID, "  certificate renewed, scan attached  ")
	if err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if len(got.Messages) != 1 {
		t.Fatalf("thread has %d messages, want 1", len(got.Messages))
	}
	if got.Messages[0].Body != "certificate renewed, scan attached" {
		t.Errorf("body %q not trimmed", got.Messages[0].Body)
	}
	if got.Messages[0].AuthorID != author {
		t.Errorf("author %s, want %s", got.Messages[0].AuthorID, author)
	}
}

func TestAddMessageRejectsEmptyBody(t *testing.T) {
	fx := newTaskFixture(t)
	station := fx.stations.add(uuid.New())
	task := fx.repo.add(&models.Task{StationID: station.ID, Status: enums.TaskStatusAwaitingCompany})

	_, err := fx.svc.AddMessage(context.Background(), uuid.New(), nil, task.ID, "   ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestAddMessageRefusedOnClosedTask(t *testing.T) {
	fx := newTaskFixture(t)
	station := fx.stations.add(uuid.New())
	task := fx.repo.add(&models.Task{StationID: station.ID, Status: enums.TaskStatusClosed})

	_, err := fx.svc.AddMessage(context.Background(), uuid.New(), nil, task.ID, "late reply")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("got %v, want state conflict", err)
	}
}

func TestFromRejectedSubmissionOpensSanctionTask(t *testing.T) {
	fx := newTaskFixture(t)
	station := fx.stations.add(uuid.New())
	hook := FromRejectedSubmission(fx.svc)

	submission := &models.Submission{ID: uuid.New(), StationID: station.ID}
	if err := hook(context.Background(), uuid.New(), submission, "falsified tank records"); err != nil {
		t.Fatalf("hook: %v", err)
	}

	var created *models.Task
	for _, task := range fx.repo.tasks {
		created = task
	}
	if created == nil {
		t.Fatal("hook did not create a task")
	}
	if created.Type != enums.TaskTypeSanction || created.Severity != enums.TaskSeverityMajor {
		t.Errorf("task %s/%s, want SANCTION/MAJOR", created.Type, created.Severity)
	}
	if created.SubmissionID == nil || *created.SubmissionID != submission.ID {
		t.Error("task not linked to the rejected submission")
	}
	if created.Detail != "falsified tank records" {
		t.Errorf("detail %q", created.Detail)
	}
	if created.Category != "submission_rejection" {
		t.Errorf("category %q", created.Category)
	}
}
