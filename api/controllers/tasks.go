package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fuelguard/fuelguard-backend/api/responses"
	"github.com/fuelguard/fuelguard-backend/api/validators"
	"github.com/fuelguard/fuelguard-backend/internal/tasks"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
)

type taskCreateRequest struct {
	StationID    string  `json:"station_id" validate:"required,uuid"`
	SubmissionID *string `json:"submission_id,omitempty" validate:"omitempty,uuid"`
	Type         string  `json:"type" validate:"required,oneof=ACTION SANCTION"`
	Severity     string  `json:"severity" validate:"required,oneof=MINOR MAJOR CRITICAL"`
	Category     string  `json:"category" validate:"required,min=2,max=60"`
	Title        string  `json:"title" validate:"required,min=3"`
	Detail       string  `json:"detail,omitempty"`
	DueDate      string  `json:"due_date,omitempty"`
}

type taskTransitionRequest struct {
	Status string `json:"status" validate:"required"`
}

type taskMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=4000"`
}

func TaskCreate(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body taskCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stationID, err := validators.ParsePathUUID(body.StationID, "station_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		submissionID, err := optionalUUID(body.SubmissionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var dueDate *time.Time
		if body.DueDate != "" {
			parsed, err := time.Parse("2006-01-02", body.DueDate)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "due_date must be YYYY-MM-DD"))
				return
			}
			dueDate = &parsed
		}

		task, err := svc.Create(r.Context(), uid, tasks.CreateTaskInput{
			StationID:    stationID,
			SubmissionID: submissionID,
			Type:         enums.TaskType(body.Type),
			Severity:     enums.TaskSeverity(body.Severity),
			Category:     body.Category,
			Title:        body.Title,
			Detail:       body.Detail,
			DueDate:      dueDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, task)
	}
}

func TaskGet(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "taskID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		task, err := svc.GetByID(r.Context(), companyScope(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, task)
	}
}

// TaskList returns tasks for the caller's scope. prioritize_high_risk=true
// surfaces escalated critical sanctions first.
func TaskList(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stationID, err := validators.ParseQueryUUID(r, "station_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := tasks.ListFilter{StationID: stationID}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseTaskStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filter.Status = &status
		}
		if raw := r.URL.Query().Get("prioritize_high_risk"); raw != "" {
			prioritize, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "prioritize_high_risk must be a boolean"))
				return
			}
			filter.PrioritizeHighRisk = prioritize
		}

		rows, err := svc.List(r.Context(), companyScope(r.Context()), filter, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"tasks": rows})
	}
}

func TaskTransition(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathID(r, "taskID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body taskTransitionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseTaskStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid task status"))
			return
		}

		task, err := svc.Transition(r.Context(), uid, companyScope(r.Context()), id, status, canManageTasks(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, task)
	}
}

func TaskAddMessage(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathID(r, "taskID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body taskMessageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		task, err := svc.AddMessage(r.Context(), uid, companyScope(r.Context()), id, body.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, task)
	}
}
