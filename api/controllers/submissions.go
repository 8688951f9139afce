package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/api/middleware"
	"github.com/fuelguard/fuelguard-backend/api/responses"
	"github.com/fuelguard/fuelguard-backend/api/validators"
	"github.com/fuelguard/fuelguard-backend/internal/submissions"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
	"github.com/fuelguard/fuelguard-backend/pkg/pagination"
)

type ensureSubmissionRequest struct {
	StationID string `json:"station_id" validate:"required,uuid"`
}

type updateCheckRequest struct {
	ObligationID string  `json:"obligation_id" validate:"required,uuid"`
	Value        any     `json:"value,omitempty"`
	ValidUntil   string  `json:"valid_until,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

type returnSubmissionRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

type forwardBulkRequest struct {
	SubmissionIDs []string          `json:"submission_ids" validate:"required,min=1,dive,uuid"`
	Notes         map[string]string `json:"notes,omitempty"`
}

// SubmissionEnsure finds or creates the draft for the station's current
// reporting period.
func SubmissionEnsure(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body ensureSubmissionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stationID, err := uuid.Parse(body.StationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid station id"))
			return
		}

		submission, err := svc.Ensure(r.Context(), uid, stationID, companyScope(r.Context()), middleware.StationIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, submission)
	}
}

func SubmissionGet(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "submissionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		submission, err := svc.GetByID(r.Context(), companyScope(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, submission)
	}
}

func SubmissionListForStation(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stationID, err := pathID(r, "stationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, next, err := svc.ListForStation(r.Context(), companyScope(r.Context()), stationID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"submissions": rows, "next_cursor": next})
	}
}

// SubmissionInbox lists the company's submissions for admin review,
// optionally filtered by status.
func SubmissionInbox(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := companyScope(r.Context())
		if scope == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "company context missing"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := statusFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, next, err := svc.Inbox(r.Context(), *scope, status, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"submissions": rows, "next_cursor": next})
	}
}

func SubmissionUpdateCheck(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathID(r, "submissionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCheckRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		obligationID, err := uuid.Parse(body.ObligationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid obligation id"))
			return
		}

		submission, err := svc.UpdateCheck(r.Context(), uid, companyScope(r.Context()), middleware.StationIDFromContext(r.Context()), id, submissions.UpdateCheckInput{
			ObligationID: obligationID,
			Value:        body.Value,
			ValidUntil:   body.ValidUntil,
			Notes:        body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, submission)
	}
}

// submissionAction wires the parameterless lifecycle transitions.
func submissionAction(action func(svc submissions.Service, ctx *http.Request, uid, id uuid.UUID) (*submissions.SubmissionDTO, error), svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathID(r, "submissionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		submission, err := action(svc, r, uid, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, submission)
	}
}

func SubmissionSubmit(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return submissionAction(func(svc submissions.Service, r *http.Request, uid, id uuid.UUID) (*submissions.SubmissionDTO, error) {
		return svc.Submit(r.Context(), uid, companyScope(r.Context()), middleware.StationIDFromContext(r.Context()), id)
	}, svc, logg)
}

func SubmissionRecall(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return submissionAction(func(svc submissions.Service, r *http.Request, uid, id uuid.UUID) (*submissions.SubmissionDTO, error) {
		return svc.Recall(r.Context(), uid, companyScope(r.Context()), middleware.StationIDFromContext(r.Context()), id)
	}, svc, logg)
}

func SubmissionStartReview(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return submissionAction(func(svc submissions.Service, r *http.Request, uid, id uuid.UUID) (*submissions.SubmissionDTO, error) {
		return svc.StartReview(r.Context(), uid, companyScope(r.Context()), id)
	}, svc, logg)
}

func SubmissionApprove(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return submissionAction(func(svc submissions.Service, r *http.Request, uid, id uuid.UUID) (*submissions.SubmissionDTO, error) {
		return svc.Approve(r.Context(), uid, companyScope(r.Context()), id)
	}, svc, logg)
}

func SubmissionReopen(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return submissionAction(func(svc submissions.Service, r *http.Request, uid, id uuid.UUID) (*submissions.SubmissionDTO, error) {
		return svc.Reopen(r.Context(), uid, companyScope(r.Context()), id)
	}, svc, logg)
}

// SubmissionReturn sends the submission back to the station with a reason.
func SubmissionReturn(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathID(r, "submissionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body returnSubmissionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		submission, err := svc.Return(r.Context(), uid, companyScope(r.Context()), id, body.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, submission)
	}
}

// SubmissionForwardBulk forwards a batch of approved submissions to customs.
func SubmissionForwardBulk(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		scope := companyScope(r.Context())
		if scope == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "company context missing"))
			return
		}

		var body forwardBulkRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := submissions.ForwardBulkInput{
			SubmissionIDs: make([]uuid.UUID, 0, len(body.SubmissionIDs)),
			Notes:         make(map[uuid.UUID]string, len(body.Notes)),
		}
		for _, raw := range body.SubmissionIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid submission id"))
				return
			}
			input.SubmissionIDs = append(input.SubmissionIDs, id)
		}
		for raw, note := range body.Notes {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid submission id in notes"))
				return
			}
			input.Notes[id] = note
		}

		result, err := svc.ForwardBulk(r.Context(), uid, *scope, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func statusFilter(r *http.Request) (*enums.SubmissionStatus, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, nil
	}
	status, err := enums.ParseSubmissionStatus(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
	}
	return &status, nil
}
