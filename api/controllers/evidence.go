package controllers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fuelguard/fuelguard-backend/api/responses"
	"github.com/fuelguard/fuelguard-backend/api/validators"
	"github.com/fuelguard/fuelguard-backend/internal/evidence"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
)

const maxMultipartMemory = 8 << 20

// EvidenceUpload accepts a multipart form with a "file" part plus
// station_id, and optional submission_id / obligation_id fields.
func EvidenceUpload(svc evidence.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		stationID, err := validators.ParsePathUUID(r.FormValue("station_id"), "station_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input evidence.UploadInput
		input.StationID = stationID
		if raw := chi.URLParam(r, "submissionID"); raw != "" {
			id, err := validators.ParsePathUUID(raw, "submissionID")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.SubmissionID = &id
		} else if raw := r.FormValue("submission_id"); raw != "" {
			id, err := validators.ParsePathUUID(raw, "submission_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.SubmissionID = &id
		}
		if raw := r.FormValue("obligation_id"); raw != "" {
			id, err := validators.ParsePathUUID(raw, "obligation_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.ObligationID = &id
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file part is required"))
			return
		}
		defer file.Close()

		input.FileName = header.Filename
		input.ContentType = header.Header.Get("Content-Type")
		input.Body = file

		uploaded, err := svc.Upload(r.Context(), uid, companyScope(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, uploaded)
	}
}

// EvidenceDownload streams the stored file back to the caller.
func EvidenceDownload(svc evidence.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "evidenceID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		download, err := svc.Open(r.Context(), companyScope(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer download.Body.Close()

		w.Header().Set("Content-Type", download.Meta.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Meta.FileName))
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, download.Body); err != nil {
			logg.Error(r.Context(), "evidence stream interrupted", err)
		}
	}
}

func EvidenceList(svc evidence.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stationID, err := pathID(r, "stationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		submissionID, err := validators.ParseQueryUUID(r, "submission_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListForStation(r.Context(), companyScope(r.Context()), stationID, submissionID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"evidence": rows})
	}
}

func EvidenceDelete(svc evidence.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathID(r, "evidenceID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), uid, companyScope(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
