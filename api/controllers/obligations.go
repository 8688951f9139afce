package controllers

import (
	"net/http"
	"time"

	"github.com/fuelguard/fuelguard-backend/api/responses"
	"github.com/fuelguard/fuelguard-backend/api/validators"
	"github.com/fuelguard/fuelguard-backend/internal/obligations"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
)

type obligationCreateRequest struct {
	Code        string `json:"code" validate:"required,min=3,max=20"`
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description,omitempty"`
	FieldType   string `json:"field_type" validate:"required,oneof=BOOLEAN DATE TEXT"`
	Criticality string `json:"criticality,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	SortOrder   int    `json:"sort_order,omitempty" validate:"omitempty,min=0"`
}

type catalogVersionCreateRequest struct {
	Label         string `json:"label" validate:"required,min=1,max=40"`
	EffectiveFrom string `json:"effective_from,omitempty"`
}

// ObligationListActive returns the published catalog's obligations.
func ObligationListActive(svc obligations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"obligations": rows})
	}
}

func CatalogVersionList(svc obligations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListVersions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"versions": rows})
	}
}

func CatalogVersionCreate(svc obligations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body catalogVersionCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var effectiveFrom *time.Time
		if body.EffectiveFrom != "" {
			parsed, err := time.Parse("2006-01-02", body.EffectiveFrom)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "effective_from must be YYYY-MM-DD"))
				return
			}
			effectiveFrom = &parsed
		}

		version, err := svc.CreateVersion(r.Context(), uid, body.Label, effectiveFrom)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, version)
	}
}

func CatalogVersionActivate(svc obligations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		versionID, err := pathID(r, "versionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ActivateVersion(r.Context(), uid, versionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "activated"})
	}
}

func ObligationCreate(svc obligations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		versionID, err := pathID(r, "versionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body obligationCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		obligation, err := svc.CreateObligation(r.Context(), uid, versionID, obligations.CreateObligationInput{
			Code:        body.Code,
			Title:       body.Title,
			Description: body.Description,
			FieldType:   enums.ObligationFieldType(body.FieldType),
			Criticality: enums.Criticality(body.Criticality),
			SortOrder:   body.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, obligation)
	}
}

func ObligationRetire(svc obligations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathID(r, "obligationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RetireObligation(r.Context(), uid, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "retired"})
	}
}
