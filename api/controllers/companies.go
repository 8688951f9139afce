package controllers

import (
	"net/http"

	"github.com/fuelguard/fuelguard-backend/api/responses"
	"github.com/fuelguard/fuelguard-backend/api/validators"
	"github.com/fuelguard/fuelguard-backend/internal/companies"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
	"github.com/fuelguard/fuelguard-backend/pkg/pagination"
)

type companyCreateRequest struct {
	Name         string `json:"name" validate:"required,min=2"`
	TaxID        string `json:"tax_id" validate:"required,min=8,max=12"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string `json:"contact_phone" validate:"omitempty,max=30"`
}

type companyUpdateRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=2"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone,omitempty" validate:"omitempty,max=30"`
	Active       *bool   `json:"active,omitempty"`
}

func CompanyCreate(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body companyCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		company, err := svc.Create(r.Context(), uid, companies.CreateCompanyInput{
			Name:         body.Name,
			TaxID:        body.TaxID,
			ContactEmail: body.ContactEmail,
			ContactPhone: body.ContactPhone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, company)
	}
}

func CompanyGet(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "companyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if scope := companyScope(r.Context()); scope != nil && *scope != id {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "company not found"))
			return
		}

		company, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, company)
	}
}

func CompanyList(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, next, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"companies": rows, "next_cursor": next})
	}
}

func CompanyUpdate(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathID(r, "companyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body companyUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		company, err := svc.Update(r.Context(), uid, id, companies.UpdateCompanyInput{
			Name:         body.Name,
			ContactEmail: body.ContactEmail,
			ContactPhone: body.ContactPhone,
			Active:       body.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, company)
	}
}

func CompanyDeactivate(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathID(r, "companyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), uid, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
