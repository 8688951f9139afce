package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/fuelguard/fuelguard-backend/api/responses"
	"github.com/fuelguard/fuelguard-backend/api/validators"
	"github.com/fuelguard/fuelguard-backend/internal/compliance"
	"github.com/fuelguard/fuelguard-backend/internal/stations"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
	"github.com/fuelguard/fuelguard-backend/pkg/pagination"
)

type stationCreateRequest struct {
	CompanyID             string  `json:"company_id" validate:"required,uuid"`
	Name                  string  `json:"name" validate:"required,min=2"`
	AMDIKA                string  `json:"amdika" validate:"omitempty,max=30"`
	Latitude              float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude             float64 `json:"longitude" validate:"omitempty,longitude"`
	StorageCapacityLiters string  `json:"storage_capacity_liters,omitempty"`
}

type stationUpdateRequest struct {
	Name                  *string  `json:"name,omitempty" validate:"omitempty,min=2"`
	AMDIKA                *string  `json:"amdika,omitempty" validate:"omitempty,max=30"`
	Latitude              *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude             *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	StorageCapacityLiters *string  `json:"storage_capacity_liters,omitempty"`
	Active                *bool    `json:"active,omitempty"`
}

func StationCreate(svc stations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body stationCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		companyID, err := validators.ParsePathUUID(body.CompanyID, "company_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		capacity := decimal.Zero
		if body.StorageCapacityLiters != "" {
			capacity, err = decimal.NewFromString(body.StorageCapacityLiters)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid storage capacity"))
				return
			}
		}

		station, err := svc.Create(r.Context(), uid, stations.CreateStationInput{
			CompanyID:             companyID,
			Name:                  body.Name,
			AMDIKA:                body.AMDIKA,
			Latitude:              body.Latitude,
			Longitude:             body.Longitude,
			StorageCapacityLiters: capacity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, station)
	}
}

func StationGet(svc stations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "stationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		station, err := svc.GetByID(r.Context(), companyScope(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, station)
	}
}

func StationList(svc stations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		companyID, err := validators.ParseQueryUUID(r, "company_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, next, err := svc.List(r.Context(), companyScope(r.Context()), companyID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"stations": rows, "next_cursor": next})
	}
}

func StationUpdate(svc stations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathID(r, "stationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body stationUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var capacity *decimal.Decimal
		if body.StorageCapacityLiters != nil {
			parsed, err := decimal.NewFromString(*body.StorageCapacityLiters)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid storage capacity"))
				return
			}
			capacity = &parsed
		}

		station, err := svc.Update(r.Context(), uid, companyScope(r.Context()), id, stations.UpdateStationInput{
			Name:                  body.Name,
			AMDIKA:                body.AMDIKA,
			Latitude:              body.Latitude,
			Longitude:             body.Longitude,
			StorageCapacityLiters: capacity,
			Active:                body.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, station)
	}
}

func StationDeactivate(svc stations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathID(r, "stationID")
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

// StationComplianceStatus returns the derived compliance badge for one station.
func StationComplianceStatus(svc compliance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "stationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.ForStation(r.Context(), companyScope(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, status)
	}
}
