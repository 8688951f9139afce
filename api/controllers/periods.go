package controllers

import (
	"net/http"
	"time"

	"github.com/fuelguard/fuelguard-backend/api/responses"
	"github.com/fuelguard/fuelguard-backend/api/validators"
	"github.com/fuelguard/fuelguard-backend/internal/periods"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
)

type periodGenerateRequest struct {
	Year  int `json:"year" validate:"required,min=2000,max=2100"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

// PeriodGenerate materializes a month's reporting windows. Safe to call
// repeatedly for the same month.
func PeriodGenerate(svc periods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body periodGenerateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.Generate(r.Context(), body.Year, body.Month)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"periods": rows})
	}
}

// PeriodCurrent resolves the window covering the current instant.
func PeriodCurrent(svc periods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := svc.Current(r.Context(), time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, period)
	}
}

func PeriodGet(svc periods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "periodID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		period, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, period)
	}
}

// PeriodList returns either a specific month's periods or the most recent
// ones when no month is given.
func PeriodList(svc periods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := validators.ParseQueryInt(r, "year", 0, 0, 2100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		month, err := validators.ParseQueryInt(r, "month", 0, 0, 12)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var rows []periods.PeriodDTO
		if year > 0 && month > 0 {
			rows, err = svc.ListForMonth(r.Context(), year, month)
		} else {
			limit, limitErr := validators.ParseQueryInt(r, "limit", 12, 1, 100)
			if limitErr != nil {
				responses.WriteError(r.Context(), logg, w, limitErr)
				return
			}
			rows, err = svc.ListRecent(r.Context(), limit)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"periods": rows})
	}
}
