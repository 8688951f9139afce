package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/api/responses"
	"github.com/fuelguard/fuelguard-backend/pkg/config"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FuelGuard-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness after checking the database connection.
func HealthReady(cfg *config.Config, db *gorm.DB, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FuelGuard-Env", cfg.App.Env)
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
