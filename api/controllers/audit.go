package controllers

import (
	"net/http"
	"strings"

	"github.com/fuelguard/fuelguard-backend/api/responses"
	"github.com/fuelguard/fuelguard-backend/api/validators"
	"github.com/fuelguard/fuelguard-backend/internal/audit"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
)

var auditableEntities = map[string]bool{
	"company":         true,
	"station":         true,
	"user":            true,
	"obligation":      true,
	"catalog_version": true,
	"submission":      true,
	"task":            true,
	"evidence":        true,
}

// AuditListForEntity returns the newest audit entries for one entity.
func AuditListForEntity(repo *audit.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityType := strings.ToLower(r.URL.Query().Get("entity_type"))
		if !auditableEntities[entityType] {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown entity_type"))
			return
		}

		entityID, err := validators.ParseQueryUUID(r, "entity_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if entityID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "entity_id is required"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := repo.ListForEntity(r.Context(), entityType, *entityID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load audit trail"))
			return
		}

		responses.WriteSuccess(w, map[string]any{"entries": entries})
	}
}
