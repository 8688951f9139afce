package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/api/middleware"
	"github.com/fuelguard/fuelguard-backend/api/validators"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/rbac"
)

// actorID parses the authenticated user id out of the request context.
func actorID(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

// companyScope returns the actor's company restriction. Customs and system
// roles carry no company and see everything.
func companyScope(ctx context.Context) *uuid.UUID {
	return middleware.CompanyIDFromContext(ctx)
}

// canManageTasks reports whether the actor holds the customs-side task
// grant. Company responders only hold tasks.respond.
func canManageTasks(ctx context.Context) bool {
	return middleware.RoleFromContext(ctx).Can(rbac.PermTaskManage)
}

func pathID(r *http.Request, param string) (uuid.UUID, error) {
	return validators.ParsePathUUID(chi.URLParam(r, param), param)
}
