package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/pkg/rbac"
)

type contextKey string

const (
	ctxUserID    contextKey = "user_id"
	ctxRole      contextKey = "actor_role"
	ctxSessionID contextKey = "session_id"
	ctxCompanyID contextKey = "company_id"
	ctxStationID contextKey = "station_id"
)

func UserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxUserID)
}

func RoleFromContext(ctx context.Context) rbac.Role {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(rbac.Role); ok {
		return v
	}
	return ""
}

func SessionIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxSessionID)
}

// CompanyIDFromContext returns the actor's company scope, or nil for
// customs and system actors who are not bound to a company.
func CompanyIDFromContext(ctx context.Context) *uuid.UUID {
	return uuidFromContext(ctx, ctxCompanyID)
}

// StationIDFromContext returns the actor's station scope, or nil when
// the actor may act across all of the company's stations.
func StationIDFromContext(ctx context.Context) *uuid.UUID {
	return uuidFromContext(ctx, ctxStationID)
}

// WithActor seeds the context for tests and internal callers.
func WithActor(ctx context.Context, userID string, role rbac.Role, companyID, stationID *uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxRole, role)
	if companyID != nil {
		ctx = context.WithValue(ctx, ctxCompanyID, *companyID)
	}
	if stationID != nil {
		ctx = context.WithValue(ctx, ctxStationID, *stationID)
	}
	return ctx
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func uuidFromContext(ctx context.Context, key contextKey) *uuid.UUID {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(key).(uuid.UUID); ok {
		return &v
	}
	return nil
}
