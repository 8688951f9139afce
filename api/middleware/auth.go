package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/api/responses"
	pkgauth "github.com/fuelguard/fuelguard-backend/pkg/auth"
	"github.com/fuelguard/fuelguard-backend/pkg/auth/session"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
)

// SessionLoader resolves a session ID to its server-side state.
type SessionLoader interface {
	Load(ctx context.Context, sid uuid.UUID) (*session.Data, error)
}

// Auth authenticates requests from the session cookie, falling back to
// an Authorization bearer header for API clients. The token only names
// a session; authority always comes from the session row, so a revoked
// session fails even with a well-formed token.
func Auth(issuer *pkgauth.TokenIssuer, sessions SessionLoader, cookieName string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r, cookieName)
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := issuer.Verify(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			sid, err := claims.SessionID()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			data, err := sessions.Load(r.Context(), sid)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, data.UserID.String())
			ctx = context.WithValue(ctx, ctxRole, data.Role)
			ctx = context.WithValue(ctx, ctxSessionID, sid.String())
			if data.CompanyID != nil {
				ctx = context.WithValue(ctx, ctxCompanyID, *data.CompanyID)
			}
			if data.StationID != nil {
				ctx = context.WithValue(ctx, ctxStationID, *data.StationID)
			}

			if logg != nil {
				fields := map[string]any{
					"user_id":    data.UserID.String(),
					"actor_role": string(data.Role),
				}
				if data.CompanyID != nil {
					fields["company_id"] = data.CompanyID.String()
				}
				if data.StationID != nil {
					fields["station_id"] = data.StationID.String()
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return ""
}
