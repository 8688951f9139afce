package controllers

import (
	"net/http"
	"time"

	"github.com/fuelguard/fuelguard-backend/api/middleware"
	"github.com/fuelguard/fuelguard-backend/api/responses"
	"github.com/fuelguard/fuelguard-backend/api/validators"
	"github.com/fuelguard/fuelguard-backend/internal/auth"
	"github.com/fuelguard/fuelguard-backend/pkg/config"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthLogin authenticates the user and sets the session cookie. The token
// is also returned in the body for non-browser clients.
func AuthLogin(svc auth.Service, sessionCfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body.Email, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, sessionCookie(sessionCfg, result.Token, result.ExpiresAt))
		responses.WriteSuccess(w, map[string]any{
			"token":      result.Token,
			"expires_at": result.ExpiresAt,
			"user":       result.User,
		})
	}
}

// AuthLogout revokes the active session and clears the cookie.
func AuthLogout(svc auth.Service, sessionCfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		sid := middleware.SessionIDFromContext(r.Context())
		if sid == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session context missing"))
			return
		}

		if err := svc.Logout(r.Context(), sid); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		expired := sessionCookie(sessionCfg, "", time.Unix(0, 0))
		expired.MaxAge = -1
		http.SetCookie(w, expired)
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthMe returns the authenticated user's profile.
func AuthMe(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		uid, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Me(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

func sessionCookie(cfg config.SessionConfig, value string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
