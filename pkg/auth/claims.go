package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/pkg/rbac"
)

// SessionClaims are carried in the session cookie token. The token ID
// (jti) is the server-side session ID; everything else is advisory and
// re-validated against the session row on every request.
type SessionClaims struct {
	Role rbac.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionID returns the server-side session ID encoded in the token.
func (c *SessionClaims) SessionID() (uuid.UUID, error) {
	return uuid.Parse(c.ID)
}

// UserID returns the subject as a UUID.
func (c *SessionClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
