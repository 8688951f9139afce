package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/pkg/config"
	apperrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/rbac"
)

// TokenIssuer mints and verifies the signed session cookie value.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenIssuer(cfg config.SessionConfig) (*TokenIssuer, error) {
	if cfg.Secret == "" {
		return nil, apperrors.New(apperrors.CodeInternal, "session secret is required")
	}
	return &TokenIssuer{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TTL(),
	}, nil
}

// Mint signs a token for the given user bound to the session row.
func (t *TokenIssuer) Mint(sessionID, userID uuid.UUID, role rbac.Role, now time.Time) (string, error) {
	claims := SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID.String(),
			Subject:   userID.String(),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternal, err, "sign session token")
	}
	return signed, nil
}

// Verify parses and validates a session token string.
func (t *TokenIssuer) Verify(raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.New(apperrors.CodeUnauthorized, "unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnauthorized, err, "invalid session token")
	}
	if !token.Valid {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid session token")
	}
	return claims, nil
}

// TTL returns the configured session lifetime.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}
