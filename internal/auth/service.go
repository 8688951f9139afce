package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/internal/users"
	pkgauth "github.com/fuelguard/fuelguard-backend/pkg/auth"
	"github.com/fuelguard/fuelguard-backend/pkg/auth/session"
	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/security"
)

type userFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type sessionStore interface {
	Create(ctx context.Context, data session.Data) (uuid.UUID, error)
	Revoke(ctx context.Context, sid uuid.UUID) error
}

// LoginResult carries the minted cookie token and the authenticated user.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *users.UserDTO
}

// Service exposes login, logout and identity lookup.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
}

type service struct {
	users    userFinder
	sessions sessionStore
	tokens   *pkgauth.TokenIssuer
}

// NewService builds the auth service.
func NewService(usersRepo userFinder, sessions sessionStore, tokens *pkgauth.TokenIssuer) (Service, error) {
	if usersRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token issuer required")
	}
	return &service{users: usersRepo, sessions: sessions, tokens: tokens}, nil
}

// Login verifies credentials and opens a session. Unknown email and bad
// password return the same error so the surface does not leak accounts.
func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	if !user.Active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	now := time.Now().UTC()
	sid, err := s.sessions.Create(ctx, session.Data{
		UserID:    user.ID,
		Role:      user.Role,
		CompanyID: user.CompanyID,
		StationID: user.StationID,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Mint(sid, user.ID, user.Role, now)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.tokens.TTL()),
		User:      users.FromModel(user),
	}, nil
}

// Logout revokes the current session. An already-revoked session is fine.
func (s *service) Logout(ctx context.Context, sessionID string) error {
	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	return s.sessions.Revoke(ctx, sid)
}

// Me returns the authenticated user's profile.
func (s *service) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return users.FromModel(user), nil
}
