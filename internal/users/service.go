package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/internal/audit"
	"github.com/fuelguard/fuelguard-backend/pkg/config"
	"github.com/fuelguard/fuelguard-backend/pkg/db"
	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/pagination"
	"github.com/fuelguard/fuelguard-backend/pkg/rbac"
	"github.com/fuelguard/fuelguard-backend/pkg/security"
)

const auditEntity = "user"

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, companyID *uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type sessionRevoker interface {
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}

// Service exposes account administration operations.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateUserInput) (*UserDTO, string, error)
	GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	List(ctx context.Context, companyScope *uuid.UUID, companyID *uuid.UUID, params pagination.Params) ([]UserDTO, string, error)
	Update(ctx context.Context, actorID, id uuid.UUID, input UpdateUserInput) (*UserDTO, error)
	Deactivate(ctx context.Context, actorID, id uuid.UUID) error
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

type service struct {
	repo        userRepository
	sessions    sessionRevoker
	audit       *audit.Recorder
	passwordCfg config.PasswordConfig
}

// NewService builds a user service with the provided dependencies.
func NewService(repo userRepository, sessions sessionRevoker, recorder *audit.Recorder, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session revoker required")
	}
	return &service{
		repo:        repo,
		sessions:    sessions,
		audit:       recorder,
		passwordCfg: passwordCfg,
	}, nil
}

// Create provisions a new account. When no password is supplied a
// temporary one is generated and returned to the caller exactly once.
func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateUserInput) (*UserDTO, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !strings.Contains(email, "@") {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	if err := validateScope(input.Role, input.CompanyID, input.StationID); err != nil {
		return nil, "", err
	}

	password := input.Password
	tempPassword := ""
	if password == "" {
		generated, err := security.GenerateTempPassword(16)
		if err != nil {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
		}
		password = generated
		tempPassword = generated
	}
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         input.Role,
		CompanyID:    input.CompanyID,
		StationID:    input.StationID,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "users_email_key") {
			return nil, "", pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	s.audit.Record(ctx, actorID, enums.AuditActionCreate, auditEntity, user.ID, map[string]any{
		"email": user.Email,
		"role":  string(user.Role),
	})
	return FromModel(user), tempPassword, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, companyScope *uuid.UUID, companyID *uuid.UUID, params pagination.Params) ([]UserDTO, string, error) {
	filter := companyID
	if companyScope != nil {
		filter = companyScope
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, filter, cursor, limit+1)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return FromModels(rows), next, nil
}

func (s *service) Update(ctx context.Context, actorID, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	before := map[string]any{
		"full_name": user.FullName,
		"role":      string(user.Role),
		"active":    user.Active,
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
		}
		user.FullName = name
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.CompanyID != nil {
		user.CompanyID = input.CompanyID
	}
	if input.StationID != nil {
		user.StationID = input.StationID
	}
	if err := validateScope(user.Role, user.CompanyID, user.StationID); err != nil {
		return nil, err
	}
	deactivated := false
	if input.Active != nil {
		deactivated = user.Active && !*input.Active
		user.Active = *input.Active
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}

	if deactivated {
		if err := s.sessions.RevokeAllForUser(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	after := map[string]any{
		"full_name": user.FullName,
		"role":      string(user.Role),
		"active":    user.Active,
	}
	if diff := audit.FieldDiff(before, after); diff != nil {
		s.audit.Record(ctx, actorID, enums.AuditActionUpdate, auditEntity, user.ID, diff)
	}
	return FromModel(user), nil
}

// Deactivate disables the account and revokes its live sessions.
func (s *service) Deactivate(ctx context.Context, actorID, id uuid.UUID) error {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}
	if !user.Active {
		return nil
	}
	user.Active = false
	if err := s.repo.Update(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate user")
	}
	if err := s.sessions.RevokeAllForUser(ctx, user.ID); err != nil {
		return err
	}
	s.audit.Record(ctx, actorID, enums.AuditActionUpdate, auditEntity, user.ID, map[string]any{
		"active": map[string]any{"before": true, "after": false},
	})
	return nil
}

func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	ok, err := security.VerifyPassword(current, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}
	if len(next) < 12 {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 12 characters")
	}
	hash, err := security.HashPassword(next, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	return nil
}

func (s *service) findUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

// validateScope checks that role and affiliation line up: company roles
// need a company, the station operator additionally needs a station, and
// customs or system roles must carry neither.
func validateScope(role rbac.Role, companyID, stationID *uuid.UUID) error {
	if !role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
	}
	if role.IsCompanyScoped() {
		if companyID == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "company id is required for this role")
		}
		if role == rbac.RoleStationOperator && stationID == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "station id is required for station operators")
		}
		return nil
	}
	if companyID != nil || stationID != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "this role cannot be bound to a company or station")
	}
	return nil
}
