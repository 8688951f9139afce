package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	apperrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/rbac"
)

// Data is the server-side payload of an authenticated session.
type Data struct {
	UserID    uuid.UUID  `json:"userId"`
	Role      rbac.Role  `json:"role"`
	CompanyID *uuid.UUID `json:"companyId,omitempty"`
	StationID *uuid.UUID `json:"stationId,omitempty"`
}

// Manager persists sessions in the sessions table. The cookie only
// carries a signed session ID; revoking a row invalidates the cookie
// immediately regardless of its expiry.
type Manager struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewManager(db *gorm.DB, ttl time.Duration) (*Manager, error) {
	if db == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "db is required")
	}
	if ttl <= 0 {
		return nil, apperrors.New(apperrors.CodeInternal, "session ttl must be positive")
	}
	return &Manager{db: db, ttl: ttl}, nil
}

// Create stores a new session row and returns its ID.
func (m *Manager) Create(ctx context.Context, data Data) (uuid.UUID, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.CodeInternal, err, "encode session data")
	}
	row := models.Session{
		SID:       uuid.New(),
		Data:      datatypes.JSON(payload),
		ExpiresAt: time.Now().UTC().Add(m.ttl),
	}
	if err := m.db.WithContext(ctx).Create(&row).Error; err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.CodeInternal, err, "create session")
	}
	return row.SID, nil
}

// Load fetches a live session. Expired or missing rows come back as
// unauthorized so the caller can clear the cookie.
func (m *Manager) Load(ctx context.Context, sid uuid.UUID) (*Data, error) {
	var row models.Session
	err := m.db.WithContext(ctx).Where("sid = ?", sid).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.New(apperrors.CodeUnauthorized, "session not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "load session")
	}
	if time.Now().UTC().After(row.ExpiresAt) {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "session expired")
	}
	var data Data
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "decode session data")
	}
	return &data, nil
}

// Revoke deletes a session row. Deleting an absent row is not an error.
func (m *Manager) Revoke(ctx context.Context, sid uuid.UUID) error {
	if err := m.db.WithContext(ctx).Where("sid = ?", sid).Delete(&models.Session{}).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "revoke session")
	}
	return nil
}

// RevokeAllForUser removes every session belonging to the user. Used
// when an account is deactivated.
func (m *Manager) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	err := m.db.WithContext(ctx).
		Where("data ->> 'userId' = ?", userID.String()).
		Delete(&models.Session{}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "revoke user sessions")
	}
	return nil
}

// CleanupExpired removes sessions past their expiry and reports how
// many rows were deleted.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	res := m.db.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&models.Session{})
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.CodeInternal, res.Error, "cleanup expired sessions")
	}
	return res.RowsAffected, nil
}
