package cron

import (
	"context"
	"fmt"

	"github.com/fuelguard/fuelguard-backend/pkg/logger"
)

type sessionCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// SessionCleanupJob purges expired session rows.
type SessionCleanupJob struct {
	sessions sessionCleaner
	logg     *logger.Logger
}

func NewSessionCleanupJob(sessions sessionCleaner, logg *logger.Logger) (*SessionCleanupJob, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &SessionCleanupJob{sessions: sessions, logg: logg}, nil
}

func (j *SessionCleanupJob) Name() string {
	return "session_cleanup"
}

func (j *SessionCleanupJob) Run(ctx context.Context) error {
	removed, err := j.sessions.CleanupExpired(ctx)
	if err != nil {
		return fmt.Errorf("cleanup expired sessions: %w", err)
	}
	if removed > 0 {
		j.logg.Info(j.logg.WithField(ctx, "removed", removed), "expired sessions purged")
	}
	return nil
}
