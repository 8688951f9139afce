package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/fuelguard/fuelguard-backend/internal/periods"
)

// PeriodJob materializes reporting periods for the current and next month
// so submissions always have a period row to attach to.
type PeriodJob struct {
	periods periods.Service
	now     func() time.Time
}

func NewPeriodJob(svc periods.Service) (*PeriodJob, error) {
	if svc == nil {
		return nil, fmt.Errorf("period service required")
	}
	return &PeriodJob{periods: svc, now: time.Now}, nil
}

func (j *PeriodJob) Name() string {
	return "period_materializer"
}

func (j *PeriodJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	if _, err := j.periods.Generate(ctx, now.Year(), int(now.Month())); err != nil {
		return fmt.Errorf("generate current month: %w", err)
	}
	next := now.AddDate(0, 1, 0)
	if _, err := j.periods.Generate(ctx, next.Year(), int(next.Month())); err != nil {
		return fmt.Errorf("generate next month: %w", err)
	}
	return nil
}
