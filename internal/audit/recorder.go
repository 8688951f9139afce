package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
)

// Recorder appends audit rows for entity mutations. Failures are logged
// and swallowed so an audit outage never blocks the mutation itself.
type Recorder struct {
	repo *Repository
	logg *logger.Logger
}

func NewRecorder(repo *Repository, logg *logger.Logger) *Recorder {
	return &Recorder{repo: repo, logg: logg}
}

// Record writes one audit entry. diff may be nil for deletes.
func (r *Recorder) Record(ctx context.Context, actorID uuid.UUID, action enums.AuditAction, entityType string, entityID uuid.UUID, diff map[string]any) {
	if r == nil || r.repo == nil {
		return
	}
	var payload datatypes.JSON
	if diff != nil {
		raw, err := json.Marshal(diff)
		if err != nil {
			r.logError(ctx, "audit.encode_diff", err)
			return
		}
		payload = datatypes.JSON(raw)
	}
	entry := models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Diff:       payload,
	}
	if err := r.repo.Create(ctx, &entry); err != nil {
		r.logError(ctx, "audit.write", err)
	}
}

// Transition records a state change with from/to values.
func (r *Recorder) Transition(ctx context.Context, actorID uuid.UUID, entityType string, entityID uuid.UUID, from, to string, extra map[string]any) {
	diff := map[string]any{"from": from, "to": to}
	for k, v := range extra {
		diff[k] = v
	}
	r.Record(ctx, actorID, enums.AuditActionTransition, entityType, entityID, diff)
}

// FieldDiff builds a before/after diff map for changed fields only.
func FieldDiff(before, after map[string]any) map[string]any {
	diff := map[string]any{}
	for field, newVal := range after {
		oldVal, had := before[field]
		if !had || oldVal != newVal {
			diff[field] = map[string]any{"before": oldVal, "after": newVal}
		}
	}
	if len(diff) == 0 {
		return nil
	}
	return diff
}

func (r *Recorder) logError(ctx context.Context, msg string, err error) {
	if r.logg == nil {
		return
	}
	r.logg.Error(ctx, msg, err)
}
