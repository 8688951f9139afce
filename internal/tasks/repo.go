package tasks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
)

// Repository handles task and thread persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, task *models.Task) error {
	if task == nil {
		return fmt.Errorf("task is required")
	}
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID loads a task with its message thread in creation order.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns tasks matching the filter. With PrioritizeHighRisk the
// queue orders escalated sanctions and critical severities first,
// falling back to age within each band.
func (r *Repository) List(ctx context.Context, filter ListFilter, companyID *uuid.UUID, limit int) ([]models.Task, error) {
	if limit <= 0 {
		limit = 50
	}
	query := r.db.WithContext(ctx).Model(&models.Task{}).Limit(limit)

	if companyID != nil {
		query = query.
			Joins("JOIN stations s ON s.id = tasks.station_id").
			Where("s.company_id = ?", *companyID)
	}
	if filter.StationID != nil {
		query = query.Where("tasks.station_id = ?", *filter.StationID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}

	if filter.PrioritizeHighRisk {
		query = query.Order(riskOrder).Order("tasks.created_at ASC")
	} else {
		query = query.Order("tasks.created_at DESC")
	}

	var rows []models.Task
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// riskOrder ranks lexicographically: any ESCALATED task outranks every
// non-escalated one, then SANCTION outranks ACTION, then severity
// breaks ties. An escalated minor sanction still surfaces before a
// routine major action.
const riskOrder = `
	(CASE WHEN tasks.status = 'ESCALATED' THEN 0 ELSE 1 END) ASC,
	(CASE WHEN tasks.type = 'SANCTION' THEN 0 ELSE 1 END) ASC,
	(CASE tasks.severity WHEN 'CRITICAL' THEN 0 WHEN 'MAJOR' THEN 1 ELSE 2 END) ASC`

func (r *Repository) Update(ctx context.Context, task *models.Task) error {
	if task == nil {
		return fmt.Errorf("task is required")
	}
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *Repository) CreateMessage(ctx context.Context, message *models.TaskMessage) error {
	if message == nil {
		return fmt.Errorf("message is required")
	}
	return r.db.WithContext(ctx).Create(message).Error
}
