package schedule

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/greenplains/sapbridge-backend/pkg/db/models"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
)

// Repository persists schedule configurations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new schedule row.
func (r *Repository) Create(ctx context.Context, schedule *models.SyncSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

// Save persists all fields of an existing schedule.
func (r *Repository) Save(ctx context.Context, schedule *models.SyncSchedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}

// Delete removes the schedule row.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.SyncSchedule{}, id).Error
}

// FindByID loads one schedule.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.SyncSchedule, error) {
	var schedule models.SyncSchedule
	if err := r.db.WithContext(ctx).First(&schedule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "schedule not found")
		}
		return nil, err
	}
	return &schedule, nil
}

// List returns every schedule, newest first.
func (r *Repository) List(ctx context.Context) ([]models.SyncSchedule, error) {
	var schedules []models.SyncSchedule
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&schedules).Error
	return schedules, err
}

// ListActive returns schedules whose jobs should be registered.
func (r *Repository) ListActive(ctx context.Context) ([]models.SyncSchedule, error) {
	var schedules []models.SyncSchedule
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id ASC").Find(&schedules).Error
	return schedules, err
}

// StampLastRun records a fire without touching other fields. UpdateColumn
// keeps updated_at still: the runner treats an updated_at bump as an admin
// edit and would reset the pending fire time.
func (r *Repository) StampLastRun(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.SyncSchedule{}).
		Where("id = ?", id).
		UpdateColumn("last_run", at).Error
}

// StampNextRun persists the recomputed fire time. Skips updated_at for the
// same reason as StampLastRun.
func (r *Repository) StampNextRun(ctx context.Context, id uint, at *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.SyncSchedule{}).
		Where("id = ?", id).
		UpdateColumn("next_run", at).Error
}
