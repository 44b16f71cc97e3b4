package sync

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/greenplains/sapbridge-backend/internal/reconcile"
	"github.com/greenplains/sapbridge-backend/pkg/db/models"
	"github.com/greenplains/sapbridge-backend/pkg/enums"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
)

const (
	defaultRunListLimit = 50
	maxRunListLimit     = 200
)

// RunListFilters narrow the audit trail listing.
type RunListFilters struct {
	SyncType *enums.SyncEntity
	Status   *enums.SyncStatus
	Limit    int
}

// Repository persists sync run audit rows and answers status queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateRun opens a STARTED audit row for the operation.
func (r *Repository) CreateRun(ctx context.Context, syncType enums.SyncEntity, triggeredBy enums.TriggerSource) (*models.SyncRun, error) {
	run := &models.SyncRun{
		SyncType:    syncType,
		Status:      enums.SyncStatusStarted,
		TriggeredBy: triggeredBy,
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// CompleteRun finishes the row in place. Each run completes exactly once;
// a retry is a new run, never a reopened one.
func (r *Repository) CompleteRun(ctx context.Context, run *models.SyncRun, status enums.SyncStatus, result reconcile.Result, errMessage string) error {
	if !status.Terminal() {
		return pkgerrors.New(pkgerrors.CodeInternal, "sync run must complete with a terminal status")
	}
	now := time.Now().UTC()
	run.Status = status
	run.RecordsProcessed = result.Processed
	run.RecordsCreated = result.Created
	run.RecordsUpdated = result.Updated
	run.ErrorMessage = errMessage
	run.CompletedAt = &now
	return r.db.WithContext(ctx).Save(run).Error
}

// ListRuns returns the newest runs first, optionally filtered.
func (r *Repository) ListRuns(ctx context.Context, filters RunListFilters) ([]models.SyncRun, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultRunListLimit
	}
	if limit > maxRunListLimit {
		limit = maxRunListLimit
	}

	qb := r.db.WithContext(ctx).Model(&models.SyncRun{})
	if filters.SyncType != nil {
		qb = qb.Where("sync_type = ?", *filters.SyncType)
	}
	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}

	var runs []models.SyncRun
	err := qb.Order("started_at DESC").Order("id DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// LatestRun returns the most recent run for the sync type, or nil when
// the type has never run.
func (r *Repository) LatestRun(ctx context.Context, syncType enums.SyncEntity) (*models.SyncRun, error) {
	var run models.SyncRun
	err := r.db.WithContext(ctx).
		Where("sync_type = ?", syncType).
		Order("started_at DESC").Order("id DESC").
		First(&run).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

// LatestSuccessfulRun returns the newest SUCCESS run of any type, or nil
// when nothing has succeeded yet.
func (r *Repository) LatestSuccessfulRun(ctx context.Context) (*models.SyncRun, error) {
	var run models.SyncRun
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.SyncStatusSuccess).
		Order("started_at DESC").Order("id DESC").
		First(&run).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

// CountActiveSchedules reports how many schedules currently have a live
// trigger.
func (r *Repository) CountActiveSchedules(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SyncSchedule{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

// EntityCounts reports how many local rows each master-data table holds.
type EntityCounts struct {
	Products       int64 `json:"products"`
	Parties        int64 `json:"parties"`
	PartyAddresses int64 `json:"party_addresses"`
	Branches       int64 `json:"branches"`
}

// CountEntities tallies local master data for the status endpoint.
func (r *Repository) CountEntities(ctx context.Context) (EntityCounts, error) {
	var counts EntityCounts
	tx := r.db.WithContext(ctx)
	if err := tx.Model(&models.Product{}).Count(&counts.Products).Error; err != nil {
		return counts, err
	}
	if err := tx.Model(&models.Party{}).Count(&counts.Parties).Error; err != nil {
		return counts, err
	}
	if err := tx.Model(&models.PartyAddress{}).Count(&counts.PartyAddresses).Error; err != nil {
		return counts, err
	}
	if err := tx.Model(&models.Branch{}).Count(&counts.Branches).Error; err != nil {
		return counts, err
	}
	return counts, nil
}
