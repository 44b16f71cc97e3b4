package push

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/greenplains/sapbridge-backend/pkg/db/models"
	"github.com/greenplains/sapbridge-backend/pkg/enums"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
)

// LogRepository persists one row per push attempt. Attempts are never
// updated into each other: retrying an order appends a fresh row, so the
// log doubles as the retry history.
type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// CreateAttempt records the attempt before the wire call so a crashed
// process still leaves a STARTED row behind.
func (r *LogRepository) CreateAttempt(ctx context.Context, orderID uint, requestPayload string) (*models.OutboundDocumentLog, error) {
	log := models.OutboundDocumentLog{
		OrderID:        orderID,
		Status:         enums.SyncStatusStarted,
		RequestPayload: requestPayload,
	}
	if err := r.db.WithContext(ctx).Create(&log).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create push log")
	}
	return &log, nil
}

func (r *LogRepository) MarkSuccess(ctx context.Context, log *models.OutboundDocumentLog, docEntry, docNum int, responsePayload string) error {
	now := time.Now().UTC()
	log.Status = enums.SyncStatusSuccess
	log.SAPDocEntry = &docEntry
	log.SAPDocNum = &docNum
	log.ResponsePayload = responsePayload
	log.CompletedAt = &now
	if err := r.db.WithContext(ctx).Save(log).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete push log")
	}
	return nil
}

func (r *LogRepository) MarkFailed(ctx context.Context, log *models.OutboundDocumentLog, errorMessage, responsePayload string) error {
	now := time.Now().UTC()
	log.Status = enums.SyncStatusFailed
	log.ErrorMessage = errorMessage
	log.ResponsePayload = responsePayload
	log.CompletedAt = &now
	if err := r.db.WithContext(ctx).Save(log).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete push log")
	}
	return nil
}

// ListByOrder returns the attempt history for one order, newest first.
func (r *LogRepository) ListByOrder(ctx context.Context, orderID uint) ([]models.OutboundDocumentLog, error) {
	var logs []models.OutboundDocumentLog
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list push logs")
	}
	return logs, nil
}
