package models

import (
	"time"

	"github.com/greenplains/sapbridge-backend/pkg/enums"
)

// SyncRun is the audit record for one execution of a sync operation.
// Rows are created in STARTED status and completed exactly once; they are
// never reopened.
type SyncRun struct {
	ID               uint                `gorm:"column:id;primaryKey"`
	SyncType         enums.SyncEntity    `gorm:"column:sync_type;size:20;not null;index"`
	Status           enums.SyncStatus    `gorm:"column:status;size:10;not null;default:'STARTED';index"`
	RecordsProcessed int                 `gorm:"column:records_processed;not null;default:0"`
	RecordsCreated   int                 `gorm:"column:records_created;not null;default:0"`
	RecordsUpdated   int                 `gorm:"column:records_updated;not null;default:0"`
	ErrorMessage     string              `gorm:"column:error_message;type:text;not null;default:''"`
	TriggeredBy      enums.TriggerSource `gorm:"column:triggered_by;size:50;not null;default:'manual'"`
	StartedAt        time.Time           `gorm:"column:started_at;autoCreateTime;index:,sort:desc"`
	CompletedAt      *time.Time          `gorm:"column:completed_at"`
}

func (SyncRun) TableName() string {
	return "sap_sync_runs"
}
