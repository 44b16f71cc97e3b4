package models

import (
	"time"

	"github.com/greenplains/sapbridge-backend/pkg/enums"
)

// SyncSchedule is a persisted recurring trigger configuration. The live
// scheduler mirrors is_active: an active schedule always has a registered
// job and an inactive one never does.
type SyncSchedule struct {
	ID                    uint                    `gorm:"column:id;primaryKey"`
	Name                  string                  `gorm:"column:name;size:100;not null"`
	SyncType              enums.SyncEntity        `gorm:"column:sync_type;size:20;not null;default:'ALL'"`
	Frequency             enums.ScheduleFrequency `gorm:"column:frequency;size:20;not null;default:'DAILY'"`
	CustomIntervalMinutes int                     `gorm:"column:custom_interval_minutes;not null;default:60"`
	Hour                  int                     `gorm:"column:hour;not null;default:6"`
	IsActive              bool                    `gorm:"column:is_active;not null;default:false"`
	LastRun               *time.Time              `gorm:"column:last_run"`
	NextRun               *time.Time              `gorm:"column:next_run"`
	CreatedAt             time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (SyncSchedule) TableName() string {
	return "sap_sync_schedules"
}
