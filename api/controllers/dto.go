package controllers

import (
	"time"

	"github.com/greenplains/sapbridge-backend/internal/sync"
	"github.com/greenplains/sapbridge-backend/pkg/db/models"
)

// View structs decouple the wire shape from the gorm models. Field names
// follow the dashboard's existing contract, so renames here are breaking.

type syncRunView struct {
	ID               uint       `json:"id"`
	SyncType         string     `json:"sync_type"`
	Status           string     `json:"status"`
	RecordsProcessed int        `json:"records_processed"`
	RecordsCreated   int        `json:"records_created"`
	RecordsUpdated   int        `json:"records_updated"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	TriggeredBy      string     `json:"triggered_by"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
}

func newSyncRunView(run *models.SyncRun) *syncRunView {
	if run == nil {
		return nil
	}
	return &syncRunView{
		ID:               run.ID,
		SyncType:         run.SyncType.String(),
		Status:           run.Status.String(),
		RecordsProcessed: run.RecordsProcessed,
		RecordsCreated:   run.RecordsCreated,
		RecordsUpdated:   run.RecordsUpdated,
		ErrorMessage:     run.ErrorMessage,
		TriggeredBy:      run.TriggeredBy.String(),
		StartedAt:        run.StartedAt,
		CompletedAt:      run.CompletedAt,
	}
}

func newSyncRunViews(runs []models.SyncRun) []syncRunView {
	views := make([]syncRunView, 0, len(runs))
	for i := range runs {
		views = append(views, *newSyncRunView(&runs[i]))
	}
	return views
}

type syncStatusView struct {
	Counts          sync.EntityCounts       `json:"counts"`
	LatestRuns      map[string]*syncRunView `json:"latest_runs"`
	LastSuccess     *syncRunView            `json:"last_success"`
	ActiveSchedules int64                   `json:"active_schedules"`
}

func newSyncStatusView(status *sync.Status) syncStatusView {
	latest := make(map[string]*syncRunView, len(status.LatestRuns))
	for entity, run := range status.LatestRuns {
		latest[entity.String()] = newSyncRunView(run)
	}
	return syncStatusView{
		Counts:          status.Counts,
		LatestRuns:      latest,
		LastSuccess:     newSyncRunView(status.LastSuccess),
		ActiveSchedules: status.ActiveSchedules,
	}
}

type scheduleView struct {
	ID                    uint       `json:"id"`
	Name                  string     `json:"name"`
	SyncType              string     `json:"sync_type"`
	Frequency             string     `json:"frequency"`
	CustomIntervalMinutes int        `json:"custom_interval_minutes"`
	Hour                  int        `json:"hour"`
	IsActive              bool       `json:"is_active"`
	LastRun               *time.Time `json:"last_run"`
	NextRun               *time.Time `json:"next_run"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func newScheduleView(schedule *models.SyncSchedule) scheduleView {
	return scheduleView{
		ID:                    schedule.ID,
		Name:                  schedule.Name,
		SyncType:              schedule.SyncType.String(),
		Frequency:             schedule.Frequency.String(),
		CustomIntervalMinutes: schedule.CustomIntervalMinutes,
		Hour:                  schedule.Hour,
		IsActive:              schedule.IsActive,
		LastRun:               schedule.LastRun,
		NextRun:               schedule.NextRun,
		CreatedAt:             schedule.CreatedAt,
		UpdatedAt:             schedule.UpdatedAt,
	}
}

func newScheduleViews(schedules []models.SyncSchedule) []scheduleView {
	views := make([]scheduleView, 0, len(schedules))
	for i := range schedules {
		views = append(views, newScheduleView(&schedules[i]))
	}
	return views
}

type pushLogView struct {
	ID           uint       `json:"id"`
	OrderID      uint       `json:"order_id"`
	Status       string     `json:"status"`
	SAPDocEntry  *int       `json:"sap_doc_entry"`
	SAPDocNum    *int       `json:"sap_doc_num"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

func newPushLogView(log *models.OutboundDocumentLog) pushLogView {
	return pushLogView{
		ID:           log.ID,
		OrderID:      log.OrderID,
		Status:       log.Status.String(),
		SAPDocEntry:  log.SAPDocEntry,
		SAPDocNum:    log.SAPDocNum,
		ErrorMessage: log.ErrorMessage,
		CreatedAt:    log.CreatedAt,
		CompletedAt:  log.CompletedAt,
	}
}

func newPushLogViews(logs []models.OutboundDocumentLog) []pushLogView {
	views := make([]pushLogView, 0, len(logs))
	for i := range logs {
		views = append(views, newPushLogView(&logs[i]))
	}
	return views
}
