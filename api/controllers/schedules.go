package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greenplains/sapbridge-backend/api/responses"
	"github.com/greenplains/sapbridge-backend/api/validators"
	"github.com/greenplains/sapbridge-backend/internal/schedule"
	"github.com/greenplains/sapbridge-backend/pkg/enums"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
	"github.com/greenplains/sapbridge-backend/pkg/logger"
)

type scheduleRequest struct {
	Name                  string `json:"name" validate:"required,min=1,max=100"`
	SyncType              string `json:"sync_type" validate:"required,oneof=PRODUCT PARTY PARTY_ADDRESS BRANCH ALL"`
	Frequency             string `json:"frequency" validate:"required,oneof=HOURLY DAILY WEEKLY CUSTOM"`
	CustomIntervalMinutes int    `json:"custom_interval_minutes" validate:"omitempty,min=1"`
	Hour                  int    `json:"hour" validate:"min=0,max=23"`
	IsActive              bool   `json:"is_active"`
}

func (r scheduleRequest) toInput() (schedule.ScheduleInput, error) {
	syncType, err := enums.ParseSyncEntity(r.SyncType)
	if err != nil {
		return schedule.ScheduleInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sync_type")
	}
	frequency, err := enums.ParseScheduleFrequency(r.Frequency)
	if err != nil {
		return schedule.ScheduleInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid frequency")
	}
	return schedule.ScheduleInput{
		Name:                  r.Name,
		SyncType:              syncType,
		Frequency:             frequency,
		CustomIntervalMinutes: r.CustomIntervalMinutes,
		Hour:                  r.Hour,
		IsActive:              r.IsActive,
	}, nil
}

type scheduleToggleRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func ScheduleCreate(svc *schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scheduleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newScheduleView(created))
	}
}

func ScheduleList(svc *schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schedules, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newScheduleViews(schedules))
	}
}

func ScheduleGet(svc *schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUint(chi.URLParam(r, "scheduleId"), "scheduleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newScheduleView(found))
	}
}

func ScheduleUpdate(svc *schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUint(chi.URLParam(r, "scheduleId"), "scheduleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req scheduleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newScheduleView(updated))
	}
}

// ScheduleToggle flips is_active without touching the rest of the
// configuration.
func ScheduleToggle(svc *schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUint(chi.URLParam(r, "scheduleId"), "scheduleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req scheduleToggleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		toggled, err := svc.Toggle(r.Context(), id, *req.IsActive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newScheduleView(toggled))
	}
}

func ScheduleDelete(svc *schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUint(chi.URLParam(r, "scheduleId"), "scheduleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true, "id": id})
	}
}

// ScheduleRefresh re-registers every active schedule with the live
// scheduler. Used after restoring the schedules table from a backup.
func ScheduleRefresh(svc *schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Refresh(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "refreshed"})
	}
}
