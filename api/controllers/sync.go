package controllers

import (
	"net/http"
	"strings"

	"github.com/greenplains/sapbridge-backend/api/responses"
	"github.com/greenplains/sapbridge-backend/api/validators"
	"github.com/greenplains/sapbridge-backend/internal/sync"
	"github.com/greenplains/sapbridge-backend/pkg/enums"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
	"github.com/greenplains/sapbridge-backend/pkg/logger"
)

type syncTriggerRequest struct {
	Entity string `json:"entity" validate:"omitempty,oneof=PRODUCT PARTY PARTY_ADDRESS BRANCH ALL"`
}

// SyncTrigger starts a sync run on demand. An omitted entity means ALL.
// A partial ALL failure still returns the audit row: the caller reads
// the outcome from its status and error message.
func SyncTrigger(svc *sync.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req syncTriggerRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		entity := enums.SyncEntityAll
		if req.Entity != "" {
			parsed, err := enums.ParseSyncEntity(req.Entity)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sync entity"))
				return
			}
			entity = parsed
		}

		run, err := svc.Run(r.Context(), entity, enums.TriggerSourceManual)
		if err != nil && run == nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, newSyncRunView(run))
	}
}

// SyncRuns lists the audit trail, newest first.
func SyncRuns(svc *sync.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := sync.RunListFilters{}

		if raw := strings.TrimSpace(r.URL.Query().Get("sync_type")); raw != "" {
			entity, err := enums.ParseSyncEntity(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sync_type filter"))
				return
			}
			filters.SyncType = &entity
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.SyncStatus(strings.ToUpper(raw))
			if !status.Valid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.Limit = limit

		runs, err := svc.ListRuns(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSyncRunViews(runs))
	}
}

// SyncStatus reports row counts and recent run health.
func SyncStatus(svc *sync.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := svc.Status(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSyncStatusView(status))
	}
}
