package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greenplains/sapbridge-backend/api/responses"
	"github.com/greenplains/sapbridge-backend/api/validators"
	"github.com/greenplains/sapbridge-backend/internal/push"
	"github.com/greenplains/sapbridge-backend/pkg/logger"
)

// OrderPush sends the order to SAP as a sales quotation. Failures are
// reported to the caller and recorded in the push log either way.
func OrderPush(svc *push.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUint(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		log, err := svc.Push(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newPushLogView(log))
	}
}

// OrderPushLogs lists every push attempt for the order, newest first.
func OrderPushLogs(svc *push.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUint(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logs, err := svc.History(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newPushLogViews(logs))
	}
}
