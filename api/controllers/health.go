package controllers

import (
	"net/http"

	"github.com/greenplains/sapbridge-backend/api/responses"
	"github.com/greenplains/sapbridge-backend/pkg/config"
	"github.com/greenplains/sapbridge-backend/pkg/db"
	"github.com/greenplains/sapbridge-backend/pkg/logger"
	"github.com/greenplains/sapbridge-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SAPBridge-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the local dependencies. The remote HANA gateway and
// the Service Layer are deliberately excluded: the bridge is ready to
// serve reads and accept triggers even when SAP is down.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SAPBridge-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			checks["database"] = "ok"
			if err := dbP.Ping(r.Context()); err != nil {
				checks["database"] = "unavailable"
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "readiness database ping failed", err)
				}
			}
		}
		if redisP != nil {
			checks["redis"] = "ok"
			if err := redisP.Ping(r.Context()); err != nil {
				checks["redis"] = "unavailable"
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "readiness redis ping failed", err)
				}
			}
		}

		status := "ready"
		code := http.StatusOK
		if !healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, code, map[string]any{
			"status": status,
			"checks": checks,
		})
	}
}
