package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/greenplains/sapbridge-backend/api/controllers"
	"github.com/greenplains/sapbridge-backend/api/middleware"
	"github.com/greenplains/sapbridge-backend/internal/masterdata"
	"github.com/greenplains/sapbridge-backend/internal/push"
	"github.com/greenplains/sapbridge-backend/internal/schedule"
	syncsvc "github.com/greenplains/sapbridge-backend/internal/sync"
	"github.com/greenplains/sapbridge-backend/pkg/config"
	"github.com/greenplains/sapbridge-backend/pkg/db"
	"github.com/greenplains/sapbridge-backend/pkg/logger"
	"github.com/greenplains/sapbridge-backend/pkg/redis"
)

type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         db.Pinger
	Redis      redis.Pinger
	Registry   *prometheus.Registry
	Sync       *syncsvc.Service
	Schedules  *schedule.Service
	Push       *push.Service
	MasterData *masterdata.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/sync", func(r chi.Router) {
			r.Post("/trigger", controllers.SyncTrigger(deps.Sync, logg))
			r.Get("/runs", controllers.SyncRuns(deps.Sync, logg))
			r.Get("/status", controllers.SyncStatus(deps.Sync, logg))
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Post("/", controllers.ScheduleCreate(deps.Schedules, logg))
			r.Get("/", controllers.ScheduleList(deps.Schedules, logg))
			r.Post("/refresh", controllers.ScheduleRefresh(deps.Schedules, logg))
			r.Route("/{scheduleId}", func(r chi.Router) {
				r.Get("/", controllers.ScheduleGet(deps.Schedules, logg))
				r.Put("/", controllers.ScheduleUpdate(deps.Schedules, logg))
				r.Post("/toggle", controllers.ScheduleToggle(deps.Schedules, logg))
				r.Delete("/", controllers.ScheduleDelete(deps.Schedules, logg))
			})
		})

		r.Route("/orders/{orderId}", func(r chi.Router) {
			r.Post("/push", controllers.OrderPush(deps.Push, logg))
			r.Get("/push-logs", controllers.OrderPushLogs(deps.Push, logg))
		})

		r.Route("/master-data", func(r chi.Router) {
			r.Get("/products", controllers.ProductsList(deps.MasterData, logg))
			r.Get("/parties", controllers.PartiesList(deps.MasterData, logg))
			r.Get("/party-addresses", controllers.PartyAddressesList(deps.MasterData, logg))
			r.Get("/branches", controllers.BranchesList(deps.MasterData, logg))
		})
	})

	return r
}
