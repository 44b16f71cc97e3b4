package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/greenplains/sapbridge-backend/api/routes"
	"github.com/greenplains/sapbridge-backend/internal/masterdata"
	"github.com/greenplains/sapbridge-backend/internal/orders"
	"github.com/greenplains/sapbridge-backend/internal/push"
	"github.com/greenplains/sapbridge-backend/internal/reconcile"
	"github.com/greenplains/sapbridge-backend/internal/remote"
	"github.com/greenplains/sapbridge-backend/internal/schedule"
	syncsvc "github.com/greenplains/sapbridge-backend/internal/sync"
	"github.com/greenplains/sapbridge-backend/pkg/config"
	"github.com/greenplains/sapbridge-backend/pkg/db"
	"github.com/greenplains/sapbridge-backend/pkg/logger"
	"github.com/greenplains/sapbridge-backend/pkg/metrics"
	"github.com/greenplains/sapbridge-backend/pkg/migrate"
	"github.com/greenplains/sapbridge-backend/pkg/redis"
	"github.com/greenplains/sapbridge-backend/pkg/sapsl"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	syncMetrics := metrics.NewSyncMetrics(registry)

	adapter, err := remote.Open(cfg.Remote, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open remote gateway", err)
		os.Exit(1)
	}
	defer func() {
		if err := adapter.Close(); err != nil {
			logg.Error(context.Background(), "error closing remote gateway", err)
		}
	}()

	lock, err := syncsvc.NewRedisLock(redisClient, redisClient.LockKey("sap-sync"), cfg.Scheduler.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync lock", err)
		os.Exit(1)
	}

	syncService, err := syncsvc.NewService(syncsvc.ServiceParams{
		Logger:  logg,
		Repo:    syncsvc.NewRepository(dbClient.DB()),
		Catalog: adapter,
		Engine:  reconcile.NewEngine(dbClient.DB(), logg),
		Lock:    lock,
		Metrics: syncMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sync service", err)
		os.Exit(1)
	}

	// The runner lives in the sync worker. Schedule writes from the API
	// are picked up there on the next reconcile tick.
	scheduleService, err := schedule.NewService(schedule.ServiceParams{
		Logger: logg,
		Repo:   schedule.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create schedule service", err)
		os.Exit(1)
	}

	slClient, err := sapsl.NewClient(cfg.ServiceLayer, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create service layer client", err)
		os.Exit(1)
	}

	pushService, err := push.NewService(push.ServiceParams{
		Logger:  logg,
		Orders:  orders.NewRepository(dbClient.DB()),
		Logs:    push.NewLogRepository(dbClient.DB()),
		Gateway: slClient,
		Metrics: syncMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create push service", err)
		os.Exit(1)
	}

	masterdataService, err := masterdata.NewService(masterdata.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create masterdata service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			DB:         dbClient,
			Redis:      redisClient,
			Registry:   registry,
			Sync:       syncService,
			Schedules:  scheduleService,
			Push:       pushService,
			MasterData: masterdataService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
