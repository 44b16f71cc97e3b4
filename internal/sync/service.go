package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/greenplains/sapbridge-backend/internal/reconcile"
	"github.com/greenplains/sapbridge-backend/internal/remote"
	"github.com/greenplains/sapbridge-backend/pkg/db/models"
	"github.com/greenplains/sapbridge-backend/pkg/enums"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
	"github.com/greenplains/sapbridge-backend/pkg/logger"
	"github.com/greenplains/sapbridge-backend/pkg/metrics"
)

// ServiceParams configure the sync coordinator.
type ServiceParams struct {
	Logger  *logger.Logger
	Repo    *Repository
	Catalog remote.Catalog
	Engine  *reconcile.Engine
	Lock    Lock
	Metrics *metrics.SyncMetrics
}

// Service coordinates pull-reconcile runs and their audit trail.
type Service struct {
	logg    *logger.Logger
	repo    *Repository
	catalog remote.Catalog
	engine  *reconcile.Engine
	lock    Lock
	metrics *metrics.SyncMetrics
}

// NewService builds the coordinator.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("remote catalog required")
	}
	if params.Engine == nil {
		return nil, fmt.Errorf("reconcile engine required")
	}
	return &Service{
		logg:    params.Logger,
		repo:    params.Repo,
		catalog: params.Catalog,
		engine:  params.Engine,
		lock:    params.Lock,
		metrics: params.Metrics,
	}, nil
}

// Run executes one sync operation. ALL fans out to every entity in fixed
// order; a single entity runs alone. The returned run is the audit row
// for the requested operation, already completed. For ALL, the error
// aggregates per-entity failures while successful entities keep their
// writes: one unreachable catalog never rolls back the others.
func (s *Service) Run(ctx context.Context, entity enums.SyncEntity, triggeredBy enums.TriggerSource) (*models.SyncRun, error) {
	if !entity.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown sync type %q", entity))
	}

	if s.lock != nil {
		locked, err := s.lock.Acquire(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire sync lock")
		}
		if !locked {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a sync run is already in progress")
		}
		defer func() {
			if err := s.lock.Release(ctx); err != nil {
				s.logg.Error(ctx, "failed to release sync lock", err)
			}
		}()
	}

	if entity == enums.SyncEntityAll {
		return s.runAll(ctx, triggeredBy)
	}
	run, _, err := s.runEntity(ctx, entity, triggeredBy)
	return run, err
}

// ListRuns exposes the audit trail.
func (s *Service) ListRuns(ctx context.Context, filters RunListFilters) ([]models.SyncRun, error) {
	runs, err := s.repo.ListRuns(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sync runs")
	}
	return runs, nil
}

// Status describes current sync health for dashboards.
type Status struct {
	Counts          EntityCounts                         `json:"counts"`
	LatestRuns      map[enums.SyncEntity]*models.SyncRun `json:"latest_runs"`
	LastSuccess     *models.SyncRun                      `json:"last_success"`
	ActiveSchedules int64                                `json:"active_schedules"`
}

// Status reports local row counts, the latest run per sync type, the
// newest successful run, and how many schedules are live.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	counts, err := s.repo.CountEntities(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count local entities")
	}

	latest := make(map[enums.SyncEntity]*models.SyncRun)
	for _, entity := range append(append([]enums.SyncEntity{}, enums.EntitySyncOrder...), enums.SyncEntityAll) {
		run, err := s.repo.LatestRun(ctx, entity)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load latest run")
		}
		latest[entity] = run
	}

	lastSuccess, err := s.repo.LatestSuccessfulRun(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load last successful run")
	}
	activeSchedules, err := s.repo.CountActiveSchedules(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active schedules")
	}

	return &Status{
		Counts:          counts,
		LatestRuns:      latest,
		LastSuccess:     lastSuccess,
		ActiveSchedules: activeSchedules,
	}, nil
}

func (s *Service) runAll(ctx context.Context, triggeredBy enums.TriggerSource) (*models.SyncRun, error) {
	run, err := s.repo.CreateRun(ctx, enums.SyncEntityAll, triggeredBy)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open sync run")
	}
	ctx = s.logg.WithRunID(ctx, run.ID)

	var (
		total    reconcile.Result
		failures []string
		combined error
	)
	for _, entity := range enums.EntitySyncOrder {
		_, result, err := s.runEntity(ctx, entity, triggeredBy)
		total.Merge(result)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %s", entity, errorMessage(err)))
			combined = multierr.Append(combined, err)
		}
	}

	status := enums.SyncStatusSuccess
	if len(failures) > 0 {
		status = enums.SyncStatusFailed
	}
	if err := s.repo.CompleteRun(ctx, run, status, total, strings.Join(failures, "\n")); err != nil {
		return run, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete sync run")
	}
	return run, combined
}

func (s *Service) runEntity(ctx context.Context, entity enums.SyncEntity, triggeredBy enums.TriggerSource) (*models.SyncRun, reconcile.Result, error) {
	run, err := s.repo.CreateRun(ctx, entity, triggeredBy)
	if err != nil {
		return nil, reconcile.Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open sync run")
	}

	runCtx := s.logg.WithRunID(ctx, run.ID)
	runCtx = s.logg.WithEntity(runCtx, entity.String())
	s.logg.Info(runCtx, "sync run starting")

	start := time.Now()
	result, execErr := s.execute(runCtx, entity)
	s.observeDuration(entity, time.Since(start))

	status := enums.SyncStatusSuccess
	errMessage := ""
	if execErr != nil {
		status = enums.SyncStatusFailed
		errMessage = errorMessage(execErr)
		s.logg.Error(runCtx, "sync run failed", execErr)
		s.recordFailure(entity)
	} else {
		s.logg.Info(runCtx, "sync run complete")
		s.recordSuccess(entity, result)
	}

	if err := s.repo.CompleteRun(runCtx, run, status, result, errMessage); err != nil {
		return run, result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete sync run")
	}
	return run, result, execErr
}

func (s *Service) execute(ctx context.Context, entity enums.SyncEntity) (reconcile.Result, error) {
	switch entity {
	case enums.SyncEntityProduct:
		rows, err := s.catalog.FetchProducts(ctx)
		if err != nil {
			return reconcile.Result{}, err
		}
		return s.engine.Products(ctx, rows)
	case enums.SyncEntityParty:
		rows, err := s.catalog.FetchParties(ctx)
		if err != nil {
			return reconcile.Result{}, err
		}
		return s.engine.Parties(ctx, rows)
	case enums.SyncEntityPartyAddress:
		rows, err := s.catalog.FetchPartyAddresses(ctx)
		if err != nil {
			return reconcile.Result{}, err
		}
		return s.engine.PartyAddresses(ctx, rows)
	case enums.SyncEntityBranch:
		rows, err := s.catalog.FetchBranches(ctx)
		if err != nil {
			return reconcile.Result{}, err
		}
		return s.engine.Branches(ctx, rows)
	default:
		return reconcile.Result{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown sync type %q", entity))
	}
}

func (s *Service) observeDuration(entity enums.SyncEntity, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveRunDuration(entity.String(), duration)
}

func (s *Service) recordSuccess(entity enums.SyncEntity, result reconcile.Result) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncRunSuccess(entity.String())
	s.metrics.AddRowsWritten(entity.String(), "created", result.Created)
	s.metrics.AddRowsWritten(entity.String(), "updated", result.Updated)
}

func (s *Service) recordFailure(entity enums.SyncEntity) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncRunFailure(entity.String())
}

func errorMessage(err error) string {
	return err.Error()
}
