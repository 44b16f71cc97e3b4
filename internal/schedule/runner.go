package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/greenplains/sapbridge-backend/pkg/db/models"
	"github.com/greenplains/sapbridge-backend/pkg/enums"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
	"github.com/greenplains/sapbridge-backend/pkg/logger"
)

const defaultTick = 30 * time.Second

// Dispatcher starts a sync run when a schedule fires. Implemented by the
// sync coordinator.
type Dispatcher interface {
	Run(ctx context.Context, entity enums.SyncEntity, triggeredBy enums.TriggerSource) (*models.SyncRun, error)
}

// JobID derives the stable registration identifier for a schedule.
func JobID(scheduleID uint) string {
	return fmt.Sprintf("sync_schedule_%d", scheduleID)
}

// RunnerParams configure the live scheduler.
type RunnerParams struct {
	Logger     *logger.Logger
	Repo       *Repository
	Dispatcher Dispatcher
	Tick       time.Duration
}

// Runner is the process-wide scheduler. It owns every registered job:
// the registry always mirrors the persisted is_active flags, and fires
// run sequentially so one schedule never overlaps itself.
type Runner struct {
	logg     *logger.Logger
	repo     *Repository
	dispatch Dispatcher
	tick     time.Duration

	mu   sync.Mutex
	jobs map[uint]*registration
}

type registration struct {
	jobID    string
	schedule models.SyncSchedule
	nextAt   time.Time
}

// NewRunner builds the scheduler.
func NewRunner(params RunnerParams) (*Runner, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher required")
	}
	tick := params.Tick
	if tick <= 0 {
		tick = defaultTick
	}
	return &Runner{
		logg:     params.Logger,
		repo:     params.Repo,
		dispatch: params.Dispatcher,
		tick:     tick,
		jobs:     make(map[uint]*registration),
	}, nil
}

// Register adds or replaces the job for a schedule. Registration is
// idempotent, and the recomputed next fire time is persisted. An
// inactive schedule deregisters instead.
func (r *Runner) Register(ctx context.Context, schedule models.SyncSchedule) error {
	if !schedule.IsActive {
		r.Remove(schedule.ID)
		return nil
	}

	nextAt := NextFire(schedule, time.Now())

	r.mu.Lock()
	r.jobs[schedule.ID] = &registration{
		jobID:    JobID(schedule.ID),
		schedule: schedule,
		nextAt:   nextAt,
	}
	r.mu.Unlock()

	if err := r.repo.StampNextRun(ctx, schedule.ID, &nextAt); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist next run")
	}

	regCtx := r.logg.WithFields(ctx, map[string]any{
		"job":      JobID(schedule.ID),
		"schedule": schedule.Name,
		"next_run": nextAt.Format(time.RFC3339),
	})
	r.logg.Info(regCtx, "schedule job registered")
	return nil
}

// Remove drops the job registration for a schedule.
func (r *Runner) Remove(scheduleID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, scheduleID)
}

// IsRegistered reports whether the schedule currently has a live job.
func (r *Runner) IsRegistered(scheduleID uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.jobs[scheduleID]
	return ok
}

// Refresh drops every registration and re-adds all active schedules.
// Used after bulk configuration changes.
func (r *Runner) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.jobs = make(map[uint]*registration)
	r.mu.Unlock()

	active, err := r.repo.ListActive(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active schedules")
	}
	for _, schedule := range active {
		if err := r.Register(ctx, schedule); err != nil {
			return err
		}
	}
	r.logg.Info(ctx, "schedule registry refreshed")
	return nil
}

// Run loads all active schedules and ticks until the context is
// canceled. Every tick reconciles the registry against the database, so
// activations made by another process (the API) are picked up without a
// restart, then fires due jobs.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.Refresh(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	r.logg.Info(ctx, "schedule runner started")
	for {
		select {
		case <-ctx.Done():
			r.logg.Info(ctx, "schedule runner stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := r.reconcile(ctx); err != nil {
				r.logg.Error(ctx, "schedule registry reconcile failed", err)
			}
			r.fireDue(ctx, time.Now())
		}
	}
}

// reconcile aligns live registrations with persisted schedule state
// without resetting pending fire times.
func (r *Runner) reconcile(ctx context.Context) error {
	active, err := r.repo.ListActive(ctx)
	if err != nil {
		return err
	}

	activeByID := make(map[uint]models.SyncSchedule, len(active))
	for _, schedule := range active {
		activeByID[schedule.ID] = schedule
	}

	r.mu.Lock()
	var toRegister []models.SyncSchedule
	for id, reg := range r.jobs {
		schedule, stillActive := activeByID[id]
		if !stillActive {
			delete(r.jobs, id)
			continue
		}
		if schedule.UpdatedAt.After(reg.schedule.UpdatedAt) {
			// Configuration changed since registration; recompute.
			toRegister = append(toRegister, schedule)
		}
		delete(activeByID, id)
	}
	for _, schedule := range activeByID {
		toRegister = append(toRegister, schedule)
	}
	r.mu.Unlock()

	for _, schedule := range toRegister {
		if err := r.Register(ctx, schedule); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) fireDue(ctx context.Context, now time.Time) {
	r.mu.Lock()
	var due []*registration
	for _, reg := range r.jobs {
		if !reg.nextAt.After(now) {
			due = append(due, reg)
		}
	}
	r.mu.Unlock()

	for _, reg := range due {
		r.fire(ctx, reg, now)
	}
}

func (r *Runner) fire(ctx context.Context, reg *registration, now time.Time) {
	jobCtx := r.logg.WithField(ctx, "job", reg.jobID)

	// Reload: the schedule may have been deactivated or deleted since
	// the registry last reconciled.
	schedule, err := r.repo.FindByID(jobCtx, reg.schedule.ID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			r.Remove(reg.schedule.ID)
			return
		}
		r.logg.Error(jobCtx, "failed to load schedule before fire", err)
		return
	}
	if !schedule.IsActive {
		r.Remove(schedule.ID)
		return
	}

	r.logg.Info(jobCtx, "scheduled sync firing")
	if _, err := r.dispatch.Run(jobCtx, schedule.SyncType, enums.TriggerSourceScheduled); err != nil {
		// The run's own audit row carries the failure; the schedule
		// keeps firing on cadence.
		r.logg.Error(jobCtx, "scheduled sync failed", err)
	}

	firedAt := time.Now()
	if err := r.repo.StampLastRun(jobCtx, schedule.ID, firedAt); err != nil {
		r.logg.Error(jobCtx, "failed to stamp last run", err)
	}

	nextAt := NextFire(*schedule, firedAt)
	r.mu.Lock()
	if current, ok := r.jobs[schedule.ID]; ok {
		current.schedule = *schedule
		current.nextAt = nextAt
	}
	r.mu.Unlock()
	if err := r.repo.StampNextRun(jobCtx, schedule.ID, &nextAt); err != nil {
		r.logg.Error(jobCtx, "failed to stamp next run", err)
	}
}
