package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/greenplains/sapbridge-backend/pkg/db/models"
	"github.com/greenplains/sapbridge-backend/pkg/enums"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
	"github.com/greenplains/sapbridge-backend/pkg/logger"
)

// Registry is the live scheduler surface the admin service mirrors into.
// Implemented by Runner. A nil registry means this process does not host
// the scheduler; persisted state is still authoritative and the hosting
// process reconciles on its next tick.
type Registry interface {
	Register(ctx context.Context, schedule models.SyncSchedule) error
	Remove(scheduleID uint)
	Refresh(ctx context.Context) error
	IsRegistered(scheduleID uint) bool
}

// ServiceParams configure the schedule admin service.
type ServiceParams struct {
	Logger   *logger.Logger
	Repo     *Repository
	Registry Registry
}

// Service manages schedule configuration and keeps the live registry in
// step with the active flags.
type Service struct {
	logg     *logger.Logger
	repo     *Repository
	registry Registry
}

// NewService builds the admin service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	return &Service{
		logg:     params.Logger,
		repo:     params.Repo,
		registry: params.Registry,
	}, nil
}

// ScheduleInput carries the mutable schedule configuration.
type ScheduleInput struct {
	Name                  string
	SyncType              enums.SyncEntity
	Frequency             enums.ScheduleFrequency
	CustomIntervalMinutes int
	Hour                  int
	IsActive              bool
}

func (in ScheduleInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "schedule name is required")
	}
	if !in.SyncType.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown sync type %q", in.SyncType))
	}
	if !in.Frequency.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown frequency %q", in.Frequency))
	}
	if in.Hour < 0 || in.Hour > 23 {
		return pkgerrors.New(pkgerrors.CodeValidation, "hour must be between 0 and 23")
	}
	if in.Frequency == enums.ScheduleFrequencyCustom && in.CustomIntervalMinutes < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "custom interval must be at least one minute")
	}
	return nil
}

// Create persists a new schedule and registers its job when active.
func (s *Service) Create(ctx context.Context, input ScheduleInput) (*models.SyncSchedule, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	schedule := &models.SyncSchedule{
		Name:                  strings.TrimSpace(input.Name),
		SyncType:              input.SyncType,
		Frequency:             input.Frequency,
		CustomIntervalMinutes: input.CustomIntervalMinutes,
		Hour:                  input.Hour,
		IsActive:              input.IsActive,
	}
	if schedule.CustomIntervalMinutes <= 0 {
		schedule.CustomIntervalMinutes = 60
	}
	if schedule.IsActive {
		next := NextFire(*schedule, time.Now())
		schedule.NextRun = &next
	}

	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create schedule")
	}
	if err := s.mirror(ctx, schedule); err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "schedule", schedule.Name), "schedule created")
	return schedule, nil
}

// Update rewrites the schedule configuration and re-registers its job.
func (s *Service) Update(ctx context.Context, id uint, input ScheduleInput) (*models.SyncSchedule, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	schedule.Name = strings.TrimSpace(input.Name)
	schedule.SyncType = input.SyncType
	schedule.Frequency = input.Frequency
	schedule.CustomIntervalMinutes = input.CustomIntervalMinutes
	if schedule.CustomIntervalMinutes <= 0 {
		schedule.CustomIntervalMinutes = 60
	}
	schedule.Hour = input.Hour
	schedule.IsActive = input.IsActive
	if schedule.IsActive {
		next := NextFire(*schedule, time.Now())
		schedule.NextRun = &next
	} else {
		schedule.NextRun = nil
	}

	if err := s.repo.Save(ctx, schedule); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update schedule")
	}
	if err := s.mirror(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// Toggle activates or deactivates the schedule. Activation recomputes
// next_run and registers the job; deactivation removes the job and
// clears next_run.
func (s *Service) Toggle(ctx context.Context, id uint, active bool) (*models.SyncSchedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	schedule.IsActive = active
	if active {
		next := NextFire(*schedule, time.Now())
		schedule.NextRun = &next
	} else {
		schedule.NextRun = nil
	}

	if err := s.repo.Save(ctx, schedule); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle schedule")
	}
	if err := s.mirror(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// Delete removes the schedule and its job registration.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete schedule")
	}
	if s.registry != nil {
		s.registry.Remove(id)
	}
	return nil
}

// Get loads one schedule.
func (s *Service) Get(ctx context.Context, id uint) (*models.SyncSchedule, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns all schedules.
func (s *Service) List(ctx context.Context) ([]models.SyncSchedule, error) {
	schedules, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list schedules")
	}
	return schedules, nil
}

// Refresh re-registers every active schedule in the live registry.
func (s *Service) Refresh(ctx context.Context) error {
	if s.registry == nil {
		return nil
	}
	return s.registry.Refresh(ctx)
}

func (s *Service) mirror(ctx context.Context, schedule *models.SyncSchedule) error {
	if s.registry == nil {
		return nil
	}
	if err := s.registry.Register(ctx, *schedule); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mirror schedule into registry")
	}
	return nil
}
