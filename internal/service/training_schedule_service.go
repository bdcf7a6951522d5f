package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pawsched/pawsched-api/internal/dto"
	"github.com/pawsched/pawsched-api/internal/models"
	"github.com/pawsched/pawsched-api/internal/scheduling"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

type trainingStore interface {
	FindByID(ctx context.Context, id string) (*models.TrainingSchedule, error)
	Create(ctx context.Context, sched *models.TrainingSchedule) error
	Mutate(ctx context.Context, id string, fn func(*models.TrainingSchedule) error) (*models.TrainingSchedule, error)
	Delete(ctx context.Context, id string) error
}

// TrainingScheduleService manages weekly training plans.
type TrainingScheduleService struct {
	repo         trainingStore
	appointments appointmentReader
	pets         petDirectory
	services     serviceDirectory
	cache        viewInvalidator
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	timeout      time.Duration
}

// NewTrainingScheduleService constructs the training schedule service.
func NewTrainingScheduleService(repo trainingStore, params ScheduleServiceParams) *TrainingScheduleService {
	p := params.withDefaults()
	return &TrainingScheduleService{
		repo:         repo,
		appointments: p.Appointments,
		pets:         p.Pets,
		services:     p.Services,
		cache:        p.Cache,
		metrics:      p.Metrics,
		validator:    p.Validator,
		logger:       p.Logger,
		timeout:      p.Timeout,
	}
}

// Create opens a training plan for the week starting at week_start_date.
func (s *TrainingScheduleService) Create(ctx context.Context, actor models.Actor, req dto.CreateTrainingScheduleRequest) (sched *models.TrainingSchedule, err error) {
	defer func() { s.metrics.RecordScheduleMutation(string(models.ScheduleKindTraining), "create", err) }()

	if err := requireActor(actor, models.RoleProvider); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid training schedule payload")
	}
	weekStart, err := scheduling.ParseDate(req.WeekStartDate)
	if err != nil {
		return nil, err
	}
	if err := scheduling.CheckDayPlanCount(req.DayPlanCount); err != nil {
		return nil, err
	}
	plans, err := scheduling.NormalizePlans(req.Schedule)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	pet, err := s.pets.FindByID(ctx, req.PetID)
	if err != nil {
		return nil, storeError(err, "pet not found", "failed to load pet")
	}
	if pet.Deleted() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "pet not found")
	}
	if _, err := s.services.FindByID(ctx, req.ServiceID); err != nil {
		return nil, storeError(err, "service not found", "failed to load service")
	}
	if _, err := loadLinkedAppointment(ctx, s.appointments, req.AppointmentID, req.PetID, req.ServiceID); err != nil {
		return nil, err
	}

	sched = &models.TrainingSchedule{
		AppointmentID: req.AppointmentID,
		PetID:         req.PetID,
		ServiceID:     req.ServiceID,
		WeekStartDate: weekStart,
		DayPlanCount:  req.DayPlanCount,
		Schedule:      plans,
		Comments:      req.Comments,
		CreatedBy:     actor.UserID,
	}
	if err := s.repo.Create(ctx, sched); err != nil {
		return nil, storeError(err, "training schedule not found", "failed to create training schedule")
	}

	s.logger.Info("training schedule created",
		zap.String("schedule_id", sched.ID),
		zap.String("week_start_date", req.WeekStartDate),
		zap.Int("day_plan_count", sched.DayPlanCount),
	)
	return sched, nil
}

// AddSession appends a session to a day of the plan.
func (s *TrainingScheduleService) AddSession(ctx context.Context, actor models.Actor, id string, req dto.AddSessionRequest) (*models.TrainingSchedule, error) {
	return s.mutate(ctx, actor, id, "add_session", func(t *models.TrainingSchedule) error {
		plans, err := scheduling.AddSession(t.Schedule, req.Day, req.Session)
		if err != nil {
			return err
		}
		t.Schedule = plans
		return nil
	})
}

// SetDayPlanCount changes how many weekday columns are visible. Sessions on
// hidden days are kept.
func (s *TrainingScheduleService) SetDayPlanCount(ctx context.Context, actor models.Actor, id string, count int) (*models.TrainingSchedule, error) {
	if err := scheduling.CheckDayPlanCount(count); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, "set_day_plan_count", func(t *models.TrainingSchedule) error {
		t.DayPlanCount = count
		return nil
	})
}

// SetSlotNote writes the notes of the session at (day, time), creating it when missing.
func (s *TrainingScheduleService) SetSlotNote(ctx context.Context, actor models.Actor, id string, req dto.SetSlotNoteRequest) (*models.TrainingSchedule, error) {
	return s.mutate(ctx, actor, id, "set_slot_note", func(t *models.TrainingSchedule) error {
		plans, err := scheduling.SetSlotNote(t.Schedule, t.DayPlanCount, req.Day, req.Time, req.Notes)
		if err != nil {
			return err
		}
		t.Schedule = plans
		return nil
	})
}

func (s *TrainingScheduleService) mutate(ctx context.Context, actor models.Actor, id, op string, apply func(*models.TrainingSchedule) error) (sched *models.TrainingSchedule, err error) {
	defer func() { s.metrics.RecordScheduleMutation(string(models.ScheduleKindTraining), op, err) }()

	if err := requireActor(actor, models.RoleProvider); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sched, err = s.repo.Mutate(ctx, id, func(t *models.TrainingSchedule) error {
		if t.CreatedBy != actor.UserID {
			return appErrors.Clone(appErrors.ErrForbidden, "schedule was created by another provider")
		}
		return apply(t)
	})
	if err != nil {
		return nil, storeError(err, "training schedule not found", "failed to update training schedule")
	}

	s.cache.InvalidateSchedule(ctx, models.ScheduleKindTraining, sched.ID)
	return sched, nil
}

// Get loads a training schedule by id.
func (s *TrainingScheduleService) Get(ctx context.Context, id string) (*models.TrainingSchedule, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	sched, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "training schedule not found", "failed to load training schedule")
	}
	return sched, nil
}

// VisibleDates returns the visible weekday columns paired with their dates.
func (s *TrainingScheduleService) VisibleDates(ctx context.Context, id string) ([]models.DayDate, error) {
	sched, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return scheduling.ResolveVisibleDates(sched.WeekStartDate, sched.DayPlanCount), nil
}

// Delete removes a plan. Only the provider who created it may do so.
func (s *TrainingScheduleService) Delete(ctx context.Context, actor models.Actor, id string) (err error) {
	defer func() { s.metrics.RecordScheduleMutation(string(models.ScheduleKindTraining), "delete", err) }()

	if err := requireActor(actor, models.RoleProvider); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sched, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeError(err, "training schedule not found", "failed to load training schedule")
	}
	if sched.CreatedBy != actor.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "schedule was created by another provider")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "training schedule not found", "failed to delete training schedule")
	}

	s.cache.InvalidateSchedule(ctx, models.ScheduleKindTraining, id)
	s.logger.Info("training schedule deleted", zap.String("schedule_id", id), zap.String(actorField, actor.UserID))
	return nil
}
