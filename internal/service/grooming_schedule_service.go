package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pawsched/pawsched-api/internal/dto"
	"github.com/pawsched/pawsched-api/internal/models"
	"github.com/pawsched/pawsched-api/internal/repository"
	"github.com/pawsched/pawsched-api/internal/scheduling"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

type groomingStore interface {
	FindByID(ctx context.Context, id string) (*models.GroomingSchedule, error)
	Create(ctx context.Context, sched *models.GroomingSchedule) error
	Mutate(ctx context.Context, id string, fn func(*models.GroomingSchedule) error) (*models.GroomingSchedule, error)
	Delete(ctx context.Context, id string) error
}

type appointmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Appointment, error)
}

// ScheduleServiceParams groups the collaborators shared by the derived schedule services.
type ScheduleServiceParams struct {
	Appointments appointmentReader
	Pets         petDirectory
	Services     serviceDirectory
	Cache        viewInvalidator
	Metrics      *MetricsService
	Validator    *validator.Validate
	Logger       *zap.Logger
	Timeout      time.Duration
}

func (p ScheduleServiceParams) withDefaults() ScheduleServiceParams {
	if p.Validator == nil {
		p.Validator = validator.New()
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Timeout <= 0 {
		p.Timeout = defaultDependencyTimeout
	}
	p.Cache = invalidatorOrNoop(p.Cache)
	return p
}

// GroomingScheduleService manages the single grooming slot derived from an appointment.
type GroomingScheduleService struct {
	repo         groomingStore
	appointments appointmentReader
	cache        viewInvalidator
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	timeout      time.Duration
}

// NewGroomingScheduleService constructs the grooming schedule service.
func NewGroomingScheduleService(repo groomingStore, params ScheduleServiceParams) *GroomingScheduleService {
	p := params.withDefaults()
	return &GroomingScheduleService{
		repo:         repo,
		appointments: p.Appointments,
		cache:        p.Cache,
		metrics:      p.Metrics,
		validator:    p.Validator,
		logger:       p.Logger,
		timeout:      p.Timeout,
	}
}

// Create derives a grooming schedule from an appointment. Pet and service are
// copied from the appointment; a second schedule for the same appointment is a conflict.
func (s *GroomingScheduleService) Create(ctx context.Context, actor models.Actor, req dto.CreateGroomingScheduleRequest) (sched *models.GroomingSchedule, err error) {
	defer func() { s.metrics.RecordScheduleMutation(string(models.ScheduleKindGrooming), "create", err) }()

	if err := requireActor(actor, models.RoleProvider); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid grooming schedule payload")
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	appt, err := s.appointments.FindByID(ctx, req.AppointmentID)
	if err != nil {
		return nil, storeError(err, "appointment not found", "failed to load appointment")
	}
	if appt.Status.IsTerminal() {
		return nil, appErrors.Clone(appErrors.ErrTerminalState, "appointment is "+string(appt.Status))
	}

	sched = &models.GroomingSchedule{
		AppointmentID:   appt.ID,
		PetID:           appt.PetID,
		ServiceID:       appt.ServiceID,
		Period:          strings.TrimSpace(req.Period),
		StartTime:       req.StartTime.UTC(),
		Status:          models.GroomingScheduled,
		SpecialRequests: req.SpecialRequests,
		Notes:           req.Notes,
		CreatedBy:       actor.UserID,
	}
	if err := s.repo.Create(ctx, sched); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "appointment already has a grooming schedule")
		}
		return nil, storeError(err, "grooming schedule not found", "failed to create grooming schedule")
	}

	s.logger.Info("grooming schedule created",
		zap.String("schedule_id", sched.ID),
		zap.String("appointment_id", sched.AppointmentID),
		zap.String(actorField, actor.UserID),
	)
	return sched, nil
}

// Update applies a partial change. Completed and cancelled schedules reject
// every change.
func (s *GroomingScheduleService) Update(ctx context.Context, actor models.Actor, id string, req dto.UpdateGroomingScheduleRequest) (sched *models.GroomingSchedule, err error) {
	defer func() { s.metrics.RecordScheduleMutation(string(models.ScheduleKindGrooming), "update", err) }()

	if err := requireActor(actor, models.RoleProvider); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid grooming schedule payload")
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sched, err = s.repo.Mutate(ctx, id, func(g *models.GroomingSchedule) error {
		if g.CreatedBy != actor.UserID {
			return appErrors.Clone(appErrors.ErrForbidden, "schedule was created by another provider")
		}
		if g.Status.IsTerminal() {
			return appErrors.Clone(appErrors.ErrTerminalState, "grooming schedule is "+string(g.Status))
		}
		if _, err := s.appointments.FindByID(ctx, g.AppointmentID); err != nil {
			return storeError(err, "linked appointment not found", "failed to load appointment")
		}
		return applyGroomingUpdate(g, req)
	})
	if err != nil {
		return nil, storeError(err, "grooming schedule not found", "failed to update grooming schedule")
	}

	s.cache.InvalidateSchedule(ctx, models.ScheduleKindGrooming, sched.ID)
	return sched, nil
}

func applyGroomingUpdate(g *models.GroomingSchedule, req dto.UpdateGroomingScheduleRequest) error {
	if req.Status != nil {
		if err := scheduling.CheckGroomingTransition(g.Status, *req.Status); err != nil {
			return err
		}
		g.Status = *req.Status
	}
	if req.Period != nil {
		g.Period = strings.TrimSpace(*req.Period)
	}
	if req.StartTime != nil {
		g.StartTime = req.StartTime.UTC()
	}
	if req.EndTime != nil {
		end := req.EndTime.UTC()
		g.EndTime = &end
	}
	if req.SpecialRequests != nil {
		g.SpecialRequests = *req.SpecialRequests
	}
	if req.Notes != nil {
		g.Notes = *req.Notes
	}
	if g.EndTime != nil && !g.EndTime.After(g.StartTime) {
		return appErrors.ErrInvalidRange
	}
	return nil
}

// Get loads a grooming schedule by id.
func (s *GroomingScheduleService) Get(ctx context.Context, id string) (*models.GroomingSchedule, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	sched, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "grooming schedule not found", "failed to load grooming schedule")
	}
	return sched, nil
}

// Delete removes a schedule. Only the provider who created it may do so.
func (s *GroomingScheduleService) Delete(ctx context.Context, actor models.Actor, id string) (err error) {
	defer func() { s.metrics.RecordScheduleMutation(string(models.ScheduleKindGrooming), "delete", err) }()

	if err := requireActor(actor, models.RoleProvider); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sched, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeError(err, "grooming schedule not found", "failed to load grooming schedule")
	}
	if sched.CreatedBy != actor.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "schedule was created by another provider")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "grooming schedule not found", "failed to delete grooming schedule")
	}

	s.cache.InvalidateSchedule(ctx, models.ScheduleKindGrooming, id)
	s.logger.Info("grooming schedule deleted", zap.String("schedule_id", id), zap.String(actorField, actor.UserID))
	return nil
}
