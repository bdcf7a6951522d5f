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

type boardingStore interface {
	FindByID(ctx context.Context, id string) (*models.BoardingSchedule, error)
	Create(ctx context.Context, sched *models.BoardingSchedule) error
	Mutate(ctx context.Context, id string, fn func(*models.BoardingSchedule) error) (*models.BoardingSchedule, error)
	Delete(ctx context.Context, id string) error
}

// BoardingScheduleService manages boarding stays and their day confirmations.
type BoardingScheduleService struct {
	repo         boardingStore
	appointments appointmentReader
	pets         petDirectory
	services     serviceDirectory
	cache        viewInvalidator
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	timeout      time.Duration
}

// NewBoardingScheduleService constructs the boarding schedule service.
func NewBoardingScheduleService(repo boardingStore, params ScheduleServiceParams) *BoardingScheduleService {
	p := params.withDefaults()
	return &BoardingScheduleService{
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

func endTimeNotAccepted(code models.DurationCode) error {
	return appErrors.WithDetails(appErrors.ErrValidation,
		"end_time is only accepted for the custom duration code",
		map[string]string{"duration_code": string(code)})
}

// Create opens a stay whose end is derived from the duration code.
func (s *BoardingScheduleService) Create(ctx context.Context, actor models.Actor, req dto.CreateBoardingScheduleRequest) (sched *models.BoardingSchedule, err error) {
	defer func() { s.metrics.RecordScheduleMutation(string(models.ScheduleKindBoarding), "create", err) }()

	if err := requireActor(actor, models.RoleProvider); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid boarding schedule payload")
	}
	if req.DurationCode != models.DurationCustom && req.EndTime != nil {
		return nil, endTimeNotAccepted(req.DurationCode)
	}
	interval, err := scheduling.Resolve(req.DurationCode, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.resolveLinks(ctx, req.PetID, req.ServiceID, req.AppointmentID); err != nil {
		return nil, err
	}

	sched = &models.BoardingSchedule{
		AppointmentID: req.AppointmentID,
		PetID:         req.PetID,
		ServiceID:     req.ServiceID,
		DurationCode:  req.DurationCode,
		StartTime:     interval.Start.UTC(),
		EndTime:       interval.End.UTC(),
		UTCOffset:     models.OffsetMinutes(req.StartTime),
		Status:        models.BoardingScheduled,
		ConfirmedDays: []string{},
		CreatedBy:     actor.UserID,
	}
	if err := s.repo.Create(ctx, sched); err != nil {
		return nil, storeError(err, "boarding schedule not found", "failed to create boarding schedule")
	}

	s.logger.Info("boarding schedule created",
		zap.String("schedule_id", sched.ID),
		zap.String("duration_code", string(sched.DurationCode)),
		zap.Time("start_time", sched.StartTime),
		zap.Time("end_time", sched.EndTime),
	)
	return sched, nil
}

func (s *BoardingScheduleService) resolveLinks(ctx context.Context, petID, serviceID string, appointmentID *string) error {
	pet, err := s.pets.FindByID(ctx, petID)
	if err != nil {
		return storeError(err, "pet not found", "failed to load pet")
	}
	if pet.Deleted() {
		return appErrors.Clone(appErrors.ErrNotFound, "pet not found")
	}
	if _, err := s.services.FindByID(ctx, serviceID); err != nil {
		return storeError(err, "service not found", "failed to load service")
	}
	_, err = loadLinkedAppointment(ctx, s.appointments, appointmentID, petID, serviceID)
	return err
}

// Update applies a partial change to a stay linked to an appointment. The
// interval is re-resolved when the code or either bound changes, and confirmed
// days outside the new interval are dropped.
func (s *BoardingScheduleService) Update(ctx context.Context, actor models.Actor, id string, req dto.UpdateBoardingScheduleRequest) (sched *models.BoardingSchedule, err error) {
	defer func() { s.metrics.RecordScheduleMutation(string(models.ScheduleKindBoarding), "update", err) }()

	if err := requireActor(actor, models.RoleProvider); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sched, err = s.repo.Mutate(ctx, id, func(b *models.BoardingSchedule) error {
		if err := s.checkMutable(b, actor); err != nil {
			return err
		}
		if !b.HasAppointment() {
			return appErrors.Clone(appErrors.ErrMissingAppointmentLink, "boarding schedule has no linked appointment")
		}
		if _, err := s.appointments.FindByID(ctx, *b.AppointmentID); err != nil {
			return storeError(err, "linked appointment not found", "failed to load appointment")
		}
		return applyBoardingUpdate(b, req)
	})
	if err != nil {
		return nil, storeError(err, "boarding schedule not found", "failed to update boarding schedule")
	}

	s.cache.InvalidateSchedule(ctx, models.ScheduleKindBoarding, sched.ID)
	return sched, nil
}

func applyBoardingUpdate(b *models.BoardingSchedule, req dto.UpdateBoardingScheduleRequest) error {
	if req.DurationCode != nil || req.StartTime != nil || req.EndTime != nil {
		code := b.DurationCode
		if req.DurationCode != nil {
			code = *req.DurationCode
		}
		start := b.StartTime.In(b.Location())
		if req.StartTime != nil {
			start = *req.StartTime
			b.UTCOffset = models.OffsetMinutes(start)
		}
		var end *time.Time
		switch {
		case code != models.DurationCustom && req.EndTime != nil:
			return endTimeNotAccepted(code)
		case req.EndTime != nil:
			end = req.EndTime
		case code == models.DurationCustom:
			end = &b.EndTime
		}

		interval, err := scheduling.Resolve(code, start, end)
		if err != nil {
			return err
		}
		b.DurationCode = code
		b.StartTime = interval.Start.UTC()
		b.EndTime = interval.End.UTC()
		first, last := b.LocalInterval()
		b.ConfirmedDays = scheduling.PruneDays(b.ConfirmedDays, first, last)
	}

	if req.Status != nil {
		if err := scheduling.CheckBoardingTransition(b.Status, *req.Status); err != nil {
			return err
		}
		b.Status = *req.Status
	}
	return nil
}

// ToggleConfirmedDay flips whether staff confirmed the given calendar day and
// returns the resulting sorted set.
func (s *BoardingScheduleService) ToggleConfirmedDay(ctx context.Context, actor models.Actor, id, date string) (days []string, err error) {
	defer func() { s.metrics.RecordScheduleMutation(string(models.ScheduleKindBoarding), "toggle_day", err) }()

	if err := requireActor(actor, models.RoleProvider); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sched, err := s.repo.Mutate(ctx, id, func(b *models.BoardingSchedule) error {
		if err := s.checkMutable(b, actor); err != nil {
			return err
		}
		start, end := b.LocalInterval()
		next, err := scheduling.ToggleDay(b.ConfirmedDays, date, start, end)
		if err != nil {
			return err
		}
		b.ConfirmedDays = next
		return nil
	})
	if err != nil {
		return nil, storeError(err, "boarding schedule not found", "failed to toggle confirmed day")
	}

	s.cache.InvalidateSchedule(ctx, models.ScheduleKindBoarding, sched.ID)
	return []string(sched.ConfirmedDays), nil
}

// MarkComplete closes a stay that is Scheduled or In Progress.
func (s *BoardingScheduleService) MarkComplete(ctx context.Context, actor models.Actor, id string) (sched *models.BoardingSchedule, err error) {
	defer func() { s.metrics.RecordScheduleMutation(string(models.ScheduleKindBoarding), "complete", err) }()

	if err := requireActor(actor, models.RoleProvider); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sched, err = s.repo.Mutate(ctx, id, func(b *models.BoardingSchedule) error {
		if b.CreatedBy != actor.UserID {
			return appErrors.Clone(appErrors.ErrForbidden, "schedule was created by another provider")
		}
		if err := scheduling.CheckBoardingCompletion(b.Status); err != nil {
			return err
		}
		b.Status = models.BoardingCompleted
		return nil
	})
	if err != nil {
		return nil, storeError(err, "boarding schedule not found", "failed to complete boarding schedule")
	}

	s.cache.InvalidateSchedule(ctx, models.ScheduleKindBoarding, sched.ID)
	s.logger.Info("boarding schedule completed", zap.String("schedule_id", sched.ID), zap.String(actorField, actor.UserID))
	return sched, nil
}

// Get loads a boarding schedule by id.
func (s *BoardingScheduleService) Get(ctx context.Context, id string) (*models.BoardingSchedule, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	sched, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "boarding schedule not found", "failed to load boarding schedule")
	}
	return sched, nil
}

// Delete removes a stay. Only the provider who created it may do so.
func (s *BoardingScheduleService) Delete(ctx context.Context, actor models.Actor, id string) (err error) {
	defer func() { s.metrics.RecordScheduleMutation(string(models.ScheduleKindBoarding), "delete", err) }()

	if err := requireActor(actor, models.RoleProvider); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sched, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeError(err, "boarding schedule not found", "failed to load boarding schedule")
	}
	if sched.CreatedBy != actor.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "schedule was created by another provider")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "boarding schedule not found", "failed to delete boarding schedule")
	}

	s.cache.InvalidateSchedule(ctx, models.ScheduleKindBoarding, id)
	s.logger.Info("boarding schedule deleted", zap.String("schedule_id", id), zap.String(actorField, actor.UserID))
	return nil
}

func (s *BoardingScheduleService) checkMutable(b *models.BoardingSchedule, actor models.Actor) error {
	if b.CreatedBy != actor.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "schedule was created by another provider")
	}
	if b.Status.IsTerminal() {
		return appErrors.Clone(appErrors.ErrTerminalState, "boarding schedule is "+string(b.Status))
	}
	return nil
}
