package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pawsched/pawsched-api/internal/models"
)

type groomingReader interface {
	FindByID(ctx context.Context, id string) (*models.GroomingSchedule, error)
	FindByAppointment(ctx context.Context, appointmentID string) (*models.GroomingSchedule, error)
}

type boardingReader interface {
	FindByID(ctx context.Context, id string) (*models.BoardingSchedule, error)
}

type trainingReader interface {
	FindByID(ctx context.Context, id string) (*models.TrainingSchedule, error)
}

type viewCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ScheduleViewServiceParams groups constructor dependencies.
type ScheduleViewServiceParams struct {
	Grooming     groomingReader
	Boarding     boardingReader
	Training     trainingReader
	Appointments appointmentReader
	Pets         petDirectory
	Services     serviceDirectory
	Cache        viewCache
	CacheTTL     time.Duration
	Logger       *zap.Logger
	Timeout      time.Duration
}

// ScheduleViewService resolves a derived schedule together with the
// appointment, pet and service it references.
type ScheduleViewService struct {
	grooming     groomingReader
	boarding     boardingReader
	training     trainingReader
	appointments appointmentReader
	pets         petDirectory
	services     serviceDirectory
	cache        viewCache
	cacheTTL     time.Duration
	logger       *zap.Logger
	timeout      time.Duration
}

// NewScheduleViewService constructs the view service.
func NewScheduleViewService(params ScheduleViewServiceParams) *ScheduleViewService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = defaultDependencyTimeout
	}
	return &ScheduleViewService{
		grooming:     params.Grooming,
		boarding:     params.Boarding,
		training:     params.Training,
		appointments: params.Appointments,
		pets:         params.Pets,
		services:     params.Services,
		cache:        params.Cache,
		cacheTTL:     params.CacheTTL,
		logger:       logger,
		timeout:      timeout,
	}
}

// Grooming returns the detail view of a grooming schedule.
func (s *ScheduleViewService) Grooming(ctx context.Context, id string) (*models.ScheduleDetail, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sched, err := s.grooming.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "grooming schedule not found", "failed to load grooming schedule")
	}
	return s.groomingDetail(ctx, sched)
}

// GroomingByAppointment returns the detail view of the grooming schedule
// derived from an appointment.
func (s *ScheduleViewService) GroomingByAppointment(ctx context.Context, appointmentID string) (*models.ScheduleDetail, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sched, err := s.grooming.FindByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, storeError(err, "appointment has no grooming schedule", "failed to load grooming schedule")
	}
	return s.groomingDetail(ctx, sched)
}

func (s *ScheduleViewService) groomingDetail(ctx context.Context, sched *models.GroomingSchedule) (*models.ScheduleDetail, error) {
	detail, err := s.resolve(ctx, models.ScheduleKindGrooming, sched.ID, sched.AppointmentID, sched.PetID, sched.ServiceID)
	if err != nil {
		return nil, err
	}
	detail.Grooming = sched
	return detail, nil
}

// Boarding returns the detail view of a boarding schedule.
func (s *ScheduleViewService) Boarding(ctx context.Context, id string) (*models.ScheduleDetail, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sched, err := s.boarding.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "boarding schedule not found", "failed to load boarding schedule")
	}
	detail, err := s.resolve(ctx, models.ScheduleKindBoarding, sched.ID, derefString(sched.AppointmentID), sched.PetID, sched.ServiceID)
	if err != nil {
		return nil, err
	}
	detail.Boarding = sched
	return detail, nil
}

// Training returns the detail view of a training schedule.
func (s *ScheduleViewService) Training(ctx context.Context, id string) (*models.ScheduleDetail, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sched, err := s.training.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "training schedule not found", "failed to load training schedule")
	}
	detail, err := s.resolve(ctx, models.ScheduleKindTraining, sched.ID, derefString(sched.AppointmentID), sched.PetID, sched.ServiceID)
	if err != nil {
		return nil, err
	}
	detail.Training = sched
	return detail, nil
}

// resolve loads the linked records, serving them from cache when possible.
// The schedule itself is always read fresh by the caller.
func (s *ScheduleViewService) resolve(ctx context.Context, kind models.ScheduleKind, scheduleID, appointmentID, petID, serviceID string) (*models.ScheduleDetail, error) {
	key := ScheduleViewKey(serviceID, appointmentID, kind, scheduleID)
	if s.cache != nil {
		var cached models.ScheduleDetail
		hit, err := s.cache.Get(ctx, key, &cached)
		if err == nil && hit {
			return &cached, nil
		}
	}

	detail := &models.ScheduleDetail{Kind: kind}
	if appointmentID != "" {
		appt, err := s.appointments.FindByID(ctx, appointmentID)
		if err != nil {
			return nil, storeError(err, "linked appointment not found", "failed to load appointment")
		}
		detail.Appointment = appt
	}
	pet, err := s.pets.FindByID(ctx, petID)
	if err != nil {
		return nil, storeError(err, "pet not found", "failed to load pet")
	}
	svc, err := s.services.FindByID(ctx, serviceID)
	if err != nil {
		return nil, storeError(err, "service not found", "failed to load service")
	}
	detail.Pet = pet
	detail.Service = svc

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, detail, s.cacheTTL); err != nil {
			s.logger.Debug("schedule view not cached", zap.String("key", key), zap.Error(err))
		}
	}
	return detail, nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

