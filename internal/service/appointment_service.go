package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pawsched/pawsched-api/internal/dto"
	"github.com/pawsched/pawsched-api/internal/models"
	"github.com/pawsched/pawsched-api/internal/scheduling"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

type appointmentStore interface {
	FindByID(ctx context.Context, id string) (*models.Appointment, error)
	ListByPet(ctx context.Context, petID string) ([]models.Appointment, error)
	Create(ctx context.Context, appt *models.Appointment) error
	Mutate(ctx context.Context, id string, fn func(*models.Appointment) error) (*models.Appointment, error)
}

type petDirectory interface {
	FindByID(ctx context.Context, id string) (*models.Pet, error)
}

type serviceDirectory interface {
	FindByID(ctx context.Context, id string) (*models.ServiceOffering, error)
}

type loyaltyLedger interface {
	LookupBalance(ctx context.Context, ownerID string) (int64, error)
	Redeem(ctx context.Context, ownerID string, points int64) (int64, error)
	Restore(ctx context.Context, ownerID string, points int64) error
}

type viewInvalidator interface {
	InvalidateAppointment(ctx context.Context, appointmentID string)
	InvalidateSchedule(ctx context.Context, kind models.ScheduleKind, scheduleID string)
}

// AppointmentServiceConfig tunes booking behaviour.
type AppointmentServiceConfig struct {
	Timeout        time.Duration
	LoyaltyEnabled bool
	PointValue     decimal.Decimal
}

// AppointmentServiceParams groups constructor dependencies.
type AppointmentServiceParams struct {
	Repo      appointmentStore
	Pets      petDirectory
	Services  serviceDirectory
	Loyalty   loyaltyLedger
	Cache     viewInvalidator
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	Now       func() time.Time
	Config    AppointmentServiceConfig
}

// AppointmentService books appointments and drives their lifecycle.
type AppointmentService struct {
	repo      appointmentStore
	pets      petDirectory
	services  serviceDirectory
	loyalty   loyaltyLedger
	cache     viewInvalidator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	cfg       AppointmentServiceConfig
}

// NewAppointmentService constructs an AppointmentService with sane defaults.
func NewAppointmentService(params AppointmentServiceParams) *AppointmentService {
	cfg := params.Config
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultDependencyTimeout
	}
	if !cfg.PointValue.IsPositive() {
		cfg.PointValue = decimal.NewFromInt(1)
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := params.Now
	if now == nil {
		now = systemClock
	}
	return &AppointmentService{
		repo:      params.Repo,
		pets:      params.Pets,
		services:  params.Services,
		loyalty:   params.Loyalty,
		cache:     invalidatorOrNoop(params.Cache),
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
		now:       now,
		cfg:       cfg,
	}
}

// Create books a service for one of the owner's pets. The appointment starts
// pending; when requested, loyalty points are redeemed as a discount clamped to
// the tier price.
func (s *AppointmentService) Create(ctx context.Context, actor models.Actor, req dto.CreateAppointmentRequest) (*models.Appointment, error) {
	if err := requireActor(actor, models.RoleOwner); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid appointment payload")
	}
	pkg := models.ResolvePackageType(req.PackageType)
	if !pkg.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown package type %q", pkg))
	}
	if !req.AppointmentDate.After(s.now()) {
		return nil, appErrors.ErrPastDate
	}

	ctx, cancel := withTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	pet, err := s.pets.FindByID(ctx, req.PetID)
	if err != nil {
		return nil, storeError(err, "pet not found", "failed to load pet")
	}
	if pet.Deleted() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "pet not found")
	}
	if pet.OwnerID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "pet belongs to another owner")
	}

	svc, err := s.services.FindByID(ctx, req.ServiceID)
	if err != nil {
		return nil, storeError(err, "service not found", "failed to load service")
	}
	if !svc.Available {
		return nil, appErrors.Clone(appErrors.ErrConflict, "service is not available for booking")
	}
	packages, err := ValidatePackages(packagesAsRaw(svc.Packages))
	if err != nil {
		return nil, err
	}
	tier := packages[pkg]

	appt := &models.Appointment{
		PetID:           pet.ID,
		ServiceID:       svc.ID,
		OwnerID:         actor.UserID,
		AppointmentDate: req.AppointmentDate.UTC(),
		PackageType:     pkg,
		Status:          models.AppointmentPending,
		SpecialNotes:    strings.TrimSpace(req.SpecialNotes),
		DiscountApplied: decimal.Zero,
	}

	var redeemed int64
	if req.UsePoints {
		appt.DiscountApplied, redeemed, err = s.redeemDiscount(ctx, actor.UserID, tier.Price)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		s.restorePoints(actor.UserID, redeemed)
		return nil, storeError(err, "appointment not found", "failed to create appointment")
	}

	s.metrics.RecordAppointmentTransition("", string(appt.Status))
	s.metrics.RecordLoyaltyRedeemed(redeemed)
	s.logger.Info("appointment booked",
		zap.String("appointment_id", appt.ID),
		zap.String("pet_id", appt.PetID),
		zap.String("package", string(pkg)),
		zap.String("discount", appt.DiscountApplied.String()),
	)
	return appt, nil
}

// redeemDiscount converts the owner's points into a discount no larger than
// price. It returns the discount and the points actually taken.
func (s *AppointmentService) redeemDiscount(ctx context.Context, ownerID string, price decimal.Decimal) (decimal.Decimal, int64, error) {
	if !s.cfg.LoyaltyEnabled || s.loyalty == nil || !price.IsPositive() {
		return decimal.Zero, 0, nil
	}
	balance, err := s.loyalty.LookupBalance(ctx, ownerID)
	if err != nil {
		return decimal.Zero, 0, appErrors.Internal(err, "failed to look up loyalty balance")
	}
	want := price.Div(s.cfg.PointValue).Floor().IntPart()
	if balance < want {
		want = balance
	}
	if want <= 0 {
		return decimal.Zero, 0, nil
	}
	taken, err := s.loyalty.Redeem(ctx, ownerID, want)
	if err != nil {
		return decimal.Zero, 0, appErrors.Internal(err, "failed to redeem loyalty points")
	}
	discount := decimal.NewFromInt(taken).Mul(s.cfg.PointValue)
	if discount.GreaterThan(price) {
		discount = price
	}
	return discount, taken, nil
}

// restorePoints runs on its own deadline so a timed-out booking still credits
// the points back.
func (s *AppointmentService) restorePoints(ownerID string, points int64) {
	if points <= 0 || s.loyalty == nil {
		return
	}
	ctx, cancel := withTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()
	if err := s.loyalty.Restore(ctx, ownerID, points); err != nil {
		s.logger.Error("failed to restore loyalty points",
			zap.String("owner_id", ownerID),
			zap.Int64("points", points),
			zap.Error(err),
		)
	}
}

// Get loads an appointment visible to the actor.
func (s *AppointmentService) Get(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "appointment not found", "failed to load appointment")
	}
	if actor.Role == models.RoleOwner && appt.OwnerID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "appointment belongs to another owner")
	}
	return appt, nil
}

// ListByPet returns the appointments booked for a pet.
func (s *AppointmentService) ListByPet(ctx context.Context, actor models.Actor, petID string) ([]models.Appointment, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	if actor.Role == models.RoleOwner {
		pet, err := s.pets.FindByID(ctx, petID)
		if err != nil {
			return nil, storeError(err, "pet not found", "failed to load pet")
		}
		if pet.OwnerID != actor.UserID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "pet belongs to another owner")
		}
	}
	appts, err := s.repo.ListByPet(ctx, petID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list appointments")
	}
	return appts, nil
}

// UpdateStatus applies a lifecycle transition. Owners may only cancel their own
// appointments; providers may only act on appointments for their services.
func (s *AppointmentService) UpdateStatus(ctx context.Context, actor models.Actor, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	if err := requireActor(actor, models.RoleOwner, models.RoleProvider); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	var from models.AppointmentStatus
	appt, err := s.repo.Mutate(ctx, id, func(a *models.Appointment) error {
		if err := s.authorize(ctx, actor, a); err != nil {
			return err
		}
		if err := scheduling.CheckAppointmentTransition(a.Status, status, actor.Role); err != nil {
			return err
		}
		from = a.Status
		a.Status = status
		return nil
	})
	if err != nil {
		return nil, storeError(err, "appointment not found", "failed to update appointment status")
	}

	s.metrics.RecordAppointmentTransition(string(from), string(status))
	s.cache.InvalidateAppointment(ctx, appt.ID)
	s.logger.Info("appointment status changed",
		zap.String("appointment_id", appt.ID),
		zap.String("from", string(from)),
		zap.String("to", string(status)),
		zap.String(actorField, actor.UserID),
	)
	return appt, nil
}

// Reschedule moves a pending or confirmed appointment to a future date.
func (s *AppointmentService) Reschedule(ctx context.Context, actor models.Actor, id string, date time.Time) (*models.Appointment, error) {
	if err := requireActor(actor, models.RoleOwner); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	appt, err := s.repo.Mutate(ctx, id, func(a *models.Appointment) error {
		if a.OwnerID != actor.UserID {
			return appErrors.Clone(appErrors.ErrForbidden, "appointment belongs to another owner")
		}
		if a.Status != models.AppointmentPending && a.Status != models.AppointmentConfirmed {
			return appErrors.WithDetails(appErrors.ErrTooLate,
				fmt.Sprintf("appointment is %s and can no longer be rescheduled", a.Status),
				map[string]string{"status": string(a.Status)})
		}
		if !date.After(s.now()) {
			return appErrors.ErrPastDate
		}
		a.AppointmentDate = date.UTC()
		return nil
	})
	if err != nil {
		return nil, storeError(err, "appointment not found", "failed to reschedule appointment")
	}

	s.cache.InvalidateAppointment(ctx, appt.ID)
	s.logger.Info("appointment rescheduled",
		zap.String("appointment_id", appt.ID),
		zap.Time("appointment_date", appt.AppointmentDate),
	)
	return appt, nil
}

func (s *AppointmentService) authorize(ctx context.Context, actor models.Actor, appt *models.Appointment) error {
	switch actor.Role {
	case models.RoleOwner:
		if appt.OwnerID != actor.UserID {
			return appErrors.Clone(appErrors.ErrForbidden, "appointment belongs to another owner")
		}
		return nil
	case models.RoleProvider:
		svc, err := s.services.FindByID(ctx, appt.ServiceID)
		if err != nil {
			return storeError(err, "service not found", "failed to load service")
		}
		if svc.ProviderID != actor.UserID {
			return appErrors.Clone(appErrors.ErrForbidden, "appointment is for another provider's service")
		}
		return nil
	}
	return appErrors.ErrForbidden
}
