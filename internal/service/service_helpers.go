package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pawsched/pawsched-api/internal/models"
	"github.com/pawsched/pawsched-api/internal/repository"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

const defaultDependencyTimeout = 3 * time.Second

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultDependencyTimeout
	}
	return context.WithTimeout(ctx, d)
}

func requireActor(actor models.Actor, roles ...models.UserRole) error {
	if actor.UserID == "" {
		return appErrors.ErrUnauthorized
	}
	if len(roles) > 0 && !actor.Is(roles...) {
		return appErrors.ErrForbidden
	}
	return nil
}

// storeError maps persistence failures onto API errors. Typed errors raised
// inside a Mutate callback pass through unchanged.
func storeError(err error, notFound, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	case errors.Is(err, repository.ErrDuplicate):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "record already exists")
	case errors.Is(err, repository.ErrStaleVersion):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "record was modified concurrently")
	}
	return appErrors.Internal(err, op)
}

func validationError(err error, message string) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]map[string]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, map[string]string{"field": fe.Field(), "rule": fe.Tag()})
		}
		return appErrors.WithDetails(appErrors.ErrValidation, message, details)
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func systemClock() time.Time {
	return time.Now().UTC()
}

const actorField = "actor_id"

type noopInvalidator struct{}

func (noopInvalidator) InvalidateAppointment(context.Context, string) {}

func (noopInvalidator) InvalidateSchedule(context.Context, models.ScheduleKind, string) {}

func invalidatorOrNoop(inv viewInvalidator) viewInvalidator {
	if inv == nil {
		return noopInvalidator{}
	}
	return inv
}

// loadLinkedAppointment resolves an optional appointment link and requires it
// to belong to the same pet and service as the schedule being created.
func loadLinkedAppointment(ctx context.Context, appointments appointmentReader, appointmentID *string, petID, serviceID string) (*models.Appointment, error) {
	if appointmentID == nil || *appointmentID == "" {
		return nil, nil
	}
	appt, err := appointments.FindByID(ctx, *appointmentID)
	if err != nil {
		return nil, storeError(err, "appointment not found", "failed to load appointment")
	}
	if appt.PetID != petID || appt.ServiceID != serviceID {
		return nil, appErrors.WithDetails(appErrors.ErrValidation,
			"appointment belongs to a different pet or service",
			map[string]string{
				"appointment_id":         appt.ID,
				"appointment_pet_id":     appt.PetID,
				"appointment_service_id": appt.ServiceID,
			})
	}
	return appt, nil
}
