package scheduling

import (
	"fmt"

	"github.com/pawsched/pawsched-api/internal/models"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

// appointmentTransitions lists, per source status, the allowed targets and the roles that may apply them.
var appointmentTransitions = map[models.AppointmentStatus]map[models.AppointmentStatus][]models.UserRole{
	models.AppointmentPending: {
		models.AppointmentConfirmed: {models.RoleProvider},
		models.AppointmentCancelled: {models.RoleProvider, models.RoleOwner},
	},
	models.AppointmentConfirmed: {
		models.AppointmentCompleted: {models.RoleProvider},
		models.AppointmentCancelled: {models.RoleProvider, models.RoleOwner},
	},
}

func invalidTransition(kind string, from, to interface{}) *appErrors.Error {
	return appErrors.WithDetails(appErrors.ErrInvalidTransition,
		fmt.Sprintf("cannot move %s from %v to %v", kind, from, to),
		map[string]string{"from": fmt.Sprint(from), "to": fmt.Sprint(to)})
}

// CheckAppointmentTransition validates a status change requested by role.
func CheckAppointmentTransition(from, to models.AppointmentStatus, role models.UserRole) error {
	if !to.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown appointment status %q", to))
	}
	roles, ok := appointmentTransitions[from][to]
	if !ok {
		return invalidTransition("appointment", from, to)
	}
	for _, r := range roles {
		if r == role {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("role %s may not move appointment from %s to %s", role, from, to))
}

// CheckGroomingTransition validates a grooming status change. Keeping the
// current non-terminal status is accepted as no change.
func CheckGroomingTransition(from, to models.GroomingStatus) error {
	if !to.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown grooming status %q", to))
	}
	if from.IsTerminal() {
		return appErrors.Clone(appErrors.ErrTerminalState, fmt.Sprintf("grooming schedule is %s", from))
	}
	if from == to {
		return nil
	}
	if from == models.GroomingScheduled && (to == models.GroomingCompleted || to == models.GroomingCancelled) {
		return nil
	}
	return invalidTransition("grooming schedule", from, to)
}

var boardingTransitions = map[models.BoardingStatus][]models.BoardingStatus{
	models.BoardingScheduled:  {models.BoardingInProgress, models.BoardingCompleted, models.BoardingCanceled},
	models.BoardingInProgress: {models.BoardingCompleted, models.BoardingCanceled},
}

// CheckBoardingTransition validates a boarding status change.
func CheckBoardingTransition(from, to models.BoardingStatus) error {
	if !to.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown boarding status %q", to))
	}
	if from.IsTerminal() {
		return appErrors.Clone(appErrors.ErrTerminalState, fmt.Sprintf("boarding schedule is %s", from))
	}
	if from == to {
		return nil
	}
	for _, allowed := range boardingTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return invalidTransition("boarding schedule", from, to)
}

// CheckBoardingCompletion allows completing a stay only from Scheduled or In Progress.
func CheckBoardingCompletion(from models.BoardingStatus) error {
	if from == models.BoardingScheduled || from == models.BoardingInProgress {
		return nil
	}
	return invalidTransition("boarding schedule", from, models.BoardingCompleted)
}
