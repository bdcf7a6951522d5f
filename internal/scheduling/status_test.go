package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawsched/pawsched-api/internal/models"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

func TestCheckAppointmentTransitionTable(t *testing.T) {
	allowed := []struct {
		from, to models.AppointmentStatus
		role     models.UserRole
	}{
		{models.AppointmentPending, models.AppointmentConfirmed, models.RoleProvider},
		{models.AppointmentPending, models.AppointmentCancelled, models.RoleProvider},
		{models.AppointmentPending, models.AppointmentCancelled, models.RoleOwner},
		{models.AppointmentConfirmed, models.AppointmentCompleted, models.RoleProvider},
		{models.AppointmentConfirmed, models.AppointmentCancelled, models.RoleOwner},
	}
	for _, tc := range allowed {
		assert.NoError(t, CheckAppointmentTransition(tc.from, tc.to, tc.role), "%s -> %s by %s", tc.from, tc.to, tc.role)
	}

	err := CheckAppointmentTransition(models.AppointmentPending, models.AppointmentConfirmed, models.RoleOwner)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	err = CheckAppointmentTransition(models.AppointmentPending, models.AppointmentCompleted, models.RoleProvider)
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "pending")
	assert.Contains(t, err.Error(), "completed")

	err = CheckAppointmentTransition(models.AppointmentConfirmed, models.AppointmentPending, models.RoleProvider)
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
}

func TestAppointmentTerminalStatesAreClosed(t *testing.T) {
	statuses := []models.AppointmentStatus{models.AppointmentPending, models.AppointmentConfirmed, models.AppointmentCompleted, models.AppointmentCancelled}
	roles := []models.UserRole{models.RoleOwner, models.RoleProvider}
	for _, from := range []models.AppointmentStatus{models.AppointmentCompleted, models.AppointmentCancelled} {
		for _, to := range statuses {
			for _, role := range roles {
				err := CheckAppointmentTransition(from, to, role)
				assert.ErrorIs(t, err, appErrors.ErrInvalidTransition, "%s -> %s", from, to)
			}
		}
	}
}

func TestCheckAppointmentTransitionUnknownTarget(t *testing.T) {
	err := CheckAppointmentTransition(models.AppointmentPending, "archived", models.RoleProvider)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestCheckGroomingTransition(t *testing.T) {
	assert.NoError(t, CheckGroomingTransition(models.GroomingScheduled, models.GroomingCompleted))
	assert.NoError(t, CheckGroomingTransition(models.GroomingScheduled, models.GroomingCancelled))
	assert.NoError(t, CheckGroomingTransition(models.GroomingScheduled, models.GroomingScheduled))
	assert.ErrorIs(t, CheckGroomingTransition(models.GroomingCompleted, models.GroomingScheduled), appErrors.ErrTerminalState)
	assert.ErrorIs(t, CheckGroomingTransition(models.GroomingCancelled, models.GroomingCancelled), appErrors.ErrTerminalState)
	assert.ErrorIs(t, CheckGroomingTransition(models.GroomingScheduled, "Paused"), appErrors.ErrValidation)
}

func TestCheckBoardingTransition(t *testing.T) {
	assert.NoError(t, CheckBoardingTransition(models.BoardingScheduled, models.BoardingInProgress))
	assert.NoError(t, CheckBoardingTransition(models.BoardingInProgress, models.BoardingCompleted))
	assert.ErrorIs(t, CheckBoardingTransition(models.BoardingInProgress, models.BoardingScheduled), appErrors.ErrInvalidTransition)
	assert.ErrorIs(t, CheckBoardingTransition(models.BoardingCanceled, models.BoardingCompleted), appErrors.ErrTerminalState)
}

func TestCheckBoardingCompletion(t *testing.T) {
	assert.NoError(t, CheckBoardingCompletion(models.BoardingScheduled))
	assert.NoError(t, CheckBoardingCompletion(models.BoardingInProgress))

	for _, from := range []models.BoardingStatus{models.BoardingCompleted, models.BoardingCanceled} {
		err := CheckBoardingCompletion(from)
		require.Error(t, err)
		assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
	}
}
