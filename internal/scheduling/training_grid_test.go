package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawsched/pawsched-api/internal/models"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

func TestResolveVisibleDatesThreeDays(t *testing.T) {
	weekStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got := ResolveVisibleDates(weekStart, 3)
	assert.Equal(t, []models.DayDate{
		{Day: models.Monday, Date: "2024-01-01"},
		{Day: models.Tuesday, Date: "2024-01-02"},
		{Day: models.Wednesday, Date: "2024-01-03"},
	}, got)
}

func TestResolveVisibleDatesFullWeekCrossesMonth(t *testing.T) {
	weekStart := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)
	got := ResolveVisibleDates(weekStart, 7)
	require.Len(t, got, 7)
	assert.Equal(t, models.DayDate{Day: models.Sunday, Date: "2024-02-04"}, got[6])
}

func TestValidDayPlanCount(t *testing.T) {
	for _, n := range []int{2, 3, 4, 7} {
		assert.True(t, ValidDayPlanCount(n))
	}
	for _, n := range []int{0, 1, 5, 6, 8} {
		assert.False(t, ValidDayPlanCount(n))
		assert.ErrorIs(t, CheckDayPlanCount(n), appErrors.ErrValidation)
	}
}

func TestAddSessionDuplicateSlot(t *testing.T) {
	plans, err := AddSession(nil, models.Monday, models.Session{Time: "09:00 AM", TrainingType: "Obedience"})
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, DefaultSessionDuration, plans[0].Sessions[0].Duration)
	assert.Equal(t, DefaultSessionStatus, plans[0].Sessions[0].Status)

	_, err = AddSession(plans, models.Monday, models.Session{Time: "09:00 AM", TrainingType: "Agility"})
	assert.ErrorIs(t, err, appErrors.ErrDuplicateSlot)

	plans, err = AddSession(plans, models.Tuesday, models.Session{Time: "09:00 AM"})
	require.NoError(t, err)
	assert.Len(t, plans, 2)
}

func TestAddSessionKeepsMondayFirstOrder(t *testing.T) {
	plans, err := AddSession(nil, models.Friday, models.Session{Time: "10:00 AM"})
	require.NoError(t, err)
	plans, err = AddSession(plans, models.Monday, models.Session{Time: "10:00 AM"})
	require.NoError(t, err)
	plans, err = AddSession(plans, models.Wednesday, models.Session{Time: "10:00 AM"})
	require.NoError(t, err)

	var days []string
	for _, p := range plans {
		days = append(days, p.Day)
	}
	assert.Equal(t, []string{models.Monday, models.Wednesday, models.Friday}, days)
}

func TestAddSessionInvalidDay(t *testing.T) {
	_, err := AddSession(nil, "Funday", models.Session{Time: "09:00 AM"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidDay)

	_, err = AddSession(nil, "monday", models.Session{Time: "09:00 AM"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidDay)
}

func TestSetSlotNoteCreatesOrUpdates(t *testing.T) {
	plans, err := SetSlotNote(nil, 3, models.Tuesday, "02:00 PM", "bring treats")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "", plans[0].Sessions[0].TrainingType)
	assert.Equal(t, "bring treats", plans[0].Sessions[0].Notes)

	updated, err := SetSlotNote(plans, 3, models.Tuesday, "02:00 PM", "leash only")
	require.NoError(t, err)
	require.Len(t, updated[0].Sessions, 1)
	assert.Equal(t, "leash only", updated[0].Sessions[0].Notes)
	assert.Equal(t, "bring treats", plans[0].Sessions[0].Notes, "input must not be mutated")
}

func TestSetSlotNoteOutsideWindow(t *testing.T) {
	_, err := SetSlotNote(nil, 2, models.Wednesday, "09:00 AM", "x")
	assert.ErrorIs(t, err, appErrors.ErrUnknownDay)

	_, err = SetSlotNote(nil, 2, "Someday", "09:00 AM", "x")
	assert.ErrorIs(t, err, appErrors.ErrInvalidDay)
}

func TestNormalizePlans(t *testing.T) {
	plans, err := NormalizePlans(models.DayPlans{
		{Day: models.Thursday, Sessions: []models.Session{{Time: "08:00 AM"}}},
		{Day: models.Monday},
	})
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, models.Monday, plans[0].Day)

	_, err = NormalizePlans(models.DayPlans{
		{Day: models.Monday, Sessions: []models.Session{{Time: "08:00 AM"}, {Time: "08:00 AM"}}},
	})
	assert.ErrorIs(t, err, appErrors.ErrDuplicateSlot)

	_, err = NormalizePlans(models.DayPlans{{Day: models.Monday}, {Day: models.Monday}})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
