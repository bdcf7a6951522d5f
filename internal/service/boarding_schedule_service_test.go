package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawsched/pawsched-api/internal/dto"
	"github.com/pawsched/pawsched-api/internal/models"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

type boardingRepoStub struct {
	mu    sync.Mutex
	items map[string]*models.BoardingSchedule
}

func (s *boardingRepoStub) FindByID(ctx context.Context, id string) (*models.BoardingSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *item
	return &cp, nil
}

func (s *boardingRepoStub) Create(ctx context.Context, sched *models.BoardingSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sched.ID = "board-1"
	sched.Version = 1
	cp := *sched
	s.items[sched.ID] = &cp
	return nil
}

func (s *boardingRepoStub) Mutate(ctx context.Context, id string, fn func(*models.BoardingSchedule) error) (*models.BoardingSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *item
	cp.ConfirmedDays = append([]string(nil), item.ConfirmedDays...)
	if err := fn(&cp); err != nil {
		return nil, err
	}
	cp.Version++
	s.items[id] = &cp
	out := cp
	return &out, nil
}

func (s *boardingRepoStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func newBoardingFixture(t *testing.T) (*BoardingScheduleService, *boardingRepoStub) {
	t.Helper()
	pets, services := directoryFixtures()
	repo := &boardingRepoStub{items: map[string]*models.BoardingSchedule{}}
	svc := NewBoardingScheduleService(repo, ScheduleServiceParams{
		Appointments: newAppointmentRepoStub(seededAppointment(models.AppointmentConfirmed)),
		Pets:         pets,
		Services:     services,
		Timeout:      time.Second,
	})
	return svc, repo
}

var boardingStart = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func boardingRequest(code models.DurationCode) dto.CreateBoardingScheduleRequest {
	apptID := "appt-x"
	return dto.CreateBoardingScheduleRequest{
		PetID:         "pet-1",
		ServiceID:     "svc-1",
		AppointmentID: &apptID,
		DurationCode:  code,
		StartTime:     boardingStart,
	}
}

func TestBoardingScheduleServiceCreateResolvesInterval(t *testing.T) {
	svc, _ := newBoardingFixture(t)

	sched, err := svc.Create(context.Background(), providerActor, boardingRequest(models.DurationWeekday))
	require.NoError(t, err)
	assert.True(t, sched.EndTime.Equal(boardingStart.AddDate(0, 0, 5)))
	assert.Equal(t, models.BoardingScheduled, sched.Status)
	assert.Empty(t, sched.ConfirmedDays)
}

func TestBoardingScheduleServiceCreateRejections(t *testing.T) {
	end := boardingStart.Add(time.Hour)

	t.Run("end time with fixed code", func(t *testing.T) {
		svc, _ := newBoardingFixture(t)
		req := boardingRequest(models.DurationDay)
		req.EndTime = &end
		_, err := svc.Create(context.Background(), providerActor, req)
		assert.ErrorIs(t, err, appErrors.ErrValidation)
	})

	t.Run("custom without end", func(t *testing.T) {
		svc, _ := newBoardingFixture(t)
		_, err := svc.Create(context.Background(), providerActor, boardingRequest(models.DurationCustom))
		assert.ErrorIs(t, err, appErrors.ErrInvalidRange)
	})

	t.Run("unknown code", func(t *testing.T) {
		svc, _ := newBoardingFixture(t)
		_, err := svc.Create(context.Background(), providerActor, boardingRequest("fortnight"))
		assert.ErrorIs(t, err, appErrors.ErrUnknownDurationCode)
	})

	t.Run("missing appointment", func(t *testing.T) {
		svc, _ := newBoardingFixture(t)
		req := boardingRequest(models.DurationDay)
		missing := "missing"
		req.AppointmentID = &missing
		_, err := svc.Create(context.Background(), providerActor, req)
		assert.ErrorIs(t, err, appErrors.ErrNotFound)
	})

	mismatched := []struct {
		name, petID, serviceID string
	}{
		{"appointment for another pet", "pet-2", "svc-1"},
		{"appointment for another service", "pet-1", "svc-other"},
		{"appointment for another pet and service", "pet-2", "svc-other"},
	}
	for _, tc := range mismatched {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newBoardingFixture(t)
			req := boardingRequest(models.DurationDay)
			req.PetID = tc.petID
			req.ServiceID = tc.serviceID
			_, err := svc.Create(context.Background(), providerActor, req)
			assert.ErrorIs(t, err, appErrors.ErrValidation)
			assert.Empty(t, repo.items)
		})
	}
}

func TestBoardingScheduleServiceConfirmedDaysUseBookingZone(t *testing.T) {
	svc, repo := newBoardingFixture(t)
	req := boardingRequest(models.DurationWeekend)
	req.StartTime = time.Date(2030, 3, 2, 0, 0, 0, 0, time.FixedZone("", 5*60*60))

	sched, err := svc.Create(context.Background(), providerActor, req)
	require.NoError(t, err)
	assert.Equal(t, 300, sched.UTCOffset)
	assert.Equal(t, time.UTC, sched.StartTime.Location())

	_, err = svc.ToggleConfirmedDay(context.Background(), providerActor, sched.ID, "2030-03-01")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	days, err := svc.ToggleConfirmedDay(context.Background(), providerActor, sched.ID, "2030-03-04")
	require.NoError(t, err)
	assert.Equal(t, []string{"2030-03-04"}, days)

	days, err = svc.ToggleConfirmedDay(context.Background(), providerActor, sched.ID, "2030-03-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2030-03-02", "2030-03-04"}, days)

	code := models.DurationDay
	updated, err := svc.Update(context.Background(), providerActor, sched.ID, dto.UpdateBoardingScheduleRequest{DurationCode: &code})
	require.NoError(t, err)
	assert.Equal(t, 300, updated.UTCOffset)
	assert.Equal(t, []string{"2030-03-02"}, []string(updated.ConfirmedDays))
	assert.Equal(t, []string{"2030-03-02"}, []string(repo.items[sched.ID].ConfirmedDays))
}

func TestBoardingScheduleServiceToggleConfirmedDay(t *testing.T) {
	svc, _ := newBoardingFixture(t)
	sched, err := svc.Create(context.Background(), providerActor, boardingRequest(models.DurationWeekend))
	require.NoError(t, err)

	days, err := svc.ToggleConfirmedDay(context.Background(), providerActor, sched.ID, "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-05"}, days)

	days, err = svc.ToggleConfirmedDay(context.Background(), providerActor, sched.ID, "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-04", "2024-03-05"}, days)

	days, err = svc.ToggleConfirmedDay(context.Background(), providerActor, sched.ID, "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-04"}, days)

	_, err = svc.ToggleConfirmedDay(context.Background(), providerActor, sched.ID, "2024-03-07")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestBoardingScheduleServiceUpdatePrunesConfirmedDays(t *testing.T) {
	svc, repo := newBoardingFixture(t)
	sched, err := svc.Create(context.Background(), providerActor, boardingRequest(models.DurationWeekday))
	require.NoError(t, err)
	repo.items[sched.ID].ConfirmedDays = []string{"2024-03-04", "2024-03-06", "2024-03-08"}

	code := models.DurationWeekend
	updated, err := svc.Update(context.Background(), providerActor, sched.ID, dto.UpdateBoardingScheduleRequest{DurationCode: &code})
	require.NoError(t, err)
	assert.True(t, updated.EndTime.Equal(boardingStart.AddDate(0, 0, 2)))
	assert.Equal(t, []string{"2024-03-04", "2024-03-06"}, []string(updated.ConfirmedDays))
}

func TestBoardingScheduleServiceUpdateRequiresAppointmentLink(t *testing.T) {
	svc, repo := newBoardingFixture(t)
	req := boardingRequest(models.DurationDay)
	req.AppointmentID = nil
	sched, err := svc.Create(context.Background(), providerActor, req)
	require.NoError(t, err)

	progress := models.BoardingInProgress
	_, err = svc.Update(context.Background(), providerActor, sched.ID, dto.UpdateBoardingScheduleRequest{Status: &progress})
	assert.ErrorIs(t, err, appErrors.ErrMissingAppointmentLink)
	assert.Equal(t, models.BoardingScheduled, repo.items[sched.ID].Status)

	days, err := svc.ToggleConfirmedDay(context.Background(), providerActor, sched.ID, "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-04"}, days)
}

func TestBoardingScheduleServiceMarkComplete(t *testing.T) {
	svc, _ := newBoardingFixture(t)
	sched, err := svc.Create(context.Background(), providerActor, boardingRequest(models.DurationOvernight))
	require.NoError(t, err)

	done, err := svc.MarkComplete(context.Background(), providerActor, sched.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BoardingCompleted, done.Status)

	_, err = svc.MarkComplete(context.Background(), providerActor, sched.ID)
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)

	_, err = svc.ToggleConfirmedDay(context.Background(), providerActor, sched.ID, "2024-03-04")
	assert.ErrorIs(t, err, appErrors.ErrTerminalState)
}
