package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawsched/pawsched-api/internal/dto"
	"github.com/pawsched/pawsched-api/internal/models"
	"github.com/pawsched/pawsched-api/internal/repository"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

// groomingRepoStub mimics the unique index on appointment_id.
type groomingRepoStub struct {
	mu    sync.Mutex
	items map[string]*models.GroomingSchedule
	seq   int
}

func newGroomingRepoStub() *groomingRepoStub {
	return &groomingRepoStub{items: map[string]*models.GroomingSchedule{}}
}

func (s *groomingRepoStub) FindByID(ctx context.Context, id string) (*models.GroomingSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *item
	return &cp, nil
}

func (s *groomingRepoStub) FindByAppointment(ctx context.Context, appointmentID string) (*models.GroomingSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.AppointmentID == appointmentID {
			cp := *item
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *groomingRepoStub) Create(ctx context.Context, sched *models.GroomingSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.AppointmentID == sched.AppointmentID {
			return repository.ErrDuplicate
		}
	}
	s.seq++
	sched.ID = fmt.Sprintf("groom-%d", s.seq)
	sched.Version = 1
	cp := *sched
	s.items[sched.ID] = &cp
	return nil
}

func (s *groomingRepoStub) Mutate(ctx context.Context, id string, fn func(*models.GroomingSchedule) error) (*models.GroomingSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *item
	if err := fn(&cp); err != nil {
		return nil, err
	}
	cp.Version++
	s.items[id] = &cp
	out := cp
	return &out, nil
}

func (s *groomingRepoStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

type groomingFixture struct {
	svc   *GroomingScheduleService
	repo  *groomingRepoStub
	cache *invalidatorStub
}

func newGroomingFixture(t *testing.T, appts ...*models.Appointment) groomingFixture {
	t.Helper()
	pets, services := directoryFixtures()
	repo := newGroomingRepoStub()
	cache := &invalidatorStub{}
	svc := NewGroomingScheduleService(repo, ScheduleServiceParams{
		Appointments: newAppointmentRepoStub(appts...),
		Pets:         pets,
		Services:     services,
		Cache:        cache,
		Timeout:      time.Second,
	})
	return groomingFixture{svc: svc, repo: repo, cache: cache}
}

func groomingRequest() dto.CreateGroomingScheduleRequest {
	return dto.CreateGroomingScheduleRequest{
		AppointmentID: "appt-x",
		Period:        "morning",
		StartTime:     fixedNow.Add(24 * time.Hour),
	}
}

func TestGroomingScheduleServiceCreateCopiesAppointment(t *testing.T) {
	f := newGroomingFixture(t, seededAppointment(models.AppointmentConfirmed))

	sched, err := f.svc.Create(context.Background(), providerActor, groomingRequest())
	require.NoError(t, err)
	assert.Equal(t, "pet-1", sched.PetID)
	assert.Equal(t, "svc-1", sched.ServiceID)
	assert.Equal(t, models.GroomingScheduled, sched.Status)
	assert.Equal(t, "provider-1", sched.CreatedBy)

	_, err = f.svc.Create(context.Background(), providerActor, groomingRequest())
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	req := groomingRequest()
	req.AppointmentID = "missing"
	_, err = f.svc.Create(context.Background(), providerActor, req)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestGroomingScheduleServiceConcurrentCreateSingleWinner(t *testing.T) {
	f := newGroomingFixture(t, seededAppointment(models.AppointmentConfirmed))

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), providerActor, groomingRequest())
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			if assert.ErrorIs(t, err, appErrors.ErrConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.Len(t, f.repo.items, 1)
}

func TestGroomingScheduleServiceUpdate(t *testing.T) {
	f := newGroomingFixture(t, seededAppointment(models.AppointmentConfirmed))
	created, err := f.svc.Create(context.Background(), providerActor, groomingRequest())
	require.NoError(t, err)

	notes := "nervous around dryers"
	end := created.StartTime.Add(time.Hour)
	updated, err := f.svc.Update(context.Background(), providerActor, created.ID, dto.UpdateGroomingScheduleRequest{Notes: &notes, EndTime: &end})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
	require.NotNil(t, updated.EndTime)
	assert.Equal(t, []string{"grooming:" + created.ID}, f.cache.schedules)

	badEnd := created.StartTime.Add(-time.Minute)
	_, err = f.svc.Update(context.Background(), providerActor, created.ID, dto.UpdateGroomingScheduleRequest{EndTime: &badEnd})
	assert.ErrorIs(t, err, appErrors.ErrInvalidRange)

	done := models.GroomingCompleted
	_, err = f.svc.Update(context.Background(), providerActor, created.ID, dto.UpdateGroomingScheduleRequest{Status: &done})
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), providerActor, created.ID, dto.UpdateGroomingScheduleRequest{Notes: &notes})
	assert.ErrorIs(t, err, appErrors.ErrTerminalState)

	other := models.Actor{UserID: "provider-2", Role: models.RoleProvider}
	_, err = f.svc.Update(context.Background(), other, created.ID, dto.UpdateGroomingScheduleRequest{Notes: &notes})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestGroomingScheduleServiceDelete(t *testing.T) {
	f := newGroomingFixture(t, seededAppointment(models.AppointmentConfirmed))
	created, err := f.svc.Create(context.Background(), providerActor, groomingRequest())
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), models.Actor{UserID: "provider-2", Role: models.RoleProvider}, created.ID)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	require.NoError(t, f.svc.Delete(context.Background(), providerActor, created.ID))
	assert.Empty(t, f.repo.items)

	err = f.svc.Delete(context.Background(), providerActor, created.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
