package service

import (
	"context"
	"encoding/json"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawsched/pawsched-api/internal/models"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

// memoryCacheRepo stores JSON payloads and matches patterns with Redis-style globs.
type memoryCacheRepo struct {
	entries map[string][]byte
	gets    int
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.gets++
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

func TestScheduleViewKey(t *testing.T) {
	assert.Equal(t, "schedule-view:svc:s1:appt:a1:grooming:g1", ScheduleViewKey("s1", "a1", models.ScheduleKindGrooming, "g1"))
	assert.Equal(t, "schedule-view:svc:s1:appt:none:boarding:b1", ScheduleViewKey("s1", "", models.ScheduleKindBoarding, "b1"))
}

func TestCacheServiceInvalidation(t *testing.T) {
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, NewMetricsService(), time.Minute, nil, true)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, ScheduleViewKey("s1", "a1", models.ScheduleKindGrooming, "g1"), "x", 0))
	require.NoError(t, cache.Set(ctx, ScheduleViewKey("s1", "a1", models.ScheduleKindBoarding, "b1"), "x", 0))
	require.NoError(t, cache.Set(ctx, ScheduleViewKey("s2", "a2", models.ScheduleKindTraining, "t1"), "x", 0))
	require.NoError(t, cache.Set(ctx, ScheduleViewKey("s3", "", models.ScheduleKindBoarding, "b2"), "x", 0))

	cache.InvalidateSchedule(ctx, models.ScheduleKindBoarding, "b1")
	assert.Len(t, repo.entries, 3)

	cache.InvalidateAppointment(ctx, "a1")
	assert.Len(t, repo.entries, 2)

	cache.InvalidateService(ctx, "s3")
	assert.Len(t, repo.entries, 1)
	_, ok := repo.entries[ScheduleViewKey("s2", "a2", models.ScheduleKindTraining, "t1")]
	assert.True(t, ok)
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, 0, nil, false)

	require.NoError(t, cache.Set(context.Background(), "k", "v", 0))
	hit, err := cache.Get(context.Background(), "k", new(string))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, repo.entries)

	var nilCache *CacheService
	nilCache.InvalidateAppointment(context.Background(), "a1")
}

func TestScheduleViewServiceResolvesAndCaches(t *testing.T) {
	pets, services := directoryFixtures()
	grooming := newGroomingRepoStub()
	grooming.items["groom-1"] = &models.GroomingSchedule{
		ID: "groom-1", AppointmentID: "appt-x", PetID: "pet-1", ServiceID: "svc-1", Status: models.GroomingScheduled,
	}
	appointments := newAppointmentRepoStub(seededAppointment(models.AppointmentConfirmed))
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, nil, true)

	views := NewScheduleViewService(ScheduleViewServiceParams{
		Grooming:     grooming,
		Appointments: appointments,
		Pets:         pets,
		Services:     services,
		Cache:        cache,
	})

	detail, err := views.Grooming(context.Background(), "groom-1")
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleKindGrooming, detail.Kind)
	assert.Equal(t, "groom-1", detail.Grooming.ID)
	assert.Equal(t, "appt-x", detail.Appointment.ID)
	assert.Equal(t, "Rex", detail.Pet.Name)
	assert.Equal(t, "svc-1", detail.Service.ID)
	require.Contains(t, repo.entries, "schedule-view:svc:svc-1:appt:appt-x:grooming:groom-1")

	delete(appointments.items, "appt-x")
	cached, err := views.Grooming(context.Background(), "groom-1")
	require.NoError(t, err)
	assert.Equal(t, "appt-x", cached.Appointment.ID)

	cache.InvalidateAppointment(context.Background(), "appt-x")
	_, err = views.Grooming(context.Background(), "groom-1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = views.Grooming(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestScheduleViewServiceGroomingByAppointment(t *testing.T) {
	pets, services := directoryFixtures()
	grooming := newGroomingRepoStub()
	grooming.items["groom-1"] = &models.GroomingSchedule{
		ID: "groom-1", AppointmentID: "appt-x", PetID: "pet-1", ServiceID: "svc-1", Status: models.GroomingScheduled,
	}
	views := NewScheduleViewService(ScheduleViewServiceParams{
		Grooming:     grooming,
		Appointments: newAppointmentRepoStub(seededAppointment(models.AppointmentConfirmed)),
		Pets:         pets,
		Services:     services,
	})

	detail, err := views.GroomingByAppointment(context.Background(), "appt-x")
	require.NoError(t, err)
	assert.Equal(t, "groom-1", detail.Grooming.ID)
	assert.Equal(t, "appt-x", detail.Appointment.ID)

	_, err = views.GroomingByAppointment(context.Background(), "appt-other")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestPackageCatalogChangesInvalidateCachedViews(t *testing.T) {
	pets, _ := directoryFixtures()
	offerings := &offeringRepoStub{items: map[string]*models.ServiceOffering{
		"svc-1": {ID: "svc-1", ProviderID: "provider-1", Packages: fullPackages(), Available: true},
	}}
	grooming := newGroomingRepoStub()
	grooming.items["groom-1"] = &models.GroomingSchedule{
		ID: "groom-1", AppointmentID: "appt-x", PetID: "pet-1", ServiceID: "svc-1", Status: models.GroomingScheduled,
	}
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	views := NewScheduleViewService(ScheduleViewServiceParams{
		Grooming:     grooming,
		Appointments: newAppointmentRepoStub(seededAppointment(models.AppointmentConfirmed)),
		Pets:         pets,
		Services:     offerings,
		Cache:        cache,
	})
	catalog := NewPackageCatalogService(offerings, cache, nil, nil, time.Second)

	detail, err := views.Grooming(context.Background(), "groom-1")
	require.NoError(t, err)
	require.True(t, detail.Service.Available)

	_, err = catalog.SetAvailability(context.Background(), providerActor, "svc-1", false)
	require.NoError(t, err)
	assert.Empty(t, repo.entries)

	detail, err = views.Grooming(context.Background(), "groom-1")
	require.NoError(t, err)
	assert.False(t, detail.Service.Available)

	_, err = catalog.UpdatePackages(context.Background(), providerActor, "svc-1", packagesAsRaw(fullPackages()))
	require.NoError(t, err)
	assert.Empty(t, repo.entries)
}
