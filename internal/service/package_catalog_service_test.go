package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawsched/pawsched-api/internal/dto"
	"github.com/pawsched/pawsched-api/internal/models"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

func rawPackages() map[string]models.PackageTier {
	return packagesAsRaw(fullPackages())
}

func violationsOf(t *testing.T, err error) []models.PackageViolation {
	t.Helper()
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	violations, ok := appErr.Details.([]models.PackageViolation)
	require.True(t, ok)
	return violations
}

func TestValidatePackagesStampsTypes(t *testing.T) {
	set, err := ValidatePackages(rawPackages())
	require.NoError(t, err)
	require.Len(t, set, 3)
	for tierType, def := range set {
		assert.Equal(t, tierType, def.Type)
	}
}

func TestValidatePackagesReportsMissingTiersExactly(t *testing.T) {
	raw := rawPackages()
	delete(raw, "premium")
	delete(raw, "luxury")

	violations := violationsOf(t, mustFail(ValidatePackages(raw)))
	require.Len(t, violations, 2)
	assert.Equal(t, "premium", violations[0].Tier)
	assert.Equal(t, "luxury", violations[1].Tier)
}

func TestValidatePackagesDurationBoundary(t *testing.T) {
	for minutes := 0; minutes < models.MinPackageDurationMinutes; minutes++ {
		raw := rawPackages()
		basic := raw["basic"]
		basic.DurationMinutes = minutes
		raw["basic"] = basic

		violations := violationsOf(t, mustFail(ValidatePackages(raw)))
		require.Len(t, violations, 1)
		assert.Equal(t, models.PackageViolation{Tier: "basic", Field: "duration_minutes", Message: "duration must be at least 15 minutes"}, violations[0])
	}

	raw := rawPackages()
	basic := raw["basic"]
	basic.DurationMinutes = models.MinPackageDurationMinutes
	raw["basic"] = basic
	_, err := ValidatePackages(raw)
	assert.NoError(t, err)
}

func TestValidatePackagesAccumulatesFieldViolations(t *testing.T) {
	raw := rawPackages()
	raw["luxury"] = models.PackageTier{Price: decimal.NewFromInt(-1), DurationMinutes: 5, Includes: []string{" "}}
	raw["platinum"] = tier(99, 120, "everything")

	violations := violationsOf(t, mustFail(ValidatePackages(raw)))
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Tier+"."+v.Field)
	}
	assert.Equal(t, []string{"luxury.price", "luxury.duration_minutes", "luxury.includes", "platinum.tier"}, fields)
}

func mustFail(_ models.PackageSet, err error) error {
	return err
}

type offeringRepoStub struct {
	items map[string]*models.ServiceOffering
}

func (s *offeringRepoStub) FindByID(ctx context.Context, id string) (*models.ServiceOffering, error) {
	if svc, ok := s.items[id]; ok {
		cp := *svc
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *offeringRepoStub) Create(ctx context.Context, svc *models.ServiceOffering) error {
	svc.ID = "svc-new"
	svc.CreatedAt = time.Now()
	cp := *svc
	s.items[svc.ID] = &cp
	return nil
}

func (s *offeringRepoStub) UpdatePackages(ctx context.Context, id string, packages models.PackageSet) error {
	s.items[id].Packages = packages
	return nil
}

func (s *offeringRepoStub) SetAvailability(ctx context.Context, id string, available bool) error {
	s.items[id].Available = available
	return nil
}

func TestPackageCatalogServiceCreate(t *testing.T) {
	repo := &offeringRepoStub{items: map[string]*models.ServiceOffering{}}
	svc := NewPackageCatalogService(repo, nil, nil, nil, time.Second)

	created, err := svc.Create(context.Background(), providerActor, dto.CreateServiceOfferingRequest{
		Name:     " Full groom ",
		Category: "grooming",
		Packages: rawPackages(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Full groom", created.Name)
	assert.Equal(t, "provider-1", created.ProviderID)
	assert.True(t, created.Available)
	assert.Equal(t, models.PackageLuxury, created.Packages[models.PackageLuxury].Type)

	_, err = svc.Create(context.Background(), ownerActor, dto.CreateServiceOfferingRequest{Name: "x", Category: "grooming", Packages: rawPackages()})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Create(context.Background(), providerActor, dto.CreateServiceOfferingRequest{Name: "x", Category: "walking", Packages: rawPackages()})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestPackageCatalogServiceOwnership(t *testing.T) {
	repo := &offeringRepoStub{items: map[string]*models.ServiceOffering{
		"svc-1": {ID: "svc-1", ProviderID: "provider-1", Packages: fullPackages(), Available: true},
	}}
	svc := NewPackageCatalogService(repo, nil, nil, nil, time.Second)
	other := models.Actor{UserID: "provider-2", Role: models.RoleProvider}

	_, err := svc.SetAvailability(context.Background(), other, "svc-1", false)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.True(t, repo.items["svc-1"].Available)

	updated, err := svc.SetAvailability(context.Background(), providerActor, "svc-1", false)
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.False(t, repo.items["svc-1"].Available)

	_, err = svc.SetAvailability(context.Background(), providerActor, "missing", false)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	raw := rawPackages()
	delete(raw, "basic")
	_, err = svc.UpdatePackages(context.Background(), providerActor, "svc-1", raw)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
