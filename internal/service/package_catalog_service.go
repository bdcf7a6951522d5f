package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pawsched/pawsched-api/internal/dto"
	"github.com/pawsched/pawsched-api/internal/models"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

type serviceOfferingStore interface {
	FindByID(ctx context.Context, id string) (*models.ServiceOffering, error)
	Create(ctx context.Context, svc *models.ServiceOffering) error
	UpdatePackages(ctx context.Context, id string, packages models.PackageSet) error
	SetAvailability(ctx context.Context, id string, available bool) error
}

// ValidatePackages checks that all three tiers are present and well formed.
// Every problem is collected into a single validation error whose details list
// the offending tier and field. On success each tier is stamped with its type.
func ValidatePackages(raw map[string]models.PackageTier) (models.PackageSet, error) {
	var violations []models.PackageViolation

	for _, tier := range models.PackageTypes {
		def, ok := raw[string(tier)]
		if !ok {
			violations = append(violations, models.PackageViolation{Tier: string(tier), Field: "tier", Message: "tier is required"})
			continue
		}
		violations = append(violations, checkTier(string(tier), def)...)
	}

	var unknown []string
	for key := range raw {
		if !models.PackageType(key).Valid() {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		violations = append(violations, models.PackageViolation{Tier: key, Field: "tier", Message: "unknown tier"})
	}

	if len(violations) > 0 {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, fmt.Sprintf("%d package violation(s)", len(violations)), violations)
	}

	set := make(models.PackageSet, len(models.PackageTypes))
	for _, tier := range models.PackageTypes {
		def := raw[string(tier)]
		def.Type = tier
		set[tier] = def
	}
	return set, nil
}

func checkTier(tier string, def models.PackageTier) []models.PackageViolation {
	var out []models.PackageViolation
	if def.Price.IsNegative() {
		out = append(out, models.PackageViolation{Tier: tier, Field: "price", Message: "price must not be negative"})
	}
	if def.DurationMinutes < models.MinPackageDurationMinutes {
		out = append(out, models.PackageViolation{
			Tier:    tier,
			Field:   "duration_minutes",
			Message: fmt.Sprintf("duration must be at least %d minutes", models.MinPackageDurationMinutes),
		})
	}
	hasItem := false
	for _, item := range def.Includes {
		if strings.TrimSpace(item) != "" {
			hasItem = true
			break
		}
	}
	if !hasItem {
		out = append(out, models.PackageViolation{Tier: tier, Field: "includes", Message: "includes must list at least one item"})
	}
	return out
}

func packagesAsRaw(set models.PackageSet) map[string]models.PackageTier {
	raw := make(map[string]models.PackageTier, len(set))
	for k, v := range set {
		raw[string(k)] = v
	}
	return raw
}

type serviceViewInvalidator interface {
	InvalidateService(ctx context.Context, serviceID string)
}

type noopServiceInvalidator struct{}

func (noopServiceInvalidator) InvalidateService(context.Context, string) {}

// PackageCatalogService manages provider service offerings and their tiers.
type PackageCatalogService struct {
	repo      serviceOfferingStore
	cache     serviceViewInvalidator
	validator *validator.Validate
	logger    *zap.Logger
	timeout   time.Duration
}

// NewPackageCatalogService constructs the catalog service. cache may be nil.
func NewPackageCatalogService(repo serviceOfferingStore, cache serviceViewInvalidator, validate *validator.Validate, logger *zap.Logger, timeout time.Duration) *PackageCatalogService {
	if cache == nil {
		cache = noopServiceInvalidator{}
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackageCatalogService{repo: repo, cache: cache, validator: validate, logger: logger, timeout: timeout}
}

// Validate runs ValidatePackages without persisting anything.
func (s *PackageCatalogService) Validate(raw map[string]models.PackageTier) (models.PackageSet, error) {
	return ValidatePackages(raw)
}

// Create registers a new offering owned by the calling provider.
func (s *PackageCatalogService) Create(ctx context.Context, actor models.Actor, req dto.CreateServiceOfferingRequest) (*models.ServiceOffering, error) {
	if err := requireActor(actor, models.RoleProvider); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid service payload")
	}
	packages, err := ValidatePackages(req.Packages)
	if err != nil {
		return nil, err
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}
	svc := &models.ServiceOffering{
		ProviderID: actor.UserID,
		Name:       strings.TrimSpace(req.Name),
		Category:   req.Category,
		Packages:   packages,
		Available:  available,
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, storeError(err, "service not found", "failed to create service")
	}
	s.logger.Info("service offering created", zap.String("service_id", svc.ID), zap.String("provider_id", actor.UserID))
	return svc, nil
}

// Get loads an offering by id.
func (s *PackageCatalogService) Get(ctx context.Context, id string) (*models.ServiceOffering, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "service not found", "failed to load service")
	}
	return svc, nil
}

// UpdatePackages replaces all three tiers of an offering.
func (s *PackageCatalogService) UpdatePackages(ctx context.Context, actor models.Actor, id string, raw map[string]models.PackageTier) (*models.ServiceOffering, error) {
	if err := requireActor(actor, models.RoleProvider); err != nil {
		return nil, err
	}
	packages, err := ValidatePackages(raw)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	svc, err := s.ownedOffering(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePackages(ctx, id, packages); err != nil {
		return nil, storeError(err, "service not found", "failed to update packages")
	}
	svc.Packages = packages
	s.cache.InvalidateService(ctx, id)
	return svc, nil
}

// SetAvailability soft-enables or soft-disables an offering. Offerings stay in
// place so existing appointments keep resolving them.
func (s *PackageCatalogService) SetAvailability(ctx context.Context, actor models.Actor, id string, available bool) (*models.ServiceOffering, error) {
	if err := requireActor(actor, models.RoleProvider); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	svc, err := s.ownedOffering(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		return nil, storeError(err, "service not found", "failed to update availability")
	}
	svc.Available = available
	s.cache.InvalidateService(ctx, id)
	s.logger.Info("service availability changed", zap.String("service_id", id), zap.Bool("available", available))
	return svc, nil
}

func (s *PackageCatalogService) ownedOffering(ctx context.Context, actor models.Actor, id string) (*models.ServiceOffering, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "service not found", "failed to load service")
	}
	if svc.ProviderID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "service belongs to another provider")
	}
	return svc, nil
}
