package dto

import "github.com/pawsched/pawsched-api/internal/models"

// CreateServiceOfferingRequest registers a provider service with its three tiers.
type CreateServiceOfferingRequest struct {
	Name      string                        `json:"name" validate:"required,max=200"`
	Category  string                        `json:"category" validate:"required,oneof=grooming boarding training"`
	Packages  map[string]models.PackageTier `json:"packages"`
	Available *bool                         `json:"available,omitempty"`
}

// UpdatePackagesRequest replaces the tiers of an offering.
type UpdatePackagesRequest struct {
	Packages map[string]models.PackageTier `json:"packages"`
}

// SetAvailabilityRequest soft-enables or soft-disables an offering.
type SetAvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}
