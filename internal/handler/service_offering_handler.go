package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawsched/pawsched-api/internal/dto"
	"github.com/pawsched/pawsched-api/internal/models"
	"github.com/pawsched/pawsched-api/pkg/response"
)

type catalogService interface {
	Validate(raw map[string]models.PackageTier) (models.PackageSet, error)
	Create(ctx context.Context, actor models.Actor, req dto.CreateServiceOfferingRequest) (*models.ServiceOffering, error)
	Get(ctx context.Context, id string) (*models.ServiceOffering, error)
	UpdatePackages(ctx context.Context, actor models.Actor, id string, raw map[string]models.PackageTier) (*models.ServiceOffering, error)
	SetAvailability(ctx context.Context, actor models.Actor, id string, available bool) (*models.ServiceOffering, error)
}

// ServiceOfferingHandler exposes provider service catalog endpoints.
type ServiceOfferingHandler struct {
	service catalogService
}

// NewServiceOfferingHandler builds a new handler.
func NewServiceOfferingHandler(service catalogService) *ServiceOfferingHandler {
	return &ServiceOfferingHandler{service: service}
}

// Create godoc
// @Summary Register a service offering with its three package tiers
// @Tags Services
// @Accept json
// @Produce json
// @Param payload body dto.CreateServiceOfferingRequest true "Service payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /services [post]
func (h *ServiceOfferingHandler) Create(c *gin.Context) {
	var req dto.CreateServiceOfferingRequest
	if !bindJSON(c, &req, "invalid service payload") {
		return
	}
	svc, err := h.service.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, svc)
}

// Get godoc
// @Summary Get a service offering
// @Tags Services
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /services/{id} [get]
func (h *ServiceOfferingHandler) Get(c *gin.Context) {
	svc, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, svc)
}

// ValidatePackages godoc
// @Summary Validate a package tier set without saving it
// @Tags Services
// @Accept json
// @Produce json
// @Param payload body dto.UpdatePackagesRequest true "Packages"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /services/packages/validate [post]
func (h *ServiceOfferingHandler) ValidatePackages(c *gin.Context) {
	var req dto.UpdatePackagesRequest
	if !bindJSON(c, &req, "invalid packages payload") {
		return
	}
	set, err := h.service.Validate(req.Packages)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, set)
}

// UpdatePackages godoc
// @Summary Replace the package tiers of a service
// @Tags Services
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param payload body dto.UpdatePackagesRequest true "Packages"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /services/{id}/packages [put]
func (h *ServiceOfferingHandler) UpdatePackages(c *gin.Context) {
	var req dto.UpdatePackagesRequest
	if !bindJSON(c, &req, "invalid packages payload") {
		return
	}
	svc, err := h.service.UpdatePackages(c.Request.Context(), actorFromContext(c), c.Param("id"), req.Packages)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, svc)
}

// SetAvailability godoc
// @Summary Enable or disable booking of a service
// @Tags Services
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param payload body dto.SetAvailabilityRequest true "Availability"
// @Success 200 {object} response.Envelope
// @Router /services/{id}/availability [patch]
func (h *ServiceOfferingHandler) SetAvailability(c *gin.Context) {
	var req dto.SetAvailabilityRequest
	if !bindJSON(c, &req, "invalid availability payload") {
		return
	}
	if req.Available == nil {
		response.Error(c, validationMissing("available"))
		return
	}
	svc, err := h.service.SetAvailability(c.Request.Context(), actorFromContext(c), c.Param("id"), *req.Available)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, svc, nil)
}
