package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/pawsched/pawsched-api/internal/dto"
	"github.com/pawsched/pawsched-api/internal/models"
	"github.com/pawsched/pawsched-api/pkg/response"
)

type groomingService interface {
	Create(ctx context.Context, actor models.Actor, req dto.CreateGroomingScheduleRequest) (*models.GroomingSchedule, error)
	Update(ctx context.Context, actor models.Actor, id string, req dto.UpdateGroomingScheduleRequest) (*models.GroomingSchedule, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
}

type scheduleViewer interface {
	Grooming(ctx context.Context, id string) (*models.ScheduleDetail, error)
	GroomingByAppointment(ctx context.Context, appointmentID string) (*models.ScheduleDetail, error)
	Boarding(ctx context.Context, id string) (*models.ScheduleDetail, error)
	Training(ctx context.Context, id string) (*models.ScheduleDetail, error)
}

// GroomingScheduleHandler exposes grooming schedule endpoints.
type GroomingScheduleHandler struct {
	service groomingService
	views   scheduleViewer
}

// NewGroomingScheduleHandler builds a new handler.
func NewGroomingScheduleHandler(service groomingService, views scheduleViewer) *GroomingScheduleHandler {
	return &GroomingScheduleHandler{service: service, views: views}
}

// Create godoc
// @Summary Derive a grooming schedule from an appointment
// @Tags Grooming
// @Accept json
// @Produce json
// @Param payload body dto.CreateGroomingScheduleRequest true "Grooming payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /grooming-schedules [post]
func (h *GroomingScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateGroomingScheduleRequest
	if !bindJSON(c, &req, "invalid grooming schedule payload") {
		return
	}
	sched, err := h.service.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sched)
}

// Get godoc
// @Summary Get a grooming schedule with its appointment, pet and service
// @Tags Grooming
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grooming-schedules/{id} [get]
func (h *GroomingScheduleHandler) Get(c *gin.Context) {
	detail, err := h.views.Grooming(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// GetByAppointment godoc
// @Summary Get the grooming schedule derived from an appointment
// @Tags Grooming
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /appointments/{id}/grooming-schedule [get]
func (h *GroomingScheduleHandler) GetByAppointment(c *gin.Context) {
	detail, err := h.views.GroomingByAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// Update godoc
// @Summary Update a grooming schedule
// @Tags Grooming
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.UpdateGroomingScheduleRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /grooming-schedules/{id} [patch]
func (h *GroomingScheduleHandler) Update(c *gin.Context) {
	var req dto.UpdateGroomingScheduleRequest
	if !bindJSON(c, &req, "invalid grooming schedule payload") {
		return
	}
	sched, err := h.service.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sched)
}

// Delete godoc
// @Summary Delete a grooming schedule
// @Tags Grooming
// @Param id path string true "Schedule ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Router /grooming-schedules/{id} [delete]
func (h *GroomingScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
