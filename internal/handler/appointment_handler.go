package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pawsched/pawsched-api/internal/dto"
	"github.com/pawsched/pawsched-api/internal/models"
	"github.com/pawsched/pawsched-api/pkg/response"
)

type appointmentService interface {
	Create(ctx context.Context, actor models.Actor, req dto.CreateAppointmentRequest) (*models.Appointment, error)
	Get(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error)
	ListByPet(ctx context.Context, actor models.Actor, petID string) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, actor models.Actor, id string, status models.AppointmentStatus) (*models.Appointment, error)
	Reschedule(ctx context.Context, actor models.Actor, id string, date time.Time) (*models.Appointment, error)
}

// AppointmentHandler exposes booking endpoints.
type AppointmentHandler struct {
	service appointmentService
}

// NewAppointmentHandler builds a new handler.
func NewAppointmentHandler(service appointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// Create godoc
// @Summary Book a service for a pet
// @Tags Appointments
// @Accept json
// @Produce json
// @Param payload body dto.CreateAppointmentRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req dto.CreateAppointmentRequest
	if !bindJSON(c, &req, "invalid appointment payload") {
		return
	}
	appt, err := h.service.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, appt)
}

// Get godoc
// @Summary Get an appointment
// @Tags Appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	appt, err := h.service.Get(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, appt)
}

// ListByPet godoc
// @Summary List appointments booked for a pet
// @Tags Appointments
// @Produce json
// @Param id path string true "Pet ID"
// @Success 200 {object} response.Envelope
// @Router /pets/{id}/appointments [get]
func (h *AppointmentHandler) ListByPet(c *gin.Context) {
	items, err := h.service.ListByPet(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []models.Appointment{}
	}
	response.OK(c, items)
}

// UpdateStatus godoc
// @Summary Move an appointment through its lifecycle
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param payload body dto.UpdateAppointmentStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /appointments/{id}/status [patch]
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateAppointmentStatusRequest
	if !bindJSON(c, &req, "invalid status payload") {
		return
	}
	appt, err := h.service.UpdateStatus(c.Request.Context(), actorFromContext(c), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, appt)
}

// Reschedule godoc
// @Summary Move an appointment to a new date
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param payload body dto.RescheduleAppointmentRequest true "New date"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /appointments/{id}/reschedule [patch]
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	var req dto.RescheduleAppointmentRequest
	if !bindJSON(c, &req, "invalid reschedule payload") {
		return
	}
	appt, err := h.service.Reschedule(c.Request.Context(), actorFromContext(c), c.Param("id"), req.AppointmentDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, appt)
}
