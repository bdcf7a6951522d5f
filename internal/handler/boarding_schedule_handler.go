package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/pawsched/pawsched-api/internal/dto"
	"github.com/pawsched/pawsched-api/internal/models"
	"github.com/pawsched/pawsched-api/pkg/response"
)

type boardingService interface {
	Create(ctx context.Context, actor models.Actor, req dto.CreateBoardingScheduleRequest) (*models.BoardingSchedule, error)
	Update(ctx context.Context, actor models.Actor, id string, req dto.UpdateBoardingScheduleRequest) (*models.BoardingSchedule, error)
	ToggleConfirmedDay(ctx context.Context, actor models.Actor, id, date string) ([]string, error)
	MarkComplete(ctx context.Context, actor models.Actor, id string) (*models.BoardingSchedule, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
}

// BoardingScheduleHandler exposes boarding schedule endpoints.
type BoardingScheduleHandler struct {
	service boardingService
	views   scheduleViewer
}

// NewBoardingScheduleHandler builds a new handler.
func NewBoardingScheduleHandler(service boardingService, views scheduleViewer) *BoardingScheduleHandler {
	return &BoardingScheduleHandler{service: service, views: views}
}

// Create godoc
// @Summary Open a boarding stay
// @Tags Boarding
// @Accept json
// @Produce json
// @Param payload body dto.CreateBoardingScheduleRequest true "Boarding payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /boarding-schedules [post]
func (h *BoardingScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateBoardingScheduleRequest
	if !bindJSON(c, &req, "invalid boarding schedule payload") {
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
// @Summary Get a boarding stay with its linked records
// @Tags Boarding
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /boarding-schedules/{id} [get]
func (h *BoardingScheduleHandler) Get(c *gin.Context) {
	detail, err := h.views.Boarding(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// Update godoc
// @Summary Update a boarding stay
// @Tags Boarding
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.UpdateBoardingScheduleRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /boarding-schedules/{id} [patch]
func (h *BoardingScheduleHandler) Update(c *gin.Context) {
	var req dto.UpdateBoardingScheduleRequest
	if !bindJSON(c, &req, "invalid boarding schedule payload") {
		return
	}
	sched, err := h.service.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sched)
}

// ToggleConfirmedDay godoc
// @Summary Flip the staff confirmation of one day of a stay
// @Tags Boarding
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.ToggleConfirmedDayRequest true "Calendar date"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /boarding-schedules/{id}/confirmed-days [post]
func (h *BoardingScheduleHandler) ToggleConfirmedDay(c *gin.Context) {
	var req dto.ToggleConfirmedDayRequest
	if !bindJSON(c, &req, "invalid confirmed day payload") {
		return
	}
	if req.Date == "" {
		response.Error(c, validationMissing("date"))
		return
	}
	days, err := h.service.ToggleConfirmedDay(c.Request.Context(), actorFromContext(c), c.Param("id"), req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ConfirmedDaysResponse{ConfirmedDays: days})
}

// MarkComplete godoc
// @Summary Complete a boarding stay
// @Tags Boarding
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /boarding-schedules/{id}/complete [post]
func (h *BoardingScheduleHandler) MarkComplete(c *gin.Context) {
	sched, err := h.service.MarkComplete(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sched)
}

// Delete godoc
// @Summary Delete a boarding stay
// @Tags Boarding
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /boarding-schedules/{id} [delete]
func (h *BoardingScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
