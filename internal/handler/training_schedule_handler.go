package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/pawsched/pawsched-api/internal/dto"
	"github.com/pawsched/pawsched-api/internal/models"
	"github.com/pawsched/pawsched-api/internal/service"
	"github.com/pawsched/pawsched-api/pkg/response"
)

type trainingService interface {
	Create(ctx context.Context, actor models.Actor, req dto.CreateTrainingScheduleRequest) (*models.TrainingSchedule, error)
	AddSession(ctx context.Context, actor models.Actor, id string, req dto.AddSessionRequest) (*models.TrainingSchedule, error)
	SetDayPlanCount(ctx context.Context, actor models.Actor, id string, count int) (*models.TrainingSchedule, error)
	SetSlotNote(ctx context.Context, actor models.Actor, id string, req dto.SetSlotNoteRequest) (*models.TrainingSchedule, error)
	VisibleDates(ctx context.Context, id string) ([]models.DayDate, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
}

type trainingExporter interface {
	Export(ctx context.Context, id, format string) (*service.ExportFile, error)
}

// TrainingScheduleHandler exposes weekly training plan endpoints.
type TrainingScheduleHandler struct {
	service  trainingService
	views    scheduleViewer
	exporter trainingExporter
}

// NewTrainingScheduleHandler builds a new handler.
func NewTrainingScheduleHandler(svc trainingService, views scheduleViewer, exporter trainingExporter) *TrainingScheduleHandler {
	return &TrainingScheduleHandler{service: svc, views: views, exporter: exporter}
}

// Create godoc
// @Summary Create a weekly training plan
// @Tags Training
// @Accept json
// @Produce json
// @Param payload body dto.CreateTrainingScheduleRequest true "Training payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /training-schedules [post]
func (h *TrainingScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateTrainingScheduleRequest
	if !bindJSON(c, &req, "invalid training schedule payload") {
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
// @Summary Get a training plan with its linked records
// @Tags Training
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /training-schedules/{id} [get]
func (h *TrainingScheduleHandler) Get(c *gin.Context) {
	detail, err := h.views.Training(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// AddSession godoc
// @Summary Add a session to a day of the plan
// @Tags Training
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.AddSessionRequest true "Session"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /training-schedules/{id}/sessions [post]
func (h *TrainingScheduleHandler) AddSession(c *gin.Context) {
	var req dto.AddSessionRequest
	if !bindJSON(c, &req, "invalid session payload") {
		return
	}
	sched, err := h.service.AddSession(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sched)
}

// SetDayPlanCount godoc
// @Summary Change how many days of the week are visible
// @Tags Training
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.SetDayPlanCountRequest true "Visible day count"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /training-schedules/{id}/day-plan-count [patch]
func (h *TrainingScheduleHandler) SetDayPlanCount(c *gin.Context) {
	var req dto.SetDayPlanCountRequest
	if !bindJSON(c, &req, "invalid day plan count payload") {
		return
	}
	sched, err := h.service.SetDayPlanCount(c.Request.Context(), actorFromContext(c), c.Param("id"), req.DayPlanCount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sched)
}

// SetSlotNote godoc
// @Summary Attach a note to a time slot
// @Tags Training
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.SetSlotNoteRequest true "Slot note"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /training-schedules/{id}/slot-notes [put]
func (h *TrainingScheduleHandler) SetSlotNote(c *gin.Context) {
	var req dto.SetSlotNoteRequest
	if !bindJSON(c, &req, "invalid slot note payload") {
		return
	}
	sched, err := h.service.SetSlotNote(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sched)
}

// VisibleDates godoc
// @Summary List the visible days of the plan with their calendar dates
// @Tags Training
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /training-schedules/{id}/visible-dates [get]
func (h *TrainingScheduleHandler) VisibleDates(c *gin.Context) {
	dates, err := h.service.VisibleDates(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dates)
}

// Export godoc
// @Summary Download the plan as a CSV or PDF grid
// @Tags Training
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Schedule ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /training-schedules/{id}/export [get]
func (h *TrainingScheduleHandler) Export(c *gin.Context) {
	file, err := h.exporter.Export(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Delete godoc
// @Summary Delete a training plan
// @Tags Training
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /training-schedules/{id} [delete]
func (h *TrainingScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
