package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pawsched/pawsched-api/internal/middleware"
	"github.com/pawsched/pawsched-api/internal/models"
)

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Services     *ServiceOfferingHandler
	Appointments *AppointmentHandler
	Grooming     *GroomingScheduleHandler
	Boarding     *BoardingScheduleHandler
	Training     *TrainingScheduleHandler
}

// RegisterRoutes mounts the API under prefix. Every route requires a verified token.
func RegisterRoutes(router gin.IRouter, prefix string, verifier *middleware.TokenVerifier, h Handlers) {
	api := router.Group(prefix, middleware.JWT(verifier))

	anyRole := middleware.RequireRoles(models.RoleOwner, models.RoleProvider)
	ownerOnly := middleware.RequireRoles(models.RoleOwner)
	providerOnly := middleware.RequireRoles(models.RoleProvider)

	services := api.Group("/services")
	{
		services.POST("", providerOnly, h.Services.Create)
		services.POST("/packages/validate", anyRole, h.Services.ValidatePackages)
		services.GET("/:id", anyRole, h.Services.Get)
		services.PUT("/:id/packages", providerOnly, h.Services.UpdatePackages)
		services.PATCH("/:id/availability", providerOnly, h.Services.SetAvailability)
	}

	appointments := api.Group("/appointments")
	{
		appointments.POST("", ownerOnly, h.Appointments.Create)
		appointments.GET("/:id", anyRole, h.Appointments.Get)
		appointments.PATCH("/:id/status", anyRole, h.Appointments.UpdateStatus)
		appointments.PATCH("/:id/reschedule", ownerOnly, h.Appointments.Reschedule)
		appointments.GET("/:id/grooming-schedule", anyRole, h.Grooming.GetByAppointment)
	}
	api.GET("/pets/:id/appointments", ownerOnly, h.Appointments.ListByPet)

	grooming := api.Group("/grooming-schedules")
	{
		grooming.POST("", providerOnly, h.Grooming.Create)
		grooming.GET("/:id", anyRole, h.Grooming.Get)
		grooming.PATCH("/:id", providerOnly, h.Grooming.Update)
		grooming.DELETE("/:id", providerOnly, h.Grooming.Delete)
	}

	boarding := api.Group("/boarding-schedules")
	{
		boarding.POST("", providerOnly, h.Boarding.Create)
		boarding.GET("/:id", anyRole, h.Boarding.Get)
		boarding.PATCH("/:id", providerOnly, h.Boarding.Update)
		boarding.POST("/:id/confirmed-days", providerOnly, h.Boarding.ToggleConfirmedDay)
		boarding.POST("/:id/complete", providerOnly, h.Boarding.MarkComplete)
		boarding.DELETE("/:id", providerOnly, h.Boarding.Delete)
	}

	training := api.Group("/training-schedules")
	{
		training.POST("", providerOnly, h.Training.Create)
		training.GET("/:id", anyRole, h.Training.Get)
		training.GET("/:id/visible-dates", anyRole, h.Training.VisibleDates)
		training.GET("/:id/export", anyRole, h.Training.Export)
		training.POST("/:id/sessions", providerOnly, h.Training.AddSession)
		training.PATCH("/:id/day-plan-count", providerOnly, h.Training.SetDayPlanCount)
		training.PUT("/:id/slot-notes", providerOnly, h.Training.SetSlotNote)
		training.DELETE("/:id", providerOnly, h.Training.Delete)
	}
}
