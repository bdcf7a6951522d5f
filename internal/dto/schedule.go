package dto

import (
	"time"

	"github.com/pawsched/pawsched-api/internal/models"
)

// CreateGroomingScheduleRequest derives a grooming slot from an appointment.
type CreateGroomingScheduleRequest struct {
	AppointmentID   string    `json:"appointment_id" validate:"required"`
	Period          string    `json:"period" validate:"required,max=100"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	SpecialRequests string    `json:"special_requests" validate:"max=2000"`
	Notes           string    `json:"notes" validate:"max=2000"`
}

// UpdateGroomingScheduleRequest carries the fields to change; nil means unchanged.
type UpdateGroomingScheduleRequest struct {
	Period          *string                `json:"period,omitempty" validate:"omitempty,min=1,max=100"`
	StartTime       *time.Time             `json:"start_time,omitempty"`
	EndTime         *time.Time             `json:"end_time,omitempty"`
	Status          *models.GroomingStatus `json:"status,omitempty"`
	SpecialRequests *string                `json:"special_requests,omitempty" validate:"omitempty,max=2000"`
	Notes           *string                `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// CreateBoardingScheduleRequest opens a boarding stay. EndTime is only accepted
// for the custom duration code.
type CreateBoardingScheduleRequest struct {
	PetID         string              `json:"pet_id" validate:"required"`
	ServiceID     string              `json:"service_id" validate:"required"`
	AppointmentID *string             `json:"appointment_id,omitempty"`
	DurationCode  models.DurationCode `json:"duration_code" validate:"required"`
	StartTime     time.Time           `json:"start_time" validate:"required"`
	EndTime       *time.Time          `json:"end_time,omitempty"`
}

// UpdateBoardingScheduleRequest carries the fields to change; nil means unchanged.
type UpdateBoardingScheduleRequest struct {
	DurationCode *models.DurationCode   `json:"duration_code,omitempty"`
	StartTime    *time.Time             `json:"start_time,omitempty"`
	EndTime      *time.Time             `json:"end_time,omitempty"`
	Status       *models.BoardingStatus `json:"status,omitempty"`
}

// ToggleConfirmedDayRequest flips one calendar day of a stay.
type ToggleConfirmedDayRequest struct {
	Date string `json:"date" validate:"required"`
}

// ConfirmedDaysResponse is the confirmed day set after a toggle.
type ConfirmedDaysResponse struct {
	ConfirmedDays []string `json:"confirmed_days"`
}

// CreateTrainingScheduleRequest opens a weekly training plan.
type CreateTrainingScheduleRequest struct {
	PetID         string          `json:"pet_id" validate:"required"`
	ServiceID     string          `json:"service_id" validate:"required"`
	AppointmentID *string         `json:"appointment_id,omitempty"`
	WeekStartDate string          `json:"week_start_date" validate:"required"`
	DayPlanCount  int             `json:"day_plan_count" validate:"required"`
	Schedule      models.DayPlans `json:"schedule,omitempty"`
	Comments      string          `json:"comments" validate:"max=2000"`
}

// AddSessionRequest appends a session to a day.
type AddSessionRequest struct {
	Day     string         `json:"day" validate:"required"`
	Session models.Session `json:"session"`
}

// SetDayPlanCountRequest changes the visible grid width.
type SetDayPlanCountRequest struct {
	DayPlanCount int `json:"day_plan_count" validate:"required"`
}

// SetSlotNoteRequest writes the notes of the session at (day, time).
type SetSlotNoteRequest struct {
	Day   string `json:"day" validate:"required"`
	Time  string `json:"time" validate:"required"`
	Notes string `json:"notes" validate:"max=2000"`
}
