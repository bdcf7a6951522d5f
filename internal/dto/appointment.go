package dto

import (
	"time"

	"github.com/pawsched/pawsched-api/internal/models"
)

// CreateAppointmentRequest books a service for a pet.
type CreateAppointmentRequest struct {
	PetID           string              `json:"pet_id" validate:"required"`
	ServiceID       string              `json:"service_id" validate:"required"`
	AppointmentDate time.Time           `json:"appointment_date" validate:"required"`
	PackageType     *models.PackageType `json:"package_type,omitempty"`
	SpecialNotes    string              `json:"special_notes" validate:"max=2000"`
	UsePoints       bool                `json:"use_points"`
}

// UpdateAppointmentStatusRequest moves an appointment through its lifecycle.
type UpdateAppointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" validate:"required"`
}

// RescheduleAppointmentRequest moves an appointment to a new date.
type RescheduleAppointmentRequest struct {
	AppointmentDate time.Time `json:"appointment_date" validate:"required"`
}
