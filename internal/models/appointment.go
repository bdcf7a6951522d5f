package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further change is allowed.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentCompleted || s == AppointmentCancelled
}

// Appointment is a booked service slot for a pet.
type Appointment struct {
	ID              string            `db:"id" json:"id"`
	PetID           string            `db:"pet_id" json:"pet_id"`
	ServiceID       string            `db:"service_id" json:"service_id"`
	OwnerID         string            `db:"owner_id" json:"owner_id"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	PackageType     PackageType       `db:"package_type" json:"package_type"`
	Status          AppointmentStatus `db:"status" json:"status"`
	SpecialNotes    string            `db:"special_notes" json:"special_notes"`
	DiscountApplied decimal.Decimal   `db:"discount_applied" json:"discount_applied"`
	Version         int               `db:"version" json:"version"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}
