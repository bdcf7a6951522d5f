package models

import "time"

// GroomingStatus is the lifecycle state of a grooming session.
type GroomingStatus string

const (
	GroomingScheduled GroomingStatus = "Scheduled"
	GroomingCompleted GroomingStatus = "Completed"
	GroomingCancelled GroomingStatus = "Cancelled"
)

// Valid reports whether s is a known status.
func (s GroomingStatus) Valid() bool {
	switch s {
	case GroomingScheduled, GroomingCompleted, GroomingCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the session can no longer change.
func (s GroomingStatus) IsTerminal() bool {
	return s == GroomingCompleted || s == GroomingCancelled
}

// GroomingSchedule is the single grooming slot derived from an appointment.
type GroomingSchedule struct {
	ID              string         `db:"id" json:"id"`
	AppointmentID   string         `db:"appointment_id" json:"appointment_id"`
	PetID           string         `db:"pet_id" json:"pet_id"`
	ServiceID       string         `db:"service_id" json:"service_id"`
	Period          string         `db:"period" json:"period"`
	StartTime       time.Time      `db:"start_time" json:"start_time"`
	EndTime         *time.Time     `db:"end_time" json:"end_time,omitempty"`
	Status          GroomingStatus `db:"status" json:"status"`
	SpecialRequests string         `db:"special_requests" json:"special_requests"`
	Notes           string         `db:"notes" json:"notes"`
	CreatedBy       string         `db:"created_by" json:"created_by"`
	Version         int            `db:"version" json:"version"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}
