package models

import (
	"time"

	"github.com/lib/pq"
)

// DurationCode is the named shorthand for a boarding interval.
type DurationCode string

const (
	DurationDay       DurationCode = "day"
	DurationOvernight DurationCode = "overnight"
	DurationWeekday   DurationCode = "weekday"
	DurationWeekend   DurationCode = "weekend"
	DurationCustom    DurationCode = "custom"
)

// BoardingStatus is the lifecycle state of a boarding stay.
type BoardingStatus string

const (
	BoardingScheduled  BoardingStatus = "Scheduled"
	BoardingInProgress BoardingStatus = "In Progress"
	BoardingCompleted  BoardingStatus = "Completed"
	BoardingCanceled   BoardingStatus = "Canceled"
)

// Valid reports whether s is a known status.
func (s BoardingStatus) Valid() bool {
	switch s {
	case BoardingScheduled, BoardingInProgress, BoardingCompleted, BoardingCanceled:
		return true
	}
	return false
}

// IsTerminal reports whether the stay can no longer change.
func (s BoardingStatus) IsTerminal() bool {
	return s == BoardingCompleted || s == BoardingCanceled
}

// BoardingSchedule is a boarding stay with its per-day staff confirmations.
// AppointmentID may be empty for ad hoc stays; such records cannot be updated.
// Times are stored in UTC; UTCOffset keeps the zone the stay was booked in so
// calendar days are counted on the stay's local dates.
type BoardingSchedule struct {
	ID            string         `db:"id" json:"id"`
	AppointmentID *string        `db:"appointment_id" json:"appointment_id,omitempty"`
	PetID         string         `db:"pet_id" json:"pet_id"`
	ServiceID     string         `db:"service_id" json:"service_id"`
	DurationCode  DurationCode   `db:"duration_code" json:"duration_code"`
	StartTime     time.Time      `db:"start_time" json:"start_time"`
	EndTime       time.Time      `db:"end_time" json:"end_time"`
	UTCOffset     int            `db:"utc_offset_minutes" json:"utc_offset_minutes"`
	Status        BoardingStatus `db:"status" json:"status"`
	ConfirmedDays pq.StringArray `db:"confirmed_days" json:"confirmed_days"`
	CreatedBy     string         `db:"created_by" json:"created_by"`
	Version       int            `db:"version" json:"version"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// HasAppointment reports whether the stay is linked to an appointment.
func (b *BoardingSchedule) HasAppointment() bool {
	return b.AppointmentID != nil && *b.AppointmentID != ""
}

// Location returns the fixed zone the stay was booked in.
func (b *BoardingSchedule) Location() *time.Location {
	if b.UTCOffset == 0 {
		return time.UTC
	}
	return time.FixedZone("", b.UTCOffset*60)
}

// LocalInterval returns the stay bounds in its booking zone.
func (b *BoardingSchedule) LocalInterval() (time.Time, time.Time) {
	loc := b.Location()
	return b.StartTime.In(loc), b.EndTime.In(loc)
}

// OffsetMinutes returns t's offset from UTC in minutes.
func OffsetMinutes(t time.Time) int {
	_, offset := t.Zone()
	return offset / 60
}
