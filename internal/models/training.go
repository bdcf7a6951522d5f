package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used for day-level keys.
const DateLayout = "2006-01-02"

// Weekday names in the fixed Monday-first order used by the training grid.
const (
	Monday    = "Monday"
	Tuesday   = "Tuesday"
	Wednesday = "Wednesday"
	Thursday  = "Thursday"
	Friday    = "Friday"
	Saturday  = "Saturday"
	Sunday    = "Sunday"
)

// Weekdays lists the canonical day names, Monday first.
var Weekdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// AllowedDayPlanCounts are the grid widths a training schedule may show.
var AllowedDayPlanCounts = []int{2, 3, 4, 7}

// SessionDuration is the length of a training session.
type SessionDuration string

const (
	Session30Min  SessionDuration = "30min"
	Session1Hour  SessionDuration = "1hour"
	Session2Hours SessionDuration = "2hours"
	SessionCustom SessionDuration = "custom"
)

// Valid reports whether d is a known duration.
func (d SessionDuration) Valid() bool {
	switch d {
	case Session30Min, Session1Hour, Session2Hours, SessionCustom:
		return true
	}
	return false
}

// SessionStatus is the lifecycle state of one training session.
type SessionStatus string

const (
	SessionScheduled SessionStatus = "Scheduled"
	SessionCompleted SessionStatus = "Completed"
	SessionCancelled SessionStatus = "Cancelled"
)

// Valid reports whether s is a known status.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionScheduled, SessionCompleted, SessionCancelled:
		return true
	}
	return false
}

// Session is one training slot on a day, addressed by its time label.
type Session struct {
	Time         string          `json:"time" validate:"required"`
	TrainingType string          `json:"training_type"`
	Duration     SessionDuration `json:"duration"`
	Status       SessionStatus   `json:"status"`
	Notes        string          `json:"notes"`
}

// DayPlan holds the sessions planned for a weekday.
type DayPlan struct {
	Day      string    `json:"day"`
	Sessions []Session `json:"sessions"`
}

// DayPlans is the ordered weekly plan, stored as JSONB.
type DayPlans []DayPlan

// Value implements driver.Valuer.
func (p DayPlans) Value() (driver.Value, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner.
func (p *DayPlans) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = DayPlans{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan day plans: unsupported type %T", src)
	}
	plans := DayPlans{}
	if err := json.Unmarshal(raw, &plans); err != nil {
		return fmt.Errorf("scan day plans: %w", err)
	}
	*p = plans
	return nil
}

// TrainingSchedule is a week-long training plan for a pet.
type TrainingSchedule struct {
	ID            string    `db:"id" json:"id"`
	AppointmentID *string   `db:"appointment_id" json:"appointment_id,omitempty"`
	PetID         string    `db:"pet_id" json:"pet_id"`
	ServiceID     string    `db:"service_id" json:"service_id"`
	WeekStartDate time.Time `db:"week_start_date" json:"week_start_date"`
	DayPlanCount  int       `db:"day_plan_count" json:"day_plan_count"`
	Schedule      DayPlans  `db:"schedule" json:"schedule"`
	Comments      string    `db:"comments" json:"comments"`
	CreatedBy     string    `db:"created_by" json:"created_by"`
	Version       int       `db:"version" json:"version"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// DayDate pairs a visible weekday column with its calendar date.
type DayDate struct {
	Day  string `json:"day"`
	Date string `json:"date"`
}
