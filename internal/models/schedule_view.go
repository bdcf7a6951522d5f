package models

// ScheduleKind distinguishes the three derived schedule types.
type ScheduleKind string

const (
	ScheduleKindGrooming ScheduleKind = "grooming"
	ScheduleKindBoarding ScheduleKind = "boarding"
	ScheduleKindTraining ScheduleKind = "training"
)

// ScheduleDetail is a derived schedule together with the records it references.
// Exactly one of Grooming, Boarding or Training is set, matching Kind.
type ScheduleDetail struct {
	Kind        ScheduleKind      `json:"kind"`
	Grooming    *GroomingSchedule `json:"grooming,omitempty"`
	Boarding    *BoardingSchedule `json:"boarding,omitempty"`
	Training    *TrainingSchedule `json:"training,omitempty"`
	Appointment *Appointment      `json:"appointment,omitempty"`
	Pet         *Pet              `json:"pet"`
	Service     *ServiceOffering  `json:"service"`
}
