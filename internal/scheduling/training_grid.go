package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/pawsched/pawsched-api/internal/models"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

// Defaults applied to sessions that omit duration or status.
const (
	DefaultSessionDuration = models.Session1Hour
	DefaultSessionStatus   = models.SessionScheduled
)

func weekdayIndex(day string) int {
	for i, d := range models.Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}

// IsWeekday reports whether day is one of the canonical weekday names.
func IsWeekday(day string) bool {
	return weekdayIndex(day) >= 0
}

// ValidDayPlanCount reports whether n is an allowed grid width.
func ValidDayPlanCount(n int) bool {
	for _, allowed := range models.AllowedDayPlanCounts {
		if n == allowed {
			return true
		}
	}
	return false
}

// CheckDayPlanCount returns a validation error for widths outside {2,3,4,7}.
func CheckDayPlanCount(n int) error {
	if ValidDayPlanCount(n) {
		return nil
	}
	return appErrors.WithDetails(appErrors.ErrValidation,
		fmt.Sprintf("day plan count %d must be one of 2, 3, 4 or 7", n),
		map[string]interface{}{"allowed": models.AllowedDayPlanCounts})
}

// VisibleDays returns the first count weekday names.
func VisibleDays(count int) []string {
	if count < 0 {
		count = 0
	}
	if count > len(models.Weekdays) {
		count = len(models.Weekdays)
	}
	out := make([]string, count)
	copy(out, models.Weekdays[:count])
	return out
}

// IsVisible reports whether day is addressable in a grid of the given width.
func IsVisible(day string, count int) bool {
	idx := weekdayIndex(day)
	return idx >= 0 && idx < count
}

// ResolveVisibleDates pairs the visible weekday columns with consecutive dates
// starting at weekStart.
func ResolveVisibleDates(weekStart time.Time, count int) []models.DayDate {
	days := VisibleDays(count)
	out := make([]models.DayDate, 0, len(days))
	for i, day := range days {
		out = append(out, models.DayDate{
			Day:  day,
			Date: weekStart.AddDate(0, 0, i).Format(models.DateLayout),
		})
	}
	return out
}

func checkDay(day string) error {
	if !IsWeekday(day) {
		return appErrors.Clone(appErrors.ErrInvalidDay, fmt.Sprintf("invalid day %q, expected one of %s", day, strings.Join(models.Weekdays, ", ")))
	}
	return nil
}

func withSessionDefaults(s models.Session) (models.Session, error) {
	s.Time = strings.TrimSpace(s.Time)
	if s.Time == "" {
		return s, appErrors.Clone(appErrors.ErrValidation, "session time is required")
	}
	if s.Duration == "" {
		s.Duration = DefaultSessionDuration
	}
	if !s.Duration.Valid() {
		return s, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown session duration %q", s.Duration))
	}
	if s.Status == "" {
		s.Status = DefaultSessionStatus
	}
	if !s.Status.Valid() {
		return s, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown session status %q", s.Status))
	}
	return s, nil
}

// FindSession locates the session at (day, time).
func FindSession(plans models.DayPlans, day, slot string) (int, int, bool) {
	for i, plan := range plans {
		if plan.Day != day {
			continue
		}
		for j, s := range plan.Sessions {
			if s.Time == slot {
				return i, j, true
			}
		}
		return i, -1, false
	}
	return -1, -1, false
}

func clonePlans(plans models.DayPlans) models.DayPlans {
	out := make(models.DayPlans, len(plans))
	for i, p := range plans {
		out[i] = models.DayPlan{Day: p.Day, Sessions: append([]models.Session(nil), p.Sessions...)}
	}
	return out
}

// AddSession appends session to the plan for day, creating the day plan in
// Monday-first position when absent. The input is not modified.
func AddSession(plans models.DayPlans, day string, session models.Session) (models.DayPlans, error) {
	if err := checkDay(day); err != nil {
		return nil, err
	}
	session, err := withSessionDefaults(session)
	if err != nil {
		return nil, err
	}

	out := clonePlans(plans)
	dayIdx, _, exists := FindSession(out, day, session.Time)
	if exists {
		return nil, appErrors.WithDetails(appErrors.ErrDuplicateSlot,
			fmt.Sprintf("%s already has a session at %s", day, session.Time),
			map[string]string{"day": day, "time": session.Time})
	}
	if dayIdx >= 0 {
		out[dayIdx].Sessions = append(out[dayIdx].Sessions, session)
		return out, nil
	}

	return insertDayPlan(out, models.DayPlan{Day: day, Sessions: []models.Session{session}}), nil
}

// insertDayPlan places plan so that plans stay in Monday-first order.
func insertDayPlan(plans models.DayPlans, plan models.DayPlan) models.DayPlans {
	pos := len(plans)
	for i, p := range plans {
		if weekdayIndex(p.Day) > weekdayIndex(plan.Day) {
			pos = i
			break
		}
	}
	plans = append(plans, models.DayPlan{})
	copy(plans[pos+1:], plans[pos:])
	plans[pos] = plan
	return plans
}

// SetSlotNote writes notes on the session at (day, time). A missing session is
// created with a blank training type. Days outside the visible window are rejected.
func SetSlotNote(plans models.DayPlans, count int, day, slot, notes string) (models.DayPlans, error) {
	if err := checkDay(day); err != nil {
		return nil, err
	}
	if !IsVisible(day, count) {
		return nil, appErrors.WithDetails(appErrors.ErrUnknownDay,
			fmt.Sprintf("%s is not within the active %d-day plan", day, count),
			map[string]interface{}{"day": day, "visible": VisibleDays(count)})
	}
	slot = strings.TrimSpace(slot)
	dayIdx, sessIdx, ok := FindSession(plans, day, slot)
	if !ok {
		return AddSession(plans, day, models.Session{Time: slot, Notes: notes})
	}
	out := clonePlans(plans)
	out[dayIdx].Sessions[sessIdx].Notes = notes
	return out, nil
}

// NormalizePlans validates an initial weekly plan and returns it in Monday-first order.
func NormalizePlans(initial models.DayPlans) (models.DayPlans, error) {
	out := models.DayPlans{}
	for _, plan := range initial {
		if err := checkDay(plan.Day); err != nil {
			return nil, err
		}
		if dayIdx, _, _ := FindSession(out, plan.Day, ""); dayIdx >= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("day %s appears more than once", plan.Day))
		}
		if len(plan.Sessions) == 0 {
			out = insertDayPlan(out, models.DayPlan{Day: plan.Day, Sessions: []models.Session{}})
			continue
		}
		for _, s := range plan.Sessions {
			var err error
			if out, err = AddSession(out, plan.Day, s); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
