package scheduling

import (
	"fmt"
	"sort"
	"time"

	"github.com/pawsched/pawsched-api/internal/models"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

// DayBounds returns the first and last calendar dates covered by an interval.
func DayBounds(start, end time.Time) (string, string) {
	return start.Format(models.DateLayout), end.In(start.Location()).Format(models.DateLayout)
}

// ParseDate validates an ISO calendar date string.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw))
	}
	return d, nil
}

// ToggleDay flips membership of date in days. The date must fall within the
// calendar dates of [start, end] inclusive. The returned slice is a sorted copy.
func ToggleDay(days []string, date string, start, end time.Time) ([]string, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	first, last := DayBounds(start, end)
	if date < first || date > last {
		return nil, appErrors.WithDetails(appErrors.ErrValidation,
			fmt.Sprintf("date %s is outside the boarding interval %s to %s", date, first, last),
			map[string]string{"date": date, "first": first, "last": last})
	}

	next := make([]string, 0, len(days)+1)
	found := false
	for _, d := range days {
		if d == date {
			found = true
			continue
		}
		next = append(next, d)
	}
	if !found {
		next = append(next, date)
	}
	sort.Strings(next)
	return next, nil
}

// PruneDays drops confirmed days that no longer fall within [start, end].
func PruneDays(days []string, start, end time.Time) []string {
	first, last := DayBounds(start, end)
	kept := make([]string, 0, len(days))
	for _, d := range days {
		if d >= first && d <= last {
			kept = append(kept, d)
		}
	}
	sort.Strings(kept)
	return kept
}
