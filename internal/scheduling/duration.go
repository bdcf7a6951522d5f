// Package scheduling holds the pure rules shared by appointments and the derived
// grooming, boarding and training schedules. Nothing here touches storage.
package scheduling

import (
	"fmt"
	"time"

	"github.com/pawsched/pawsched-api/internal/models"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

// Interval is a resolved [Start, End] time range.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Resolve maps a duration code and start time to a concrete interval.
// end is only consulted for the custom code, where it must be strictly after start.
func Resolve(code models.DurationCode, start time.Time, end *time.Time) (Interval, error) {
	switch code {
	case models.DurationDay:
		return Interval{Start: start, End: start.Add(8 * time.Hour)}, nil
	case models.DurationOvernight:
		return Interval{Start: start, End: start.Add(12 * time.Hour)}, nil
	case models.DurationWeekday:
		return Interval{Start: start, End: start.AddDate(0, 0, 5)}, nil
	case models.DurationWeekend:
		return Interval{Start: start, End: start.AddDate(0, 0, 2)}, nil
	case models.DurationCustom:
		if end == nil {
			return Interval{}, appErrors.Clone(appErrors.ErrInvalidRange, "custom duration requires an end time")
		}
		if !end.After(start) {
			return Interval{}, appErrors.Clone(appErrors.ErrInvalidRange, "end time must be after start time")
		}
		return Interval{Start: start, End: *end}, nil
	default:
		return Interval{}, appErrors.Clone(appErrors.ErrUnknownDurationCode, fmt.Sprintf("unknown duration code %q", code))
	}
}
