package dateutil

import (
	"fmt"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/entity"
)

// BucketByTimeframe converts a timestamp to its re-award spacing bucket key.
// Two timestamps belong to the same bucket iff their keys are equal.
func BucketByTimeframe(t time.Time, timeframe entity.Timeframe) (string, error) {
	switch timeframe {
	case entity.TimeframeHourly:
		return t.Format("2006-01-02T15"), nil

	case entity.TimeframeDaily:
		return t.Format("2006-01-02"), nil

	case entity.TimeframeWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week), nil

	case entity.TimeframeMonthly:
		return t.Format("2006-01"), nil

	default:
		return "", fmt.Errorf("timeframe must be hourly, daily, weekly, or monthly, but got %s", timeframe)
	}
}

// BeginningOfDay truncates a timestamp to midnight in its location.
func BeginningOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextTimeOfDay returns the next occurrence of the given clock time after t.
func NextTimeOfDay(t time.Time, hour, min int) time.Time {
	next := time.Date(t.Year(), t.Month(), t.Day(), hour, min, 0, 0, t.Location())
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}

	return next
}
