// Package schedule turns contingency rules into calendar dates and assembles
// the ordered timeline of a transaction.
package schedule

import (
	"time"

	"github.com/rpggio/closing-timeline/internal/dates"
)

// BusinessDayThreshold is the largest day count measured in business days.
// Longer periods are measured in calendar days.
const BusinessDayThreshold = 5

// UsesBusinessDays reports whether a period of days is counted in business
// days.
func UsesBusinessDays(days int) bool {
	return days <= BusinessDayThreshold
}

// Advance moves date forward by days, counted per UsesBusinessDays.
func Advance(date time.Time, days int) time.Time {
	if UsesBusinessDays(days) {
		return dates.AddBusinessDays(date, days)
	}
	return dates.AddCalendarDays(date, days)
}

// Retreat moves date backward by days, counted per UsesBusinessDays.
func Retreat(date time.Time, days int) time.Time {
	if UsesBusinessDays(days) {
		return dates.AddBusinessDays(date, -days)
	}
	return dates.AddCalendarDays(date, -days)
}
