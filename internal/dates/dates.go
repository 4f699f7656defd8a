// Package dates holds the canonical date representation used by the
// scheduling engine and the day arithmetic built on top of it.
//
// A canonical date is a time.Time at ReferenceHour:00 UTC. Normalizing as
// soon as a date enters the engine keeps day comparisons stable across
// daylight saving changes and local time zones.
package dates

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rpggio/closing-timeline/internal/calendar"
)

const (
	// ReferenceHour is the UTC hour every canonical date is pinned to.
	ReferenceHour = 12
	// Layout is the input and storage format.
	Layout = "2006-01-02"
	// DisplayLayout is the human readable format.
	DisplayLayout = "Jan 2, 2006"
)

// ErrInvalidDate is returned for empty or malformed date strings.
var ErrInvalidDate = errors.New("invalid date")

const day = 24 * time.Hour

// Date builds a canonical date.
func Date(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, ReferenceHour, 0, 0, 0, time.UTC)
}

// Normalize returns the calendar date of t, as seen in t's location, in
// canonical form.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Parse reads a YYYY-MM-DD string into canonical form.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Normalize(t), nil
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func MustParse(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Format renders t as YYYY-MM-DD. The zero time formats as "".
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return Normalize(t).Format(Layout)
}

// FormatDisplay renders t as e.g. "Nov 28, 2024". The zero time formats as "".
func FormatDisplay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return Normalize(t).Format(DisplayLayout)
}

// FormatRange renders "start - end" in display form, or "" if either is zero.
func FormatRange(start, end time.Time) string {
	if start.IsZero() || end.IsZero() {
		return ""
	}
	return FormatDisplay(start) + " - " + FormatDisplay(end)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return Normalize(a).Equal(Normalize(b))
}

// DaysBetween returns the signed number of days from a to b.
func DaysBetween(a, b time.Time) int {
	diff := Normalize(b).Sub(Normalize(a))
	return int(math.Round(float64(diff) / float64(day)))
}

// AddCalendarDays shifts t by n calendar days. n may be negative.
func AddCalendarDays(t time.Time, n int) time.Time {
	return Normalize(t).AddDate(0, 0, n)
}

// AddBusinessDays steps one day at a time in the direction of n and counts
// only the days that land on a business day, stopping once |n| have been
// counted. The starting date is never counted. n == 0 returns t normalized.
func AddBusinessDays(t time.Time, n int) time.Time {
	current := Normalize(t)
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	for n > 0 {
		current = current.AddDate(0, 0, step)
		if calendar.IsBusinessDay(current) {
			n--
		}
	}
	return current
}

// NextBusinessDay returns the first business day strictly after t.
func NextBusinessDay(t time.Time) time.Time {
	return AddBusinessDays(t, 1)
}
