// Package calendar answers weekend, US federal holiday and business day
// questions about a single calendar date.
//
// Only the year, month and day of a time.Time are considered, read in the
// value's own location. Time of day is ignored.
package calendar

import (
	"time"

	cal "github.com/rickar/cal/v2"
)

var federal = cal.NewBusinessCalendar()

func init() {
	federal.AddHoliday(federalHolidays...)
}

// Holiday is a dated federal holiday.
type Holiday struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// IsWeekend reports whether date falls on a Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}

// IsHoliday reports whether date is a recognized federal holiday.
func IsHoliday(date time.Time) bool {
	return lookup(date) != nil
}

// HolidayName returns the name of the holiday on date and true, or "" and
// false when date is not a holiday.
func HolidayName(date time.Time) (string, bool) {
	h := lookup(date)
	if h == nil {
		return "", false
	}
	return h.Name, true
}

// IsBusinessDay reports whether date is neither a weekend nor a holiday.
func IsBusinessDay(date time.Time) bool {
	return !IsWeekend(date) && !IsHoliday(date)
}

// Holidays lists the federal holidays of year in calendar order.
func Holidays(year int) []Holiday {
	out := make([]Holiday, 0, len(federalHolidays))
	for _, h := range federalHolidays {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		out = append(out, Holiday{Name: h.Name, Date: actual})
	}
	return out
}

func lookup(date time.Time) *cal.Holiday {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	actual, _, h := federal.IsHoliday(day)
	if !actual {
		return nil
	}
	return h
}
