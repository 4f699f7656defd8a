package calendar

import (
	"time"

	cal "github.com/rickar/cal/v2"
)

// US federal holidays recognized when counting business days. Dates are never
// shifted to an observed weekday.
var (
	NewYear = &cal.Holiday{
		Name:  "New Year's Day",
		Month: time.January,
		Day:   1,
		Func:  fixedDay,
	}
	MLKDay = &cal.Holiday{
		Name:    "Martin Luther King Jr. Day",
		Month:   time.January,
		Weekday: time.Monday,
		Offset:  3,
		Func:    nthWeekday,
	}
	PresidentsDay = &cal.Holiday{
		Name:    "Presidents' Day",
		Month:   time.February,
		Weekday: time.Monday,
		Offset:  3,
		Func:    nthWeekday,
	}
	MemorialDay = &cal.Holiday{
		Name:    "Memorial Day",
		Month:   time.May,
		Weekday: time.Monday,
		Offset:  -1,
		Func:    nthWeekday,
	}
	Juneteenth = &cal.Holiday{
		Name:  "Juneteenth",
		Month: time.June,
		Day:   19,
		Func:  fixedDay,
	}
	IndependenceDay = &cal.Holiday{
		Name:  "Independence Day",
		Month: time.July,
		Day:   4,
		Func:  fixedDay,
	}
	LaborDay = &cal.Holiday{
		Name:    "Labor Day",
		Month:   time.September,
		Weekday: time.Monday,
		Offset:  1,
		Func:    nthWeekday,
	}
	IndigenousPeoplesDay = &cal.Holiday{
		Name:    "Indigenous Peoples' Day",
		Month:   time.October,
		Weekday: time.Monday,
		Offset:  2,
		Func:    nthWeekday,
	}
	VeteransDay = &cal.Holiday{
		Name:  "Veterans Day",
		Month: time.November,
		Day:   11,
		Func:  fixedDay,
	}
	ThanksgivingDay = &cal.Holiday{
		Name:    "Thanksgiving Day",
		Month:   time.November,
		Weekday: time.Thursday,
		Offset:  4,
		Func:    nthWeekday,
	}
	// NativeAmericanHeritageDay is the Friday after Thanksgiving, which is not
	// always the fourth Friday of November.
	NativeAmericanHeritageDay = &cal.Holiday{
		Name:    "Native American Heritage Day",
		Month:   time.November,
		Weekday: time.Thursday,
		Offset:  4,
		Func:    dayAfterNthWeekday,
	}
	ChristmasDay = &cal.Holiday{
		Name:  "Christmas Day",
		Month: time.December,
		Day:   25,
		Func:  fixedDay,
	}
)

// federalHolidays is in calendar order.
var federalHolidays = []*cal.Holiday{
	NewYear,
	MLKDay,
	PresidentsDay,
	MemorialDay,
	Juneteenth,
	IndependenceDay,
	LaborDay,
	IndigenousPeoplesDay,
	VeteransDay,
	ThanksgivingDay,
	NativeAmericanHeritageDay,
	ChristmasDay,
}

// NthWeekday returns the nth occurrence of weekday in the given month at
// midnight UTC. A negative n counts from the end of the month, so -1 is the
// last occurrence. n == 0 yields the zero time.
func NthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	switch {
	case n > 0:
		first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		shift := (int(weekday) - int(first.Weekday()) + 7) % 7
		return first.AddDate(0, 0, shift+7*(n-1))
	case n < 0:
		last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
		shift := (int(last.Weekday()) - int(weekday) + 7) % 7
		return last.AddDate(0, 0, -shift+7*(n+1))
	default:
		return time.Time{}
	}
}

func fixedDay(h *cal.Holiday, year int) time.Time {
	return time.Date(year, h.Month, h.Day, 0, 0, 0, 0, time.UTC)
}

func nthWeekday(h *cal.Holiday, year int) time.Time {
	return NthWeekday(year, h.Month, h.Weekday, h.Offset)
}

func dayAfterNthWeekday(h *cal.Holiday, year int) time.Time {
	return NthWeekday(year, h.Month, h.Weekday, h.Offset).AddDate(0, 0, 1)
}
