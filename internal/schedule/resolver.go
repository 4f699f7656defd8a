package schedule

import (
	"fmt"
	"time"

	"github.com/rpggio/closing-timeline/internal/dates"
	"github.com/rpggio/closing-timeline/internal/domain/contingency"
)

// Dates is the resolved span of one contingency.
type Dates struct {
	StartDate    time.Time
	EndDate      time.Time
	Method       string
	BusinessDays bool
}

// ResolveContingencyDates parses the YYYY-MM-DD anchors and resolves c
// against them.
func ResolveContingencyDates(c contingency.Contingency, mutualDate, closingDate string) (Dates, error) {
	mutual, closing, err := parseAnchors(mutualDate, closingDate)
	if err != nil {
		return Dates{}, err
	}
	return Resolve(c, mutual, closing)
}

// Resolve dates c against parsed anchors.
//
//	fixed_date           start = end = fixed date
//	days_from_mutual     start = mutual + 1 day, end = Advance(start, days)
//	days_before_closing  start = Retreat(closing, days), end = closing - 1 day
//	fixed_period         start and end as given
//
// Inverted anchors are not rejected; they produce inverted spans.
func Resolve(c contingency.Contingency, mutual, closing time.Time) (Dates, error) {
	if mutual.IsZero() || closing.IsZero() {
		return Dates{}, ErrInvalidAnchor
	}
	mutual, closing = dates.Normalize(mutual), dates.Normalize(closing)

	var out Dates
	switch c.Type {
	case contingency.TypeFixedDate:
		fixed, err := dates.Parse(c.FixedDate)
		if err != nil {
			return Dates{}, fmt.Errorf("%w: %v", ErrInvalidFixedDate, err)
		}
		out.StartDate, out.EndDate = fixed, fixed

	case contingency.TypeDaysFromMutual:
		days, err := requireDays(c)
		if err != nil {
			return Dates{}, err
		}
		out.StartDate = dates.AddCalendarDays(mutual, 1)
		out.EndDate = Advance(out.StartDate, days)
		out.BusinessDays = UsesBusinessDays(days)

	case contingency.TypeDaysBeforeClosing:
		days, err := requireDays(c)
		if err != nil {
			return Dates{}, err
		}
		out.StartDate = Retreat(closing, days)
		out.EndDate = dates.AddCalendarDays(closing, -1)
		out.BusinessDays = UsesBusinessDays(days)

	case contingency.TypeFixedPeriod:
		start, err := dates.Parse(c.StartDate)
		if err != nil {
			return Dates{}, fmt.Errorf("%w: start: %v", ErrInvalidFixedDate, err)
		}
		end, err := dates.Parse(c.EndDate)
		if err != nil {
			return Dates{}, fmt.Errorf("%w: end: %v", ErrInvalidFixedDate, err)
		}
		out.StartDate, out.EndDate = start, end

	default:
		return Dates{}, fmt.Errorf("%w: %q", ErrUnknownType, c.Type)
	}

	out.Method = MethodDescription(c)
	return out, nil
}

func requireDays(c contingency.Contingency) (int, error) {
	days, ok := c.DayCount()
	if !ok {
		return 0, ErrMissingDays
	}
	if days < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDays, days)
	}
	return days, nil
}

func parseAnchors(mutualDate, closingDate string) (time.Time, time.Time, error) {
	mutual, err := dates.Parse(mutualDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: mutual: %v", ErrInvalidAnchor, err)
	}
	closing, err := dates.Parse(closingDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: closing: %v", ErrInvalidAnchor, err)
	}
	return mutual, closing, nil
}
