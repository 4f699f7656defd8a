package schedule

import (
	"fmt"

	"github.com/rpggio/closing-timeline/internal/domain/contingency"
)

// Anchor method labels.
const (
	MethodMutual  = "Mutual Acceptance"
	MethodClosing = "Closing"
)

// MethodDescription summarizes how the dates of c are derived, e.g.
// "5 business days from mutual" or "12 days before closing". It returns ""
// for a day-counted contingency with no days and for unknown types.
func MethodDescription(c contingency.Contingency) string {
	switch c.Type {
	case contingency.TypeFixedDate:
		return "Fixed Date"
	case contingency.TypeFixedPeriod:
		return fmt.Sprintf("Fixed Period: %s - %s", c.StartDate, c.EndDate)
	case contingency.TypeDaysFromMutual:
		return countPhrase(c, "from mutual")
	case contingency.TypeDaysBeforeClosing:
		return countPhrase(c, "before closing")
	}
	return ""
}

func countPhrase(c contingency.Contingency, anchor string) string {
	days, ok := c.DayCount()
	if !ok {
		return ""
	}
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	if UsesBusinessDays(days) {
		unit = "business " + unit
	}
	return fmt.Sprintf("%d %s %s", days, unit, anchor)
}
