package contingency

import (
	"fmt"
	"strings"

	"github.com/rpggio/closing-timeline/internal/dates"
)

// Validate checks that c is complete enough to store. A contingency that
// validates always resolves to dates once the anchors parse.
func Validate(c Contingency) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidInput, c.Type)
	}
	if c.Status != "" && !c.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, c.Status)
	}

	switch c.Type {
	case TypeDaysFromMutual, TypeDaysBeforeClosing:
		days, ok := c.DayCount()
		if !ok {
			return fmt.Errorf("%w: days is required for %s", ErrInvalidInput, c.Type)
		}
		if days < 0 {
			return fmt.Errorf("%w: days must not be negative", ErrInvalidInput)
		}
	case TypeFixedDate:
		if _, err := dates.Parse(c.FixedDate); err != nil {
			return fmt.Errorf("%w: fixed_date: %v", ErrInvalidInput, err)
		}
	case TypeFixedPeriod:
		start, err := dates.Parse(c.StartDate)
		if err != nil {
			return fmt.Errorf("%w: start_date: %v", ErrInvalidInput, err)
		}
		end, err := dates.Parse(c.EndDate)
		if err != nil {
			return fmt.Errorf("%w: end_date: %v", ErrInvalidInput, err)
		}
		if end.Before(start) {
			return fmt.Errorf("%w: end_date is before start_date", ErrInvalidInput)
		}
	}

	if c.CompletedDate != "" {
		if _, err := dates.Parse(c.CompletedDate); err != nil {
			return fmt.Errorf("%w: completed_date: %v", ErrInvalidInput, err)
		}
	}
	return nil
}

// ValidateList validates every contingency and checks that IDs are unique.
func ValidateList(list []Contingency) error {
	seen := make(map[string]struct{}, len(list))
	for _, c := range list {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("%w: id is required", ErrInvalidInput)
		}
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
		}
		seen[c.ID] = struct{}{}
		if err := Validate(c); err != nil {
			return fmt.Errorf("contingency %s: %w", c.ID, err)
		}
	}
	return nil
}
