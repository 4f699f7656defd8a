package contingency

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/closing-timeline/internal/dates"
)

// The list operations below return new slices and leave their input untouched.

// Add appends c to the end of list. A missing ID is generated and a missing
// status defaults to not_started.
func Add(list []Contingency, c Contingency) ([]Contingency, Contingency, error) {
	if strings.TrimSpace(c.ID) == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = StatusNotStarted
	}
	if err := Validate(c); err != nil {
		return nil, Contingency{}, err
	}
	if indexOf(list, c.ID) >= 0 {
		return nil, Contingency{}, fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
	}
	c.Order = len(list)

	out := make([]Contingency, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, c)
	return out, c, nil
}

// Replace swaps the contingency with c.ID for c. The stored order is kept
// so a form edit cannot move an item.
func Replace(list []Contingency, c Contingency) ([]Contingency, error) {
	i := indexOf(list, c.ID)
	if i < 0 {
		return nil, ErrContingencyNotFound
	}
	if c.Status == "" {
		c.Status = list[i].Status
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	c.Order = list[i].Order

	out := slices.Clone(list)
	out[i] = c
	return out, nil
}

// Remove drops the contingency with id and renumbers the rest.
func Remove(list []Contingency, id string) ([]Contingency, error) {
	i := indexOf(list, id)
	if i < 0 {
		return nil, ErrContingencyNotFound
	}
	out := make([]Contingency, 0, len(list)-1)
	out = append(out, list[:i]...)
	out = append(out, list[i+1:]...)
	return renumber(out), nil
}

// SetStatus changes the status of one contingency. Moving to completed
// stamps CompletedDate with today; any other status clears it.
func SetStatus(list []Contingency, id string, status Status, today time.Time) ([]Contingency, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	i := indexOf(list, id)
	if i < 0 {
		return nil, ErrContingencyNotFound
	}

	out := slices.Clone(list)
	c := out[i]
	c.Status = status
	if status == StatusCompleted {
		if c.CompletedDate == "" || list[i].Status != StatusCompleted {
			c.CompletedDate = dates.Format(today)
		}
	} else {
		c.CompletedDate = ""
	}
	out[i] = c
	return out, nil
}

// Move relocates the item at from to position to, shifting the items in
// between, and renumbers the list.
func Move(list []Contingency, from, to int) ([]Contingency, error) {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return nil, fmt.Errorf("%w: move %d -> %d out of range for %d items", ErrInvalidInput, from, to, len(list))
	}
	out := slices.Clone(list)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, moved)
	return renumber(out), nil
}

// Find returns the contingency with id.
func Find(list []Contingency, id string) (Contingency, bool) {
	i := indexOf(list, id)
	if i < 0 {
		return Contingency{}, false
	}
	return list[i], true
}

// SortByOrder returns a copy of list sorted by Order, stable for ties.
func SortByOrder(list []Contingency) []Contingency {
	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b Contingency) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return out
}

func renumber(list []Contingency) []Contingency {
	for i := range list {
		list[i].Order = i
	}
	return list
}

func indexOf(list []Contingency, id string) int {
	return slices.IndexFunc(list, func(c Contingency) bool {
		return c.ID == id
	})
}
