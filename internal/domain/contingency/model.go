package contingency

// Type selects the rule that dates a contingency.
type Type string

const (
	TypeFixedDate         Type = "fixed_date"
	TypeDaysFromMutual    Type = "days_from_mutual"
	TypeDaysBeforeClosing Type = "days_before_closing"
	TypeFixedPeriod       Type = "fixed_period"
)

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	switch t {
	case TypeFixedDate, TypeDaysFromMutual, TypeDaysBeforeClosing, TypeFixedPeriod:
		return true
	}
	return false
}

// CountsDays reports whether the type is dated by a day count.
func (t Type) CountsDays() bool {
	return t == TypeDaysFromMutual || t == TypeDaysBeforeClosing
}

// Status is the caller-owned progress of a contingency. The scheduling
// engine passes it through and never derives it from dates.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusWaived     Status = "waived"
	StatusPending    Status = "pending"
	StatusScheduled  Status = "scheduled"
	StatusOverdue    Status = "overdue"
	StatusDueToday   Status = "due_today"
)

// Statuses lists every status in display order.
var Statuses = []Status{
	StatusNotStarted,
	StatusInProgress,
	StatusCompleted,
	StatusWaived,
	StatusPending,
	StatusScheduled,
	StatusOverdue,
	StatusDueToday,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Contingency is a dated obligation in a transaction. It is treated as a
// value: edits build a new Contingency and replace the old one by ID.
type Contingency struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	Type             Type   `json:"type"`
	Days             *int   `json:"days,omitempty"`
	FixedDate        string `json:"fixed_date,omitempty"`
	StartDate        string `json:"start_date,omitempty"`
	EndDate          string `json:"end_date,omitempty"`
	IsPossessionDate bool   `json:"is_possession_date,omitempty"`
	Status           Status `json:"status"`
	CompletedDate    string `json:"completed_date,omitempty"`
	Order            int    `json:"order"`
}

// DayCount returns Days and whether it is set.
func (c Contingency) DayCount() (int, bool) {
	if c.Days == nil {
		return 0, false
	}
	return *c.Days, true
}

// IntPtr is a helper for building Days values.
func IntPtr(n int) *int {
	return &n
}
