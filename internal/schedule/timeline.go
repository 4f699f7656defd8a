package schedule

import (
	"cmp"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/rpggio/closing-timeline/internal/dates"
	"github.com/rpggio/closing-timeline/internal/domain/contingency"
)

// Kind distinguishes point events from spans.
type Kind string

const (
	KindMilestone Kind = "milestone"
	KindRange     Kind = "range"
)

// Anchor orders keep mutual acceptance ahead of, and closing behind, any
// contingency due the same day.
const (
	MutualOrder  = math.MinInt
	ClosingOrder = math.MaxInt
)

// TimelineItem is one row of an assembled timeline.
type TimelineItem struct {
	Name             string
	StartDate        time.Time
	EndDate          time.Time
	DaysFromMutual   int
	Method           string
	Notes            string
	IsContingency    bool
	ContingencyID    string
	Status           contingency.Status
	Order            int
	Kind             Kind
	IsPossessionDate bool
}

// Assembler builds timelines and logs the contingencies it has to skip.
type Assembler struct {
	logger *slog.Logger
}

// NewAssembler creates an assembler. A nil logger discards skip reports.
func NewAssembler(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assembler{logger: logger}
}

// BuildTimeline assembles a timeline, logging skips to slog.Default().
func BuildTimeline(mutualDate, closingDate string, contingencies []contingency.Contingency) ([]TimelineItem, error) {
	return NewAssembler(slog.Default()).Build(mutualDate, closingDate, contingencies)
}

// Build returns the mutual acceptance anchor, every contingency that
// resolves, and the closing anchor, sorted by end date and then order.
// Contingencies that fail to resolve are logged and left out. Malformed
// anchors yield an empty timeline and ErrInvalidAnchor.
func (a *Assembler) Build(mutualDate, closingDate string, contingencies []contingency.Contingency) ([]TimelineItem, error) {
	mutual, closing, err := parseAnchors(mutualDate, closingDate)
	if err != nil {
		return []TimelineItem{}, err
	}

	items := make([]TimelineItem, 0, len(contingencies)+2)
	items = append(items, TimelineItem{
		Name:      MethodMutual,
		StartDate: mutual,
		EndDate:   mutual,
		Method:    MethodMutual,
		Order:     MutualOrder,
		Kind:      KindMilestone,
	})

	for _, c := range contingencies {
		resolved, err := Resolve(c, mutual, closing)
		if err != nil {
			a.logger.Warn("skipping contingency", "contingency_id", c.ID, "name", c.Name, "type", c.Type, "error", err)
			continue
		}
		items = append(items, contingencyItem(c, resolved, mutual))
	}

	items = append(items, TimelineItem{
		Name:           MethodClosing,
		StartDate:      closing,
		EndDate:        closing,
		DaysFromMutual: dates.DaysBetween(mutual, closing),
		Method:         MethodClosing,
		Order:          ClosingOrder,
		Kind:           KindMilestone,
	})

	slices.SortStableFunc(items, compareItems)
	return items, nil
}

func contingencyItem(c contingency.Contingency, resolved Dates, mutual time.Time) TimelineItem {
	kind := KindRange
	if resolved.StartDate.Equal(resolved.EndDate) {
		kind = KindMilestone
	}
	return TimelineItem{
		Name:             c.Name,
		StartDate:        resolved.StartDate,
		EndDate:          resolved.EndDate,
		DaysFromMutual:   dates.DaysBetween(mutual, resolved.EndDate),
		Method:           resolved.Method,
		Notes:            c.Description,
		IsContingency:    true,
		ContingencyID:    c.ID,
		Status:           c.Status,
		Order:            c.Order,
		Kind:             kind,
		IsPossessionDate: c.IsPossessionDate,
	}
}

func compareItems(a, b TimelineItem) int {
	if c := a.EndDate.Compare(b.EndDate); c != 0 {
		return c
	}
	return cmp.Compare(a.Order, b.Order)
}
