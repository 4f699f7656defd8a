package schedule

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/rpggio/closing-timeline/internal/dates"
	"github.com/rpggio/closing-timeline/internal/domain/contingency"
	"github.com/stretchr/testify/require"
)

func fromMutual(id string, days int) contingency.Contingency {
	return contingency.Contingency{
		ID:     id,
		Name:   "from mutual " + id,
		Type:   contingency.TypeDaysFromMutual,
		Days:   contingency.IntPtr(days),
		Status: contingency.StatusNotStarted,
	}
}

func beforeClosing(id string, days int) contingency.Contingency {
	return contingency.Contingency{
		ID:     id,
		Name:   "before closing " + id,
		Type:   contingency.TypeDaysBeforeClosing,
		Days:   contingency.IntPtr(days),
		Status: contingency.StatusNotStarted,
	}
}

func fixed(id, date string, order int) contingency.Contingency {
	return contingency.Contingency{
		ID:        id,
		Name:      "fixed " + id,
		Type:      contingency.TypeFixedDate,
		FixedDate: date,
		Status:    contingency.StatusScheduled,
		Order:     order,
	}
}

func TestUsesBusinessDays(t *testing.T) {
	require.True(t, UsesBusinessDays(0))
	require.True(t, UsesBusinessDays(5))
	require.False(t, UsesBusinessDays(6))
	require.False(t, UsesBusinessDays(30))
}

func TestResolve_DaysFromMutual_Threshold(t *testing.T) {
	// Monday Jan 6, 2025; counting starts Tuesday Jan 7.
	five, err := ResolveContingencyDates(fromMutual("a", 5), "2025-01-06", "2025-02-06")
	require.NoError(t, err)
	require.Equal(t, dates.Date(2025, time.January, 7), five.StartDate)
	require.Equal(t, dates.Date(2025, time.January, 14), five.EndDate)
	require.True(t, five.BusinessDays)
	require.NotEqual(t, dates.AddCalendarDays(five.StartDate, 5), five.EndDate)

	six, err := ResolveContingencyDates(fromMutual("b", 6), "2025-01-06", "2025-02-06")
	require.NoError(t, err)
	require.Equal(t, dates.Date(2025, time.January, 13), six.EndDate)
	require.False(t, six.BusinessDays)
}

func TestResolve_DaysFromMutual_FridaySkipsWeekend(t *testing.T) {
	got, err := ResolveContingencyDates(fromMutual("a", 5), "2025-01-03", "2025-02-03")
	require.NoError(t, err)
	require.Equal(t, dates.Date(2025, time.January, 4), got.StartDate)
	require.Equal(t, dates.Date(2025, time.January, 10), got.EndDate)
	require.NotEqual(t, dates.AddCalendarDays(dates.MustParse("2025-01-03"), 5), got.EndDate)
}

func TestResolve_DaysFromMutual_SkipsHoliday(t *testing.T) {
	// Mutual Thursday Jan 16, 2025: Fri 17 (1), MLK Mon 20 skipped, Tue 21 (2).
	got, err := ResolveContingencyDates(fromMutual("a", 2), "2025-01-16", "2025-02-28")
	require.NoError(t, err)
	require.Equal(t, dates.Date(2025, time.January, 21), got.EndDate)
}

func TestResolve_DaysBeforeClosing(t *testing.T) {
	// Closing Wednesday Jan 15, 2025.
	got, err := ResolveContingencyDates(beforeClosing("a", 3), "2024-12-15", "2025-01-15")
	require.NoError(t, err)
	require.Equal(t, dates.Date(2025, time.January, 10), got.StartDate)
	require.Equal(t, dates.Date(2025, time.January, 14), got.EndDate)
	require.True(t, got.BusinessDays)

	long, err := ResolveContingencyDates(beforeClosing("b", 10), "2025-01-01", "2025-01-31")
	require.NoError(t, err)
	require.Equal(t, dates.Date(2025, time.January, 21), long.StartDate)
	require.Equal(t, dates.Date(2025, time.January, 30), long.EndDate)
	require.False(t, long.BusinessDays)
}

func TestResolve_FixedTypes(t *testing.T) {
	got, err := ResolveContingencyDates(fixed("a", "2025-01-20", 0), "2025-01-01", "2025-01-31")
	require.NoError(t, err)
	require.Equal(t, dates.Date(2025, time.January, 20), got.StartDate)
	require.Equal(t, got.StartDate, got.EndDate)
	require.Equal(t, "Fixed Date", got.Method)

	period := contingency.Contingency{
		ID:        "p",
		Name:      "Rent back",
		Type:      contingency.TypeFixedPeriod,
		StartDate: "2025-02-01",
		EndDate:   "2025-02-10",
	}
	got, err = ResolveContingencyDates(period, "2025-01-01", "2025-01-31")
	require.NoError(t, err)
	require.Equal(t, dates.Date(2025, time.February, 1), got.StartDate)
	require.Equal(t, dates.Date(2025, time.February, 10), got.EndDate)
	require.Equal(t, "Fixed Period: 2025-02-01 - 2025-02-10", got.Method)
}

func TestResolve_Errors(t *testing.T) {
	missingDays := fromMutual("a", 0)
	missingDays.Days = nil

	cases := []struct {
		name    string
		c       contingency.Contingency
		mutual  string
		closing string
		want    error
	}{
		{"bad mutual", fromMutual("a", 3), "", "2025-01-31", ErrInvalidAnchor},
		{"bad closing", fromMutual("a", 3), "2025-01-01", "31/01/2025", ErrInvalidAnchor},
		{"missing days", missingDays, "2025-01-01", "2025-01-31", ErrMissingDays},
		{"negative days", beforeClosing("a", -2), "2025-01-01", "2025-01-31", ErrInvalidDays},
		{"bad fixed date", fixed("a", "someday", 0), "2025-01-01", "2025-01-31", ErrInvalidFixedDate},
		{"bad period", contingency.Contingency{Type: contingency.TypeFixedPeriod, StartDate: "2025-01-02"}, "2025-01-01", "2025-01-31", ErrInvalidFixedDate},
		{"unknown type", contingency.Contingency{Type: "weekly"}, "2025-01-01", "2025-01-31", ErrUnknownType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveContingencyDates(tc.c, tc.mutual, tc.closing)
			require.ErrorIs(t, err, tc.want)
			require.ErrorIs(t, err, ErrUnresolvable)
		})
	}

	_, err := Resolve(fromMutual("a", 3), time.Time{}, dates.MustParse("2025-01-31"))
	require.ErrorIs(t, err, ErrInvalidAnchor)
}

func TestResolve_InvertedAnchors(t *testing.T) {
	got, err := ResolveContingencyDates(beforeClosing("a", 10), "2025-02-01", "2025-01-01")
	require.NoError(t, err)
	require.True(t, got.EndDate.Before(dates.MustParse("2025-02-01")))
}

func TestResolve_Idempotent(t *testing.T) {
	c := fromMutual("a", 4)
	first, err := ResolveContingencyDates(c, "2025-11-25", "2025-12-31")
	require.NoError(t, err)
	second, err := ResolveContingencyDates(c, "2025-11-25", "2025-12-31")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestMethodDescription(t *testing.T) {
	require.Equal(t, "5 business days from mutual", MethodDescription(fromMutual("a", 5)))
	require.Equal(t, "21 days from mutual", MethodDescription(fromMutual("a", 21)))
	require.Equal(t, "1 business day before closing", MethodDescription(beforeClosing("a", 1)))
	require.Equal(t, "12 days before closing", MethodDescription(beforeClosing("a", 12)))
	require.Equal(t, "Fixed Date", MethodDescription(fixed("a", "2025-01-01", 0)))

	missing := fromMutual("a", 1)
	missing.Days = nil
	require.Empty(t, MethodDescription(missing))
	require.Empty(t, MethodDescription(contingency.Contingency{Type: "weekly"}))
}

func TestBuildTimeline_Ordering(t *testing.T) {
	list := []contingency.Contingency{
		fixed("b", "2025-01-15", 2),
		withOrder(fromMutual("a", 13), 1), // Jan 2 + 13 calendar days = Jan 15
		fixed("on-mutual", "2025-01-01", 0),
		fixed("on-closing", "2025-01-31", 999),
	}

	items, err := BuildTimeline("2025-01-01", "2025-01-31", list)
	require.NoError(t, err)
	require.Len(t, items, 6)

	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	require.Equal(t, []string{
		MethodMutual,
		"fixed on-mutual",
		"from mutual a",
		"fixed b",
		"fixed on-closing",
		MethodClosing,
	}, names)

	require.False(t, items[0].IsContingency)
	require.Empty(t, items[0].Status)
	require.Empty(t, items[5].Status)
	require.Equal(t, 0, items[0].DaysFromMutual)
	require.Equal(t, 30, items[5].DaysFromMutual)
	require.Equal(t, 14, items[2].DaysFromMutual)
	require.Equal(t, "a", items[2].ContingencyID)
	require.Equal(t, KindRange, items[2].Kind)
	require.Equal(t, KindMilestone, items[3].Kind)
	require.Equal(t, contingency.StatusScheduled, items[3].Status)
}

func TestBuildTimeline_SkipsUnresolvable(t *testing.T) {
	var buf bytes.Buffer
	asm := NewAssembler(slog.New(slog.NewTextHandler(&buf, nil)))

	broken := fromMutual("broken", 3)
	broken.Days = nil
	list := []contingency.Contingency{
		fromMutual("ok-1", 3),
		broken,
		beforeClosing("ok-2", 1),
	}

	items, err := asm.Build("2025-01-01", "2025-01-31", list)
	require.NoError(t, err)
	require.Len(t, items, 4)
	for _, it := range items {
		require.NotEqual(t, "broken", it.ContingencyID)
	}
	require.Contains(t, buf.String(), "skipping contingency")
	require.Contains(t, buf.String(), "contingency_id=broken")

	alone, err := asm.Build("2025-01-01", "2025-01-31", list[:1])
	require.NoError(t, err)
	require.Equal(t, items[1].EndDate, alone[1].EndDate)
}

func TestBuildTimeline_InvalidAnchors(t *testing.T) {
	items, err := NewAssembler(nil).Build("not a date", "2025-01-31", []contingency.Contingency{fromMutual("a", 3)})
	require.ErrorIs(t, err, ErrInvalidAnchor)
	require.Empty(t, items)
}

func TestBuildTimeline_Empty(t *testing.T) {
	items, err := NewAssembler(nil).Build("2025-01-01", "2025-01-31", nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, MethodMutual, items[0].Name)
	require.Equal(t, MethodClosing, items[1].Name)
}

func withOrder(c contingency.Contingency, order int) contingency.Contingency {
	c.Order = order
	return c
}
