package mcp

import (
	"time"

	"github.com/rpggio/closing-timeline/internal/calendar"
	"github.com/rpggio/closing-timeline/internal/dates"
	"github.com/rpggio/closing-timeline/internal/domain/activity"
	"github.com/rpggio/closing-timeline/internal/domain/contingency"
	"github.com/rpggio/closing-timeline/internal/domain/instance"
	"github.com/rpggio/closing-timeline/internal/schedule"
)

// Tool inputs. Fields without omitempty are required by the generated
// input schema.

type CheckDateParams struct {
	Date string `json:"date" jsonschema:"date to check, YYYY-MM-DD"`
}

type ListHolidaysParams struct {
	Year int `json:"year" jsonschema:"four digit year"`
}

type AddDaysParams struct {
	Date   string `json:"date" jsonschema:"start date, YYYY-MM-DD"`
	Days   int    `json:"days" jsonschema:"days to add, at most 3660 either way; negative counts backward"`
	Method string `json:"method,omitempty" jsonschema:"auto (default: business days up to 5, calendar days beyond), business or calendar"`
}

type DaysBetweenParams struct {
	From string `json:"from" jsonschema:"start date, YYYY-MM-DD"`
	To   string `json:"to" jsonschema:"end date, YYYY-MM-DD"`
}

// ContingencyInput is the editable form of a contingency. List position
// sets its order.
type ContingencyInput struct {
	ID               string `json:"id,omitempty" jsonschema:"contingency id; generated when omitted on create"`
	Name             string `json:"name" jsonschema:"display name"`
	Description      string `json:"description,omitempty"`
	Type             string `json:"type" jsonschema:"fixed_date, days_from_mutual, days_before_closing or fixed_period"`
	Days             *int   `json:"days,omitempty" jsonschema:"day count for days_from_mutual and days_before_closing"`
	FixedDate        string `json:"fixed_date,omitempty" jsonschema:"YYYY-MM-DD, for fixed_date"`
	StartDate        string `json:"start_date,omitempty" jsonschema:"YYYY-MM-DD, for fixed_period"`
	EndDate          string `json:"end_date,omitempty" jsonschema:"YYYY-MM-DD, for fixed_period"`
	IsPossessionDate bool   `json:"is_possession_date,omitempty"`
	Status           string `json:"status,omitempty" jsonschema:"not_started, in_progress, completed, waived, pending, scheduled, overdue or due_today"`
}

type ResolveContingencyParams struct {
	MutualDate  string           `json:"mutual_date" jsonschema:"mutual acceptance date, YYYY-MM-DD"`
	ClosingDate string           `json:"closing_date" jsonschema:"closing date, YYYY-MM-DD"`
	Contingency ContingencyInput `json:"contingency"`
}

type BuildTimelineParams struct {
	MutualDate    string             `json:"mutual_date" jsonschema:"mutual acceptance date, YYYY-MM-DD"`
	ClosingDate   string             `json:"closing_date" jsonschema:"closing date, YYYY-MM-DD"`
	Contingencies []ContingencyInput `json:"contingencies,omitempty" jsonschema:"contingencies to schedule; the default set is used when omitted"`
}

type DefaultContingenciesParams struct{}

type CreateTimelineParams struct {
	Name          string             `json:"name,omitempty" jsonschema:"display name; defaults to Timeline N"`
	MutualDate    string             `json:"mutual_date,omitempty" jsonschema:"YYYY-MM-DD; defaults to today"`
	ClosingDate   string             `json:"closing_date,omitempty" jsonschema:"YYYY-MM-DD; defaults to mutual plus the configured offset, moved to a business day"`
	Contingencies []ContingencyInput `json:"contingencies,omitempty" jsonschema:"initial contingencies; the default set is used when omitted"`
	Empty         bool               `json:"empty,omitempty" jsonschema:"start with no contingencies instead of the default set"`
}

type ListTimelinesParams struct {
	Archived bool `json:"archived,omitempty" jsonschema:"list archived timelines instead of active ones"`
}

type TimelineIDParams struct {
	ID string `json:"id" jsonschema:"timeline id"`
}

type SaveTimelineParams struct {
	ID            string             `json:"id" jsonschema:"timeline id"`
	Name          string             `json:"name"`
	MutualDate    string             `json:"mutual_date" jsonschema:"YYYY-MM-DD"`
	ClosingDate   string             `json:"closing_date" jsonschema:"YYYY-MM-DD"`
	Contingencies []ContingencyInput `json:"contingencies" jsonschema:"the complete contingency list, replacing the stored one"`
}

type AddContingencyParams struct {
	TimelineID  string           `json:"timeline_id"`
	Contingency ContingencyInput `json:"contingency"`
}

type UpdateContingencyParams struct {
	TimelineID  string           `json:"timeline_id"`
	Contingency ContingencyInput `json:"contingency" jsonschema:"full replacement; id selects the contingency"`
}

type RemoveContingencyParams struct {
	TimelineID    string `json:"timeline_id"`
	ContingencyID string `json:"contingency_id"`
}

type SetContingencyStatusParams struct {
	TimelineID    string `json:"timeline_id"`
	ContingencyID string `json:"contingency_id"`
	Status        string `json:"status" jsonschema:"not_started, in_progress, completed, waived, pending, scheduled, overdue or due_today"`
}

type ReorderContingenciesParams struct {
	TimelineID string `json:"timeline_id"`
	From       int    `json:"from" jsonschema:"current zero-based position"`
	To         int    `json:"to" jsonschema:"new zero-based position"`
}

type GetRecentActivityParams struct {
	TimelineID    string `json:"timeline_id,omitempty"`
	ContingencyID string `json:"contingency_id,omitempty"`
	Type          string `json:"type,omitempty"`
	Limit         int    `json:"limit,omitempty"`
	Offset        int    `json:"offset,omitempty"`
}

// Tool outputs.

type CheckDateResult struct {
	Date            string `json:"date"`
	Display         string `json:"display"`
	Weekday         string `json:"weekday"`
	IsWeekend       bool   `json:"is_weekend"`
	IsHoliday       bool   `json:"is_holiday"`
	HolidayName     string `json:"holiday_name,omitempty"`
	IsBusinessDay   bool   `json:"is_business_day"`
	NextBusinessDay string `json:"next_business_day"`
}

type HolidayView struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
}

type ListHolidaysResult struct {
	Year     int           `json:"year"`
	Holidays []HolidayView `json:"holidays"`
}

type AddDaysResult struct {
	Date   string `json:"date"`
	Days   int    `json:"days"`
	Method string `json:"method"`
	Result string `json:"result"`
}

type DaysBetweenResult struct {
	From string `json:"from"`
	To   string `json:"to"`
	Days int    `json:"days"`
}

type ResolvedDates struct {
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Display        string `json:"display"`
	Method         string `json:"method"`
	BusinessDays   bool   `json:"business_days"`
	DaysFromMutual int    `json:"days_from_mutual"`
}

type TimelineItemView struct {
	Name             string `json:"name"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	DaysFromMutual   int    `json:"days_from_mutual"`
	Method           string `json:"method"`
	Notes            string `json:"notes,omitempty"`
	IsContingency    bool   `json:"is_contingency"`
	ContingencyID    string `json:"contingency_id,omitempty"`
	Status           string `json:"status,omitempty"`
	Kind             string `json:"kind"`
	IsPossessionDate bool   `json:"is_possession_date,omitempty"`
	Holiday          string `json:"holiday,omitempty"`
}

type TimelineResult struct {
	MutualDate  string             `json:"mutual_date"`
	ClosingDate string             `json:"closing_date"`
	Items       []TimelineItemView `json:"items"`
}

type ContingencyListResult struct {
	Contingencies []contingency.Contingency `json:"contingencies"`
}

type InstanceView struct {
	ID            string                    `json:"id"`
	Name          string                    `json:"name"`
	MutualDate    string                    `json:"mutual_date"`
	ClosingDate   string                    `json:"closing_date"`
	Archived      bool                      `json:"archived"`
	Contingencies []contingency.Contingency `json:"contingencies"`
	CreatedAt     string                    `json:"created_at"`
	ModifiedAt    string                    `json:"modified_at"`
}

type SummaryView struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	MutualDate       string `json:"mutual_date"`
	ClosingDate      string `json:"closing_date"`
	Archived         bool   `json:"archived"`
	ContingencyCount int    `json:"contingency_count"`
	CompletedCount   int    `json:"completed_count"`
	ModifiedAt       string `json:"modified_at"`
}

type ListTimelinesResult struct {
	Timelines []SummaryView `json:"timelines"`
}

type TimelineDetailResult struct {
	Timeline InstanceView       `json:"timeline"`
	Items    []TimelineItemView `json:"items"`
}

type DeleteTimelineResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type AddContingencyResult struct {
	Timeline    InstanceView            `json:"timeline"`
	Contingency contingency.Contingency `json:"contingency"`
}

type ActivityView struct {
	ID            int64  `json:"id"`
	TimelineID    string `json:"timeline_id"`
	ContingencyID string `json:"contingency_id,omitempty"`
	Type          string `json:"type"`
	Summary       string `json:"summary"`
	Details       string `json:"details,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type RecentActivityResult struct {
	Entries []ActivityView `json:"entries"`
}

func (in ContingencyInput) toContingency() contingency.Contingency {
	return contingency.Contingency{
		ID:               in.ID,
		Name:             in.Name,
		Description:      in.Description,
		Type:             contingency.Type(in.Type),
		Days:             in.Days,
		FixedDate:        in.FixedDate,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		IsPossessionDate: in.IsPossessionDate,
		Status:           contingency.Status(in.Status),
	}
}

func toContingencies(in []ContingencyInput) []contingency.Contingency {
	out := make([]contingency.Contingency, 0, len(in))
	for i, c := range in {
		converted := c.toContingency()
		converted.Order = i
		out = append(out, converted)
	}
	return out
}

func toInstanceView(inst *instance.Instance) InstanceView {
	list := inst.Contingencies
	if list == nil {
		list = []contingency.Contingency{}
	}
	return InstanceView{
		ID:            inst.ID,
		Name:          inst.Name,
		MutualDate:    inst.MutualDate,
		ClosingDate:   inst.ClosingDate,
		Archived:      inst.Archived,
		Contingencies: list,
		CreatedAt:     formatTimestamp(inst.CreatedAt),
		ModifiedAt:    formatTimestamp(inst.ModifiedAt),
	}
}

func toSummaryView(s instance.Summary) SummaryView {
	return SummaryView{
		ID:               s.ID,
		Name:             s.Name,
		MutualDate:       s.MutualDate,
		ClosingDate:      s.ClosingDate,
		Archived:         s.Archived,
		ContingencyCount: s.ContingencyCount,
		CompletedCount:   s.CompletedCount,
		ModifiedAt:       formatTimestamp(s.ModifiedAt),
	}
}

func toTimelineItemViews(items []schedule.TimelineItem) []TimelineItemView {
	out := make([]TimelineItemView, 0, len(items))
	for _, item := range items {
		view := TimelineItemView{
			Name:             item.Name,
			StartDate:        dates.Format(item.StartDate),
			EndDate:          dates.Format(item.EndDate),
			DaysFromMutual:   item.DaysFromMutual,
			Method:           item.Method,
			Notes:            item.Notes,
			IsContingency:    item.IsContingency,
			ContingencyID:    item.ContingencyID,
			Status:           string(item.Status),
			Kind:             string(item.Kind),
			IsPossessionDate: item.IsPossessionDate,
		}
		if name, ok := calendar.HolidayName(item.EndDate); ok {
			view.Holiday = name
		}
		out = append(out, view)
	}
	return out
}

func toActivityView(e activity.ActivityEntry) ActivityView {
	view := ActivityView{
		ID:         e.ID,
		TimelineID: e.TimelineID,
		Type:       string(e.ActivityType),
		Summary:    e.Summary,
		Details:    e.Details,
		CreatedAt:  formatTimestamp(e.CreatedAt),
	}
	if e.ContingencyID != nil {
		view.ContingencyID = *e.ContingencyID
	}
	return view
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
