package mcp

import (
	"context"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/closing-timeline/internal/calendar"
	"github.com/rpggio/closing-timeline/internal/dates"
	"github.com/rpggio/closing-timeline/internal/domain/activity"
	"github.com/rpggio/closing-timeline/internal/domain/contingency"
	"github.com/rpggio/closing-timeline/internal/domain/instance"
	"github.com/rpggio/closing-timeline/internal/schedule"
)

const (
	minHolidayYear = 1900
	maxHolidayYear = 2200

	// maxDayCount bounds add_days in either direction, about ten years.
	maxDayCount = 3660
)

type toolset struct {
	timelines TimelineService
	activity  ActivityService
	assembler *schedule.Assembler
	logger    *slog.Logger
}

// addTool registers a typed tool. Domain errors are mapped to APIErrors so
// clients see a stable code; anything else is logged and passed through.
func addTool[In, Out any](server *sdkmcp.Server, logger *slog.Logger, tool *sdkmcp.Tool, fn func(context.Context, In) (Out, error)) {
	sdkmcp.AddTool(server, tool, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
		out, err := fn(ctx, in)
		if err != nil {
			var zero Out
			if apiErr := MapError(err); apiErr != nil {
				return nil, zero, apiErr
			}
			logger.Error("tool failed", "tool", tool.Name, "error", err)
			return nil, zero, err
		}
		return nil, out, nil
	})
}

func readOnly(name, description string) *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        name,
		Description: description,
		Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true, IdempotentHint: true},
	}
}

func mutating(name, description string) *sdkmcp.Tool {
	return &sdkmcp.Tool{Name: name, Description: description}
}

func registerTools(server *sdkmcp.Server, t *toolset) {
	l := t.logger

	// Calendar and date arithmetic
	addTool(server, l, readOnly("check_date", "Report whether a date is a weekend, a federal holiday or a business day, and the next business day after it"), t.checkDate)
	addTool(server, l, readOnly("list_holidays", "List the federal holidays of a year"), t.listHolidays)
	addTool(server, l, readOnly("add_days", "Add or subtract days from a date using business days, calendar days, or the contract rule (business days up to 5, calendar days beyond)"), t.addDays)
	addTool(server, l, readOnly("days_between", "Count the signed number of calendar days between two dates"), t.daysBetween)

	// Scheduling without persistence
	addTool(server, l, readOnly("resolve_contingency", "Resolve one contingency's start and end dates against mutual acceptance and closing"), t.resolveContingency)
	addTool(server, l, readOnly("build_timeline", "Build a sorted timeline from mutual acceptance, closing and a contingency list without saving it"), t.buildTimeline)
	addTool(server, l, readOnly("default_contingencies", "Return the default contingency set used for new timelines"), t.defaultContingencies)

	// Saved timelines
	addTool(server, l, mutating("create_timeline", "Create and save a timeline; omitted fields get defaults"), t.createTimeline)
	addTool(server, l, readOnly("list_timelines", "List saved timelines, most recently modified first"), t.listTimelines)
	addTool(server, l, readOnly("get_timeline", "Get a saved timeline and its computed schedule"), t.getTimeline)
	addTool(server, l, mutating("save_timeline", "Replace a saved timeline's name, dates and contingency list"), t.saveTimeline)
	addTool(server, l, &sdkmcp.Tool{
		Name:        "delete_timeline",
		Description: "Permanently delete a saved timeline",
		Annotations: &sdkmcp.ToolAnnotations{DestructiveHint: boolPtr(true)},
	}, t.deleteTimeline)
	addTool(server, l, mutating("archive_timeline", "Toggle a saved timeline between active and archived"), t.archiveTimeline)

	// Contingency edits on saved timelines
	addTool(server, l, mutating("add_contingency", "Append a contingency to a saved timeline"), t.addContingency)
	addTool(server, l, mutating("update_contingency", "Replace one contingency of a saved timeline, matched by id"), t.updateContingency)
	addTool(server, l, mutating("remove_contingency", "Remove one contingency from a saved timeline"), t.removeContingency)
	addTool(server, l, mutating("set_contingency_status", "Set a contingency's status; completing it records today's date"), t.setContingencyStatus)
	addTool(server, l, mutating("reorder_contingencies", "Move a contingency from one list position to another"), t.reorderContingencies)

	// Activity
	addTool(server, l, readOnly("get_recent_activity", "List recent changes to saved timelines, newest first"), t.getRecentActivity)
}

func (t *toolset) checkDate(_ context.Context, in CheckDateParams) (CheckDateResult, error) {
	date, err := dates.Parse(in.Date)
	if err != nil {
		return CheckDateResult{}, err
	}
	holiday, isHoliday := calendar.HolidayName(date)
	return CheckDateResult{
		Date:            dates.Format(date),
		Display:         dates.FormatDisplay(date),
		Weekday:         date.Weekday().String(),
		IsWeekend:       calendar.IsWeekend(date),
		IsHoliday:       isHoliday,
		HolidayName:     holiday,
		IsBusinessDay:   calendar.IsBusinessDay(date),
		NextBusinessDay: dates.Format(dates.NextBusinessDay(date)),
	}, nil
}

func (t *toolset) listHolidays(_ context.Context, in ListHolidaysParams) (ListHolidaysResult, error) {
	if in.Year < minHolidayYear || in.Year > maxHolidayYear {
		return ListHolidaysResult{}, invalidInput("year must be between %d and %d", minHolidayYear, maxHolidayYear)
	}
	holidays := calendar.Holidays(in.Year)
	views := make([]HolidayView, 0, len(holidays))
	for _, h := range holidays {
		views = append(views, HolidayView{
			Name:    h.Name,
			Date:    dates.Format(h.Date),
			Weekday: h.Date.Weekday().String(),
		})
	}
	return ListHolidaysResult{Year: in.Year, Holidays: views}, nil
}

func (t *toolset) addDays(_ context.Context, in AddDaysParams) (AddDaysResult, error) {
	date, err := dates.Parse(in.Date)
	if err != nil {
		return AddDaysResult{}, err
	}
	if in.Days < -maxDayCount || in.Days > maxDayCount {
		return AddDaysResult{}, invalidInput("days must be between %d and %d, got %d", -maxDayCount, maxDayCount, in.Days)
	}

	method := strings.ToLower(strings.TrimSpace(in.Method))
	result := date
	switch method {
	case "", "auto":
		method = "calendar"
		if schedule.UsesBusinessDays(abs(in.Days)) {
			method = "business"
		}
		if in.Days < 0 {
			result = schedule.Retreat(date, -in.Days)
		} else {
			result = schedule.Advance(date, in.Days)
		}
	case "business":
		result = dates.AddBusinessDays(date, in.Days)
	case "calendar":
		result = dates.AddCalendarDays(date, in.Days)
	default:
		return AddDaysResult{}, invalidInput("method must be auto, business or calendar, got %q", in.Method)
	}

	return AddDaysResult{
		Date:   dates.Format(date),
		Days:   in.Days,
		Method: method,
		Result: dates.Format(result),
	}, nil
}

func (t *toolset) daysBetween(_ context.Context, in DaysBetweenParams) (DaysBetweenResult, error) {
	from, err := dates.Parse(in.From)
	if err != nil {
		return DaysBetweenResult{}, err
	}
	to, err := dates.Parse(in.To)
	if err != nil {
		return DaysBetweenResult{}, err
	}
	return DaysBetweenResult{
		From: dates.Format(from),
		To:   dates.Format(to),
		Days: dates.DaysBetween(from, to),
	}, nil
}

func (t *toolset) resolveContingency(_ context.Context, in ResolveContingencyParams) (ResolvedDates, error) {
	c := in.Contingency.toContingency()
	resolved, err := schedule.ResolveContingencyDates(c, in.MutualDate, in.ClosingDate)
	if err != nil {
		return ResolvedDates{}, err
	}
	mutual, _ := dates.Parse(in.MutualDate)
	return ResolvedDates{
		StartDate:      dates.Format(resolved.StartDate),
		EndDate:        dates.Format(resolved.EndDate),
		Display:        displaySpan(resolved),
		Method:         resolved.Method,
		BusinessDays:   resolved.BusinessDays,
		DaysFromMutual: dates.DaysBetween(mutual, resolved.EndDate),
	}, nil
}

func (t *toolset) buildTimeline(_ context.Context, in BuildTimelineParams) (TimelineResult, error) {
	list := contingency.Defaults()
	if in.Contingencies != nil {
		list = toContingencies(in.Contingencies)
	}
	items, err := t.assembler.Build(in.MutualDate, in.ClosingDate, list)
	if err != nil {
		return TimelineResult{}, err
	}
	return TimelineResult{
		MutualDate:  strings.TrimSpace(in.MutualDate),
		ClosingDate: strings.TrimSpace(in.ClosingDate),
		Items:       toTimelineItemViews(items),
	}, nil
}

func (t *toolset) defaultContingencies(_ context.Context, _ DefaultContingenciesParams) (ContingencyListResult, error) {
	return ContingencyListResult{Contingencies: contingency.Defaults()}, nil
}

func (t *toolset) createTimeline(ctx context.Context, in CreateTimelineParams) (InstanceView, error) {
	req := instance.CreateRequest{
		Name:        in.Name,
		MutualDate:  in.MutualDate,
		ClosingDate: in.ClosingDate,
	}
	switch {
	case in.Empty:
		req.Contingencies = []contingency.Contingency{}
	case in.Contingencies != nil:
		req.Contingencies = toContingencies(in.Contingencies)
	}
	inst, err := t.timelines.Create(ctx, req)
	if err != nil {
		return InstanceView{}, err
	}
	return toInstanceView(inst), nil
}

func (t *toolset) listTimelines(ctx context.Context, in ListTimelinesParams) (ListTimelinesResult, error) {
	summaries, err := t.timelines.List(ctx, in.Archived)
	if err != nil {
		return ListTimelinesResult{}, err
	}
	views := make([]SummaryView, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, toSummaryView(s))
	}
	return ListTimelinesResult{Timelines: views}, nil
}

func (t *toolset) getTimeline(ctx context.Context, in TimelineIDParams) (TimelineDetailResult, error) {
	inst, items, err := t.timelines.Timeline(ctx, in.ID)
	if err != nil {
		return TimelineDetailResult{}, err
	}
	return TimelineDetailResult{
		Timeline: toInstanceView(inst),
		Items:    toTimelineItemViews(items),
	}, nil
}

func (t *toolset) saveTimeline(ctx context.Context, in SaveTimelineParams) (InstanceView, error) {
	inst, err := t.timelines.Save(ctx, instance.SaveRequest{
		ID:            in.ID,
		Name:          in.Name,
		MutualDate:    in.MutualDate,
		ClosingDate:   in.ClosingDate,
		Contingencies: toContingencies(in.Contingencies),
	})
	if err != nil {
		return InstanceView{}, err
	}
	return toInstanceView(inst), nil
}

func (t *toolset) deleteTimeline(ctx context.Context, in TimelineIDParams) (DeleteTimelineResult, error) {
	if err := t.timelines.Delete(ctx, in.ID); err != nil {
		return DeleteTimelineResult{}, err
	}
	return DeleteTimelineResult{ID: in.ID, Deleted: true}, nil
}

func (t *toolset) archiveTimeline(ctx context.Context, in TimelineIDParams) (InstanceView, error) {
	inst, err := t.timelines.ToggleArchive(ctx, in.ID)
	if err != nil {
		return InstanceView{}, err
	}
	return toInstanceView(inst), nil
}

func (t *toolset) addContingency(ctx context.Context, in AddContingencyParams) (AddContingencyResult, error) {
	inst, added, err := t.timelines.AddContingency(ctx, in.TimelineID, in.Contingency.toContingency())
	if err != nil {
		return AddContingencyResult{}, err
	}
	return AddContingencyResult{Timeline: toInstanceView(inst), Contingency: added}, nil
}

func (t *toolset) updateContingency(ctx context.Context, in UpdateContingencyParams) (InstanceView, error) {
	if strings.TrimSpace(in.Contingency.ID) == "" {
		return InstanceView{}, invalidInput("contingency.id is required")
	}
	inst, err := t.timelines.UpdateContingency(ctx, in.TimelineID, in.Contingency.toContingency())
	if err != nil {
		return InstanceView{}, err
	}
	return toInstanceView(inst), nil
}

func (t *toolset) removeContingency(ctx context.Context, in RemoveContingencyParams) (InstanceView, error) {
	inst, err := t.timelines.RemoveContingency(ctx, in.TimelineID, in.ContingencyID)
	if err != nil {
		return InstanceView{}, err
	}
	return toInstanceView(inst), nil
}

func (t *toolset) setContingencyStatus(ctx context.Context, in SetContingencyStatusParams) (InstanceView, error) {
	status := contingency.Status(in.Status)
	if !status.Valid() {
		return InstanceView{}, invalidInput("unknown status %q", in.Status)
	}
	inst, err := t.timelines.SetStatus(ctx, in.TimelineID, in.ContingencyID, status)
	if err != nil {
		return InstanceView{}, err
	}
	return toInstanceView(inst), nil
}

func (t *toolset) reorderContingencies(ctx context.Context, in ReorderContingenciesParams) (InstanceView, error) {
	inst, err := t.timelines.Reorder(ctx, in.TimelineID, in.From, in.To)
	if err != nil {
		return InstanceView{}, err
	}
	return toInstanceView(inst), nil
}

func (t *toolset) getRecentActivity(ctx context.Context, in GetRecentActivityParams) (RecentActivityResult, error) {
	opts := activity.ListActivityOptions{
		TimelineID: in.TimelineID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	if in.ContingencyID != "" {
		opts.ContingencyID = &in.ContingencyID
	}
	if in.Type != "" {
		typ := activity.ActivityType(in.Type)
		opts.ActivityType = &typ
	}

	entries, err := t.activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return RecentActivityResult{}, err
	}
	views := make([]ActivityView, 0, len(entries))
	for _, e := range entries {
		views = append(views, toActivityView(e))
	}
	return RecentActivityResult{Entries: views}, nil
}

func displaySpan(d schedule.Dates) string {
	if dates.SameDay(d.StartDate, d.EndDate) {
		return dates.FormatDisplay(d.EndDate)
	}
	return dates.FormatRange(d.StartDate, d.EndDate)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func boolPtr(b bool) *bool {
	return &b
}
