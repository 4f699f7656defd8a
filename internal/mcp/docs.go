package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `closing-timeline computes real-estate contingency deadlines from a mutual acceptance date and a closing date.

Date rules:
- Dates are YYYY-MM-DD. Business days skip weekends and federal holidays.
- Counts of 5 days or fewer are business days; larger counts are calendar days.
- days_from_mutual counting starts the day after mutual acceptance.
- days_before_closing ends the day before closing.

Default workflow:
1) Quick answers: check_date, add_days, days_between, list_holidays.
2) What-if schedules: build_timeline (omit contingencies for the default set) or resolve_contingency.
3) Saved deals: create_timeline, then get_timeline to see the computed schedule.
4) Edits: add_contingency / update_contingency / remove_contingency / set_contingency_status / reorder_contingencies, or save_timeline to replace everything.
5) History: get_recent_activity.

Docs:
- timeline://docs/rules (counting rules with worked examples)
- timeline://docs/contingencies (types, statuses, defaults)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "timeline://docs/rules",
		Name:        "docs_rules",
		Title:       "Date counting rules",
		Description: "How deadlines are counted from mutual acceptance and back from closing.",
		Content: `# Date counting rules

## Business days

A business day is any Monday through Friday that is not a federal holiday.
Holidays count on their actual date; a holiday that falls on a weekend is
not moved to a weekday.

Holidays: New Year's Day, Martin Luther King Jr. Day, Presidents' Day,
Memorial Day, Juneteenth, Independence Day, Labor Day,
Indigenous Peoples' Day, Veterans Day, Thanksgiving Day, Native American Heritage Day, Christmas Day.

## The 5 day threshold

- 5 days or fewer: count business days.
- More than 5 days: count calendar days.

## days_from_mutual

Counting starts the day after mutual acceptance. The deadline is that start
date advanced by the day count.

Example: mutual Friday 2025-01-03, 5 days. Counting starts Saturday; five
business days later is Friday 2025-01-10.

## days_before_closing

The span ends the day before closing. Its start is closing moved back by the
day count.

Example: closing Wednesday 2025-01-15, 3 days. Start is Friday 2025-01-10,
end is Tuesday 2025-01-14.

## Default closing date

New timelines without a closing date close 30 days after mutual (the offset
is configurable). A closing that lands on a weekend or holiday moves to the
next business day.
`,
	},
	{
		URI:         "timeline://docs/contingencies",
		Name:        "docs_contingencies",
		Title:       "Contingency reference",
		Description: "Contingency types, statuses, and the default set.",
		Content: `# Contingencies

## Types

- ` + "`fixed_date`" + `: one day, given by fixed_date.
- ` + "`days_from_mutual`" + `: days counted forward from mutual acceptance.
- ` + "`days_before_closing`" + `: days counted back from closing.
- ` + "`fixed_period`" + `: an explicit start_date and end_date.

## Statuses

not_started, in_progress, completed, waived, pending, scheduled, overdue,
due_today. Status is set by the caller; it is never derived from dates.
Setting completed records today's date as completed_date.

## Ordering

Timelines sort by end date. Ties keep list order, with mutual acceptance
first and closing last. List position is the order; use
reorder_contingencies to move an item.

## Defaults

Call default_contingencies for the set applied to new timelines: funds due
to escrow, information verification, inspection, title review, and the
financing waiver deadline.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
