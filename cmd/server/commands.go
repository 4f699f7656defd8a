package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rpggio/closing-timeline/internal/calendar"
	"github.com/rpggio/closing-timeline/internal/dates"
	"github.com/rpggio/closing-timeline/internal/domain/contingency"
	"github.com/rpggio/closing-timeline/internal/schedule"
	"github.com/urfave/cli/v3"
)

type timelineFlags struct {
	id      string
	mutual  string
	closing string
	empty   bool
	json    bool
}

func (st *appState) timelineCmd() *cli.Command {
	f := &timelineFlags{}
	return &cli.Command{
		Name:      "timeline",
		Usage:     "Print a contingency timeline",
		UsageText: "closing-timeline timeline (--mutual <date> --closing <date> [--empty] | --id <id>) [--json]",
		Description: `Prints the dated timeline for a deal, sorted by end date.

Without --id the default contingency set is scheduled against the given
dates and nothing is saved. With --id a saved timeline is loaded from the
database.

Examples:
  closing-timeline timeline --mutual 2025-01-06 --closing 2025-02-06
  closing-timeline timeline --id 4f0c... --json`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "saved timeline id", Destination: &f.id},
			&cli.StringFlag{Name: "mutual", Usage: "mutual acceptance date (YYYY-MM-DD)", Destination: &f.mutual},
			&cli.StringFlag{Name: "closing", Usage: "closing date (YYYY-MM-DD)", Destination: &f.closing},
			&cli.BoolFlag{Name: "empty", Usage: "schedule only the mutual and closing anchors", Destination: &f.empty},
			&cli.BoolFlag{Name: "json", Usage: "output as JSON lines", Destination: &f.json},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return st.runTimeline(ctx, c, f)
		},
	}
}

func (st *appState) runTimeline(ctx context.Context, c *cli.Command, f *timelineFlags) error {
	var items []schedule.TimelineItem
	switch {
	case f.id != "":
		svc, err := openServices(st.cfg, st.logger)
		if err != nil {
			return err
		}
		defer svc.Close()
		if _, items, err = svc.timelines.Timeline(ctx, f.id); err != nil {
			return fmt.Errorf("load timeline: %w", err)
		}
	case f.mutual == "" || f.closing == "":
		return errors.New("--mutual and --closing are required without --id")
	default:
		list := contingency.Defaults()
		if f.empty {
			list = nil
		}
		var err error
		items, err = schedule.NewAssembler(st.logger).Build(f.mutual, f.closing, list)
		if err != nil {
			return err
		}
	}

	out := c.Root().Writer
	if f.json {
		return writeTimelineJSON(out, items)
	}
	return writeTimelineTable(out, items)
}

type timelineRow struct {
	Name           string `json:"name"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	DaysFromMutual int    `json:"days_from_mutual"`
	Method         string `json:"method"`
	Status         string `json:"status"`
	Holiday        string `json:"holiday,omitempty"`
}

func toRow(item schedule.TimelineItem) timelineRow {
	row := timelineRow{
		Name:           item.Name,
		StartDate:      dates.Format(item.StartDate),
		EndDate:        dates.Format(item.EndDate),
		DaysFromMutual: item.DaysFromMutual,
		Method:         item.Method,
		Status:         string(item.Status),
	}
	row.Holiday, _ = calendar.HolidayName(item.EndDate)
	return row
}

func writeTimelineJSON(out io.Writer, items []schedule.TimelineItem) error {
	enc := json.NewEncoder(out)
	for _, item := range items {
		if err := enc.Encode(toRow(item)); err != nil {
			return fmt.Errorf("encode timeline item: %w", err)
		}
	}
	return nil
}

func writeTimelineTable(out io.Writer, items []schedule.TimelineItem) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DUE\tDAY\tNAME\tMETHOD\tSTATUS")
	for _, item := range items {
		row := toRow(item)
		due := dates.FormatDisplay(item.EndDate)
		if row.Holiday != "" {
			due += " (" + row.Holiday + ")"
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", due, row.DaysFromMutual, row.Name, row.Method, row.Status)
	}
	return w.Flush()
}

func (st *appState) holidaysCmd() *cli.Command {
	var year int
	return &cli.Command{
		Name:      "holidays",
		Usage:     "List the federal holidays of a year",
		UsageText: "closing-timeline holidays [--year <year>]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "year", Aliases: []string{"y"}, Usage: "four digit year (defaults to the current year)", Destination: &year},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			if year == 0 {
				year = time.Now().Year()
			}
			w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
			for _, h := range calendar.Holidays(year) {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", dates.Format(h.Date), h.Date.Weekday(), h.Name)
			}
			return w.Flush()
		},
	}
}

func (st *appState) checkCmd() *cli.Command {
	var date string
	return &cli.Command{
		Name:      "check",
		Usage:     "Report whether a date is a business day",
		UsageText: "closing-timeline check --date <YYYY-MM-DD>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "date to check (YYYY-MM-DD)", Required: true, Destination: &date},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			d, err := dates.Parse(date)
			if err != nil {
				return err
			}

			var notes []string
			if calendar.IsWeekend(d) {
				notes = append(notes, "weekend")
			}
			if name, ok := calendar.HolidayName(d); ok {
				notes = append(notes, name)
			}
			kind := "business day"
			if len(notes) > 0 {
				kind = "not a business day (" + strings.Join(notes, ", ") + ")"
			}

			out := c.Root().Writer
			_, _ = fmt.Fprintf(out, "%s, %s: %s\n", d.Weekday(), dates.FormatDisplay(d), kind)
			_, _ = fmt.Fprintf(out, "next business day: %s\n", dates.Format(dates.NextBusinessDay(d)))
			return nil
		},
	}
}
