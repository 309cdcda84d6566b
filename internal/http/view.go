package http

import (
	"strconv"

	"horas/internal/analytics"
	"horas/internal/core"
	"horas/internal/format"
)

// pageData feeds every HTML page.
type pageData struct {
	Title    string
	Username string
	Error    string
	Notice   string

	// Login page
	LoginUser string

	// Dashboard page
	Filters *filterForm
	Dash    *dashboardView
}

type filterForm struct {
	From, To string
	Min, Max string

	Area      string
	Performer string
	HourType  string
	Clients   []string
	Options   analytics.FilterOptions
	Active    bool
}

func newFilterForm(spec analytics.FilterSpec, d *analytics.Dashboard) *filterForm {
	f := &filterForm{
		From:      spec.Dates.From.String(),
		To:        spec.Dates.To.String(),
		Area:      spec.Area,
		Performer: spec.Performer,
		HourType:  spec.HourType,
		Clients:   spec.Clients,
		Active:    !spec.IsDefault(),
	}
	if d != nil {
		f.Options = d.Options
		// Bounds are month-end anchors; the picker opens on the first day of the first month.
		f.Min = d.Bounds.From.MonthStart().String()
		f.Max = d.Bounds.To.String()
	}
	return f
}

type metricCard struct {
	Label string
	Value string
}

type barRow struct {
	Name   string
	Hours  string
	Billed string
	Cost   string
	Width  int
}

type shareRow struct {
	barRow
	HoursPct  string
	BilledPct string
	CostPct   string
}

type folderRow struct {
	ServiceType string
	Hours       string
	Folders     string
	Avg         string
	Pct         string
	Width       int
}

type summaryRow struct {
	Month        string
	Hours        string
	Billed       string
	Cost         string
	Paid         string
	PaidNext     string
	PaidVsBilled string
	PaidVsCost   string
	Margin       string
	Negative     bool
}

type weekRow struct {
	Week  string
	Hours string
	Width int
}

// maxEntryRows caps the detail table; the JSON API carries every row.
const maxEntryRows = 500

type entryRow struct {
	Date        string
	Performer   string
	Area        string
	Client      string
	HourType    string
	ServiceType string
	Folder      string
	Hours       string
	Billed      string
	Cost        string
}

type dashboardView struct {
	Empty    bool
	Warnings []string

	Cards        []metricCard
	Summary      []summaryRow
	ByArea       []barRow
	ByPerformer  []barRow
	ByClient     []barRow
	ByHourType   []barRow
	ServiceTypes []shareRow
	Folders      []folderRow
	Weekly       []weekRow

	Entries      []entryRow
	EntriesTotal int
	EntriesShown int
}

func newDashboardView(d *analytics.Dashboard) *dashboardView {
	v := &dashboardView{
		Empty:    d.IsEmpty(),
		Warnings: d.Warnings,
		Cards: []metricCard{
			{Label: "Horas", Value: format.Hours(d.Totals.Hours)},
			{Label: "Faturado", Value: format.BRL(d.Totals.Billed)},
			{Label: "Custo", Value: format.BRL(d.Totals.Cost)},
		},
		ByArea:      bars(d.ByArea),
		ByPerformer: bars(d.ByPerformer),
		ByClient:    bars(d.ByClient),
		ByHourType:  bars(d.ByHourType),
	}
	for _, ht := range d.HourTypes {
		v.Cards = append(v.Cards, metricCard{Label: "Horas " + ht.HourType, Value: format.Hours(ht.Hours)})
	}

	for _, s := range d.Summary {
		v.Summary = append(v.Summary, summaryRow{
			Month:        format.Month(s.Month),
			Hours:        format.Hours(s.Hours),
			Billed:       format.BRL(s.Billed),
			Cost:         format.BRL(s.Cost),
			Paid:         format.BRL(s.Paid),
			PaidNext:     format.BRL(s.PaidNext),
			PaidVsBilled: format.Pct(s.PaidVsBilled),
			PaidVsCost:   format.Pct(s.PaidVsCost),
			Margin:       format.Pct(s.GrossMargin),
			Negative:     s.GrossMargin < 0,
		})
	}

	var maxShare float64
	for _, s := range d.ServiceTypes {
		maxShare = max(maxShare, s.Hours)
	}
	for _, s := range d.ServiceTypes {
		v.ServiceTypes = append(v.ServiceTypes, shareRow{
			barRow:    bar(s.CategoryTotal, maxShare),
			HoursPct:  format.Pct(s.HoursPct),
			BilledPct: format.Pct(s.BilledPct),
			CostPct:   format.Pct(s.CostPct),
		})
	}

	maxFolders := 0
	for _, f := range d.FolderAverages {
		maxFolders = max(maxFolders, f.Folders)
	}
	for _, f := range d.FolderAverages {
		v.Folders = append(v.Folders, folderRow{
			ServiceType: f.ServiceType,
			Hours:       format.Hours(f.Hours),
			Folders:     strconv.Itoa(f.Folders),
			Avg:         format.Hours(f.AvgHours),
			Pct:         format.Pct(f.FolderPct),
			Width:       barWidth(float64(f.Folders), float64(maxFolders)),
		})
	}

	var maxWeek float64
	for _, w := range d.Weekly {
		maxWeek = max(maxWeek, w.Hours)
	}
	for _, w := range d.Weekly {
		v.Weekly = append(v.Weekly, weekRow{
			Week:  format.Day(w.WeekEnd),
			Hours: format.Hours(w.Hours),
			Width: barWidth(w.Hours, maxWeek),
		})
	}

	v.EntriesTotal = len(d.Entries)
	for _, e := range d.Entries[:min(len(d.Entries), maxEntryRows)] {
		v.Entries = append(v.Entries, entryRow{
			Date:        format.Day(e.Date),
			Performer:   e.Performer,
			Area:        e.Area,
			Client:      e.Client,
			HourType:    e.HourType,
			ServiceType: e.ServiceType,
			Folder:      e.FolderID,
			Hours:       format.Hours(e.Duration),
			Billed:      format.BRL(e.Billed),
			Cost:        format.BRL(e.Cost),
		})
	}
	v.EntriesShown = len(v.Entries)
	return v
}

// bars scales every row against the largest hours value.
func bars(totals []core.CategoryTotal) []barRow {
	var top float64
	for _, t := range totals {
		top = max(top, t.Hours)
	}
	out := make([]barRow, 0, len(totals))
	for _, t := range totals {
		out = append(out, bar(t, top))
	}
	return out
}

func bar(t core.CategoryTotal, top float64) barRow {
	name := t.Name
	if name == "" {
		name = "(vazio)"
	}
	return barRow{
		Name:   name,
		Hours:  format.Hours(t.Hours),
		Billed: format.BRL(t.Billed),
		Cost:   format.BRL(t.Cost),
		Width:  barWidth(t.Hours, top),
	}
}
