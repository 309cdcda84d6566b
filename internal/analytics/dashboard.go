package analytics

import (
	"errors"
	"fmt"

	"horas/internal/core"
)

// BuildOptions tune BuildDashboard.
type BuildOptions struct {
	KeepPaymentOnlyMonths bool
	HourTypes             []string // headline hour types, DefaultHourTypes when empty
}

// Dashboard is every view of one render.
type Dashboard struct {
	Filters FilterSpec    `json:"filters"`
	Options FilterOptions `json:"options"`
	Bounds  DateRange     `json:"bounds"`

	Totals    core.Totals           `json:"totals"`
	HourTypes []HourTypeTotal       `json:"hour_types"`
	Summary   []core.MonthlySummary `json:"summary"`

	ByArea         []core.CategoryTotal `json:"by_area"`
	ByPerformer    []core.CategoryTotal `json:"by_performer"`
	ByClient       []core.CategoryTotal `json:"by_client"`
	ByHourType     []core.CategoryTotal `json:"by_hour_type"`
	ServiceTypes   []core.CategoryShare `json:"service_types"`
	FolderAverages []core.FolderAverage `json:"folder_averages"`
	Weekly         []core.WeeklyTotal   `json:"weekly"`

	// Entries are the filtered rows in source order.
	Entries  []core.TimeEntry `json:"entries"`
	Warnings []string         `json:"warnings,omitempty"`
}

// IsEmpty reports whether no entry matched the filters.
func (d *Dashboard) IsEmpty() bool {
	return len(d.Entries) == 0
}

// BuildDashboard summarizes the full datasets, narrows the summary to the
// filtered date range and computes the breakdowns of the filtered entries.
// An empty hours dataset is not an error: the dashboard carries a warning.
func BuildDashboard(hours []core.TimeEntry, payments []core.PaymentEntry, spec FilterSpec, opts BuildOptions) (*Dashboard, error) {
	d := &Dashboard{Filters: spec}

	summary, err := Summarizer{KeepPaymentOnlyMonths: opts.KeepPaymentOnlyMonths}.Summarize(hours, payments)
	switch {
	case errors.Is(err, core.ErrEmptyDataset):
		d.Warnings = append(d.Warnings, err.Error())
	case err != nil:
		return nil, fmt.Errorf("summarize: %w", err)
	}

	types := opts.HourTypes
	if len(types) == 0 {
		types = DefaultHourTypes
	}

	filtered := FilterEntries(hours, spec)

	d.Options = Options(hours, spec.Area)
	d.Bounds = SummaryBounds(summary)
	d.Totals = ComputeTotals(filtered)
	d.HourTypes = HourTypeTotals(filtered, types)
	d.Summary = NarrowSummary(summary, spec.Dates)
	d.ByArea = HoursByArea(filtered)
	d.ByPerformer = HoursByPerformer(filtered)
	d.ByClient = HoursByClient(filtered)
	d.ByHourType = HoursByHourType(filtered)
	d.ServiceTypes = ServiceTypeBreakdown(filtered)
	d.FolderAverages = FolderAverages(filtered)
	d.Weekly = WeeklyHours(filtered)
	d.Entries = filtered
	return d, nil
}
