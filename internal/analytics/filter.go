package analytics

import (
	"slices"
	"sort"

	"horas/internal/core"
)

// All is the selection sentinel meaning "do not restrict this field".
const All = "all"

// DateRange is an inclusive range of calendar dates. A zero bound is open.
type DateRange struct {
	From core.Date `json:"from"`
	To   core.Date `json:"to"`
}

// Contains reports whether d falls within the range.
func (r DateRange) Contains(d core.Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

// IsOpen reports whether neither bound is set.
func (r DateRange) IsOpen() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// FilterSpec holds the user selections applied to timesheet rows.
type FilterSpec struct {
	Dates     DateRange `json:"dates"`
	Area      string    `json:"area"`
	Performer string    `json:"performer"`
	HourType  string    `json:"hour_type"`
	Clients   []string  `json:"clients,omitempty"`
}

// DefaultFilterSpec restricts nothing.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{Area: All, Performer: All, HourType: All}
}

func selected(v string) bool {
	return v != "" && v != All
}

// IsDefault reports whether no predicate is active.
func (f FilterSpec) IsDefault() bool {
	return f.Dates.IsOpen() && !selected(f.Area) && !selected(f.Performer) &&
		!selected(f.HourType) && len(f.Clients) == 0
}

// Match reports whether e satisfies every active predicate.
func (f FilterSpec) Match(e core.TimeEntry) bool {
	if !f.Dates.Contains(e.Date) {
		return false
	}
	if selected(f.Area) && e.Area != f.Area {
		return false
	}
	if selected(f.Performer) && e.Performer != f.Performer {
		return false
	}
	if selected(f.HourType) && e.HourType != f.HourType {
		return false
	}
	if len(f.Clients) > 0 && !slices.Contains(f.Clients, e.Client) {
		return false
	}
	return true
}

// FilterEntries returns the entries matching spec in their original order.
// The input is never modified and the result never aliases it.
func FilterEntries(entries []core.TimeEntry, spec FilterSpec) []core.TimeEntry {
	out := make([]core.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if spec.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// NarrowSummary keeps the summary rows whose month anchor lies within r.
func NarrowSummary(summary []core.MonthlySummary, r DateRange) []core.MonthlySummary {
	out := make([]core.MonthlySummary, 0, len(summary))
	for _, s := range summary {
		if r.Contains(s.Month) {
			out = append(out, s)
		}
	}
	return out
}

// FilterOptions lists the selectable values for each control.
type FilterOptions struct {
	Areas      []string `json:"areas"`
	Performers []string `json:"performers"`
	HourTypes  []string `json:"hour_types"`
	Clients    []string `json:"clients"`
}

// Options computes the selectable values from the unfiltered entries.
// Performers depend on the selected area.
func Options(entries []core.TimeEntry, area string) FilterOptions {
	return FilterOptions{
		Areas:      distinct(entries, func(e core.TimeEntry) string { return e.Area }, nil),
		Performers: PerformerOptions(entries, area),
		HourTypes:  distinct(entries, func(e core.TimeEntry) string { return e.HourType }, nil),
		Clients:    distinct(entries, func(e core.TimeEntry) string { return e.Client }, nil),
	}
}

// PerformerOptions returns the performers appearing in rows of area, or every
// performer when area is unrestricted.
func PerformerOptions(entries []core.TimeEntry, area string) []string {
	var keep func(core.TimeEntry) bool
	if selected(area) {
		keep = func(e core.TimeEntry) bool { return e.Area == area }
	}
	return distinct(entries, func(e core.TimeEntry) string { return e.Performer }, keep)
}

func distinct(entries []core.TimeEntry, field func(core.TimeEntry) string, keep func(core.TimeEntry) bool) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, e := range entries {
		if keep != nil && !keep(e) {
			continue
		}
		v := field(e)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// SummaryBounds returns the first and last month anchors of summary.
func SummaryBounds(summary []core.MonthlySummary) DateRange {
	if len(summary) == 0 {
		return DateRange{}
	}
	return DateRange{From: summary[0].Month, To: summary[len(summary)-1].Month}
}
