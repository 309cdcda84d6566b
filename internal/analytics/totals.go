package analytics

import (
	"horas/internal/core"
)

// DefaultHourTypes are the hour types shown as headline metrics.
var DefaultHourTypes = []string{"Serviço", "Interno", "Processo"}

// ComputeTotals sums every measure of entries.
func ComputeTotals(entries []core.TimeEntry) core.Totals {
	var t core.Totals
	for _, e := range entries {
		t.Hours += e.Duration
		t.Billed = t.Billed.Add(e.Billed)
		t.Cost = t.Cost.Add(e.Cost)
	}
	return t
}

// HourTypeTotal is the hours booked under one hour type.
type HourTypeTotal struct {
	HourType string  `json:"hour_type"`
	Hours    float64 `json:"hours"`
}

// HourTypeTotals returns the hours of each requested type, zero when absent,
// in the order requested.
func HourTypeTotals(entries []core.TimeEntry, types []string) []HourTypeTotal {
	sums := make(map[string]float64)
	for _, e := range entries {
		sums[e.HourType] += e.Duration
	}
	out := make([]HourTypeTotal, len(types))
	for i, t := range types {
		out[i] = HourTypeTotal{HourType: t, Hours: sums[t]}
	}
	return out
}

// WeeklyHours buckets entries into weeks closing on Monday. Weeks between the
// first and the last bucket without any entry are reported with zero hours.
func WeeklyHours(entries []core.TimeEntry) []core.WeeklyTotal {
	if len(entries) == 0 {
		return []core.WeeklyTotal{}
	}
	sums := make(map[core.Date]float64)
	first, last := core.Date{}, core.Date{}
	for _, e := range entries {
		w := e.Date.WeekEndingMonday()
		sums[w] += e.Duration
		if first.IsZero() || w.Before(first) {
			first = w
		}
		if last.IsZero() || w.After(last) {
			last = w
		}
	}

	var out []core.WeeklyTotal
	for w := first; !w.After(last); w = (core.Date{Time: w.AddDate(0, 0, 7)}) {
		out = append(out, core.WeeklyTotal{WeekEnd: w, Hours: sums[w]})
	}
	return out
}
