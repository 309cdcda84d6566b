// Package analytics turns timesheet and payment rows into the monthly
// financial summary and the per-category breakdowns shown on the dashboard.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"horas/internal/core"
)

// Summarizer joins monthly hour buckets with monthly payment buckets.
//
// Payments of month M+1 are compared against the billing of month M: each row
// carries the paid amount of the following row. The shift assumes every month
// between the first and the last has hours; a month without hours has no row,
// so the payment of the month after the gap lands on the month before it.
type Summarizer struct {
	// KeepPaymentOnlyMonths adds zero-hour rows for months that only have
	// payments. When false those payments are dropped by the join.
	KeepPaymentOnlyMonths bool
}

type monthBucket struct {
	month  core.Date
	hours  float64
	billed decimal.Decimal
	cost   decimal.Decimal
	paid   decimal.Decimal
}

// SummarizeByMonth is Summarizer{}.Summarize.
func SummarizeByMonth(hours []core.TimeEntry, payments []core.PaymentEntry) ([]core.MonthlySummary, error) {
	return Summarizer{}.Summarize(hours, payments)
}

// Summarize returns one row per month present in hours, sorted by month.
// A missing date in either dataset aborts with *core.InvalidDateError.
// Empty hours yield an empty result together with core.ErrEmptyDataset.
func (s Summarizer) Summarize(hours []core.TimeEntry, payments []core.PaymentEntry) ([]core.MonthlySummary, error) {
	for i, e := range hours {
		if err := e.Validate(); err != nil {
			return nil, &core.InvalidDateError{Dataset: "hours", Row: i, Err: err}
		}
	}
	for i, p := range payments {
		if err := p.Validate(); err != nil {
			return nil, &core.InvalidDateError{Dataset: "payments", Row: i, Err: err}
		}
	}
	if len(hours) == 0 && !(s.KeepPaymentOnlyMonths && len(payments) > 0) {
		return []core.MonthlySummary{}, core.ErrEmptyDataset
	}

	buckets := make(map[core.Date]*monthBucket)
	bucket := func(d core.Date) *monthBucket {
		m := d.MonthEnd()
		b, ok := buckets[m]
		if !ok {
			b = &monthBucket{month: m}
			buckets[m] = b
		}
		return b
	}
	for _, e := range hours {
		b := bucket(e.Date)
		b.hours += e.Duration
		b.billed = b.billed.Add(e.Billed)
		b.cost = b.cost.Add(e.Cost)
	}

	paid := make(map[core.Date]decimal.Decimal)
	for _, p := range payments {
		m := p.Date.MonthEnd()
		paid[m] = paid[m].Add(p.Amount)
	}
	for m, amount := range paid {
		b, ok := buckets[m]
		if !ok {
			if !s.KeepPaymentOnlyMonths {
				continue
			}
			b = bucket(m)
		}
		b.paid = amount
	}

	ordered := make([]*monthBucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].month.Before(ordered[j].month) })

	out := make([]core.MonthlySummary, len(ordered))
	for i, b := range ordered {
		next := decimal.Zero
		if i+1 < len(ordered) {
			next = ordered[i+1].paid
		}
		out[i] = core.MonthlySummary{
			Month:        b.month,
			Hours:        b.hours,
			Billed:       b.billed,
			Cost:         b.cost,
			Paid:         b.paid,
			PaidNext:     next,
			PaidVsBilled: core.PercentDiff(next, b.billed, b.billed),
			PaidVsCost:   core.PercentDiff(next, b.cost, b.cost),
			GrossMargin:  core.PercentDiff(next, b.cost, next),
		}
	}
	return out, nil
}
