package core

import "github.com/shopspring/decimal"

// MonthlySummary is one month of hours joined with the payments received.
type MonthlySummary struct {
	Month        Date            `json:"month"` // month-end anchor
	Hours        float64         `json:"total_hours"`
	Billed       decimal.Decimal `json:"total_billed"`
	Cost         decimal.Decimal `json:"total_cost"`
	Paid         decimal.Decimal `json:"total_paid"`
	PaidNext     decimal.Decimal `json:"total_paid_shifted"` // paid amount of the following row
	PaidVsBilled float64         `json:"pct_paid_vs_billed"`
	PaidVsCost   float64         `json:"pct_paid_vs_cost"`
	GrossMargin  float64         `json:"gross_margin_pct"`
}

// Totals are the headline sums of a set of entries.
type Totals struct {
	Hours  float64         `json:"hours"`
	Billed decimal.Decimal `json:"billed"`
	Cost   decimal.Decimal `json:"cost"`
}

// CategoryTotal represents measures aggregated by category name.
type CategoryTotal struct {
	Name   string          `json:"name"`
	Hours  float64         `json:"hours"`
	Billed decimal.Decimal `json:"billed"`
	Cost   decimal.Decimal `json:"cost"`
}

// CategoryShare is a CategoryTotal with its share of the overall totals.
type CategoryShare struct {
	CategoryTotal
	HoursPct  float64 `json:"hours_pct"`
	BilledPct float64 `json:"billed_pct"`
	CostPct   float64 `json:"cost_pct"`
}

// FolderAverage is the average hours spent per case/folder of a service type.
type FolderAverage struct {
	ServiceType string  `json:"service_type"`
	Hours       float64 `json:"hours"`
	Folders     int     `json:"folders"`
	AvgHours    float64 `json:"avg_hours"`
	FolderPct   float64 `json:"folder_pct"`
}

// WeeklyTotal is the hours of a week closing on Monday.
type WeeklyTotal struct {
	WeekEnd Date    `json:"week_end"`
	Hours   float64 `json:"hours"`
}
