package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type (
	// Date is a calendar date at midnight UTC.
	Date struct {
		time.Time
	}

	// TimeEntry is one timesheet row.
	TimeEntry struct {
		Date            Date            `json:"date"`
		Duration        float64         `json:"duration"` // hours
		Billed          decimal.Decimal `json:"billed"`
		Cost            decimal.Decimal `json:"cost"`
		Area            string          `json:"area"`
		Performer       string          `json:"performer"`
		Client          string          `json:"client"`
		HourType        string          `json:"hour_type"`
		ServiceType     string          `json:"service_type"`
		ServiceTypeFine string          `json:"service_type_fine,omitempty"` // "tipo"
		FolderID        string          `json:"folder_id"`                   // case or folder the hours were booked against
	}

	// PaymentEntry is one payment row.
	PaymentEntry struct {
		Date   Date
		Amount decimal.Decimal
	}
)

var (
	// ErrEmptyDataset is a warning: the hours dataset had no rows, the result is empty.
	ErrEmptyDataset = errors.New("empty hours dataset")
	ErrMissingDate  = errors.New("missing date")
)

// InvalidDateError reports a row whose date is missing or cannot be parsed.
type InvalidDateError struct {
	Dataset string // "hours" or "payments"
	Row     int    // zero-based data row index
	Value   string
	Err     error
}

func (e *InvalidDateError) Error() string {
	var b strings.Builder
	b.WriteString("invalid date")
	if e.Dataset != "" {
		b.WriteString(" in ")
		b.WriteString(e.Dataset)
	}
	fmt.Fprintf(&b, " row %d", e.Row)
	if e.Value != "" {
		fmt.Fprintf(&b, " (%q)", e.Value)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *InvalidDateError) Unwrap() error { return e.Err }

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date, keeping the wall clock date of t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// MonthEnd returns the last day of d's month, the anchor used for monthly buckets.
func (d Date) MonthEnd() Date {
	y, m, _ := d.Date()
	return Date{Time: time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)}
}

// MonthStart returns the first day of d's month.
func (d Date) MonthStart() Date {
	y, m, _ := d.Date()
	return Date{Time: time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)}
}

// WeekEndingMonday returns the Monday closing the week d belongs to (d itself when d is a Monday).
func (d Date) WeekEndingMonday() Date {
	offset := (int(time.Monday) - int(d.Weekday()) + 7) % 7
	return Date{Time: d.AddDate(0, 0, offset)}
}

// Before and After compare calendar dates.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (e TimeEntry) Validate() error {
	return e.Date.Validate()
}

func (p PaymentEntry) Validate() error {
	return p.Date.Validate()
}
