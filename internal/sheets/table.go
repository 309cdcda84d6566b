package sheets

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"horas/internal/core"
)

// Grid is a worksheet as rows of cell text, header first.
type Grid [][]string

// MissingColumnError reports a header the dataset cannot be read without.
type MissingColumnError struct {
	Dataset string
	Column  string
	Headers []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s sheet: missing column %q; got headers=%v", e.Dataset, e.Column, e.Headers)
}

// Column keys after normalization, with accepted aliases.
var (
	hoursColumns = map[string][]string{
		"date":         {"data", "date"},
		"duration":     {"duracao", "duration", "horas"},
		"billed":       {"cobranca", "billed"},
		"cost":         {"custo", "cost"},
		"area":         {"area"},
		"performer":    {"executante", "performer"},
		"client":       {"cliente", "client"},
		"hour_type":    {"tipo_hora", "hour_type"},
		"service_type": {"tipo_servico", "servico", "service_type"},
		"tipo":         {"tipo", "service_type_fine"},
		"folder":       {"vinculo_processo_servico", "pasta", "folder"},
	}
	paymentColumns = map[string][]string{
		"date":   {"data_pag", "data", "date"},
		"amount": {"valor_pag", "valor", "amount"},
	}
)

var headerFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeHeader lower-cases a header and strips accents, so "Área" and
// "area" name the same column. Inner spaces become underscores.
func NormalizeHeader(h string) string {
	s, _, err := transform.String(headerFolder, strings.TrimSpace(h))
	if err != nil {
		s = strings.TrimSpace(h)
	}
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), "_")
}

type columns map[string]int

func locate(dataset string, header []string, wanted map[string][]string, required ...string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		n := NormalizeHeader(h)
		if _, dup := index[n]; !dup {
			index[n] = i
		}
	}
	cols := make(columns, len(wanted))
	for key, aliases := range wanted {
		for _, a := range aliases {
			if i, ok := index[a]; ok {
				cols[key] = i
				break
			}
		}
	}
	for _, key := range required {
		if _, ok := cols[key]; !ok {
			return nil, &MissingColumnError{Dataset: dataset, Column: wanted[key][0], Headers: header}
		}
	}
	return cols, nil
}

func (c columns) get(row []string, key string) string {
	i, ok := c[key]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ParseHours converts a timesheet grid into entries. Fully blank rows are
// skipped; a row with a missing or unparseable date fails the whole sheet.
func ParseHours(g Grid) ([]core.TimeEntry, error) {
	if len(g) == 0 {
		return []core.TimeEntry{}, nil
	}
	cols, err := locate(DatasetHours, g[0], hoursColumns, "date", "duration")
	if err != nil {
		return nil, err
	}
	_, hasServiceType := cols["service_type"]

	out := make([]core.TimeEntry, 0, len(g)-1)
	for i, row := range g[1:] {
		if blank(row) {
			continue
		}
		raw := cols.get(row, "date")
		d, err := ParseCellDate(raw)
		if err != nil {
			return nil, &core.InvalidDateError{Dataset: DatasetHours, Row: i, Value: raw, Err: err}
		}
		e := core.TimeEntry{
			Date:            d,
			Duration:        core.ParseHours(cols.get(row, "duration")),
			Billed:          core.ParseAmount(cols.get(row, "billed")),
			Cost:            core.ParseAmount(cols.get(row, "cost")),
			Area:            cols.get(row, "area"),
			Performer:       cols.get(row, "performer"),
			Client:          cols.get(row, "client"),
			HourType:        cols.get(row, "hour_type"),
			ServiceTypeFine: cols.get(row, "tipo"),
			FolderID:        NormalizeID(cols.get(row, "folder")),
		}
		if hasServiceType {
			e.ServiceType = cols.get(row, "service_type")
		} else {
			e.ServiceType = e.ServiceTypeFine
		}
		out = append(out, e)
	}
	return out, nil
}

// ParsePayments converts a payments grid into entries.
func ParsePayments(g Grid) ([]core.PaymentEntry, error) {
	if len(g) == 0 {
		return []core.PaymentEntry{}, nil
	}
	cols, err := locate(DatasetPayments, g[0], paymentColumns, "date", "amount")
	if err != nil {
		return nil, err
	}
	out := make([]core.PaymentEntry, 0, len(g)-1)
	for i, row := range g[1:] {
		if blank(row) {
			continue
		}
		raw := cols.get(row, "date")
		d, err := ParseCellDate(raw)
		if err != nil {
			return nil, &core.InvalidDateError{Dataset: DatasetPayments, Row: i, Value: raw, Err: err}
		}
		out = append(out, core.PaymentEntry{Date: d, Amount: core.ParseAmount(cols.get(row, "amount"))})
	}
	return out, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02/01/2006 15:04:05",
	"2/1/2006",
	"02-01-2006",
}

// ParseCellDate reads a date cell: ISO dates and datetimes, day-first
// dd/mm/yyyy, or an Excel serial day number.
func ParseCellDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.Date{}, core.ErrMissingDate
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return core.Date{}, core.ErrMissingDate
		}
		t, err := excelize.ExcelDateToTime(f, false)
		if err != nil {
			return core.Date{}, err
		}
		return core.DateOf(t), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.DateOf(t), nil
		}
	}
	return core.Date{}, errors.New("unrecognized date format")
}

// NormalizeID renders folder ids read as numbers ("123.0") the same as text ("123").
func NormalizeID(s string) string {
	s = strings.TrimSpace(s)
	if digits, ok := strings.CutSuffix(s, ".0"); ok && digits != "" && strings.Trim(digits, "0123456789") == "" {
		return digits
	}
	return s
}
