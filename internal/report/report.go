// Package report writes dashboard views as plain-text tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"horas/internal/analytics"
	"horas/internal/core"
	"horas/internal/format"
)

// Breakdown dimensions accepted by WriteBreakdown.
const (
	ByArea        = "area"
	ByPerformer   = "performer"
	ByClient      = "client"
	ByHourType    = "hour_type"
	ByServiceType = "service_type"
	ByFolder      = "folder"
	ByWeek        = "week"
)

// Dimensions lists the breakdowns in display order.
var Dimensions = []string{ByArea, ByPerformer, ByClient, ByHourType, ByServiceType, ByFolder, ByWeek}

// UnknownDimensionError reports a breakdown name outside Dimensions.
type UnknownDimensionError struct {
	Name string
}

func (e *UnknownDimensionError) Error() string {
	return fmt.Sprintf("unknown breakdown %q: must be one of %s", e.Name, strings.Join(Dimensions, ", "))
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

func row(tw *tabwriter.Writer, cells ...string) {
	fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
}

// WriteTotals writes the headline figures of d.
func WriteTotals(w io.Writer, d *analytics.Dashboard) error {
	tw := newTable(w)
	row(tw, "Horas", format.Hours(d.Totals.Hours))
	row(tw, "Faturado", format.BRL(d.Totals.Billed))
	row(tw, "Custo", format.BRL(d.Totals.Cost))
	for _, ht := range d.HourTypes {
		row(tw, "Horas "+ht.HourType, format.Hours(ht.Hours))
	}
	return tw.Flush()
}

// WriteSummary writes the monthly summary of d, one month per line.
func WriteSummary(w io.Writer, d *analytics.Dashboard) error {
	tw := newTable(w)
	row(tw, "Mês", "Horas", "Faturado", "Custo", "Pago", "Pago (seguinte)", "% pago/fat.", "% pago/custo", "Margem")
	for _, s := range d.Summary {
		row(tw,
			format.Month(s.Month),
			format.Hours(s.Hours),
			format.BRL(s.Billed),
			format.BRL(s.Cost),
			format.BRL(s.Paid),
			format.BRL(s.PaidNext),
			format.Pct(s.PaidVsBilled),
			format.Pct(s.PaidVsCost),
			format.Pct(s.GrossMargin),
		)
	}
	return tw.Flush()
}

// WriteBreakdown writes one breakdown of d, named by one of Dimensions.
func WriteBreakdown(w io.Writer, d *analytics.Dashboard, dimension string) error {
	tw := newTable(w)
	switch dimension {
	case ByArea:
		categories(tw, "Área", d.ByArea)
	case ByPerformer:
		categories(tw, "Executante", d.ByPerformer)
	case ByClient:
		categories(tw, "Cliente", d.ByClient)
	case ByHourType:
		categories(tw, "Tipo de hora", d.ByHourType)
	case ByServiceType:
		row(tw, "Tipo de serviço", "Horas", "%", "Faturado", "%", "Custo", "%")
		for _, s := range d.ServiceTypes {
			row(tw, name(s.Name), format.Hours(s.Hours), format.Pct(s.HoursPct),
				format.BRL(s.Billed), format.Pct(s.BilledPct), format.BRL(s.Cost), format.Pct(s.CostPct))
		}
	case ByFolder:
		row(tw, "Tipo de serviço", "Pastas", "% pastas", "Horas", "Média")
		for _, f := range d.FolderAverages {
			row(tw, name(f.ServiceType), strconv.Itoa(f.Folders), format.Pct(f.FolderPct),
				format.Hours(f.Hours), format.Hours(f.AvgHours))
		}
	case ByWeek:
		row(tw, "Semana até", "Horas")
		for _, wk := range d.Weekly {
			row(tw, format.Day(wk.WeekEnd), format.Hours(wk.Hours))
		}
	default:
		return &UnknownDimensionError{Name: dimension}
	}
	return tw.Flush()
}

func categories(tw *tabwriter.Writer, label string, totals []core.CategoryTotal) {
	row(tw, label, "Horas", "Faturado", "Custo")
	for _, t := range totals {
		row(tw, name(t.Name), format.Hours(t.Hours), format.BRL(t.Billed), format.BRL(t.Cost))
	}
}

func name(s string) string {
	if s == "" {
		return "(vazio)"
	}
	return s
}
