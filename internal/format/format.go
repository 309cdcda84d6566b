// Package format renders amounts, hours and dates the way the dashboard
// shows them: Brazilian reais and pt-BR number separators.
package format

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"horas/internal/core"
)

// CurrencyCode is the currency of every amount in the source workbooks.
const CurrencyCode = "BRL"

// Missing stands in for a ratio without a defined value.
const Missing = "–"

var numbers = message.NewPrinter(language.BrazilianPortuguese)

// BRL renders an amount as Brazilian reais, e.g. "R$1.234,56".
func BRL(d decimal.Decimal) string {
	cents := d.Round(2).Shift(2).IntPart()
	return money.New(cents, CurrencyCode).Display()
}

// Hours renders hours with one decimal, e.g. "1.234,5".
func Hours(h float64) string {
	return numbers.Sprintf("%.1f", h)
}

// Pct renders a percentage with one decimal.
func Pct(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return Missing
	}
	return numbers.Sprintf("%.1f%%", p)
}

// Month renders a month anchor as MM/YYYY.
func Month(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("01/2006")
}

// Day renders a date as DD/MM/YYYY.
func Day(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02/01/2006")
}
