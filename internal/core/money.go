// Package core provides money parsing and handling utilities.
//
// This file contains functions for coercing spreadsheet cells into amounts.
// Timesheet workbooks mix dot and comma decimal separators, currency symbols
// and blank cells; every measure degrades to zero instead of failing.
package core

import (
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseNumber converts a cell value to a decimal.
//
// Accepted forms include plain numbers, thousands separators and a currency prefix:
//
//	ParseNumber("1234.5")      -> 1234.5
//	ParseNumber("1.234,56")    -> 1234.56
//	ParseNumber("R$ 1,234.56") -> 1234.56
//	ParseNumber("12,5")        -> 12.5
//	ParseNumber("-3")          -> -3
func ParseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Scientific notation comes from float formatting of large cells.
	if strings.ContainsAny(s, "eE") {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, ErrInvalidAmount
		}
		return d, nil
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// The separator appearing last is the decimal one.
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseAmount is ParseNumber with the coercion rule applied: anything that is
// not a number counts as zero.
func ParseAmount(s string) decimal.Decimal {
	d, err := ParseNumber(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseHours coerces a duration cell to hours.
func ParseHours(s string) float64 {
	return ParseAmount(s).InexactFloat64()
}

// ZeroFloor returns d, or one when d is exactly zero. Percentages divide by
// the floored value so an empty month never divides by zero.
func ZeroFloor(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.NewFromInt(1)
	}
	return d
}

// PercentDiff returns (value - base) / ZeroFloor(divisor) * 100.
func PercentDiff(value, base, divisor decimal.Decimal) float64 {
	hundred := decimal.NewFromInt(100)
	return value.Sub(base).Div(ZeroFloor(divisor)).Mul(hundred).InexactFloat64()
}

// Share returns part as a percentage of total, zero when total is zero.
func Share(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
