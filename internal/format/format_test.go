package format

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"horas/internal/core"
)

func TestBRL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "R$0,00"},
		{"1000", "R$1.000,00"},
		{"1234.565", "R$1.234,57"},
		{"-50.5", "-R$50,50"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, BRL(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestNumbers(t *testing.T) {
	assert.Equal(t, "1.234,5", Hours(1234.5))
	assert.Equal(t, "0,0", Hours(0))
	assert.Equal(t, "66,7%", Pct(200.0/3))
	assert.Equal(t, Missing, Pct(math.NaN()))
	assert.Equal(t, Missing, Pct(math.Inf(1)))
}

func TestDates(t *testing.T) {
	d := core.NewDate(2024, 3, 31)
	assert.Equal(t, "03/2024", Month(d))
	assert.Equal(t, "31/03/2024", Day(d))
	assert.Empty(t, Month(core.Date{}))
	assert.Empty(t, Day(core.Date{}))
}
