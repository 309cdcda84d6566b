package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horas/internal/core"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func scenarioHours() []core.TimeEntry {
	return []core.TimeEntry{
		{Date: core.NewDate(2024, 1, 15), Duration: 10, Billed: dec(1000), Cost: dec(400), Area: "Tax", Performer: "Ana", Client: "X", HourType: "Service"},
		{Date: core.NewDate(2024, 2, 10), Duration: 5, Billed: dec(500), Cost: dec(200), Area: "Tax", Performer: "Ana", Client: "Y", HourType: "Internal"},
	}
}

func scenarioPayments() []core.PaymentEntry {
	return []core.PaymentEntry{{Date: core.NewDate(2024, 2, 5), Amount: dec(1000)}}
}

func TestSummarizeByMonthScenario(t *testing.T) {
	got, err := SummarizeByMonth(scenarioHours(), scenarioPayments())
	require.NoError(t, err)
	require.Len(t, got, 2)

	jan, feb := got[0], got[1]
	assert.Equal(t, core.NewDate(2024, 1, 31), jan.Month)
	assert.Equal(t, 10.0, jan.Hours)
	assert.True(t, jan.Billed.Equal(dec(1000)))
	assert.True(t, jan.Cost.Equal(dec(400)))
	assert.True(t, jan.Paid.IsZero())
	assert.True(t, jan.PaidNext.Equal(dec(1000)))
	assert.InDelta(t, 0.0, jan.PaidVsBilled, 1e-9)
	assert.InDelta(t, 150.0, jan.PaidVsCost, 1e-9)
	assert.InDelta(t, 60.0, jan.GrossMargin, 1e-9)

	assert.Equal(t, core.NewDate(2024, 2, 29), feb.Month)
	assert.Equal(t, 5.0, feb.Hours)
	assert.True(t, feb.Paid.Equal(dec(1000)))
	assert.True(t, feb.PaidNext.IsZero())
	assert.InDelta(t, -100.0, feb.PaidVsBilled, 1e-9)
	assert.InDelta(t, -100.0, feb.PaidVsCost, 1e-9)
	// shifted paid is zero, floored to one
	assert.InDelta(t, -20000.0, feb.GrossMargin, 1e-9)
}

func TestSummarizeOneRowPerMonthSorted(t *testing.T) {
	hours := []core.TimeEntry{
		{Date: core.NewDate(2024, 3, 2), Duration: 1},
		{Date: core.NewDate(2023, 12, 31), Duration: 2},
		{Date: core.NewDate(2024, 3, 30), Duration: 3},
		{Date: core.NewDate(2024, 1, 1), Duration: 4},
		{Date: core.NewDate(2023, 12, 1), Duration: 5},
	}
	got, err := SummarizeByMonth(hours, nil)
	require.NoError(t, err)

	months := make([]core.Date, len(got))
	for i, s := range got {
		months[i] = s.Month
	}
	assert.Equal(t, []core.Date{
		core.NewDate(2023, 12, 31),
		core.NewDate(2024, 1, 31),
		core.NewDate(2024, 3, 31),
	}, months)
	assert.Equal(t, []float64{7, 4, 4}, []float64{got[0].Hours, got[1].Hours, got[2].Hours})
	assert.True(t, got[len(got)-1].PaidNext.IsZero())
}

func TestSummarizeOrderIndependent(t *testing.T) {
	hours := scenarioHours()
	reversed := []core.TimeEntry{hours[1], hours[0]}

	a, err := SummarizeByMonth(hours, scenarioPayments())
	require.NoError(t, err)
	b, err := SummarizeByMonth(reversed, scenarioPayments())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSummarizeZeroFloor(t *testing.T) {
	hours := []core.TimeEntry{
		{Date: core.NewDate(2024, 5, 3), Duration: 2},
		{Date: core.NewDate(2024, 6, 3), Duration: 2},
	}
	payments := []core.PaymentEntry{{Date: core.NewDate(2024, 6, 20), Amount: dec(250)}}

	got, err := SummarizeByMonth(hours, payments)
	require.NoError(t, err)
	for _, row := range got {
		if row.Billed.IsZero() {
			assert.InDelta(t, row.PaidNext.InexactFloat64()*100, row.PaidVsBilled, 1e-9, row.Month.String())
		}
	}
	assert.InDelta(t, 25000.0, got[0].PaidVsBilled, 1e-9)
}

func TestSummarizeDropsPaymentOnlyMonths(t *testing.T) {
	payments := append(scenarioPayments(), core.PaymentEntry{Date: core.NewDate(2024, 4, 10), Amount: dec(300)})

	got, err := SummarizeByMonth(scenarioHours(), payments)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	kept, err := Summarizer{KeepPaymentOnlyMonths: true}.Summarize(scenarioHours(), payments)
	require.NoError(t, err)
	require.Len(t, kept, 3)
	assert.Equal(t, core.NewDate(2024, 4, 30), kept[2].Month)
	assert.Equal(t, 0.0, kept[2].Hours)
	assert.True(t, kept[2].Paid.Equal(dec(300)))
	// February now sees the April payment as the next row's
	assert.True(t, kept[1].PaidNext.Equal(dec(300)))
}

func TestSummarizeEmptyHours(t *testing.T) {
	got, err := SummarizeByMonth(nil, scenarioPayments())
	assert.ErrorIs(t, err, core.ErrEmptyDataset)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = Summarizer{KeepPaymentOnlyMonths: true}.Summarize(nil, scenarioPayments())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSummarizeInvalidDate(t *testing.T) {
	hours := append(scenarioHours(), core.TimeEntry{Duration: 1})
	_, err := SummarizeByMonth(hours, nil)

	var ide *core.InvalidDateError
	require.ErrorAs(t, err, &ide)
	assert.Equal(t, "hours", ide.Dataset)
	assert.Equal(t, 2, ide.Row)
	assert.ErrorIs(t, err, core.ErrMissingDate)

	_, err = SummarizeByMonth(scenarioHours(), []core.PaymentEntry{{Amount: dec(1)}})
	require.ErrorAs(t, err, &ide)
	assert.Equal(t, "payments", ide.Dataset)
}
