package sheets

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horas/internal/core"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Área":                     "area",
		" Duração ":                "duracao",
		"Cobrança":                 "cobranca",
		"tipo hora":                "tipo_hora",
		"vinculo_processo_servico": "vinculo_processo_servico",
		"Data_Pag":                 "data_pag",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeHeader(in), in)
	}
}

func TestParseHours(t *testing.T) {
	g := Grid{
		{"data", "duracao", "cobranca", "custo", "área", "executante", "cliente", "tipo_hora", "tipo", "vinculo_processo_servico"},
		{"45306", "10", "1000", "400", "Tax", "Ana", "X", "Serviço", "Consultivo", "123.0"},
		{"", "", "", "", "", "", "", "", "", ""},
		{"10/02/2024", "5,5", "1.234,56", "n/a", "Tax", "Ana", "Y", "Interno", "Contencioso", "abc"},
		{"2024-03-01 00:00:00", "", "", "", "Labor", "Bruno", "Z", "Processo", "Consultivo"},
	}
	got, err := ParseHours(g)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, core.NewDate(2024, 1, 15), got[0].Date)
	assert.Equal(t, 10.0, got[0].Duration)
	assert.True(t, got[0].Billed.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "Tax", got[0].Area)
	assert.Equal(t, "123", got[0].FolderID)
	// no service type column: falls back to tipo
	assert.Equal(t, "Consultivo", got[0].ServiceType)
	assert.Equal(t, "Consultivo", got[0].ServiceTypeFine)

	assert.Equal(t, core.NewDate(2024, 2, 10), got[1].Date)
	assert.Equal(t, 5.5, got[1].Duration)
	assert.True(t, got[1].Billed.Equal(decimal.RequireFromString("1234.56")))
	assert.True(t, got[1].Cost.IsZero())
	assert.Equal(t, "abc", got[1].FolderID)

	assert.Equal(t, core.NewDate(2024, 3, 1), got[2].Date)
	assert.Equal(t, 0.0, got[2].Duration)
	assert.Equal(t, "", got[2].FolderID)
}

func TestParseHoursServiceTypeColumn(t *testing.T) {
	g := Grid{
		{"data", "duracao", "tipo", "tipo_servico"},
		{"2024-01-02", "1", "Parecer", "Consultivo"},
	}
	got, err := ParseHours(g)
	require.NoError(t, err)
	assert.Equal(t, "Consultivo", got[0].ServiceType)
	assert.Equal(t, "Parecer", got[0].ServiceTypeFine)
}

func TestParseHoursInvalidDate(t *testing.T) {
	g := Grid{
		{"data", "duracao"},
		{"2024-01-02", "1"},
		{"32/13/2024", "1"},
	}
	_, err := ParseHours(g)
	var ide *core.InvalidDateError
	require.ErrorAs(t, err, &ide)
	assert.Equal(t, DatasetHours, ide.Dataset)
	assert.Equal(t, 1, ide.Row)
	assert.Equal(t, "32/13/2024", ide.Value)

	_, err = ParseHours(Grid{{"data", "duracao"}, {"", "3"}})
	assert.ErrorIs(t, err, core.ErrMissingDate)
}

func TestParseHoursMissingColumn(t *testing.T) {
	_, err := ParseHours(Grid{{"data", "cliente"}, {"2024-01-02", "X"}})
	var mce *MissingColumnError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, "duracao", mce.Column)

	got, err := ParseHours(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParsePayments(t *testing.T) {
	g := Grid{
		{"Data_Pag", "Valor_Pag"},
		{"2024-02-05", "1000"},
		{"05/03/2024", "R$ 2.500,00"},
	}
	got, err := ParsePayments(g)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, core.NewDate(2024, 2, 5), got[0].Date)
	assert.True(t, got[1].Amount.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, core.NewDate(2024, 3, 5), got[1].Date)

	_, err = ParsePayments(Grid{{"valor_pag"}})
	var mce *MissingColumnError
	assert.ErrorAs(t, err, &mce)
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "123", NormalizeID("123.0"))
	assert.Equal(t, "123", NormalizeID(" 123 "))
	assert.Equal(t, "007", NormalizeID("007"))
	assert.Equal(t, "1.5", NormalizeID("1.5"))
	assert.Equal(t, "P-1.0", NormalizeID("P-1.0"))
}
