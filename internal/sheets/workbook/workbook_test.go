package workbook

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"horas/internal/core"
)

type staticFetcher map[string][]byte

func (s staticFetcher) Fetch(_ context.Context, id string) ([]byte, error) {
	data, ok := s[id]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func buildWorkbook(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReaderReadsBothDatasets(t *testing.T) {
	hours := buildWorkbook(t, "horas_resolv", [][]any{
		{"data", "duracao", "cobranca", "custo", "área", "executante", "cliente", "tipo_hora", "tipo", "vinculo_processo_servico"},
		{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 10, 1000.5, 400, "Tax", "Ana", "X", "Serviço", "Consultivo", 123},
		{"2024-02-10", 5, 500, 200, "Tax", "Ana", "Y", "Interno", "Contencioso", "A-9"},
	})
	payments := buildWorkbook(t, "Sheet1", [][]any{
		{"data_pag", "valor_pag"},
		{"2024-02-05", 1000},
	})
	r := NewReader(staticFetcher{"h": hours, "p": payments},
		Source{FileID: "h", Sheet: "horas_resolv"}, Source{FileID: "p"})

	got, err := r.ReadHours(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, core.NewDate(2024, 1, 15), got[0].Date)
	assert.Equal(t, 10.0, got[0].Duration)
	assert.True(t, got[0].Billed.Equal(decimal.RequireFromString("1000.5")))
	assert.Equal(t, "Tax", got[0].Area)
	assert.Equal(t, "123", got[0].FolderID)
	assert.Equal(t, "A-9", got[1].FolderID)

	pays, err := r.ReadPayments(context.Background())
	require.NoError(t, err)
	require.Len(t, pays, 1)
	assert.Equal(t, core.NewDate(2024, 2, 5), pays[0].Date)
}

func TestDecodeUnknownSheet(t *testing.T) {
	data := buildWorkbook(t, "Sheet1", [][]any{{"data"}})
	_, err := Decode(data, "horas_resolv")
	assert.ErrorContains(t, err, "horas_resolv")

	_, err = Decode([]byte("not a zip"), "")
	assert.Error(t, err)
}

func TestReaderFetchError(t *testing.T) {
	r := NewReader(staticFetcher{}, Source{FileID: "missing"}, Source{FileID: "missing"})
	_, err := r.ReadHours(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDirFetcher(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "horas.xlsx"), []byte("x"), 0o644))

	data, err := DirFetcher{Dir: dir}.Fetch(context.Background(), "horas.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)

	// ids never escape the directory
	data, err = DirFetcher{Dir: dir}.Fetch(context.Background(), "../horas.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
	_, err = DirFetcher{Dir: dir}.Fetch(context.Background(), "pagamentos.xlsx")
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = DirFetcher{Dir: dir}.Fetch(context.Background(), "")
	assert.Error(t, err)
}
