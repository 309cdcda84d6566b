package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"

	"horas/internal/core"
)

func fakeGoogle(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v4/spreadsheets/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		path := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/")
		switch {
		case path == "pay-id":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"sheets": []any{map[string]any{"properties": map[string]any{"title": "Pagamentos"}}},
			})
		case path == "hours-id/values/'horas_resolv'":
			assert.Equal(t, "UNFORMATTED_VALUE", r.URL.Query().Get("valueRenderOption"))
			assert.Equal(t, "SERIAL_NUMBER", r.URL.Query().Get("dateTimeRenderOption"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"range": "horas_resolv!A1:J3",
				"values": [][]any{
					{"data", "duracao", "cobranca", "custo", "área", "executante", "cliente", "tipo_hora", "tipo", "vinculo_processo_servico"},
					{45306, 10, 1000.5, 400, "Tax", "Ana", "X", "Serviço", "Consultivo", 123},
					{"10/02/2024", 5, 500, 200, "Tax", "Ana", "Y", "Interno", "Contencioso", "A-9"},
				},
			})
		case path == "pay-id/values/'Pagamentos'":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"values": [][]any{{"data_pag", "valor_pag"}, {45327, 1000}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found."}}`))
		}
	})
	mux.HandleFunc("/drive/v3/files/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("alt") != "media" {
			http.Error(w, "metadata not served", http.StatusBadRequest)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/file-1") {
			_, _ = w.Write([]byte("xlsx-bytes"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"File not found"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testOptions(endpoint string) []goption.ClientOption {
	return []goption.ClientOption{goption.WithEndpoint(endpoint), goption.WithoutAuthentication()}
}

func TestSheetsReader(t *testing.T) {
	srv := fakeGoogle(t)
	ctx := context.Background()
	r, err := NewSheetsReader(ctx, Credentials{},
		Range{SpreadsheetID: "hours-id", Sheet: "horas_resolv"},
		Range{SpreadsheetID: "pay-id"},
		testOptions(srv.URL+"/")...)
	require.NoError(t, err)

	hours, err := r.ReadHours(ctx)
	require.NoError(t, err)
	require.Len(t, hours, 2)
	assert.Equal(t, core.NewDate(2024, 1, 15), hours[0].Date)
	assert.Equal(t, "1000.5", hours[0].Billed.String())
	assert.Equal(t, "123", hours[0].FolderID)
	assert.Equal(t, core.NewDate(2024, 2, 10), hours[1].Date)

	pays, err := r.ReadPayments(ctx)
	require.NoError(t, err)
	require.Len(t, pays, 1)
	assert.Equal(t, core.NewDate(2024, 2, 5), pays[0].Date)
}

func TestSheetsReaderNotFound(t *testing.T) {
	srv := fakeGoogle(t)
	r, err := NewSheetsReader(context.Background(), Credentials{},
		Range{SpreadsheetID: "other", Sheet: "x"}, Range{SpreadsheetID: "other", Sheet: "y"},
		testOptions(srv.URL+"/")...)
	require.NoError(t, err)
	_, err = r.ReadHours(context.Background())
	assert.ErrorContains(t, err, "read 'x'")
}

func TestDriveFetcher(t *testing.T) {
	srv := fakeGoogle(t)
	f, err := NewDriveFetcher(context.Background(), Credentials{}, testOptions(srv.URL+"/drive/v3/")...)
	require.NoError(t, err)

	data, err := f.Fetch(context.Background(), "file-1")
	require.NoError(t, err)
	assert.Equal(t, "xlsx-bytes", string(data))

	_, err = f.Fetch(context.Background(), "missing")
	assert.Error(t, err)
}

func TestCredentialsLoad(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := Credentials{}.load(context.Background())
	assert.ErrorContains(t, err, "missing service account credentials")

	data, err := Credentials{JSON: ` {"type":"service_account"} `}.load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"type":"service_account"}`, string(data))

	_, err = Credentials{File: "/nonexistent/key.json"}.load(context.Background())
	assert.ErrorContains(t, err, "read service account file")

	_, err = NewSheetsReader(context.Background(), Credentials{}, Range{}, Range{})
	assert.ErrorContains(t, err, "missing spreadsheet id")
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "45306", cellString(45306.0))
	assert.Equal(t, "1000.5", cellString(1000.5))
	assert.Equal(t, "", cellString(nil))
	assert.Equal(t, "x", cellString(" x "))
	assert.Equal(t, "true", cellString(true))
	assert.Equal(t, "'it''s'", quoteSheet("it's"))
}
