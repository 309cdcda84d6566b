package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horas/internal/analytics"
	"horas/internal/core"
)

func TestParseFilterSpec(t *testing.T) {
	base := analytics.FilterSpec{
		Area: "Tax", Performer: "Ana", HourType: analytics.All,
		Clients: []string{"X"},
	}

	tests := []struct {
		name  string
		query url.Values
		want  analytics.FilterSpec
	}{
		{
			name:  "no parameters keep the base",
			query: url.Values{},
			want:  base,
		},
		{
			name:  "iso dates",
			query: url.Values{"from": {"2024-01-10"}, "to": {"2024-02-20"}},
			want: analytics.FilterSpec{
				Dates: analytics.DateRange{From: core.NewDate(2024, 1, 10), To: core.NewDate(2024, 2, 20)},
				Area:  "Tax", Performer: "Ana", HourType: analytics.All, Clients: []string{"X"},
			},
		},
		{
			name:  "months expand to full months",
			query: url.Values{"from": {"2024-01"}, "to": {"2024-02"}},
			want: analytics.FilterSpec{
				Dates: analytics.DateRange{From: core.NewDate(2024, 1, 1), To: core.NewDate(2024, 2, 29)},
				Area:  "Tax", Performer: "Ana", HourType: analytics.All, Clients: []string{"X"},
			},
		},
		{
			name:  "area change resets performer",
			query: url.Values{"area": {"Labor"}},
			want:  analytics.FilterSpec{Area: "Labor", Performer: analytics.All, HourType: analytics.All, Clients: []string{"X"}},
		},
		{
			name:  "area change with performer",
			query: url.Values{"area": {"Labor"}, "performer": {"Bruno"}},
			want:  analytics.FilterSpec{Area: "Labor", Performer: "Bruno", HourType: analytics.All, Clients: []string{"X"}},
		},
		{
			name:  "empty values lift restrictions",
			query: url.Values{"area": {""}, "hour_type": {" "}, "from": {""}},
			want:  analytics.FilterSpec{Area: analytics.All, Performer: analytics.All, HourType: analytics.All, Clients: []string{"X"}},
		},
		{
			name:  "clients replaced and deduplicated",
			query: url.Values{"client": {"Y", "Z", "Y", ""}},
			want:  analytics.FilterSpec{Area: "Tax", Performer: "Ana", HourType: analytics.All, Clients: []string{"Y", "Z"}},
		},
		{
			name:  "client set marker clears clients",
			query: url.Values{"client_set": {"1"}},
			want:  analytics.FilterSpec{Area: "Tax", Performer: "Ana", HourType: analytics.All},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilterSpec(tt.query, base)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, []string{"X"}, base.Clients, "base must not be modified")
}

func TestParseFilterSpecErrors(t *testing.T) {
	base := analytics.DefaultFilterSpec()

	_, err := ParseFilterSpec(url.Values{"from": {"10/01/2024"}}, base)
	var pe *FilterParamError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "from", pe.Param)

	_, err = ParseFilterSpec(url.Values{"from": {"2024-03-01"}, "to": {"2024-02-01"}}, base)
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "to", pe.Param)
}

func TestParseFilterSpecCapsClients(t *testing.T) {
	base := analytics.DefaultFilterSpec()
	q := url.Values{}
	for i := 0; i < maxClients; i++ {
		q.Add("client", fmt.Sprintf("Cliente %03d", i))
	}

	spec, err := ParseFilterSpec(q, base)
	require.NoError(t, err)
	assert.Len(t, spec.Clients, maxClients)

	// Duplicates do not count towards the cap.
	q.Add("client", "Cliente 000")
	_, err = ParseFilterSpec(q, base)
	require.NoError(t, err)

	q.Add("client", "Cliente extra")
	got, err := ParseFilterSpec(q, base)
	var pe *FilterParamError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "client", pe.Param)
	assert.ErrorIs(t, err, errTooManyClients)
	assert.Equal(t, base, got)
}

func TestRequireMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	assert.Nil(t, RequireMethod(req, http.MethodGet))

	resp := RequireMethod(req, http.MethodPost)
	require.NotNil(t, resp)
	rr := httptest.NewRecorder()
	resp.Write(rr)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "POST", rr.Header().Get("Allow"))
}
