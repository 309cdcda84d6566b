package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGraphServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var tokens atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		tokens.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, defaultScope, r.PostForm.Get("scope"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("GET /sites/site-1/drives/drive-1/items/{id}/content", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		switch r.PathValue("id") {
		case "file-1":
			http.Redirect(w, r, "/download/file-1", http.StatusFound)
		default:
			http.Error(w, `{"error":{"code":"itemNotFound"}}`, http.StatusNotFound)
		}
	})
	mux.HandleFunc("GET /download/file-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("xlsx-bytes"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &tokens
}

func testConfig(srv *httptest.Server) Config {
	return Config{
		TenantID:     "tenant",
		ClientID:     "client",
		ClientSecret: "secret",
		SiteID:       "site-1",
		DriveID:      "drive-1",
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/token",
	}
}

func TestFetchFollowsRedirect(t *testing.T) {
	srv, tokens := newGraphServer(t)
	f, err := New(context.Background(), testConfig(srv))
	require.NoError(t, err)

	data, err := f.Fetch(context.Background(), "file-1")
	require.NoError(t, err)
	assert.Equal(t, "xlsx-bytes", string(data))

	_, err = f.Fetch(context.Background(), "file-1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), tokens.Load(), "token is reused until it expires")
}

func TestFetchNotFound(t *testing.T) {
	srv, _ := newGraphServer(t)
	f, err := New(context.Background(), testConfig(srv))
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), "nope")
	assert.ErrorContains(t, err, "status 404")
	assert.ErrorContains(t, err, "itemNotFound")
}

func TestConfigValidate(t *testing.T) {
	err := Config{TenantID: "t"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client secret")
	assert.NotContains(t, err.Error(), "tenant id")

	_, err = New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestItemURL(t *testing.T) {
	f := &Fetcher{baseURL: defaultBaseURL, siteID: "contoso.sharepoint.com,abc", driveID: "b!x"}
	assert.Equal(t,
		"https://graph.microsoft.com/v1.0/sites/contoso.sharepoint.com,abc/drives/b!x/items/01%2F2/content",
		f.itemURL("01/2"))
}
