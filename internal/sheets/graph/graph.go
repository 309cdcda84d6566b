// Package graph downloads workbook files from a SharePoint document library
// through Microsoft Graph, authenticated as an application with the client
// credentials grant.
package graph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	ports "horas/internal/sheets"
)

const (
	defaultBaseURL   = "https://graph.microsoft.com/v1.0"
	defaultAuthority = "https://login.microsoftonline.com"
	defaultScope     = "https://graph.microsoft.com/.default"
	maxFileSize      = 64 << 20
)

type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	SiteID       string
	DriveID      string

	// Overrides, mainly for tests.
	BaseURL  string
	TokenURL string
	Timeout  time.Duration
}

func (c Config) Validate() error {
	var missing []string
	for _, kv := range [][2]string{
		{"tenant id", c.TenantID},
		{"client id", c.ClientID},
		{"client secret", c.ClientSecret},
		{"site id", c.SiteID},
		{"drive id", c.DriveID},
	} {
		if strings.TrimSpace(kv[1]) == "" {
			missing = append(missing, kv[0])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("graph config: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Fetcher downloads drive items by id.
type Fetcher struct {
	client  *http.Client
	baseURL string
	siteID  string
	driveID string
}

var _ ports.WorkbookFetcher = (*Fetcher)(nil)

// New builds a fetcher whose HTTP client acquires and refreshes the
// application token on demand.
func New(ctx context.Context, cfg Config) (*Fetcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = fmt.Sprintf("%s/%s/oauth2/v2.0/token", defaultAuthority, url.PathEscape(cfg.TenantID))
	}
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{defaultScope},
	}
	client := cc.Client(ctx)
	client.Timeout = cfg.Timeout
	if client.Timeout == 0 {
		client.Timeout = 60 * time.Second
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	return &Fetcher{client: client, baseURL: base, siteID: cfg.SiteID, driveID: cfg.DriveID}, nil
}

func (f *Fetcher) itemURL(fileID string) string {
	return fmt.Sprintf("%s/sites/%s/drives/%s/items/%s/content",
		f.baseURL, f.siteID, f.driveID, url.PathEscape(fileID))
}

// Fetch downloads the content of a drive item. Graph answers with a redirect
// to a pre-authenticated download URL, which the client follows.
func (f *Fetcher) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, errors.New("empty file id")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.itemURL(fileID), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("download %s: status %d: %s", fileID, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", fileID, err)
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("download %s: file larger than %d bytes", fileID, maxFileSize)
	}
	return data, nil
}
