// Package google reads the datasets from Google Sheets spreadsheets, or
// downloads xlsx workbooks stored in Google Drive.
package google

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"google.golang.org/api/drive/v3"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"horas/internal/core"
	ports "horas/internal/sheets"
)

// Credentials locate a service account key. JSON wins over File; with
// neither set, GOOGLE_APPLICATION_CREDENTIALS is consulted.
type Credentials struct {
	JSON string
	File string
}

func (c Credentials) load(ctx context.Context) ([]byte, error) {
	serviceAccountJSON := strings.TrimSpace(c.JSON)
	serviceAccountFile := strings.TrimSpace(c.File)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		slog.DebugContext(ctx, "Using inline service account credentials")
		return []byte(serviceAccountJSON), nil
	case serviceAccountFile != "":
		slog.DebugContext(ctx, "Reading service account credentials", "path", serviceAccountFile)
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

func clientOptions(ctx context.Context, creds Credentials, scope string, extra []goption.ClientOption) ([]goption.ClientOption, error) {
	if len(extra) > 0 {
		return extra, nil
	}
	data, err := creds.load(ctx)
	if err != nil {
		return nil, err
	}
	return []goption.ClientOption{goption.WithCredentialsJSON(data), goption.WithScopes(scope)}, nil
}

// Range addresses one worksheet of one spreadsheet. An empty Sheet selects
// the first worksheet.
type Range struct {
	SpreadsheetID string
	Sheet         string
}

// SheetsReader reads the datasets from native Google Sheets spreadsheets.
type SheetsReader struct {
	svc      *gsheet.Service
	hours    Range
	payments Range
}

var _ ports.DatasetReader = (*SheetsReader)(nil)

// NewSheetsReader authenticates with creds unless opts are given, in which
// case opts fully configure the client.
func NewSheetsReader(ctx context.Context, creds Credentials, hours, payments Range, opts ...goption.ClientOption) (*SheetsReader, error) {
	if hours.SpreadsheetID == "" || payments.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	o, err := clientOptions(ctx, creds, gsheet.SpreadsheetsReadonlyScope, opts)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx, o...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsReader{svc: svc, hours: hours, payments: payments}, nil
}

func (r *SheetsReader) ReadHours(ctx context.Context) ([]core.TimeEntry, error) {
	g, err := r.values(ctx, r.hours)
	if err != nil {
		return nil, err
	}
	return ports.ParseHours(g)
}

func (r *SheetsReader) ReadPayments(ctx context.Context) ([]core.PaymentEntry, error) {
	g, err := r.values(ctx, r.payments)
	if err != nil {
		return nil, err
	}
	return ports.ParsePayments(g)
}

// values reads a whole worksheet unformatted, so dates arrive as serial
// numbers and amounts as plain numbers whatever the sheet locale.
func (r *SheetsReader) values(ctx context.Context, rg Range) (ports.Grid, error) {
	sheet := rg.Sheet
	if sheet == "" {
		ss, err := r.svc.Spreadsheets.Get(rg.SpreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("read spreadsheet %s: %w", rg.SpreadsheetID, err)
		}
		if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
			return nil, fmt.Errorf("spreadsheet %s has no worksheets", rg.SpreadsheetID)
		}
		sheet = ss.Sheets[0].Properties.Title
	}
	rng := quoteSheet(sheet)
	resp, err := r.svc.Spreadsheets.Values.Get(rg.SpreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return toGrid(resp.Values), nil
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func toGrid(values [][]interface{}) ports.Grid {
	out := make(ports.Grid, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellString(v)
		}
		out[i] = cells
	}
	return out
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return strings.TrimSpace(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// DriveFetcher downloads xlsx workbooks stored in Google Drive.
type DriveFetcher struct {
	svc *drive.Service
}

var _ ports.WorkbookFetcher = (*DriveFetcher)(nil)

func NewDriveFetcher(ctx context.Context, creds Credentials, opts ...goption.ClientOption) (*DriveFetcher, error) {
	o, err := clientOptions(ctx, creds, drive.DriveReadonlyScope, opts)
	if err != nil {
		return nil, err
	}
	svc, err := drive.NewService(ctx, o...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &DriveFetcher{svc: svc}, nil
}

func (d *DriveFetcher) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, errors.New("empty file id")
	}
	resp, err := d.svc.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", fileID, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", fileID, err)
	}
	return data, nil
}
