// Package workbook reads the timesheet and payments datasets out of xlsx
// files fetched from any WorkbookFetcher.
package workbook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"horas/internal/core"
	ports "horas/internal/sheets"
)

// Source names one worksheet of one workbook file. An empty Sheet selects
// the first worksheet.
type Source struct {
	FileID string
	Sheet  string
}

type Reader struct {
	fetcher  ports.WorkbookFetcher
	hours    Source
	payments Source
}

var _ ports.DatasetReader = (*Reader)(nil)

func NewReader(fetcher ports.WorkbookFetcher, hours, payments Source) *Reader {
	return &Reader{fetcher: fetcher, hours: hours, payments: payments}
}

func (r *Reader) ReadHours(ctx context.Context) ([]core.TimeEntry, error) {
	g, err := r.grid(ctx, r.hours)
	if err != nil {
		return nil, fmt.Errorf("read hours workbook: %w", err)
	}
	return ports.ParseHours(g)
}

func (r *Reader) ReadPayments(ctx context.Context) ([]core.PaymentEntry, error) {
	g, err := r.grid(ctx, r.payments)
	if err != nil {
		return nil, fmt.Errorf("read payments workbook: %w", err)
	}
	return ports.ParsePayments(g)
}

func (r *Reader) grid(ctx context.Context, src Source) (ports.Grid, error) {
	data, err := r.fetcher.Fetch(ctx, src.FileID)
	if err != nil {
		return nil, err
	}
	return Decode(data, src.Sheet)
}

// Decode returns the raw cell values of one worksheet of an xlsx file.
// Dates stay as Excel serial numbers and numbers keep full precision.
func Decode(data []byte, sheet string) (ports.Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("worksheet %q not found in %v", sheet, f.GetSheetList())
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheet, err)
	}
	return ports.Grid(rows), nil
}

// DirFetcher reads workbooks from a local directory. The file id is the
// file name inside Dir.
type DirFetcher struct {
	Dir string
}

var _ ports.WorkbookFetcher = DirFetcher{}

func (d DirFetcher) Fetch(_ context.Context, fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, errors.New("empty file id")
	}
	data, err := os.ReadFile(filepath.Join(d.Dir, filepath.Base(fileID)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fileID, err)
	}
	return data, nil
}
