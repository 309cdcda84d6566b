// Package memory is an in-process dataset source for tests, demos and
// offline runs from CSV exports.
package memory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"horas/internal/core"
	ports "horas/internal/sheets"
)

// Seed file names looked up by NewFromDir.
const (
	HoursFile    = "hours.csv"
	PaymentsFile = "payments.csv"
)

type Store struct {
	mu       sync.RWMutex
	hours    []core.TimeEntry
	payments []core.PaymentEntry
}

var _ ports.DatasetReader = (*Store)(nil)

func New(hours []core.TimeEntry, payments []core.PaymentEntry) *Store {
	s := &Store{}
	s.Replace(hours, payments)
	return s
}

// NewFromDir loads hours.csv and payments.csv from base. Missing files leave
// the dataset empty; malformed files are an error.
func NewFromDir(base string) (*Store, error) {
	hg, err := readCSV(filepath.Join(base, HoursFile))
	if err != nil {
		return nil, err
	}
	pg, err := readCSV(filepath.Join(base, PaymentsFile))
	if err != nil {
		return nil, err
	}
	hours, err := ports.ParseHours(hg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", HoursFile, err)
	}
	payments, err := ports.ParsePayments(pg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", PaymentsFile, err)
	}
	return New(hours, payments), nil
}

// Replace swaps both datasets.
func (s *Store) Replace(hours []core.TimeEntry, payments []core.PaymentEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hours = append([]core.TimeEntry(nil), hours...)
	s.payments = append([]core.PaymentEntry(nil), payments...)
}

func (s *Store) ReadHours(_ context.Context) ([]core.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.TimeEntry{}, s.hours...), nil
}

func (s *Store) ReadPayments(_ context.Context) ([]core.PaymentEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.PaymentEntry{}, s.payments...), nil
}

func readCSV(path string) (ports.Grid, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return ports.Grid(rows), nil
}
