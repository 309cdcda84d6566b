// Package backend builds the dataset reader selected by DATA_BACKEND.
package backend

import (
	"context"
	"time"

	"horas/internal/sheets"
	"horas/internal/sheets/google"
	"horas/internal/sheets/graph"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the reader and an optional cleanup function.
type BackendResult struct {
	Reader sheets.DatasetReader
	// Cached is the caching wrapper around Reader, nil when caching is off.
	Cached  *sheets.CachedReader
	Cleanup CleanupFunc
}

// Close runs Cleanup when set.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates readers based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// File ids: drive item ids (graph, drive), file names under
	// DataDirectory (local) or spreadsheet ids (sheets).
	HoursFileID       string
	PaymentsFileID    string
	HoursSheetName    string
	PaymentsSheetName string

	// Memory and local backends
	DataDirectory string

	Graph  graph.Config
	Google google.Credentials

	// CacheTTL keeps loaded datasets for this long; zero disables caching.
	CacheTTL time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	LocalBackend  BackendType = "local"
	GraphBackend  BackendType = "graph"
	DriveBackend  BackendType = "drive"
	SheetsBackend BackendType = "sheets"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, LocalBackend, GraphBackend, DriveBackend, SheetsBackend:
		return true
	default:
		return false
	}
}
