package backend

import (
	"context"
	"fmt"
	"log/slog"

	"horas/internal/cache"
	"horas/internal/sheets"
	"horas/internal/sheets/google"
	"horas/internal/sheets/graph"
	"horas/internal/sheets/memory"
	"horas/internal/sheets/workbook"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend. With a positive CacheTTL
// the reader is wrapped in a CachedReader whose expiry loop is stopped by
// Cleanup.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		reader sheets.DatasetReader
		err    error
	)
	switch config.Type {
	case MemoryBackend:
		reader, err = f.createMemoryBackend(config)
	case LocalBackend:
		reader, err = f.createLocalBackend(config)
	case GraphBackend:
		reader, err = f.createGraphBackend(ctx, config)
	case DriveBackend:
		reader, err = f.createDriveBackend(ctx, config)
	case SheetsBackend:
		reader, err = f.createSheetsBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.CacheTTL <= 0 {
		return &BackendResult{Reader: reader}, nil
	}

	cached := sheets.NewCachedReader(reader, config.CacheTTL)
	manager := cache.NewManager(f.logger.With("cache_ttl", config.CacheTTL.String()))
	manager.Register(cached.Cleaners()...)
	manager.Start(config.CacheTTL)

	f.logger.Info("Dataset cache enabled", "ttl", config.CacheTTL.String())

	return &BackendResult{
		Reader: cached,
		Cached: cached,
		Cleanup: func() error {
			manager.Stop()
			return nil
		},
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (sheets.DatasetReader, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	store, err := memory.NewFromDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load memory backend seed data: %w", err)
	}

	f.logger.Info("Initialized memory backend", "data_directory", dataDir)
	return store, nil
}

func (f *DefaultFactory) createLocalBackend(config Config) (sheets.DatasetReader, error) {
	f.logger.Info("Initialized local workbook backend", "data_directory", config.DataDirectory)
	return workbook.NewReader(workbook.DirFetcher{Dir: config.DataDirectory}, hoursSource(config), paymentsSource(config)), nil
}

func (f *DefaultFactory) createGraphBackend(ctx context.Context, config Config) (sheets.DatasetReader, error) {
	fetcher, err := graph.New(ctx, config.Graph)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Microsoft Graph client: %w", err)
	}

	f.logger.Info("Initialized Microsoft Graph backend", "site_id", config.Graph.SiteID)
	return workbook.NewReader(fetcher, hoursSource(config), paymentsSource(config)), nil
}

func (f *DefaultFactory) createDriveBackend(ctx context.Context, config Config) (sheets.DatasetReader, error) {
	fetcher, err := google.NewDriveFetcher(ctx, config.Google)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Drive client: %w", err)
	}

	f.logger.Info("Initialized Google Drive backend")
	return workbook.NewReader(fetcher, hoursSource(config), paymentsSource(config)), nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (sheets.DatasetReader, error) {
	reader, err := google.NewSheetsReader(ctx, config.Google,
		google.Range{SpreadsheetID: config.HoursFileID, Sheet: config.HoursSheetName},
		google.Range{SpreadsheetID: config.PaymentsFileID, Sheet: config.PaymentsSheetName},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend")
	return reader, nil
}

func hoursSource(c Config) workbook.Source {
	return workbook.Source{FileID: c.HoursFileID, Sheet: c.HoursSheetName}
}

func paymentsSource(c Config) workbook.Source {
	return workbook.Source{FileID: c.PaymentsFileID, Sheet: c.PaymentsSheetName}
}
