package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"horas/internal/analytics"
	"horas/internal/core"
	"horas/internal/log"
	"horas/internal/metrics"
	"horas/internal/sheets"
)

var (
	// ErrSourceUnavailable wraps download and authentication failures of the data source.
	ErrSourceUnavailable = errors.New("data source unavailable")
	// ErrInvalidData wraps datasets that were downloaded but cannot be read.
	ErrInvalidData = errors.New("invalid dataset")
)

// Recorder receives pipeline observations. *metrics.Metrics implements it.
type Recorder interface {
	ObserveLoad(dataset string, took time.Duration, rows int, err error)
	ObserveRender(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveLoad(string, time.Duration, int, error) {}
func (nopRecorder) ObserveRender(string)                          {}

// DashboardService runs one render: download both datasets, then aggregate
// and filter them. Nothing is kept between calls unless the reader caches.
type DashboardService struct {
	reader   sheets.DatasetReader
	opts     analytics.BuildOptions
	recorder Recorder
	logger   *log.Logger
	sl       *log.StructuredLogger
}

func NewDashboardService(reader sheets.DatasetReader, opts analytics.BuildOptions, recorder Recorder, logger *log.Logger) *DashboardService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentDashboard)
	return &DashboardService{
		reader:   reader,
		opts:     opts,
		recorder: recorder,
		logger:   logger,
		sl:       log.NewStructuredLogger(logger),
	}
}

// Datasets are the raw rows of one render.
type Datasets struct {
	Hours    []core.TimeEntry
	Payments []core.PaymentEntry
}

// Load reads both datasets concurrently. The first failure cancels the other read.
func (s *DashboardService) Load(ctx context.Context) (Datasets, error) {
	var ds Datasets
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := timed(gctx, s, sheets.DatasetHours, s.reader.ReadHours)
		ds.Hours = rows
		return err
	})
	g.Go(func() error {
		rows, err := timed(gctx, s, sheets.DatasetPayments, s.reader.ReadPayments)
		ds.Payments = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return Datasets{}, classify(err)
	}
	return ds, nil
}

func timed[T any](ctx context.Context, s *DashboardService, dataset string, read func(context.Context) ([]T, error)) ([]T, error) {
	start := time.Now()
	rows, err := read(ctx)
	took := time.Since(start)
	s.recorder.ObserveLoad(dataset, took, len(rows), err)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", dataset, err)
	}
	s.sl.LogDatasetLoaded(ctx, dataset, len(rows), took)
	return rows, nil
}

func classify(err error) error {
	var ide *core.InvalidDateError
	var mce *sheets.MissingColumnError
	if errors.As(err, &ide) || errors.As(err, &mce) {
		return fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
}

// Render loads the datasets and builds every dashboard view for spec.
func (s *DashboardService) Render(ctx context.Context, spec analytics.FilterSpec) (*analytics.Dashboard, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		s.recorder.ObserveRender(outcome(err))
		s.sl.LogError(ctx, "Dashboard data load failed", err, log.ComponentDashboard, log.OpLoad,
			log.NewFields().WithErrorType(errorType(err)))
		return nil, err
	}

	d, err := analytics.BuildDashboard(ds.Hours, ds.Payments, spec, s.opts)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidData, err)
		s.recorder.ObserveRender(metrics.OutcomeDataError)
		s.sl.LogError(ctx, "Dashboard build failed", err, log.ComponentDashboard, log.OpRender,
			log.NewFields().WithErrorType(log.ErrorTypeData))
		return nil, err
	}
	for _, w := range d.Warnings {
		s.logger.WarnContext(ctx, "Dashboard warning", "warning", w, log.FieldOperation, log.OpRender)
	}

	if d.IsEmpty() {
		s.recorder.ObserveRender(metrics.OutcomeEmpty)
	} else {
		s.recorder.ObserveRender(metrics.OutcomeOK)
	}
	s.logger.DebugContext(ctx, "Dashboard rendered",
		log.FieldEntries, len(d.Entries),
		log.FieldMonths, len(d.Summary),
	)
	return d, nil
}

// Invalidator is implemented by readers that keep datasets between calls.
type Invalidator interface {
	Invalidate()
}

// Reload drops cached datasets so the next render downloads fresh rows.
// It reports false when the reader keeps nothing.
func (s *DashboardService) Reload(ctx context.Context) bool {
	inv, ok := s.reader.(Invalidator)
	if !ok {
		return false
	}
	inv.Invalidate()
	s.logger.InfoContext(ctx, "Cached datasets dropped", log.FieldOperation, log.OpReload)
	return true
}

// Performers lists the performer choices for area from the current hours data.
func (s *DashboardService) Performers(ctx context.Context, area string) ([]string, error) {
	hours, err := s.reader.ReadHours(ctx)
	if err != nil {
		return nil, classify(fmt.Errorf("load %s: %w", sheets.DatasetHours, err))
	}
	return analytics.PerformerOptions(hours, area), nil
}

func errorType(err error) string {
	if errors.Is(err, ErrInvalidData) {
		return log.ErrorTypeData
	}
	return log.ErrorTypeSource
}

func outcome(err error) string {
	if errors.Is(err, ErrInvalidData) {
		return metrics.OutcomeDataError
	}
	return metrics.OutcomeSourceError
}
