package sheets

import (
	"context"

	"horas/internal/core"
)

// Ports for outbound adapters.
type (
	// HoursReader returns every timesheet row of the source.
	HoursReader interface {
		ReadHours(ctx context.Context) ([]core.TimeEntry, error)
	}

	// PaymentsReader returns every payment row of the source.
	PaymentsReader interface {
		ReadPayments(ctx context.Context) ([]core.PaymentEntry, error)
	}

	// DatasetReader provides both datasets of one render.
	DatasetReader interface {
		HoursReader
		PaymentsReader
	}

	// WorkbookFetcher downloads a workbook file as raw bytes.
	WorkbookFetcher interface {
		Fetch(ctx context.Context, fileID string) ([]byte, error)
	}
)

// Dataset names used in logs, metrics and cache keys.
const (
	DatasetHours    = "hours"
	DatasetPayments = "payments"
)
