package transaction

import (
	"context"
	"time"
)

// Store document-store port for transaction records.
type Store interface {
	// Create inserts a pending record and returns its store-generated id.
	Create(ctx context.Context, rec *Record) (string, error)

	// FindByID loads one record. Returns ErrTransactionNotFound when absent.
	FindByID(ctx context.Context, id string) (*Record, error)

	// Find returns records matching the filter, sorted by timestamp
	// descending and capped at QueryLimit.
	Find(ctx context.Context, f Filter) ([]*Record, error)

	// MarkCompleted overwrites taxResponse, status and lastProcessedAt.
	// Idempotent: re-applying the same completion is a no-op observable state.
	MarkCompleted(ctx context.Context, id string, taxResponse map[string]interface{}, at time.Time) error

	// MarkFailed overwrites status, errorMessage and lastProcessedAt.
	MarkFailed(ctx context.Context, id string, errorMessage string, at time.Time) error

	// FindStalePending lists pending records created before the cutoff,
	// oldest first, for the reconciliation sweep.
	FindStalePending(ctx context.Context, before time.Time, limit int) ([]*Record, error)
}
