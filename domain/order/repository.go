package order

import (
	"context"
	"time"
)

// Repository Order ledger port.
// Create participates in the transaction carried by ctx when one is present.
// The read methods back the business-order aggregation and are free to run
// outside any transaction.
type Repository interface {
	// Create inserts a new order row. Returns ErrDuplicateOrderNumber when
	// the unique index on order_number rejects the insert.
	Create(ctx context.Context, o *Order) error

	// FindByID loads a single order. Returns ErrOrderNotFound when absent.
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByBusiness lists all orders of a business, newest first, with the
	// department name joined in.
	FindByBusiness(ctx context.Context, businessID string) ([]Summary, error)

	// FindByBusinessSince lists the business's orders created at or after
	// the given instant, newest first.
	FindByBusinessSince(ctx context.Context, businessID string, since time.Time) ([]Summary, error)
}
