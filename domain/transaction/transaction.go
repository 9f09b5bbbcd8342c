/*
Package transaction - operational transaction records.

A Transaction is the mutable, document-store counterpart of an Order. It is
created once per order by the saga (status pending) and afterwards only the
worker touches it: status, lastProcessedAt, errorMessage and taxResponse.
Status moves pending -> completed | failed and never back to pending; the
worker's updates are field overwrites keyed by the transaction id, so an
at-least-once queue can re-apply them safely.
*/
package transaction

import (
	"time"

	"duplo-orders/domain/order"

	"github.com/shopspring/decimal"
)

// Status processing lifecycle of a transaction record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Record document-store transaction record.
type Record struct {
	ID              string
	OrderID         string
	BusinessID      string
	DepartmentID    string
	Amount          decimal.Decimal
	Items           []order.Item
	Status          Status
	Timestamp       time.Time
	LastProcessedAt *time.Time
	ErrorMessage    string
	TaxResponse     map[string]interface{}
}

// NewRecord builds the pending snapshot of an order. Amount and items are
// denormalized copies; they must stay equal to the order's values since no
// reconciliation logic exists to let them drift.
func NewRecord(o *order.Order) *Record {
	items := make([]order.Item, len(o.Items))
	copy(items, o.Items)
	return &Record{
		OrderID:      o.ID,
		BusinessID:   o.BusinessID,
		DepartmentID: o.DepartmentID,
		Amount:       o.Amount,
		Items:        items,
		Status:       StatusPending,
		Timestamp:    time.Now().UTC(),
	}
}

// Filter conjunction of optional predicates for transaction queries.
// The timestamp range is start-inclusive, end-exclusive.
type Filter struct {
	OrderID    string
	BusinessID string
	Status     Status
	StartDate  *time.Time
	EndDate    *time.Time
}

// QueryLimit result cap for filtered queries. Callers needing more must
// paginate externally; no cursor is exposed by this layer.
const QueryLimit = 100
