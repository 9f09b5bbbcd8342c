/*
Package taxjob - the queue contract between the order-creation saga and the
tax worker. The payload carries everything the worker needs so it can run
independently of the request that created the job.
*/
package taxjob

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TypeProcessTax task type name on the queue.
const TypeProcessTax = "process-tax"

// OrderData order fields forwarded to the external tax service.
type OrderData struct {
	OrderID    string          `json:"orderId"`
	BusinessID string          `json:"businessId"`
	Amount     decimal.Decimal `json:"amount"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Payload queue job payload.
type Payload struct {
	TransactionID string    `json:"transactionId"`
	OrderData     OrderData `json:"orderData"`
}

// Enqueuer submits tax jobs to the queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, p Payload) error
}
