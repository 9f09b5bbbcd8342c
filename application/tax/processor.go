/*
Package tax - the worker-side tax processing use case.

One invocation handles one queue delivery: call the tax service through the
gateway's own retry budget, then overwrite the transaction's status fields.
Re-running the whole use case is safe; every write is an idempotent
overwrite keyed by the transaction id.
*/
package tax

import (
	"context"
	"time"

	"duplo-orders/domain/taxjob"
	"duplo-orders/domain/transaction"
	"duplo-orders/pkg/logger"

	"go.uber.org/zap"
)

// Gateway calls the external tax service.
type Gateway interface {
	LogTax(ctx context.Context, data taxjob.OrderData) (map[string]interface{}, error)
}

// Processor processes tax jobs.
type Processor struct {
	gateway      Gateway
	transactions transaction.Store
}

// NewProcessor Create tax processor
func NewProcessor(gateway Gateway, transactions transaction.Store) *Processor {
	return &Processor{gateway: gateway, transactions: transactions}
}

// ProcessTax calls the tax service and records the outcome on the
// transaction. On success the tax response is stored and returned as the
// job result. On failure the transaction is marked failed and the error is
// propagated so the queue can redeliver; a later delivery that succeeds
// overwrites the failed status.
func (p *Processor) ProcessTax(ctx context.Context, payload taxjob.Payload) (map[string]interface{}, error) {
	logger.Info("Processing tax job",
		zap.String("transaction_id", payload.TransactionID),
		zap.String("order_id", payload.OrderData.OrderID),
	)

	taxResponse, err := p.gateway.LogTax(ctx, payload.OrderData)
	if err != nil {
		logger.Warn("Tax service call exhausted its retry budget",
			zap.String("transaction_id", payload.TransactionID),
			zap.Error(err),
		)
		if markErr := p.transactions.MarkFailed(ctx, payload.TransactionID, err.Error(), time.Now().UTC()); markErr != nil {
			logger.Error("Failed to record tax failure",
				zap.String("transaction_id", payload.TransactionID),
				zap.Error(markErr),
			)
		}
		return nil, err
	}

	if err := p.transactions.MarkCompleted(ctx, payload.TransactionID, taxResponse, time.Now().UTC()); err != nil {
		logger.Error("Failed to record tax completion",
			zap.String("transaction_id", payload.TransactionID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Info("Tax job completed",
		zap.String("transaction_id", payload.TransactionID),
	)
	return taxResponse, nil
}
