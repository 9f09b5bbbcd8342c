// Package reconcile closes the cross-store consistency window: a rolled-back
// order commit leaves its transaction record pending forever, and the sweeper
// marks such orphans failed.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"duplo-orders/domain/order"
	"duplo-orders/domain/transaction"
	"duplo-orders/pkg/logger"

	"go.uber.org/zap"
)

type Sweeper struct {
	transactions transaction.Store
	orders       order.Repository
	interval     time.Duration
	maxAge       time.Duration
	batchSize    int
}

func NewSweeper(
	transactions transaction.Store,
	orders order.Repository,
	interval time.Duration,
	maxAge time.Duration,
	batchSize int,
) (*Sweeper, error) {
	if transactions == nil {
		return nil, fmt.Errorf("transaction store is required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive")
	}
	if maxAge <= 0 {
		return nil, fmt.Errorf("max age must be positive")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}

	return &Sweeper{
		transactions: transactions,
		orders:       orders,
		interval:     interval,
		maxAge:       maxAge,
		batchSize:    batchSize,
	}, nil
}

func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				logger.Error("Reconciliation sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep marks stale pending transactions failed when their order row never
// committed. Pending records whose order exists are left alone; those are
// still waiting on the tax worker, not orphaned.
func (s *Sweeper) Sweep(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.maxAge)
	records, err := s.transactions.FindStalePending(ctx, cutoff, s.batchSize)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	for _, rec := range records {
		_, err := s.orders.FindByID(ctx, rec.OrderID)
		if err == nil {
			continue
		}
		if !errors.Is(err, order.ErrOrderNotFound) {
			logger.Warn("Skip transaction, order lookup failed",
				zap.String("transaction_id", rec.ID),
				zap.Error(err),
			)
			continue
		}

		message := fmt.Sprintf("no committed order %s for transaction", rec.OrderID)
		if err := s.transactions.MarkFailed(ctx, rec.ID, message, time.Now().UTC()); err != nil {
			logger.Error("Failed to mark orphaned transaction as failed",
				zap.String("transaction_id", rec.ID),
				zap.Error(err),
			)
			continue
		}

		logger.Info("Orphaned transaction reconciled",
			zap.String("transaction_id", rec.ID),
			zap.String("order_id", rec.OrderID),
		)
	}

	return nil
}
