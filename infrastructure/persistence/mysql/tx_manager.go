package mysql

import (
	"context"
	"fmt"

	"duplo-orders/infrastructure/persistence"

	"gorm.io/gorm"
)

// TxManager scopes a function to a single database transaction. The
// transaction travels in the context so repositories join it transparently.
// Only the relational side is covered: document-store writes and queue
// submissions made inside fn are not rolled back with it.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Execute begins a transaction, runs fn with the transaction in context,
// commits on success and rolls back on error.
func (m *TxManager) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := m.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	if err := fn(persistence.ContextWithTx(ctx, tx)); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
