package mysql

import (
	"context"
	"errors"
	"time"

	"duplo-orders/domain/order"
	"duplo-orders/infrastructure/persistence"
	"duplo-orders/infrastructure/persistence/mysql/po"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

// OrderRepository MySQL/GORM implementation of the order ledger.
// GORM association features are not used; the department name join for
// summaries is an explicit SQL join.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository Create order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Create inserts the order row. Duplicate-key violations on the
// order_number unique index surface as order.ErrDuplicateOrderNumber so the
// saga can regenerate and retry within the same transaction.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	orderPO, err := po.FromOrderDomain(o)
	if err != nil {
		return err
	}

	if err := r.getDB(ctx).Create(orderPO).Error; err != nil {
		if isDuplicateKey(err) {
			return order.ErrDuplicateOrderNumber
		}
		return err
	}
	return nil
}

// FindByID Find order by ID
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	var orderPO po.OrderPO

	result := r.getDB(ctx).First(&orderPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, result.Error
	}

	return orderPO.ToDomain()
}

// summaryRow scan target for the department-name join.
type summaryRow struct {
	ID             string
	OrderNumber    string
	Amount         decimal.Decimal
	Status         string
	DepartmentName string
	CreatedAt      time.Time
}

// FindByBusiness Find all orders of a business, newest first
func (r *OrderRepository) FindByBusiness(ctx context.Context, businessID string) ([]order.Summary, error) {
	return r.findSummaries(ctx, businessID, nil)
}

// FindByBusinessSince Find the business's orders created at or after since
func (r *OrderRepository) FindByBusinessSince(ctx context.Context, businessID string, since time.Time) ([]order.Summary, error) {
	return r.findSummaries(ctx, businessID, &since)
}

func (r *OrderRepository) findSummaries(ctx context.Context, businessID string, since *time.Time) ([]order.Summary, error) {
	query := r.getDB(ctx).
		Table("orders").
		Select("orders.id, orders.order_number, orders.amount, orders.status, orders.created_at, departments.name AS department_name").
		Joins("LEFT JOIN departments ON departments.id = orders.department_id").
		Where("orders.business_id = ?", businessID)
	if since != nil {
		query = query.Where("orders.created_at >= ?", *since)
	}

	var rows []summaryRow
	if err := query.Order("orders.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]order.Summary, len(rows))
	for i, row := range rows {
		summaries[i] = order.Summary{
			ID:             row.ID,
			OrderNumber:    row.OrderNumber,
			Amount:         row.Amount,
			Status:         order.Status(row.Status),
			DepartmentName: row.DepartmentName,
			CreatedAt:      row.CreatedAt,
		}
	}
	return summaries, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysqlDriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

// Compile-time interface implementation check
var _ order.Repository = (*OrderRepository)(nil)
