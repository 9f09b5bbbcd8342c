package po

import (
	"encoding/json"
	"time"

	"duplo-orders/domain/order"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderPO Order persistence object.
// Only used for database mapping; no business logic and no GORM associations.
type OrderPO struct {
	ID           string          `gorm:"primaryKey;size:36"`
	OrderNumber  string          `gorm:"size:20;uniqueIndex;not null"`
	BusinessID   string          `gorm:"size:36;index;not null"`
	DepartmentID string          `gorm:"size:36;index;not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Items        datatypes.JSON  `gorm:"not null"`
	Status       string          `gorm:"size:20;not null"`
	Notes        string          `gorm:"size:512"`
	CreatedAt    time.Time       `gorm:"autoCreateTime:false"`
}

// TableName Specify table name
func (OrderPO) TableName() string {
	return "orders"
}

// FromOrderDomain Convert domain model to persistence object
func FromOrderDomain(o *order.Order) (*OrderPO, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, err
	}
	return &OrderPO{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		BusinessID:   o.BusinessID,
		DepartmentID: o.DepartmentID,
		Amount:       o.Amount,
		Items:        datatypes.JSON(items),
		Status:       string(o.Status),
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt,
	}, nil
}

// ToDomain Convert persistence object to domain model
func (po *OrderPO) ToDomain() (*order.Order, error) {
	var items []order.Item
	if len(po.Items) > 0 {
		if err := json.Unmarshal(po.Items, &items); err != nil {
			return nil, err
		}
	}
	return &order.Order{
		ID:           po.ID,
		OrderNumber:  po.OrderNumber,
		BusinessID:   po.BusinessID,
		DepartmentID: po.DepartmentID,
		Amount:       po.Amount,
		Items:        items,
		Status:       order.Status(po.Status),
		Notes:        po.Notes,
		CreatedAt:    po.CreatedAt,
	}, nil
}
