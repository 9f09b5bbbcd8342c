package order

import (
	"time"

	"duplo-orders/domain/order"

	"github.com/shopspring/decimal"
)

// ItemRequest one order line as submitted by the client.
type ItemRequest struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"required"`
}

// CreateOrderRequest create order request body. The total amount is not
// accepted from the client; it is always computed from the items.
type CreateOrderRequest struct {
	BusinessID   string        `json:"businessId" binding:"required"`
	DepartmentID string        `json:"departmentId" binding:"required"`
	Items        []ItemRequest `json:"items" binding:"required"`
	Notes        string        `json:"notes"`
}

// CreateOrderResponse result of a successful order-creation saga. The
// business/department references and items are echoed back alongside the
// server-assigned fields.
type CreateOrderResponse struct {
	OrderID       string          `json:"orderId"`
	OrderNumber   string          `json:"orderNumber"`
	TransactionID string          `json:"transactionId"`
	BusinessID    string          `json:"businessId"`
	DepartmentID  string          `json:"departmentId"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Items         []order.Item    `json:"items"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// SummaryDTO one order row in the business aggregation.
type SummaryDTO struct {
	OrderID        string          `json:"orderId"`
	OrderNumber    string          `json:"orderNumber"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	DepartmentName string          `json:"departmentName"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// BusinessOrdersResponse aggregation of a business's orders: full history
// plus today's slice, where "today" starts at UTC midnight.
type BusinessOrdersResponse struct {
	BusinessID  string          `json:"businessId"`
	TotalOrders int             `json:"totalOrders"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TodayOrders int             `json:"todayOrders"`
	TodayAmount decimal.Decimal `json:"todayAmount"`
	Orders      []SummaryDTO    `json:"orders"`
}

func toItems(reqs []ItemRequest) []order.Item {
	items := make([]order.Item, len(reqs))
	for i, req := range reqs {
		items[i] = order.Item{
			ProductID: req.ProductID,
			Name:      req.Name,
			Quantity:  req.Quantity,
			UnitPrice: req.UnitPrice,
		}
	}
	return items
}

func toSummaryDTOs(summaries []order.Summary) []SummaryDTO {
	dtos := make([]SummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = SummaryDTO{
			OrderID:        s.ID,
			OrderNumber:    s.OrderNumber,
			Amount:         s.Amount,
			Status:         string(s.Status),
			DepartmentName: s.DepartmentName,
			CreatedAt:      s.CreatedAt,
		}
	}
	return dtos
}
