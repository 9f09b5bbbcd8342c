/*
Package order - order API controller.

Responsibilities:
1. Parse and bind request parameters.
2. Delegate to the application services.
3. Hand results and errors to the response package for uniform handling.
*/
package order

import (
	"net/http"
	"time"

	"duplo-orders/api/response"
	orderapp "duplo-orders/application/order"
	transactionapp "duplo-orders/application/transaction"
	"duplo-orders/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller order controller
type Controller struct {
	orderService       *orderapp.Service
	transactionService *transactionapp.Service
}

// NewController Create order controller
func NewController(orderService *orderapp.Service, transactionService *transactionapp.Service) *Controller {
	return &Controller{
		orderService:       orderService,
		transactionService: transactionService,
	}
}

// RegisterRoutes Register order routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orderGroup := router.Group("/orders")
	{
		orderGroup.POST("", c.CreateOrder)
		orderGroup.GET("/business/:businessId", c.GetBusinessOrders)
		orderGroup.GET("/transactions", c.QueryTransactions)
		orderGroup.GET("/transactions/:id", c.GetTransactionStatus)
	}
}

// CreateOrder runs the order-creation saga.
// POST /api/v1/orders
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	resp, err := c.orderService.CreateOrder(ctx.Request.Context(), &req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, resp, "order created successfully")
}

// GetBusinessOrders aggregates a business's orders with today's slice.
// GET /api/v1/orders/business/:businessId
func (c *Controller) GetBusinessOrders(ctx *gin.Context) {
	businessID := ctx.Param("businessId")

	resp, err := c.orderService.GetBusinessOrders(ctx.Request.Context(), businessID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, resp, "business orders retrieved")
}

// QueryTransactions lists transaction records matching the query filters.
// GET /api/v1/orders/transactions?orderId=&businessId=&status=&startDate=&endDate=
func (c *Controller) QueryTransactions(ctx *gin.Context) {
	startDate, err := parseDateParam(ctx.Query("startDate"))
	if err != nil {
		response.HandleError(ctx, err, "invalid startDate", http.StatusBadRequest)
		return
	}
	endDate, err := parseDateParam(ctx.Query("endDate"))
	if err != nil {
		response.HandleError(ctx, err, "invalid endDate", http.StatusBadRequest)
		return
	}

	resp, err := c.transactionService.Query(ctx.Request.Context(), transactionapp.QueryRequest{
		OrderID:    ctx.Query("orderId"),
		BusinessID: ctx.Query("businessId"),
		Status:     ctx.Query("status"),
		StartDate:  startDate,
		EndDate:    endDate,
	})
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, resp, "transactions retrieved")
}

// GetTransactionStatus loads one transaction record.
// GET /api/v1/orders/transactions/:id
func (c *Controller) GetTransactionStatus(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		response.HandleError(ctx, errors.BadRequest("transaction ID is required"), "transaction ID is required", http.StatusBadRequest)
		return
	}

	resp, err := c.transactionService.GetStatus(ctx.Request.Context(), id)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, resp, "transaction retrieved")
}

// parseDateParam accepts RFC3339 timestamps or plain dates. Plain dates are
// interpreted as UTC midnight, which combined with the exclusive end bound
// gives whole-day ranges.
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		utc := t.UTC()
		return &utc, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
