// Package business - business-scoped API endpoints.
package business

import (
	"duplo-orders/api/response"
	creditapp "duplo-orders/application/creditscore"

	"github.com/gin-gonic/gin"
)

// Controller business controller
type Controller struct {
	creditService *creditapp.Service
}

// NewController Create business controller
func NewController(creditService *creditapp.Service) *Controller {
	return &Controller{creditService: creditService}
}

// RegisterRoutes Register business routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	businessGroup := router.Group("/business")
	{
		businessGroup.GET("/:businessId/credit-score", c.GetCreditScore)
	}
}

// GetCreditScore computes the credit score from recent transactions.
// GET /api/v1/business/:businessId/credit-score
func (c *Controller) GetCreditScore(ctx *gin.Context) {
	businessID := ctx.Param("businessId")

	resp, err := c.creditService.Score(ctx.Request.Context(), businessID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, resp, "credit score computed")
}
