package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hemshop/hemshop-api/internal/middleware"
	"github.com/hemshop/hemshop-api/internal/service"
	"github.com/hemshop/hemshop-api/internal/utils"
)

// OrderHandler exposes the purchase flow and order histories.
type OrderHandler struct {
	escrow *service.EscrowService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(escrow *service.EscrowService) *OrderHandler {
	return &OrderHandler{escrow: escrow}
}

// Buy handles POST /v1/orders.
func (h *OrderHandler) Buy(c *gin.Context) {
	var req service.BuyProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	principal := middleware.GetPrincipal(c)
	purchase, err := h.escrow.BuyProduct(c.Request.Context(), principal, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 201, "Purchase completed", purchase)
}

// MarkDelivered handles POST /v1/orders/deliver.
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	var req struct {
		ProductID int64  `json:"productId" binding:"required"`
		Buyer     string `json:"buyer" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	principal := middleware.GetPrincipal(c)
	purchase, err := h.escrow.MarkPurchaseDelivered(c.Request.Context(), principal, req.ProductID, req.Buyer)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Purchase marked delivered", purchase)
}

// SellerHistory handles GET /v1/orders/sales. It lists the caller's sales.
func (h *OrderHandler) SellerHistory(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	purchases, err := h.escrow.SellerPurchaseHistory(c.Request.Context(), principal.Address)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Sales retrieved", purchases)
}

// BuyerHistory handles GET /v1/orders/purchases. It lists the caller's purchases.
func (h *OrderHandler) BuyerHistory(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	purchases, err := h.escrow.BuyerPurchaseHistory(c.Request.Context(), principal.Address)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Purchases retrieved", purchases)
}

// ServicePct handles GET /v1/orders/service-pct.
func (h *OrderHandler) ServicePct(c *gin.Context) {
	pct, err := h.escrow.ServicePct(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Service fee retrieved", gin.H{"servicePct": pct})
}
