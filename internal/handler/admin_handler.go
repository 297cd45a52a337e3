package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hemshop/hemshop-api/internal/cache"
	"github.com/hemshop/hemshop-api/internal/middleware"
	"github.com/hemshop/hemshop-api/internal/models"
	"github.com/hemshop/hemshop-api/internal/service"
	"github.com/hemshop/hemshop-api/internal/utils"
)

// AdminHandler exposes the admin dashboard surface: the verification
// queue, status transitions, fee controls, the order ledger and
// read-only seller impersonation.
type AdminHandler struct {
	sellers       *service.SellerService
	escrow        *service.EscrowService
	catalog       *service.CatalogService
	impersonation *cache.ImpersonationCache
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	sellers *service.SellerService,
	escrow *service.EscrowService,
	catalog *service.CatalogService,
	impersonation *cache.ImpersonationCache,
) *AdminHandler {
	return &AdminHandler{
		sellers:       sellers,
		escrow:        escrow,
		catalog:       catalog,
		impersonation: impersonation,
	}
}

// PendingSellers handles GET /v1/admin/sellers/pending.
func (h *AdminHandler) PendingSellers(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	sellers, err := h.sellers.ListPendingSellers(c.Request.Context(), principal)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Pending sellers retrieved", sellers)
}

// UpdateSellerStatus handles PUT /v1/admin/sellers/:address/status.
func (h *AdminHandler) UpdateSellerStatus(c *gin.Context) {
	var req struct {
		Status models.SellerStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	principal := middleware.GetPrincipal(c)
	seller, err := h.sellers.UpdateSellerStatus(c.Request.Context(), principal, c.Param("address"), req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Seller status updated", seller)
}

// GrantOwnerSellerAccess handles POST /v1/admin/sellers/grant-owner.
func (h *AdminHandler) GrantOwnerSellerAccess(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	seller, err := h.sellers.GrantOwnerSellerAccess(c.Request.Context(), principal)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Owner seller access granted", seller)
}

// ChangeServicePct handles PUT /v1/admin/service-pct.
func (h *AdminHandler) ChangeServicePct(c *gin.Context) {
	var req struct {
		ServicePct *int `json:"servicePct" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	principal := middleware.GetPrincipal(c)
	if err := h.escrow.ChangeServicePct(c.Request.Context(), principal, *req.ServicePct); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Service fee updated", gin.H{"servicePct": *req.ServicePct})
}

// FeePool handles GET /v1/admin/fee-pool.
func (h *AdminHandler) FeePool(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	pool, err := h.escrow.FeePool(c.Request.Context(), principal)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Fee pool retrieved", gin.H{"feePool": pool})
}

// AllOrders handles GET /v1/admin/orders.
func (h *AdminHandler) AllOrders(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	orders, err := h.escrow.AllOrders(c.Request.Context(), principal)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Orders retrieved", orders)
}

// Impersonate handles POST /v1/admin/impersonate. It starts a read-only
// view of the marketplace as the given seller.
func (h *AdminHandler) Impersonate(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	seller, err := h.sellers.GetSeller(ctx, req.Address)
	if err != nil {
		fail(c, err)
		return
	}
	if seller.Status == models.SellerUnverified {
		fail(c, utils.ErrSellerNotFound)
		return
	}

	email := middleware.GetAdminEmail(c)
	if err := h.impersonation.Set(ctx, email, req.Address); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Impersonation started", gin.H{"actingAs": req.Address})
}

// StopImpersonation handles DELETE /v1/admin/impersonate.
func (h *AdminHandler) StopImpersonation(c *gin.Context) {
	email := middleware.GetAdminEmail(c)
	if err := h.impersonation.Clear(c.Request.Context(), email); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Impersonation stopped", nil)
}

// ImpersonatedView handles GET /v1/admin/impersonate. It returns the
// impersonated seller's profile, products and sales.
func (h *AdminHandler) ImpersonatedView(c *gin.Context) {
	ctx := c.Request.Context()
	email := middleware.GetAdminEmail(c)

	address, ok := h.impersonation.Get(ctx, email)
	if !ok {
		utils.Error(c, 404, "NO_IMPERSONATION", "No active impersonation session")
		return
	}

	seller, err := h.sellers.GetSeller(ctx, address)
	if err != nil {
		fail(c, err)
		return
	}
	products, err := h.catalog.ListSellerProducts(ctx, address)
	if err != nil {
		fail(c, err)
		return
	}
	sales, err := h.escrow.SellerPurchaseHistory(ctx, address)
	if err != nil {
		fail(c, err)
		return
	}

	utils.Success(c, 200, "Impersonated view retrieved", gin.H{
		"seller":   seller,
		"products": products,
		"sales":    sales,
	})
}
