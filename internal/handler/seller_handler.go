package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hemshop/hemshop-api/internal/middleware"
	"github.com/hemshop/hemshop-api/internal/service"
	"github.com/hemshop/hemshop-api/internal/utils"
)

// SellerHandler exposes seller registration, profile reads and withdrawal.
type SellerHandler struct {
	sellers *service.SellerService
}

// NewSellerHandler creates a new SellerHandler.
func NewSellerHandler(sellers *service.SellerService) *SellerHandler {
	return &SellerHandler{sellers: sellers}
}

// Register handles POST /v1/sellers/register.
func (h *SellerHandler) Register(c *gin.Context) {
	var req service.RegisterSellerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	principal := middleware.GetPrincipal(c)
	seller, err := h.sellers.RegisterSeller(c.Request.Context(), principal, &req)
	if err != nil {
		fail(c, err)
		return
	}

	utils.Success(c, 201, "Registration submitted", seller)
}

// Me handles GET /v1/sellers/me.
func (h *SellerHandler) Me(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	seller, err := h.sellers.GetSeller(c.Request.Context(), principal.Address)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Seller retrieved", seller)
}

// Get handles GET /v1/sellers/:address.
func (h *SellerHandler) Get(c *gin.Context) {
	seller, err := h.sellers.GetSeller(c.Request.Context(), c.Param("address"))
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Seller retrieved", seller)
}

// GetProfile handles GET /v1/sellers/:address/profile.
func (h *SellerHandler) GetProfile(c *gin.Context) {
	seller, err := h.sellers.GetSeller(c.Request.Context(), c.Param("address"))
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Profile retrieved", seller.Profile())
}

// GetStatus handles GET /v1/sellers/:address/status.
func (h *SellerHandler) GetStatus(c *gin.Context) {
	status, err := h.sellers.GetSellerStatus(c.Request.Context(), c.Param("address"))
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Status retrieved", gin.H{
		"address": c.Param("address"),
		"status":  status,
	})
}

// List handles GET /v1/sellers.
func (h *SellerHandler) List(c *gin.Context) {
	sellers, err := h.sellers.ListSellers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Sellers retrieved", sellers)
}

// Withdraw handles POST /v1/sellers/withdraw.
func (h *SellerHandler) Withdraw(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	payout, err := h.sellers.Withdraw(c.Request.Context(), principal)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Withdrawal initiated", payout)
}
