package handler

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hemshop/hemshop-api/internal/service"
	"github.com/hemshop/hemshop-api/internal/utils"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// AuthHandler issues session tokens for wallet addresses and handles
// admin dashboard logins.
type AuthHandler struct {
	adminAuth  *service.AdminAuthService
	sessionTTL time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(adminAuth *service.AdminAuthService, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{adminAuth: adminAuth, sessionTTL: sessionTTL}
}

// CreateSession handles POST /v1/auth/session. It issues a session token
// for the given wallet address.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if !addressPattern.MatchString(req.Address) {
		utils.Error(c, 400, "INVALID_ADDRESS", "Address must be a 0x-prefixed 40-hex-digit string")
		return
	}

	token, err := utils.GenerateSessionJWT(req.Address, h.sessionTTL)
	if err != nil {
		fail(c, err)
		return
	}

	utils.Success(c, 200, "Session created", gin.H{
		"token":   token,
		"address": req.Address,
	})
}

// AdminLogin handles POST /v1/auth/admin/login.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	token, err := h.adminAuth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.Error(c, 401, "INVALID_CREDENTIALS", err.Error())
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{
		"token": token,
	})
}
