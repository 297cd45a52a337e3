package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hemshop/hemshop-api/internal/models"
	"github.com/hemshop/hemshop-api/internal/utils"
)

// AuthMiddleware validates session tokens and attaches the calling
// principal to the request context.
type AuthMiddleware struct {
	rateLimiter *InvalidAuthRateLimiter
}

// NewAuthMiddleware constructs a new AuthMiddleware.
func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{
		rateLimiter: NewInvalidAuthRateLimiter(),
	}
}

// Handle returns a Gin middleware that requires a valid session token.
func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.validate(c)
		if !ok {
			return
		}
		setPrincipal(c, models.Principal{Address: claims.Address, Admin: claims.Admin}, claims.Email)
		c.Next()
	}
}

// HandleAdmin returns a Gin middleware that requires an admin session token.
func (m *AuthMiddleware) HandleAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.validate(c)
		if !ok {
			return
		}
		if !claims.Admin {
			utils.Error(c, 403, "UNAUTHORIZED", "Admin access required")
			c.Abort()
			return
		}
		setPrincipal(c, models.Principal{Address: claims.Address, Admin: true}, claims.Email)
		c.Next()
	}
}

func (m *AuthMiddleware) validate(c *gin.Context) (*utils.SessionClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		m.handleAuthError(c, "INVALID_TOKEN", "Missing or invalid authorization header")
		return nil, false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := utils.ValidateJWT(token)
	if err != nil {
		m.handleAuthError(c, "INVALID_TOKEN", "Invalid or expired token")
		return nil, false
	}
	return claims, true
}

func (m *AuthMiddleware) handleAuthError(c *gin.Context, code, message string) {
	// Apply rate limit for invalid auth attempts
	ip := c.ClientIP()
	if !m.rateLimiter.Allow(ip) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}

	utils.Error(c, 401, code, message)
	c.Abort()
}

func setPrincipal(c *gin.Context, p models.Principal, email string) {
	c.Set("principal", p)
	c.Set("principal_address", p.Address)
	if email != "" {
		c.Set("admin_email", email)
	}
}

// GetPrincipal returns the authenticated principal from context.
func GetPrincipal(c *gin.Context) models.Principal {
	v, _ := c.Get("principal")
	if v == nil {
		return models.Principal{}
	}
	return v.(models.Principal)
}

// GetAdminEmail returns the operator email behind an admin session.
func GetAdminEmail(c *gin.Context) string {
	return c.GetString("admin_email")
}
