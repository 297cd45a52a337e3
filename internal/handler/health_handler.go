package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/hemshop/hemshop-api/internal/cache"
	"github.com/hemshop/hemshop-api/internal/utils"
)

var startTime = time.Now()

// HealthHandler provides health endpoint.
type HealthHandler struct {
	db    *sqlx.DB
	redis *cache.RedisClient
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sqlx.DB, redis *cache.RedisClient) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// GetHealth responds with service, database and Redis status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx := c.Request.Context()

	dbStatus := "connected"
	if err := h.db.PingContext(ctx); err != nil {
		dbStatus = "disconnected"
	}

	redisStatus := "connected"
	if _, err := h.redis.Exists(ctx, "health"); err != nil {
		redisStatus = "disconnected"
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":   "healthy",
		"version":  "1.0.0",
		"uptime":   int(time.Since(startTime).Seconds()),
		"database": gin.H{"status": dbStatus},
		"redis":    gin.H{"status": redisStatus},
	})
}
