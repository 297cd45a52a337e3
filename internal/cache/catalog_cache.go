package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hemshop/hemshop-api/internal/models"
)

const (
	catalogCacheKey = "catalog:products:active"
	catalogCacheTTL = 30 * time.Second
)

// CatalogCache keeps the active product listing in Redis for a short
// window. The listing is the hottest read on the platform and tolerates
// seconds of staleness; every stock or catalog mutation invalidates it.
type CatalogCache struct {
	redis *RedisClient
}

// NewCatalogCache creates a catalog cache backed by the given Redis client.
func NewCatalogCache(redis *RedisClient) *CatalogCache {
	return &CatalogCache{redis: redis}
}

// GetProducts returns the cached active listing, or (nil, false) on miss.
func (c *CatalogCache) GetProducts(ctx context.Context) ([]models.Product, bool) {
	data, err := c.redis.Get(ctx, catalogCacheKey)
	if err != nil {
		return nil, false
	}
	var products []models.Product
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		log.Warn().Err(err).Msg("Failed to unmarshal cached catalog, dropping entry")
		_ = c.redis.Delete(ctx, catalogCacheKey)
		return nil, false
	}
	return products, true
}

// SetProducts stores the active listing. Failures are logged and ignored;
// the cache is an optimization, not a source of truth.
func (c *CatalogCache) SetProducts(ctx context.Context, products []models.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal catalog for cache")
		return
	}
	if err := c.redis.Set(ctx, catalogCacheKey, string(data), catalogCacheTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to cache catalog")
	}
}

// Invalidate drops the cached listing after any catalog mutation.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if err := c.redis.Delete(ctx, catalogCacheKey); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate catalog cache")
	}
}

const impersonationTTL = 15 * time.Minute

// ImpersonationCache records which seller an admin is currently viewing
// the marketplace as. Entries expire on their own so a forgotten session
// cannot linger.
type ImpersonationCache struct {
	redis *RedisClient
}

// NewImpersonationCache creates an impersonation cache.
func NewImpersonationCache(redis *RedisClient) *ImpersonationCache {
	return &ImpersonationCache{redis: redis}
}

func impersonationKey(adminEmail string) string {
	return fmt.Sprintf("impersonate:%s", adminEmail)
}

// Set records that adminEmail is acting as sellerAddress.
func (c *ImpersonationCache) Set(ctx context.Context, adminEmail, sellerAddress string) error {
	return c.redis.Set(ctx, impersonationKey(adminEmail), sellerAddress, impersonationTTL)
}

// Get returns the seller address adminEmail is acting as, or ("", false).
func (c *ImpersonationCache) Get(ctx context.Context, adminEmail string) (string, bool) {
	addr, err := c.redis.Get(ctx, impersonationKey(adminEmail))
	if err != nil || addr == "" {
		return "", false
	}
	return addr, true
}

// Clear ends the impersonation session.
func (c *ImpersonationCache) Clear(ctx context.Context, adminEmail string) error {
	return c.redis.Delete(ctx, impersonationKey(adminEmail))
}
