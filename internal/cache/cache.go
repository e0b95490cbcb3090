package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/MirosMazurenko/Banking-solution/internal/models"
)

// AccountCache is a Redis-backed read cache for account records. A nil
// *AccountCache is a valid no-op cache, so callers never have to branch
// on whether Redis is configured. Cache failures are logged, never
// returned: a miss costs one store read.
type AccountCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

// New creates an AccountCache backed by the provided Redis client.
func New(client *redis.Client, ttl time.Duration, log *logrus.Logger) *AccountCache {
	return &AccountCache{client: client, ttl: ttl, log: log}
}

// Get retrieves a cached account. Returns (nil, false) on miss or any
// cache error.
func (c *AccountCache) Get(ctx context.Context, id int64) (*models.Account, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key(id)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warnf("Account cache read failed for account %d: %v", id, err)
		}
		return nil, false
	}
	account := &models.Account{}
	if err := json.Unmarshal([]byte(data), account); err != nil {
		c.log.Warnf("Account cache entry for account %d is corrupt: %v", id, err)
		return nil, false
	}
	return account, true
}

// Set stores an account under its ID.
func (c *AccountCache) Set(ctx context.Context, account *models.Account) {
	if c == nil {
		return
	}
	data, err := json.Marshal(account)
	if err != nil {
		c.log.Warnf("Account cache marshal failed for account %d: %v", account.ID, err)
		return
	}
	if err := c.client.Set(ctx, key(account.ID), data, c.ttl).Err(); err != nil {
		c.log.Warnf("Account cache write failed for account %d: %v", account.ID, err)
	}
}

// Invalidate drops the cached entry for an account.
func (c *AccountCache) Invalidate(ctx context.Context, id int64) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		c.log.Warnf("Account cache invalidation failed for account %d: %v", id, err)
	}
}

func key(id int64) string {
	return fmt.Sprintf("account:%d", id)
}
