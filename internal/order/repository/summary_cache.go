package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quanghuydn8/app-theu/internal/order/dashboard"
)

const summaryCacheKey = "stitchdesk:dashboard:summary"

// SummaryCache keeps the dashboard summary in Redis until the next order
// mutation. A nil client turns every call into a miss.
type SummaryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSummaryCache(rdb *redis.Client, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SummaryCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached summary. Any Redis failure reads as a miss.
func (c *SummaryCache) Get(ctx context.Context) (*dashboard.Summary, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, summaryCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var s dashboard.Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	return &s, true
}

func (c *SummaryCache) Set(ctx context.Context, s *dashboard.Summary) error {
	if c == nil || c.rdb == nil || s == nil {
		return nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, summaryCacheKey, raw, c.ttl).Err()
}

func (c *SummaryCache) Invalidate(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, summaryCacheKey).Err()
}
