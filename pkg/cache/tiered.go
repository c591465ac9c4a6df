package cache

import (
	"context"
	"errors"
	"time"
)

// TieredCache reads through a fast front cache to a durable back cache.
// Back hits are copied to the front with FrontTTL.
type TieredCache struct {
	Front    Cache
	Back     Cache
	FrontTTL time.Duration
}

// NewTieredCache returns a TieredCache. A non-positive frontTTL uses
// TTLLayout.
func NewTieredCache(front, back Cache, frontTTL time.Duration) *TieredCache {
	if frontTTL <= 0 {
		frontTTL = TTLLayout
	}
	return &TieredCache{Front: front, Back: back, FrontTTL: frontTTL}
}

// Get implements Cache. A failing front is treated as a miss.
func (c *TieredCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if data, ok, err := c.Front.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}
	data, ok, err := c.Back.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = c.Front.Set(ctx, key, data, c.FrontTTL)
	return data, true, nil
}

// Set writes to the back cache first, then the front with the shorter of
// ttl and FrontTTL.
func (c *TieredCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Back.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	front := c.FrontTTL
	if ttl > 0 && ttl < front {
		front = ttl
	}
	return c.Front.Set(ctx, key, data, front)
}

// Delete implements Cache.
func (c *TieredCache) Delete(ctx context.Context, key string) error {
	return errors.Join(c.Front.Delete(ctx, key), c.Back.Delete(ctx, key))
}

// Close closes both tiers.
func (c *TieredCache) Close() error {
	return errors.Join(c.Front.Close(), c.Back.Close())
}

var _ Cache = (*TieredCache)(nil)
