// Package cache implements an optional redis read cache for resolved slots.
// A resolved slot never changes again, so a cached copy can only go stale by
// expiring. Open slots are never cached.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Spikeyfun/prediction/internal/config"
	"github.com/Spikeyfun/prediction/internal/db/model"
)

// ErrCacheMiss is returned when the requested slot is not in the cache.
var ErrCacheMiss = errors.New("slot not in cache")

const defaultSlotTTL = 10 * time.Minute

type SlotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(cfg *config.CacheConfig) (*SlotCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.Db,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Address, err)
	}

	ttl := cfg.SlotTTL
	if ttl == 0 {
		ttl = defaultSlotTTL
	}
	return &SlotCache{rdb: rdb, ttl: ttl}, nil
}

func slotKey(slotID uint64) string {
	return fmt.Sprintf("slot:%d", slotID)
}

func (c *SlotCache) GetSlot(ctx context.Context, slotID uint64) (*model.SlotDocument, error) {
	data, err := c.rdb.Get(ctx, slotKey(slotID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis: get slot %d: %w", slotID, err)
	}

	var slot model.SlotDocument
	if err := json.Unmarshal(data, &slot); err != nil {
		return nil, fmt.Errorf("redis: unmarshal slot %d: %w", slotID, err)
	}
	return &slot, nil
}

func (c *SlotCache) SetSlot(ctx context.Context, slot *model.SlotDocument) error {
	if !slot.IsResolved() {
		return nil
	}
	data, err := json.Marshal(slot)
	if err != nil {
		return fmt.Errorf("redis: marshal slot %d: %w", slot.SlotID, err)
	}
	if err := c.rdb.Set(ctx, slotKey(slot.SlotID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set slot %d: %w", slot.SlotID, err)
	}
	return nil
}

func (c *SlotCache) Close() error {
	return c.rdb.Close()
}
