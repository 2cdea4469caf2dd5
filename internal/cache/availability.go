// Package cache keeps resolved availability views in Redis. Writers
// invalidate after commit; bookings never read from it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/barber-availability/internal/metrics"
)

const keyPrefix = "availability"

// Version counters outlive every cached view, so a reset counter can never
// resurrect a stale entry.
const minVersionTTL = 7 * 24 * time.Hour

// AvailabilityCache is a no-op when nil or built without a client.
//
// Entries are keyed by the barber's generation and the day's version.
// Writers bump a counter instead of deleting, so a view resolved before a
// write lands under a key no reader will ask for again.
type AvailabilityCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration, m *metrics.Metrics) *AvailabilityCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &AvailabilityCache{client: client, ttl: ttl, metrics: m}
}

func (c *AvailabilityCache) enabled() bool {
	return c != nil && c.client != nil
}

func generationKey(barberID uint) string {
	return fmt.Sprintf("%s:gen:%d", keyPrefix, barberID)
}

func versionKey(barberID uint, date string) string {
	return fmt.Sprintf("%s:ver:%d:%s", keyPrefix, barberID, date)
}

// Key is the entry for one day at a given stamp.
func Key(barberID uint, date, stamp string) string {
	return fmt.Sprintf("%s:%d:%s:%s", keyPrefix, barberID, date, stamp)
}

func (c *AvailabilityCache) versionTTL() time.Duration {
	if d := 10 * c.ttl; d > minVersionTTL {
		return d
	}
	return minVersionTTL
}

// Stamp reads the current generation and version of a day. Callers take it
// before resolving the view and pass it to Get and Set.
func (c *AvailabilityCache) Stamp(ctx context.Context, barberID uint, date string) (string, error) {
	if !c.enabled() {
		return "", nil
	}

	vals, err := c.client.MGet(ctx, generationKey(barberID), versionKey(barberID, date)).Result()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("g%s.v%s", counter(vals[0]), counter(vals[1])), nil
}

func counter(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "0"
}

// Get decodes a cached view into dest and reports whether it was found.
func (c *AvailabilityCache) Get(ctx context.Context, barberID uint, date, stamp string, dest any) (bool, error) {
	if !c.enabled() || stamp == "" {
		return false, nil
	}

	raw, err := c.client.Get(ctx, Key(barberID, date, stamp)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.CacheLookup(false)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	c.metrics.CacheLookup(true)
	return true, nil
}

func (c *AvailabilityCache) Set(ctx context.Context, barberID uint, date, stamp string, v any) error {
	if !c.enabled() || stamp == "" {
		return nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(barberID, date, stamp), payload, c.ttl).Err()
}

// InvalidateDay bumps the version of each date.
func (c *AvailabilityCache) InvalidateDay(ctx context.Context, barberID uint, dates ...string) error {
	if !c.enabled() || len(dates) == 0 {
		return nil
	}
	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, versionKey(barberID, d))
	}
	return c.bump(ctx, keys...)
}

// InvalidateBarber bumps the barber's generation, retiring every cached day.
func (c *AvailabilityCache) InvalidateBarber(ctx context.Context, barberID uint) error {
	if !c.enabled() {
		return nil
	}
	return c.bump(ctx, generationKey(barberID))
}

func (c *AvailabilityCache) bump(ctx context.Context, keys ...string) error {
	ttl := c.versionTTL()
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Incr(ctx, k)
			pipe.Expire(ctx, k, ttl)
		}
		return nil
	})
	return err
}
