package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultSummaryTTL = 10 * time.Minute

// kv is the subset of *redis.Client the summary cache uses.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SummaryCache holds rendered financial summaries keyed by user. A nil or
// disconnected cache is a no-op so callers never branch on availability.
type SummaryCache struct {
	client kv
	ttl    time.Duration
	closer func() error

	warnedUnavailable atomic.Bool
}

// NewRedis connects to addr. An empty addr or a failed ping yields a cache
// that bypasses redis entirely.
func NewRedis(addr, password string, ttl time.Duration) *SummaryCache {
	if addr == "" {
		return &SummaryCache{ttl: ttl}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("cache: redis unavailable at %s, bypassing cache: %v", addr, err)
		_ = client.Close()
		return &SummaryCache{ttl: ttl}
	}
	return &SummaryCache{client: client, ttl: ttl, closer: client.Close}
}

func newSummaryCache(client kv, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

func SummaryKey(userID string) string {
	return "summary:user:" + userID
}

func (c *SummaryCache) unavailable() bool {
	return c == nil || c.client == nil
}

func (c *SummaryCache) warnOnce(err error) {
	if c.warnedUnavailable.CompareAndSwap(false, true) {
		log.Printf("cache: redis error, bypassing cache: %v", err)
	}
}

// cachedSummary ties rendered text to the record it was built from.
type cachedSummary struct {
	RecordID string `json:"recordId"`
	Summary  string `json:"summary"`
}

// GetSummary returns the cached summary only when it was rendered from
// recordID. Redis errors are reported as misses.
func (c *SummaryCache) GetSummary(ctx context.Context, userID, recordID string) (string, bool) {
	if c.unavailable() {
		return "", false
	}
	value, err := c.client.Get(ctx, SummaryKey(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warnOnce(err)
		}
		return "", false
	}
	var entry cachedSummary
	if err := json.Unmarshal([]byte(value), &entry); err != nil {
		return "", false
	}
	if entry.RecordID != recordID || entry.Summary == "" {
		return "", false
	}
	return entry.Summary, true
}

func (c *SummaryCache) SetSummary(ctx context.Context, userID, recordID, summary string) {
	if c.unavailable() {
		return
	}
	ttl := c.ttl
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	value, err := json.Marshal(cachedSummary{RecordID: recordID, Summary: summary})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, SummaryKey(userID), string(value), ttl).Err(); err != nil {
		c.warnOnce(err)
	}
}

// Invalidate drops the user's entry and returns any redis error.
func (c *SummaryCache) Invalidate(ctx context.Context, userID string) error {
	if c.unavailable() {
		return nil
	}
	return c.client.Del(ctx, SummaryKey(userID)).Err()
}

func (c *SummaryCache) Close() error {
	if c == nil || c.closer == nil {
		return nil
	}
	return c.closer()
}
