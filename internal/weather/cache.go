package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"grain/internal/models"
)

// DefaultCacheTTL is how long a fetched series is reused
const DefaultCacheTTL = time.Hour

// Cache stores fetched series by request key
type Cache interface {
	Get(ctx context.Context, key string) ([]models.WeatherObservation, bool, error)
	Set(ctx context.Context, key string, observations []models.WeatherObservation) error
}

type memoryEntry struct {
	observations []models.WeatherObservation
	expiresAt    time.Time
}

// MemoryCache is an in-process cache with a TTL and a bounded entry count.
// When full, expired entries go first, then the entry closest to expiry.
type MemoryCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]memoryEntry
	now        func() time.Time
}

func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = 256
	}
	return &MemoryCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]memoryEntry),
		now:        time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]models.WeatherObservation, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return copyObservations(entry.observations), true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, observations []models.WeatherObservation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evict(now)
	}
	c.entries[key] = memoryEntry{
		observations: copyObservations(observations),
		expiresAt:    now.Add(c.ttl),
	}
	return nil
}

// Len reports the number of stored entries, expired or not
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) evict(now time.Time) {
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}

	oldestKey := ""
	var oldest time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.expiresAt.Before(oldest) {
			oldestKey = key
			oldest = entry.expiresAt
		}
	}
	delete(c.entries, oldestKey)
}

func copyObservations(observations []models.WeatherObservation) []models.WeatherObservation {
	out := make([]models.WeatherObservation, len(observations))
	copy(out, observations)
	return out
}

// RedisCache shares fetched series between server instances
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration, prefix string) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]models.WeatherObservation, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read weather cache: %w", err)
	}

	var observations []models.WeatherObservation
	if err := json.Unmarshal([]byte(data), &observations); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached weather: %w", err)
	}
	return observations, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, observations []models.WeatherObservation) error {
	data, err := json.Marshal(observations)
	if err != nil {
		return fmt.Errorf("failed to encode weather for cache: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write weather cache: %w", err)
	}
	return nil
}
