package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const sharedKeyPrefix = "cinema-booking:"

// SharedCache is an optional Redis-backed cache for catalog reads, shared by
// every client pointed at the same Redis. A nil *SharedCache is valid and
// behaves as an always-missing cache.
type SharedCache struct {
	rdb *redis.Client
}

// NewSharedCache connects to Redis at addr. It returns nil when addr is empty
// or the server does not answer a ping, so callers degrade to the file cache.
func NewSharedCache(addr, password string, db int) *SharedCache {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil
	}
	return &SharedCache{rdb: rdb}
}

// GetJSON decodes the value stored under key into out. found is false on a
// miss.
func (c *SharedCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if c == nil {
		return false, nil
	}
	data, err := c.rdb.Get(ctx, sharedKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *SharedCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, sharedKeyPrefix+key, payload, ttl).Err()
}

func (c *SharedCache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = sharedKeyPrefix + key
	}
	return c.rdb.Del(ctx, full...).Err()
}

func (c *SharedCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
