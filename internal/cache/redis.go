package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	TTL      time.Duration
}

// AccessCache memoizes access-check results per (hall, user) pair. Keys for
// one hall are tracked in a per-hall set so a grant resync can drop them all
// without a scan.
type AccessCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAccessCache(cfg Config) (*AccessCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &AccessCache{client: rdb, ttl: ttl}, nil
}

func pairKey(hallID, userID int64) string {
	return fmt.Sprintf("access:%d:%d", hallID, userID)
}

func hallSetKey(hallID int64) string {
	return fmt.Sprintf("access:hall:%d", hallID)
}

// Get returns (allowed, found). A cache error counts as a miss.
func (c *AccessCache) Get(ctx context.Context, hallID, userID int64) (bool, bool) {
	val, err := c.client.Get(ctx, pairKey(hallID, userID)).Result()
	if err != nil {
		return false, false
	}
	return val == "1", true
}

func (c *AccessCache) Set(ctx context.Context, hallID, userID int64, allowed bool) {
	val := "0"
	if allowed {
		val = "1"
	}

	key := pairKey(hallID, userID)
	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, val, c.ttl)
	pipe.SAdd(ctx, hallSetKey(hallID), key)
	pipe.Expire(ctx, hallSetKey(hallID), c.ttl)
	_, _ = pipe.Exec(ctx)
}

// InvalidateHall drops every cached result for one hall. Called after a
// grant resync so stale answers never outlive a rewrite.
func (c *AccessCache) InvalidateHall(ctx context.Context, hallID int64) {
	keys, err := c.client.SMembers(ctx, hallSetKey(hallID)).Result()
	if err != nil {
		return
	}
	keys = append(keys, hallSetKey(hallID))
	_ = c.client.Del(ctx, keys...).Err()
}

func (c *AccessCache) Close() error {
	return c.client.Close()
}
