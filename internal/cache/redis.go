package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/five82/shelf/internal/catalog"
)

const (
	defaultRedisKey = "shelf:products"
	defaultRedisTTL = 10 * time.Minute
)

// Redis stores the list as JSON under a single key so several Shelf
// processes can share it.
type Redis struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

// RedisOptions configure NewRedis.
type RedisOptions struct {
	URL    string
	Key    string
	TTL    time.Duration
	Logger *slog.Logger
}

// NewRedis connects to the server at opts.URL and verifies it with a PING.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	parsed, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(parsed)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return newRedis(client, opts), nil
}

func newRedis(client *redis.Client, opts RedisOptions) *Redis {
	r := &Redis{client: client, key: opts.Key, ttl: opts.TTL, logger: opts.Logger}
	if r.key == "" {
		r.key = defaultRedisKey
	}
	if r.ttl <= 0 {
		r.ttl = defaultRedisTTL
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Has reports whether the key holds a non-empty list. Lookup failures count
// as a miss.
func (r *Redis) Has(ctx context.Context) bool {
	if r == nil || r.client == nil {
		return false
	}
	items, err := r.Get(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "redis cache lookup failed", "key", r.key, "err", err)
		return false
	}
	return len(items) > 0
}

// Get returns the stored list, or nil on a miss.
func (r *Redis) Get(ctx context.Context) ([]catalog.Product, error) {
	if r == nil || r.client == nil {
		return nil, errors.New("redis client not available")
	}
	val, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var items []catalog.Product
	if err := json.Unmarshal(val, &items); err != nil {
		return nil, fmt.Errorf("decode cached products: %w", err)
	}
	return items, nil
}

// Set stores items with the configured TTL.
func (r *Redis) Set(ctx context.Context, items []catalog.Product) error {
	if r == nil || r.client == nil {
		return errors.New("redis client not available")
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode products: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}
