package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"grocery-api/internal/models"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client for the product read-through cache
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetProduct fetches a cached product. Returns redis.Nil on cache miss.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	data, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("failed to decode cached product: %w", err)
	}
	return &product, nil
}

// SetProduct caches a product with the configured TTL
func (c *Client) SetProduct(ctx context.Context, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, productKey(product.ID), data, c.ttl).Err()
}

// InvalidateProduct drops a product from the cache, used after stock or price
// edits so checkout sees live values.
func (c *Client) InvalidateProduct(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, productKey(id)).Err()
}

// IsCacheMiss reports whether err is a plain cache miss.
func IsCacheMiss(err error) bool {
	return err == redis.Nil
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}
