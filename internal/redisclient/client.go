package redisclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
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

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

// ReplaceCart overwrites the persisted cart wholesale with the given
// snapshot. DEL plus HSET in one transaction keeps it a single atomic set,
// so racing clients resolve to last write wins.
func (c *Client) ReplaceCart(ctx context.Context, userID string, items map[string]int) error {
	key := cartKey(userID)

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, key)

	if len(items) > 0 {
		fields := make(map[string]interface{}, len(items))
		for productID, quantity := range items {
			fields[productID] = quantity
		}
		pipe.HSet(ctx, key, fields)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to replace cart: %w", err)
	}
	return nil
}

// GetCart retrieves the persisted cart mapping. A missing cart is an empty
// mapping, not an error.
func (c *Client) GetCart(ctx context.Context, userID string) (map[string]int, error) {
	result, err := c.rdb.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	items := make(map[string]int, len(result))
	for productID, raw := range result {
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt cart entry %s=%q: %w", productID, raw, err)
		}
		if quantity > 0 {
			items[productID] = quantity
		}
	}
	return items, nil
}

// ClearCart empties the user's cart
func (c *Client) ClearCart(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, cartKey(userID)).Err()
}
