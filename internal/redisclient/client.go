package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-gateway/internal/tracking"

	"github.com/go-redis/redis/v8"
)

// Client is a thin JSON cache over Redis
type Client struct {
	rdb *redis.Client
}

// NewClient creates a Redis client and verifies connectivity
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

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetJSON reads a key into dest. Returns (false, nil) on miss.
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("failed to decode cached value: %w", err)
	}
	return true, nil
}

// SetJSON writes a value under a key with a TTL
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// Delete removes keys
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// SnapshotCache caches tracking snapshots under short TTLs. The
// order-events stream invalidates entries when a status changes, so a
// cached snapshot never outlives the state it rendered for long.
type SnapshotCache struct {
	client *Client
}

// NewSnapshotCache creates a snapshot cache
func NewSnapshotCache(client *Client) *SnapshotCache {
	return &SnapshotCache{client: client}
}

func snapshotKey(orderID string) string {
	return fmt.Sprintf("track:%s", orderID)
}

// GetSnapshot returns a cached snapshot, or (nil, nil) on miss
func (s *SnapshotCache) GetSnapshot(ctx context.Context, orderID string) (*tracking.Snapshot, error) {
	var snapshot tracking.Snapshot
	found, err := s.client.GetJSON(ctx, snapshotKey(orderID), &snapshot)
	if err != nil || !found {
		return nil, err
	}
	return &snapshot, nil
}

// SetSnapshot caches a snapshot
func (s *SnapshotCache) SetSnapshot(ctx context.Context, orderID string, snapshot *tracking.Snapshot, ttl time.Duration) error {
	return s.client.SetJSON(ctx, snapshotKey(orderID), snapshot, ttl)
}

// InvalidateOrder drops the cached snapshot for an order
func (s *SnapshotCache) InvalidateOrder(ctx context.Context, orderID int64) error {
	return s.client.Delete(ctx, snapshotKey(fmt.Sprintf("%d", orderID)))
}
