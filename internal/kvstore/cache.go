// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL is how long a cached blob lives in Valkey before expiry.
const DefaultCacheTTL = 5 * time.Minute

// keyPrefix namespaces blob cache keys in Valkey to avoid collisions.
const keyPrefix = "blob:"

// BlobCache is a small ephemeral cache for singleton JSON blobs (the site
// settings row). A nil client disables caching entirely; every method is
// then a no-op, so callers never branch on availability.
type BlobCache struct {
	client *redis.Client
	ttl    time.Duration
}

// ConnectValkey creates a Valkey client and verifies the connection with a ping.
func ConnectValkey(host, port, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	slog.Info("valkey connected", "addr", fmt.Sprintf("%s:%s", host, port))
	return client, nil
}

// NewBlobCache creates a blob cache over the given Valkey client.
// Pass a nil client to disable caching.
func NewBlobCache(client *redis.Client, ttl time.Duration) *BlobCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &BlobCache{client: client, ttl: ttl}
}

// Get unmarshals the cached blob into dest. Returns false on a miss, on a
// disabled cache, or on any cache error (misses and errors are equivalent
// to the caller: fall through to storage).
func (c *BlobCache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	payload, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		slog.Warn("blob cache get failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		slog.Warn("blob cache unmarshal failed", "key", key, "error", err)
		return false
	}
	return true
}

// Set stores the blob under the key with the cache TTL. Failures are
// logged and otherwise ignored; the durable store remains authoritative.
func (c *BlobCache) Set(ctx context.Context, key string, value any) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		slog.Warn("blob cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, keyPrefix+key, payload, c.ttl).Err(); err != nil {
		slog.Warn("blob cache set failed", "key", key, "error", err)
	}
}

// Invalidate drops the cached blob. Called after every settings write.
func (c *BlobCache) Invalidate(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		slog.Warn("blob cache invalidate failed", "key", key, "error", err)
	}
}
