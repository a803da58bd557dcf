// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides a Valkey-backed cache for serialized public API
// responses that are read on every page load but change rarely: the
// popular-tags aggregation and the active ticker items. Admin mutations
// invalidate the affected keys.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// responseKeyPrefix namespaces cached API payloads in Valkey.
	responseKeyPrefix = "api:"

	// DefaultResponseTTL bounds staleness when an invalidation is missed.
	DefaultResponseTTL = 60 * time.Second
)

// Well-known cache keys.
const (
	KeyPopularTags  = "popular-tags"
	KeyActiveTicker = "ticker-active"
)

// ResponseCache stores pre-serialized JSON payloads in Valkey.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache with the given TTL.
// A zero TTL falls back to DefaultResponseTTL.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultResponseTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Get retrieves a cached payload. Returns false on miss or error; cache
// errors are logged, never surfaced.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, responseKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a payload under the key with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, key string, payload []byte) {
	if err := rc.client.Set(ctx, responseKeyPrefix+key, payload, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// Invalidate removes the given keys. Called after admin mutations that
// change the underlying data.
func (rc *ResponseCache) Invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := rc.client.Del(ctx, responseKeyPrefix+key).Err(); err != nil {
			slog.Warn("response cache invalidate error", "key", key, "error", err)
		}
	}
}
