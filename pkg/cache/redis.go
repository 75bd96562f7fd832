// Copyright 2025 The Gitsearch Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"context"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// jitterFraction matches the pack's ±10% TTL jitter convention
// (stormlightlabs-baseball/internal/cache/cache.go's addJitter), applied
// here so many processes sharing one Redis don't expire a hot fingerprint
// simultaneously.
const jitterFraction = 0.1

// RedisBackend is the shared-remote Backend (spec §4.2 "Shared remote").
// Single-flight coordination additionally takes a short-lived "SET NX PX"
// lock per key so the guarantee holds across processes, not just within
// one (spec §4.2's "single-flight coordinated with a short-lived exclusive
// lock on the key").
type RedisBackend struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisBackend wraps an existing *redis.Client. keyPrefix namespaces
// every key gitsearch writes, so a shared Redis instance can host other
// tenants safely.
func NewRedisBackend(client *redis.Client, keyPrefix string) *RedisBackend {
	return &RedisBackend{client: client, keyPrefix: keyPrefix}
}

func (b *RedisBackend) namespaced(key string) string {
	return b.keyPrefix + ":" + key
}

func (b *RedisBackend) addJitter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	jitter := time.Duration(float64(ttl) * jitterFraction * (rand.Float64()*2 - 1))
	return ttl + jitter
}

// Get implements Backend.
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := b.client.Get(ctx, b.namespaced(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set implements Backend.
func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.client.Set(ctx, b.namespaced(key), value, b.addJitter(ttl)).Err()
}

// Close implements Backend.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}

// AcquireProducerLock takes the short-lived cross-process single-flight
// lock for key using SET NX PX. It returns a release function; callers
// must call it once the producer finishes, successfully or not.
func (b *RedisBackend) AcquireProducerLock(ctx context.Context, key string, ttl time.Duration) (acquired bool, release func(), err error) {
	lockKey := b.namespaced("lock:" + key)
	ok, err := b.client.SetNX(ctx, lockKey, "1", ttl).Result()
	if err != nil {
		return false, func() {}, err
	}
	if !ok {
		return false, func() {}, nil
	}
	return true, func() { b.client.Del(context.Background(), lockKey) }, nil
}
