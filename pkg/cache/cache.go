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
	"encoding/gob"
	"bytes"
	"reflect"
	"time"

	"golang.org/x/sync/singleflight"
)

// redisLockTTL bounds how long a cross-process producer lock is held, so a
// crashed producer doesn't wedge a key forever.
const redisLockTTL = 30 * time.Second

// redisLockPollInterval/redisLockMaxPolls bound how long a follower process
// waits on another process's producer lock before giving up and producing
// locally (spec §4.2's single-flight guarantee degrades to pass-through
// rather than blocking indefinitely).
const (
	redisLockPollInterval = 50 * time.Millisecond
	redisLockMaxPolls     = 200
)

// Cache is the public type the Orchestrator depends on. It wraps a Backend
// in a singleflight.Group so that at most one concurrent producer runs per
// key, in-process, across however many goroutines ask for it at once
// (spec §4.2 "with_single_flight"). Values are serialized with
// encoding/gob, the stable binary form spec §4.2 calls for.
type Cache struct {
	backend Backend
	sf      singleflight.Group
	onError func(op string, err error)
}

// New wraps backend. onError, if non-nil, is called whenever a Backend
// operation fails; Cache always degrades to pass-through regardless (spec
// §4.2 "Failures").
func New(backend Backend, onError func(op string, err error)) *Cache {
	if onError == nil {
		onError = func(string, error) {}
	}
	return &Cache{backend: backend, onError: onError}
}

// Lookup implements the `lookup(key) → (hit, value) | miss` contract.
func (c *Cache) Lookup(ctx context.Context, key string, dest any) bool {
	data, hit, err := c.backend.Get(ctx, key)
	if err != nil {
		c.onError("get", err)
		return false
	}
	if !hit {
		return false
	}
	if err := gobDecode(data, dest); err != nil {
		c.onError("decode", err)
		return false
	}
	return true
}

// Store implements `store(key, value, ttl)`.
func (c *Cache) Store(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := gobEncode(value)
	if err != nil {
		c.onError("encode", err)
		return
	}
	if err := c.backend.Set(ctx, key, data, ttl); err != nil {
		c.onError("set", err)
	}
}

// WithSingleFlight implements `with_single_flight(key, producer) → value`:
// at most one concurrent producer per key runs in-process via
// singleflight.Group; other in-process callers block on that result (spec
// §4.2). When backend is a RedisBackend, producing additionally takes a
// short-lived SET NX PX lock on key so the guarantee holds across processes
// too — a process that loses the lock race polls the backend for the
// winning process's stored result instead of re-running producer, decoding
// into dest (a pointer, only read on that fallback path).
func (c *Cache) WithSingleFlight(ctx context.Context, key string, dest any, producer func() (any, error)) (any, error, bool) {
	v, err, shared := c.sf.Do(key, func() (any, error) {
		rb, ok := c.backend.(*RedisBackend)
		if !ok {
			return producer()
		}
		return c.withRedisLock(ctx, rb, key, dest, producer)
	})
	return v, err, shared
}

func (c *Cache) withRedisLock(ctx context.Context, rb *RedisBackend, key string, dest any, producer func() (any, error)) (any, error) {
	acquired, release, err := rb.AcquireProducerLock(ctx, key, redisLockTTL)
	if err != nil {
		c.onError("lock", err)
		return producer()
	}
	if acquired {
		defer release()
		return producer()
	}

	for i := 0; i < redisLockMaxPolls; i++ {
		select {
		case <-ctx.Done():
			return producer()
		case <-time.After(redisLockPollInterval):
		}
		if c.Lookup(ctx, key, dest) {
			return reflect.ValueOf(dest).Elem().Interface(), nil
		}
	}
	return producer()
}

// Close releases the underlying Backend's resources.
func (c *Cache) Close() error {
	return c.backend.Close()
}

func gobEncode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gobDecode(data []byte, dest any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(dest)
}
