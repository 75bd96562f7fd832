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
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_StoreThenLookup(t *testing.T) {
	c := New(NewMemoryBackend(0, 0, 0), nil)
	defer c.Close()
	ctx := context.Background()

	c.Store(ctx, "k1", "hello", time.Minute)

	var dest string
	hit := c.Lookup(ctx, "k1", &dest)
	assert.True(t, hit)
	assert.Equal(t, "hello", dest)
}

func TestCache_LookupMissReturnsFalse(t *testing.T) {
	c := New(NewMemoryBackend(0, 0, 0), nil)
	defer c.Close()

	var dest string
	hit := c.Lookup(context.Background(), "missing", &dest)
	assert.False(t, hit)
}

func TestCache_BackendErrorDegradesToPassThrough(t *testing.T) {
	var gotOp string
	var gotErr error
	c := New(&erroringBackend{}, func(op string, err error) { gotOp = op; gotErr = err })

	var dest string
	hit := c.Lookup(context.Background(), "k1", &dest)
	assert.False(t, hit)
	assert.Equal(t, "get", gotOp)
	require.Error(t, gotErr)
}

func TestCache_WithSingleFlight_OneProducerPerKey(t *testing.T) {
	c := New(NewMemoryBackend(0, 0, 0), nil)
	defer c.Close()

	var calls int32
	var wg sync.WaitGroup
	results := make([]any, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var dest string
			v, err, _ := c.WithSingleFlight(context.Background(), "shared-key", &dest, func() (any, error) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(20 * time.Millisecond)
				return "produced", nil
			})
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "exactly one producer invocation per fingerprint")
	for _, r := range results {
		assert.Equal(t, "produced", r)
	}
}

type erroringBackend struct{}

func (b *erroringBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, fmt.Errorf("backend unavailable")
}
func (b *erroringBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return fmt.Errorf("backend unavailable")
}
func (b *erroringBackend) Close() error { return nil }
