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

// Package cache memoizes searcher outputs keyed by a fingerprint that
// captures every input that can change the result (spec §4.2). It wraps a
// pluggable Backend in a singleflight.Group so at most one producer runs
// per key at a time, even across concurrent requests.
package cache

import (
	"context"
	"time"
)

// Backend is the pluggable key/value store behind Cache. Get/Set failures
// are never fatal to the caller — Cache.Lookup and Cache.Store treat a
// Backend error as a miss/no-op and pass it to the onError callback given
// to New. No Metrics counter is incremented for it.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}
