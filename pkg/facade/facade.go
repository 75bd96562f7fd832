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

package facade

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coderadar/gitsearch/pkg/cache"
	"github.com/coderadar/gitsearch/pkg/gitaccess"
	"github.com/coderadar/gitsearch/pkg/gitsearch"
	"github.com/coderadar/gitsearch/pkg/orchestrator"
	"github.com/coderadar/gitsearch/pkg/search"
)

// Facade is the single object every outer face (CLI, HTTP, RPC) depends on.
// It owns the shared caches (one MemoryBackend, optionally one
// RedisBackend) and tracks in-flight requests so Cancel can find them —
// grounded on the "convenience wrapper over an async primitive" shape
// throughout pkg/tools' handlers (each wraps one client.Query call).
type Facade struct {
	registry *search.Registry
	logger   *slog.Logger

	localCache  *cache.Cache
	sharedCache *cache.Cache

	nextID atomic.Uint64

	mu       sync.Mutex
	inflight map[string]context.CancelFunc
}

// New builds a Facade. sharedBackend may be nil if no shared (Redis) cache
// is configured; a process-local memory cache is always available for
// CacheLocal.
func New(registry *search.Registry, sharedBackend cache.Backend, logger *slog.Logger) *Facade {
	if registry == nil {
		registry = search.DefaultRegistry
	}
	if logger == nil {
		logger = slog.Default()
	}
	f := &Facade{
		registry: registry,
		logger:   logger,
		localCache: cache.New(cache.NewMemoryBackend(10_000, 64*1024*1024, 30*time.Second), func(op string, err error) {
			logger.Warn("gitsearch.cache.error", "op", op, "err", err, "backend", "local")
		}),
		inflight: make(map[string]context.CancelFunc),
	}
	if sharedBackend != nil {
		f.sharedCache = cache.New(sharedBackend, func(op string, err error) {
			logger.Warn("gitsearch.cache.error", "op", op, "err", err, "backend", "shared")
		})
	}
	return f
}

func (f *Facade) cacheFor(kind CacheBackendKind) *cache.Cache {
	switch kind {
	case CacheShared:
		if f.sharedCache != nil {
			return f.sharedCache
		}
		return f.localCache
	case CacheNone:
		return nil
	default:
		return f.localCache
	}
}

func (f *Facade) config(opts Options) orchestrator.Config {
	cfg := orchestrator.DefaultConfig()
	if opts.WorkerCount > 0 {
		cfg.WorkerCount = opts.WorkerCount
	}
	if d := opts.deadline(); d > 0 {
		cfg.Deadline = d
	}
	if opts.RankingWeights != nil {
		cfg.RankingWeights = *opts.RankingWeights
	}
	cfg.EnableExternalScanner = opts.EnableExternalScanner
	return cfg
}

func (f *Facade) newRequestID() string {
	return fmt.Sprintf("req-%d", f.nextID.Add(1))
}

// Submit is the asynchronous primitive (spec.md §4.5 "submit"): it returns
// a request id immediately, a channel of RankedResults, and a Metrics
// pointer that is safe to read once the result channel closes.
func (f *Facade) Submit(ctx context.Context, repo *gitaccess.Repository, query *gitsearch.Query, opts Options, progress gitsearch.ProgressSink) (string, <-chan gitsearch.RankedResult, *gitsearch.Metrics, <-chan error) {
	id := f.newRequestID()
	orch := orchestrator.New(f.registry, f.cacheFor(opts.CacheBackend), f.config(opts), f.logger)

	runCtx, cancel := context.WithCancel(ctx)
	f.track(id, cancel)

	results, metrics, errs := orch.RunStreaming(runCtx, repo, query, progress)

	out := make(chan gitsearch.RankedResult)
	outErrs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(outErrs)
		defer f.forget(id)
		defer cancel()
		for r := range results {
			out <- r
		}
		if err := <-errs; err != nil {
			outErrs <- err
		}
	}()

	return id, out, metrics, outErrs
}

// SearchSync is Submit plus draining the stream (spec.md §4.5
// "search_sync"), the shape every pkg/tools handler in the teacher uses:
// one synchronous call in, one complete answer out.
func (f *Facade) SearchSync(ctx context.Context, repo *gitaccess.Repository, query *gitsearch.Query, opts Options) ([]gitsearch.RankedResult, *gitsearch.Metrics, error) {
	_, results, metrics, errs := f.Submit(ctx, repo, query, opts, gitsearch.NoopProgressSink)
	var collected []gitsearch.RankedResult
	for r := range results {
		collected = append(collected, r)
	}
	if err := <-errs; err != nil {
		return collected, metrics, err
	}
	return collected, metrics, nil
}

// Cancel stops request id if it is still running (spec.md §4.5 "cancel").
// Idempotent; reports whether the request was found running.
func (f *Facade) Cancel(id string) bool {
	f.mu.Lock()
	cancel, ok := f.inflight[id]
	f.mu.Unlock()
	if !ok {
		return false
	}
	cancel()
	return true
}

func (f *Facade) track(id string, cancel context.CancelFunc) {
	f.mu.Lock()
	f.inflight[id] = cancel
	f.mu.Unlock()
}

func (f *Facade) forget(id string) {
	f.mu.Lock()
	delete(f.inflight, id)
	f.mu.Unlock()
}

// DescribeSearchers implements spec.md §4.5 "describe_searchers".
func (f *Facade) DescribeSearchers() []search.Description {
	return f.registry.DescribeAll()
}

// Close releases the Facade's owned cache backends.
func (f *Facade) Close() error {
	var err error
	if e := f.localCache.Close(); e != nil {
		err = e
	}
	if f.sharedCache != nil {
		if e := f.sharedCache.Close(); e != nil {
			err = e
		}
	}
	return err
}
