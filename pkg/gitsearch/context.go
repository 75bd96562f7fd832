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

package gitsearch

import (
	"context"
	"sync/atomic"
)

// RepositoryHandle is the narrow view of an opened repository that searchers
// and the orchestrator depend on, without pulling pkg/gitaccess into this
// dependency-free contract package. pkg/gitaccess.Repository implements it.
type RepositoryHandle interface {
	RootPath() string
	HeadObjectID() string
}

// ProgressEvent is emitted periodically by the orchestrator: every 250ms or
// every 64 matches, whichever comes first (spec §4.4).
type ProgressEvent struct {
	Percentage  *float64
	Message     string
	ResultCount int
}

// ProgressSink receives ProgressEvents. Implementations must not block for
// long; the orchestrator treats a slow sink as backpressure on itself.
type ProgressSink interface {
	Progress(ProgressEvent)
}

// ProgressSinkFunc adapts a function to a ProgressSink.
type ProgressSinkFunc func(ProgressEvent)

func (f ProgressSinkFunc) Progress(e ProgressEvent) { f(e) }

// NoopProgressSink discards every event.
var NoopProgressSink ProgressSink = ProgressSinkFunc(func(ProgressEvent) {})

// CancelToken is an observable, idempotent cancellation flag shared
// read-only among all searchers in one request (spec §5 "Cancellation
// semantics"). It is backed by both a context.Context (for select-based
// suspension points) and an atomic bool (for cheap polling between commits
// and files).
type CancelToken struct {
	ctx     context.Context
	cancel  context.CancelCauseFunc
	flagged atomic.Bool
}

// NewCancelToken derives a CancelToken from parent; cancelling it also
// cancels the returned context.Context.
func NewCancelToken(parent context.Context) *CancelToken {
	ctx, cancel := context.WithCancelCause(parent)
	return &CancelToken{ctx: ctx, cancel: cancel}
}

// Cancel marks the token cancelled. Idempotent.
func (t *CancelToken) Cancel(cause error) {
	if t.flagged.CompareAndSwap(false, true) {
		t.cancel(cause)
	}
}

// Cancelled reports the current state without blocking. Searchers must poll
// this between commits and between files per spec §5.
func (t *CancelToken) Cancelled() bool {
	return t.flagged.Load()
}

// Done returns a channel closed when the token is cancelled, for use in
// select statements at channel-send suspension points.
func (t *CancelToken) Done() <-chan struct{} {
	return t.ctx.Done()
}

// Context returns the underlying context.Context, for passing to Git I/O
// calls that accept one.
func (t *CancelToken) Context() context.Context {
	return t.ctx
}

// SearchContext is the per-request bundle shared read-only among searchers:
// repository handle, query, cancellation token, progress sink, cache
// handle, worker budget, deadline (spec §3 "Search Context").
//
// CacheHandle is declared as `any` here (rather than importing pkg/cache)
// to keep this package free of a dependency on the cache implementation;
// searchers that want to use it type-assert to the interface they expect,
// or — more commonly — the orchestrator performs cache lookups on their
// behalf and only gives searchers a cache miss to fill.
type SearchContext struct {
	Repo        RepositoryHandle
	Query       *Query
	Cancel      *CancelToken
	Progress    ProgressSink
	CacheHandle any
	WorkerBudget int
	Metrics      *Metrics

	// EnableExternalScanner mirrors facade.Options.EnableExternalScanner
	// (spec §4.1 "External scanner"); the Content searcher reads it
	// directly instead of type-asserting CacheHandle.
	EnableExternalScanner bool

	// MaxCommitsCriterion/MaxCommitsFuzzy/MaxCommitsContent mirror
	// orchestrator.Config's commit-traversal caps (spec §5 "Resource
	// caps"). The searchers in pkg/search/searchers do not read them; they
	// bound traversal with their own constants (defaultCommitCap = 2000,
	// fuzzyTargetCap = 1000).
	MaxCommitsCriterion int
	MaxCommitsFuzzy     int
	MaxCommitsContent   int
}
