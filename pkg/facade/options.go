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

// Package facade is the thin, stable surface outer faces (CLI, HTTP, RPC)
// depend on (spec.md §4.5): four operations over one orchestrator instance.
package facade

import (
	"time"

	"github.com/coderadar/gitsearch/pkg/gitsearch"
)

// CacheBackendKind selects how a request's searcher outputs are memoized.
type CacheBackendKind string

const (
	CacheNone   CacheBackendKind = "none"
	CacheLocal  CacheBackendKind = "local"
	CacheShared CacheBackendKind = "shared"
)

// Options enumerates exactly the fields spec.md §4.5 names.
type Options struct {
	WorkerCount           int
	CacheBackend          CacheBackendKind
	CacheTTLSeconds       int
	DeadlineSeconds       int
	RankingWeights        *gitsearch.RankingWeights
	EnableExternalScanner bool
}

// deadline converts DeadlineSeconds to a time.Duration; it returns 0 when
// DeadlineSeconds is zero or negative.
func (o Options) deadline() time.Duration {
	if o.DeadlineSeconds <= 0 {
		return 0
	}
	return time.Duration(o.DeadlineSeconds) * time.Second
}

func (o Options) cacheTTL() time.Duration {
	if o.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(o.CacheTTLSeconds) * time.Second
}
