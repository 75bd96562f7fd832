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

package orchestrator

import (
	"sync/atomic"
	"time"

	"github.com/coderadar/gitsearch/pkg/gitsearch"
)

// progressReporter emits a ProgressEvent every interval or every
// matchInterval matches, whichever comes first (spec §4.4 "Progress").
type progressReporter struct {
	sink          gitsearch.ProgressSink
	interval      time.Duration
	matchInterval int

	count      atomic.Int64
	lastReport atomic.Int64 // UnixNano
	message    string
}

func newProgressReporter(sink gitsearch.ProgressSink, interval time.Duration, matchInterval int) *progressReporter {
	if sink == nil {
		sink = gitsearch.NoopProgressSink
	}
	r := &progressReporter{sink: sink, interval: interval, matchInterval: matchInterval, message: "searching"}
	r.lastReport.Store(time.Now().UnixNano())
	return r
}

// Tick records one more result and emits a ProgressEvent if either
// threshold has been crossed since the last one.
func (r *progressReporter) Tick() {
	n := r.count.Add(1)
	now := time.Now()
	last := time.Unix(0, r.lastReport.Load())

	due := now.Sub(last) >= r.interval
	dueByCount := r.matchInterval > 0 && n%int64(r.matchInterval) == 0
	if !due && !dueByCount {
		return
	}
	if r.lastReport.CompareAndSwap(last.UnixNano(), now.UnixNano()) {
		r.sink.Progress(gitsearch.ProgressEvent{Message: r.message, ResultCount: int(n)})
	}
}

// Final emits a terminal progress event carrying the final result count.
func (r *progressReporter) Final(message string) {
	r.sink.Progress(gitsearch.ProgressEvent{Message: message, ResultCount: int(r.count.Load())})
}
