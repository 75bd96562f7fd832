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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/coderadar/gitsearch/pkg/gitsearch"
)

type recordingSink struct {
	mu     sync.Mutex
	events []gitsearch.ProgressEvent
}

func (s *recordingSink) Progress(e gitsearch.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestProgressReporter_EmitsEveryMatchIntervalTicks(t *testing.T) {
	sink := &recordingSink{}
	r := newProgressReporter(sink, time.Hour, 2)

	r.Tick()
	assert.Equal(t, 0, sink.count(), "first tick should not cross the every-2 threshold")
	r.Tick()
	assert.Equal(t, 1, sink.count(), "second tick crosses the every-2 threshold")
	r.Tick()
	assert.Equal(t, 1, sink.count())
	r.Tick()
	assert.Equal(t, 2, sink.count())
}

func TestProgressReporter_EmitsAfterTimeInterval(t *testing.T) {
	sink := &recordingSink{}
	r := newProgressReporter(sink, time.Millisecond, 0)

	time.Sleep(5 * time.Millisecond)
	r.Tick()
	assert.Equal(t, 1, sink.count())
}

func TestProgressReporter_FinalEmitsTerminalEvent(t *testing.T) {
	sink := &recordingSink{}
	r := newProgressReporter(sink, time.Hour, 0)

	r.Tick()
	r.Tick()
	r.Final("done")

	assert.Equal(t, 1, sink.count())
	assert.Equal(t, "done", sink.events[0].Message)
	assert.Equal(t, 2, sink.events[0].ResultCount)
}

func TestNewProgressReporter_NilSinkDefaultsToNoop(t *testing.T) {
	r := newProgressReporter(nil, time.Hour, 0)
	assert.NotPanics(t, func() { r.Tick() })
}
