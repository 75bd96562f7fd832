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

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/coderadar/gitsearch/pkg/gitsearch"
)

func TestObserve_OkOutcomeIncrementsRequestsTotal(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("ok"))

	m := gitsearch.NewMetrics()
	m.WallTime = 2 * time.Second
	m.MatchesProduced = 5
	Observe(m)

	after := testutil.ToFloat64(RequestsTotal.WithLabelValues("ok"))
	assert.Equal(t, before+1, after)
}

func TestObserve_CancelledOutcomeIncrementsCancelledCounter(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("cancelled"))

	m := gitsearch.NewMetrics()
	m.Cancelled = true
	Observe(m)

	after := testutil.ToFloat64(RequestsTotal.WithLabelValues("cancelled"))
	assert.Equal(t, before+1, after)
}

func TestObserve_ErrorsOutcomeIncrementsErrorCounter(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("error"))

	m := gitsearch.NewMetrics()
	m.ErrorsBySearcher["content"] = []string{"boom"}
	Observe(m)

	after := testutil.ToFloat64(RequestsTotal.WithLabelValues("error"))
	assert.Equal(t, before+1, after)
}

func TestObserve_RecordsPerSearcherDuration(t *testing.T) {
	m := gitsearch.NewMetrics()
	m.PerSearcherTime["content"] = 150 * time.Millisecond

	before := testutil.CollectAndCount(SearcherDuration)
	Observe(m)
	after := testutil.CollectAndCount(SearcherDuration)

	assert.Greater(t, after, before)
}

func TestObserve_RecordsCacheHitsAndMisses(t *testing.T) {
	beforeHits := testutil.ToFloat64(CacheHits)
	beforeMisses := testutil.ToFloat64(CacheMisses)

	m := gitsearch.NewMetrics()
	m.CacheHits = 3
	m.CacheMisses = 2
	Observe(m)

	assert.Equal(t, beforeHits+3, testutil.ToFloat64(CacheHits))
	assert.Equal(t, beforeMisses+2, testutil.ToFloat64(CacheMisses))
}
