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

// Package metrics registers Prometheus counters and histograms with the
// default registry, and Observe folds one request's gitsearch.Metrics into
// them. No face in this module calls Observe or mounts a promhttp handler,
// so these collectors are not exported over HTTP.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/coderadar/gitsearch/pkg/gitsearch"
)

var (
	// RequestsTotal counts completed search requests by terminal outcome.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gitsearch_requests_total",
		Help: "Total search requests, labeled by outcome (ok, cancelled, error).",
	}, []string{"outcome"})

	// RequestDuration observes wall-clock search duration in seconds.
	RequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gitsearch_request_duration_seconds",
		Help:    "Search request wall-clock duration.",
		Buckets: prometheus.DefBuckets,
	})

	// MatchesProduced observes the raw (pre-dedup) match count per request.
	MatchesProduced = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gitsearch_matches_produced",
		Help:    "Matches produced per search request, before deduplication.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	// CacheHits and CacheMisses are a running counter pair; the hit ratio is
	// computed at scrape time by the usual rate(hits)/rate(hits+misses)
	// PromQL idiom.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gitsearch_cache_hits_total",
		Help: "Per-searcher cache lookups that hit.",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gitsearch_cache_misses_total",
		Help: "Per-searcher cache lookups that missed.",
	})

	// SearcherDuration observes per-searcher wall time, labeled by name.
	SearcherDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gitsearch_searcher_duration_seconds",
		Help:    "Per-searcher wall-clock duration within one request.",
		Buckets: prometheus.DefBuckets,
	}, []string{"searcher"})
)

// Observe folds one completed request's Metrics into the process-wide
// Prometheus collectors. Call once, after the orchestrator's result stream
// closes.
func Observe(m *gitsearch.Metrics) {
	outcome := "ok"
	switch {
	case m.Cancelled:
		outcome = "cancelled"
	case len(m.ErrorsBySearcher) > 0:
		outcome = "error"
	}
	RequestsTotal.WithLabelValues(outcome).Inc()
	RequestDuration.Observe(m.WallTime.Seconds())
	MatchesProduced.Observe(float64(m.MatchesProduced))
	CacheHits.Add(float64(m.CacheHits))
	CacheMisses.Add(float64(m.CacheMisses))
	for searcher, d := range m.PerSearcherTime {
		SearcherDuration.WithLabelValues(searcher).Observe(d.Seconds())
	}
}
