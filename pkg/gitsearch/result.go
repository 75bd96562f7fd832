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
	"sync"
	"time"
)

// RankedResult is a Match augmented with its final rank score, stable sort
// key, and dedup group id.
type RankedResult struct {
	Match
	FinalScore  float64
	CommitDate  time.Time
	DedupGroup  string
	SortKey     SortKey
	SeenBySearchers []string
}

// SortKey is the stable ordering key from spec §3: score desc, commit date
// desc, file path asc, line asc.
type SortKey struct {
	Score      float64
	CommitDate time.Time
	FilePath   string
	Line       int
}

// Less reports whether k sorts strictly before other under the stable
// order (score desc, then commit date desc, then file path asc, then line
// asc).
func (k SortKey) Less(other SortKey) bool {
	if k.Score != other.Score {
		return k.Score > other.Score
	}
	if !k.CommitDate.Equal(other.CommitDate) {
		return k.CommitDate.After(other.CommitDate)
	}
	if k.FilePath != other.FilePath {
		return k.FilePath < other.FilePath
	}
	return k.Line < other.Line
}

// RankingWeights are the coefficients of the final-score formula. Defaults
// (0.6/0.2/0.1/0.1) are normative per spec §4.4 and §9.
type RankingWeights struct {
	RawScore      float64
	Recency       float64
	PathDepth     float64
	MultiSearcher float64
}

// DefaultRankingWeights returns the spec-mandated default weights.
func DefaultRankingWeights() RankingWeights {
	return RankingWeights{RawScore: 0.6, Recency: 0.2, PathDepth: 0.1, MultiSearcher: 0.1}
}

// Metrics is the per-request counters object returned alongside
// RankedResults. Per-searcher counters are merged at end of stream by the
// orchestrator; the mutex here guards the rare cross-goroutine writes
// (warnings, errors, traversal counters) that searchers report as they run
// (spec §5 "Metrics: updated via per-searcher local counters merged at end
// of stream").
type Metrics struct {
	mu sync.Mutex

	WallTime           time.Duration
	PerSearcherTime     map[string]time.Duration
	CacheHits          int
	CacheMisses        int
	FilesExamined      int
	CommitsTraversed   int
	MatchesProduced    int
	MatchesAfterRank   int
	Truncated          bool
	TruncatedReason    string
	Cancelled          bool
	ErrorsBySearcher   map[string][]string
	WarningsBySearcher map[string][]string
	FilesSkippedSize   int
	FilesSkippedBinary int
	CacheErrors        int
}

// NewMetrics returns a Metrics with all maps initialized, ready to accumulate.
func NewMetrics() *Metrics {
	return &Metrics{
		PerSearcherTime:    make(map[string]time.Duration),
		ErrorsBySearcher:   make(map[string][]string),
		WarningsBySearcher: make(map[string][]string),
	}
}

// AddWarning records a non-fatal warning against a searcher's name.
func (m *Metrics) AddWarning(searcher, warning string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WarningsBySearcher[searcher] = append(m.WarningsBySearcher[searcher], warning)
}

// AddError records a non-fatal per-object error against a searcher's name.
func (m *Metrics) AddError(searcher, detail string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorsBySearcher[searcher] = append(m.ErrorsBySearcher[searcher], detail)
}

// AddCommitsTraversed accumulates the number of commits one searcher's run
// examined.
func (m *Metrics) AddCommitsTraversed(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CommitsTraversed += n
}

// AddFilesExamined accumulates the number of files one searcher's run
// examined.
func (m *Metrics) AddFilesExamined(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FilesExamined += n
}

// AddFilesSkipped accumulates files_skipped_size/files_skipped_binary
// counters (spec §8 "Boundary behaviors").
func (m *Metrics) AddFilesSkipped(size, binary int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FilesSkippedSize += size
	m.FilesSkippedBinary += binary
}

// SetPerSearcherTime records one searcher's wall time.
func (m *Metrics) SetPerSearcherTime(searcher string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PerSearcherTime[searcher] = d
}
