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

// Package orchestrator accepts a Query, builds a Search Context, selects
// applicable searchers by capability, fans work out on a bounded worker
// pool, merges streams, deduplicates, ranks, and surfaces progress and
// metrics (spec §4.4). Concurrency follows the teacher's
// pkg/ingestion/local_pipeline.go parseFilesParallel shape: a jobs
// channel, a bounded goroutine pool, sync.WaitGroup, atomic counters —
// generalized here from "parse N files" to "run N searchers".
package orchestrator

import (
	"runtime"
	"time"

	"github.com/coderadar/gitsearch/pkg/gitsearch"
)

// Config is the orchestrator's resource-cap and tuning record (spec §5
// "Resource caps", defaults as specified there).
type Config struct {
	WorkerCount     int
	ChannelCapacity int
	MaxResults      int
	MaxFileSize     int64

	MaxCommitsCriterion int
	MaxCommitsFuzzy     int
	MaxCommitsContent   int

	Deadline time.Duration

	RankingWeights gitsearch.RankingWeights

	EnableExternalScanner bool

	ProgressInterval      time.Duration
	ProgressMatchInterval int
}

// DefaultConfig returns the spec-mandated defaults: workers=min(CPUs,4),
// channel=256, max results=1000, max file size=10MiB, commit caps
// 2000/1000/500, deadline=300s, progress every 250ms or 64 matches.
func DefaultConfig() Config {
	workers := runtime.NumCPU()
	if workers > 4 {
		workers = 4
	}
	if workers < 1 {
		workers = 1
	}
	return Config{
		WorkerCount:           workers,
		ChannelCapacity:       256,
		MaxResults:            1000,
		MaxFileSize:           10 * 1024 * 1024,
		MaxCommitsCriterion:   2000,
		MaxCommitsFuzzy:       1000,
		MaxCommitsContent:     500,
		Deadline:              300 * time.Second,
		RankingWeights:        gitsearch.DefaultRankingWeights(),
		ProgressInterval:      250 * time.Millisecond,
		ProgressMatchInterval: 64,
	}
}
