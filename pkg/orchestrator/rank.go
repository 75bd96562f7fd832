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
	"math"
	"sort"
	"strings"
	"time"

	"github.com/coderadar/gitsearch/pkg/gitsearch"
)

const recencyHalfLifeDays = 90

// rankOne computes a RankedResult's FinalScore and SortKey from one
// dedupResult (spec §4.4 "Ranking"): weighted sum of raw score (0.6),
// recency factor exp(-age_days/90) (0.2), path-depth penalty 1/(1+depth)
// (0.1), and a 0.1 boost when produced by more than one searcher pre-dedup.
func rankOne(d dedupResult, weights gitsearch.RankingWeights, pref gitsearch.RankingPreference, now time.Time) gitsearch.RankedResult {
	m := d.match
	commitDate := now
	if m.Attributes.Date != nil {
		commitDate = time.Unix(*m.Attributes.Date, 0).UTC()
	}

	ageDays := now.Sub(commitDate).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	recency := math.Exp(-ageDays / recencyHalfLifeDays)

	depth := pathDepth(m.Locator.FilePath)
	depthPenalty := 1.0 / float64(1+depth)

	multiBoost := 0.0
	if d.searcherCount > 1 {
		multiBoost = 1.0
	}

	recencyWeight, relevanceWeight := weights.Recency, weights.RawScore
	switch pref {
	case gitsearch.RankingRecency:
		recencyWeight *= 1.5
	case gitsearch.RankingRelevance:
		relevanceWeight *= 1.5
	}

	final := relevanceWeight*m.RawScore + recencyWeight*recency + weights.PathDepth*depthPenalty + weights.MultiSearcher*multiBoost

	line := 0
	if m.Locator.Line != nil {
		line = *m.Locator.Line
	}

	return gitsearch.RankedResult{
		Match:      m,
		FinalScore: final,
		CommitDate: commitDate,
		DedupGroup: d.groupID,
		SortKey: gitsearch.SortKey{
			Score:      final,
			CommitDate: commitDate,
			FilePath:   m.Locator.FilePath,
			Line:       line,
		},
	}
}

func pathDepth(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, "/")
}

// Rank converts Deduper results into sorted RankedResults ordered by the
// stable sort key (spec §3: score desc, commit date desc, file path asc,
// line asc).
func Rank(results []dedupResult, weights gitsearch.RankingWeights, pref gitsearch.RankingPreference, now time.Time) []gitsearch.RankedResult {
	out := make([]gitsearch.RankedResult, 0, len(results))
	for _, d := range results {
		out = append(out, rankOne(d, weights, pref, now))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortKey.Less(out[j].SortKey)
	})
	return out
}
