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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderadar/gitsearch/pkg/gitsearch"
)

func TestPathDepth(t *testing.T) {
	assert.Equal(t, 0, pathDepth(""))
	assert.Equal(t, 0, pathDepth("main.go"))
	assert.Equal(t, 2, pathDepth("pkg/gitsearch/query.go"))
}

func TestRank_OrdersByScoreDescending(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	weights := gitsearch.DefaultRankingWeights()

	results := []dedupResult{
		{match: gitsearch.Match{RawScore: 0.2, Locator: gitsearch.Locator{FilePath: "a.go"}}, groupID: "a"},
		{match: gitsearch.Match{RawScore: 0.9, Locator: gitsearch.Locator{FilePath: "b.go"}}, groupID: "b"},
	}

	ranked := Rank(results, weights, gitsearch.RankingBalanced, now)
	require.Len(t, ranked, 2)
	assert.Equal(t, "b.go", ranked[0].Locator.FilePath)
	assert.Equal(t, "a.go", ranked[1].Locator.FilePath)
	assert.True(t, ranked[0].FinalScore > ranked[1].FinalScore)
}

func TestRank_MultiSearcherBoost(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	weights := gitsearch.DefaultRankingWeights()

	solo := dedupResult{match: gitsearch.Match{RawScore: 0.5, Locator: gitsearch.Locator{FilePath: "a.go"}}, groupID: "a", searcherCount: 1}
	multi := dedupResult{match: gitsearch.Match{RawScore: 0.5, Locator: gitsearch.Locator{FilePath: "a.go"}}, groupID: "a", searcherCount: 2}

	soloRanked := rankOne(solo, weights, gitsearch.RankingBalanced, now)
	multiRanked := rankOne(multi, weights, gitsearch.RankingBalanced, now)

	assert.Greater(t, multiRanked.FinalScore, soloRanked.FinalScore)
}

func TestRank_RecencyPreferenceWeightsRecencyHigher(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	weights := gitsearch.DefaultRankingWeights()
	recentDate := now.Add(-24 * time.Hour).Unix()

	d := dedupResult{match: gitsearch.Match{RawScore: 0.3, Attributes: gitsearch.Attributes{Date: &recentDate}, Locator: gitsearch.Locator{FilePath: "a.go"}}}

	balanced := rankOne(d, weights, gitsearch.RankingBalanced, now)
	recencyPref := rankOne(d, weights, gitsearch.RankingRecency, now)

	assert.Greater(t, recencyPref.FinalScore, balanced.FinalScore)
}

func TestRank_PathDepthPenalizesDeeperFiles(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	weights := gitsearch.DefaultRankingWeights()

	shallow := dedupResult{match: gitsearch.Match{RawScore: 0.5, Locator: gitsearch.Locator{FilePath: "a.go"}}}
	deep := dedupResult{match: gitsearch.Match{RawScore: 0.5, Locator: gitsearch.Locator{FilePath: "a/b/c/d/e.go"}}}

	shallowRanked := rankOne(shallow, weights, gitsearch.RankingBalanced, now)
	deepRanked := rankOne(deep, weights, gitsearch.RankingBalanced, now)

	assert.Greater(t, shallowRanked.FinalScore, deepRanked.FinalScore)
}
