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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
	"github.com/coderadar/gitsearch/pkg/gitsearch"
	"github.com/coderadar/gitsearch/pkg/search"
	"github.com/coderadar/gitsearch/pkg/search/searchers"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.WorkerCount = 2
	return cfg
}

func TestOrchestrator_Run_FindsContentMatch(t *testing.T) {
	repo := newTestRepo(t, map[string]string{"a.go": "package a\n// TODO finish this\n"})
	registry := search.NewRegistry()
	registry.Register(&searchers.ContentSearcher{})

	o := New(registry, nil, testConfig(), nil)
	results, metrics, err := o.Run(t.Context(), repo, &gitsearch.Query{ContentPattern: "TODO"}, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a.go", results[0].Locator.FilePath)
	assert.Equal(t, 1, metrics.MatchesProduced)
}

func TestOrchestrator_Run_NoApplicableSearcherIsAnError(t *testing.T) {
	repo := newTestRepo(t, map[string]string{"a.go": "package a"})
	registry := search.NewRegistry()
	registry.Register(&searchers.ContentSearcher{})

	o := New(registry, nil, testConfig(), nil)
	_, _, err := o.Run(t.Context(), repo, &gitsearch.Query{AuthorPattern: "alice"}, nil)
	require.Error(t, err)
}

func TestOrchestrator_SelectSearchers_FiltersByApplicability(t *testing.T) {
	registry := search.NewRegistry()
	registry.Register(&searchers.ContentSearcher{})
	registry.Register(&searchers.AuthorSearcher{})

	o := New(registry, nil, testConfig(), nil)
	selected := o.selectSearchers(&gitsearch.Query{ContentPattern: "x"})
	require.Len(t, selected, 1)
	assert.Equal(t, "content", selected[0].Name())
}

func TestOrchestrator_DescribeSearchers(t *testing.T) {
	registry := search.NewRegistry()
	registry.Register(&searchers.ContentSearcher{})

	o := New(registry, nil, testConfig(), nil)
	descs := o.DescribeSearchers()
	require.Len(t, descs, 1)
	assert.Equal(t, "content", descs[0].Name)
}

// TestOrchestrator_Run_SearcherBadQueryFailsWholeRequest covers spec §4.3
// "Failure semantics" / §7: a pattern-compilation failure inside a searcher
// (here MessageSearcher's regex) must fail the whole request with BadQuery,
// not merely skip that one searcher or succeed with zero matches.
func TestOrchestrator_Run_SearcherBadQueryFailsWholeRequest(t *testing.T) {
	repo := newTestRepo(t, map[string]string{"a.go": "package a"})
	registry := search.NewRegistry()
	registry.Register(&searchers.MessageSearcher{})

	o := New(registry, nil, testConfig(), nil)
	results, _, err := o.Run(t.Context(), repo, &gitsearch.Query{MessagePattern: "(unterminated"}, nil)
	require.Error(t, err)
	assert.Equal(t, gserrors.BadQuery, gserrors.KindOf(err))
	assert.Empty(t, results)
}

// TestOrchestrator_Run_FuzzyMessageScenario is spec §8 scenario 3: a commit
// message "fix autentication bug" against fuzzy query pattern
// "authentication" with threshold 0.7 must yield exactly one Match scored
// between 0.7 and 1.0 — not zero, as whole-string Levenshtein similarity
// would (≈0.57, below threshold).
func TestOrchestrator_Run_FuzzyMessageScenario(t *testing.T) {
	repo := newTestRepoWithMessage(t, map[string]string{"a.go": "package a"}, "fix autentication bug")
	registry := search.NewRegistry()
	registry.Register(&searchers.FuzzySearcher{})

	o := New(registry, nil, testConfig(), nil)
	q := &gitsearch.Query{MessagePattern: "authentication", Fuzzy: true}
	q.SetFuzzyThreshold(0.7)
	results, _, err := o.Run(t.Context(), repo, q, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.GreaterOrEqual(t, results[0].RawScore, 0.7)
	assert.LessOrEqual(t, results[0].RawScore, 1.0)
}

func TestOrchestrator_Run_MultipleMatchesAreRanked(t *testing.T) {
	repo := newTestRepo(t, map[string]string{
		"a.go": "TODO one\n",
		"b.go": "TODO two\nTODO three\n",
	})
	registry := search.NewRegistry()
	registry.Register(&searchers.ContentSearcher{})

	o := New(registry, nil, testConfig(), nil)
	results, _, err := o.Run(t.Context(), repo, &gitsearch.Query{ContentPattern: "TODO"}, nil)
	require.NoError(t, err)
	assert.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.False(t, results[i].SortKey.Less(results[i-1].SortKey), "results must already be in stable sort order")
	}
}
