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

package searchers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/coderadar/gitsearch/pkg/gitsearch"
	"github.com/coderadar/gitsearch/pkg/search"
)

func TestContentSearcher_IsApplicable(t *testing.T) {
	s := &ContentSearcher{}
	assert.True(t, s.IsApplicable(&gitsearch.Query{ContentPattern: "TODO"}))
	assert.False(t, s.IsApplicable(&gitsearch.Query{}))
	assert.False(t, s.IsApplicable(&gitsearch.Query{ContentPattern: "TODO", Fuzzy: true}), "fuzzy content is routed to FuzzySearcher instead")
}

func TestAuthorSearcher_IsApplicable(t *testing.T) {
	s := &AuthorSearcher{}
	assert.True(t, s.IsApplicable(&gitsearch.Query{AuthorPattern: "alice"}))
	assert.False(t, s.IsApplicable(&gitsearch.Query{}))
	assert.False(t, s.IsApplicable(&gitsearch.Query{AuthorPattern: "alice", Fuzzy: true}))
}

func TestMessageSearcher_IsApplicable(t *testing.T) {
	s := &MessageSearcher{}
	assert.True(t, s.IsApplicable(&gitsearch.Query{MessagePattern: "fix.*bug"}))
	assert.False(t, s.IsApplicable(&gitsearch.Query{}))
	assert.False(t, s.IsApplicable(&gitsearch.Query{MessagePattern: "fix", Fuzzy: true}))
}

func TestCommitHashSearcher_IsApplicable(t *testing.T) {
	s := &CommitHashSearcher{}
	assert.True(t, s.IsApplicable(&gitsearch.Query{CommitHashPrefix: "abc123"}))
	assert.False(t, s.IsApplicable(&gitsearch.Query{}))
}

func TestDateRangeSearcher_IsApplicable(t *testing.T) {
	s := &DateRangeSearcher{}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, s.IsApplicable(&gitsearch.Query{DateFrom: &now}))
	assert.True(t, s.IsApplicable(&gitsearch.Query{DateTo: &now}))
	assert.False(t, s.IsApplicable(&gitsearch.Query{}))
}

func TestFilePathSearcher_IsApplicable(t *testing.T) {
	s := &FilePathSearcher{}
	assert.True(t, s.IsApplicable(&gitsearch.Query{FilePathGlob: "**/*.go"}))
	assert.False(t, s.IsApplicable(&gitsearch.Query{}))
}

func TestFileTypeSearcher_IsApplicable(t *testing.T) {
	s := &FileTypeSearcher{}
	assert.True(t, s.IsApplicable(&gitsearch.Query{FileExtensions: []string{"go"}}))
	assert.False(t, s.IsApplicable(&gitsearch.Query{}))
}

func TestFuzzySearcher_IsApplicable(t *testing.T) {
	s := &FuzzySearcher{}
	assert.True(t, s.IsApplicable(&gitsearch.Query{Fuzzy: true, ContentPattern: "fn"}))
	assert.True(t, s.IsApplicable(&gitsearch.Query{Fuzzy: true, AuthorPattern: "ali"}))
	assert.True(t, s.IsApplicable(&gitsearch.Query{Fuzzy: true, MessagePattern: "fx"}))
	assert.False(t, s.IsApplicable(&gitsearch.Query{Fuzzy: true}), "fuzzy alone with no text criterion has nothing to score")
	assert.False(t, s.IsApplicable(&gitsearch.Query{ContentPattern: "fn"}), "non-fuzzy content is routed to ContentSearcher instead")
}

func TestBranchAnalysisSearcher_IsApplicable(t *testing.T) {
	s := &BranchAnalysisSearcher{}
	assert.True(t, s.IsApplicable(&gitsearch.Query{BranchAnalysis: true}))
	assert.False(t, s.IsApplicable(&gitsearch.Query{}))
}

func TestTagAnalysisSearcher_IsApplicable(t *testing.T) {
	s := &TagAnalysisSearcher{}
	assert.True(t, s.IsApplicable(&gitsearch.Query{TagAnalysis: true}))
	assert.False(t, s.IsApplicable(&gitsearch.Query{}))
}

func TestDiffAnalysisSearcher_IsApplicable(t *testing.T) {
	s := &DiffAnalysisSearcher{}
	assert.True(t, s.IsApplicable(&gitsearch.Query{DiffFrom: "main", DiffTo: "feature"}))
	assert.False(t, s.IsApplicable(&gitsearch.Query{DiffFrom: "main"}), "needs both ends of the diff")
	assert.False(t, s.IsApplicable(&gitsearch.Query{}))
}

func TestStatisticsAnalysisSearcher_IsApplicable(t *testing.T) {
	s := &StatisticsAnalysisSearcher{}
	assert.True(t, s.IsApplicable(&gitsearch.Query{StatisticsAnalysis: true}))
	assert.False(t, s.IsApplicable(&gitsearch.Query{}))
}

// TestSearchers_NameVersionAndCapabilities asserts each searcher reports its
// expected name, version "1", and the capability its name implies.
func TestSearchers_NameVersionAndCapabilities(t *testing.T) {
	cases := []struct {
		searcher search.Searcher
		name     string
		cap      search.Capability
	}{
		{&ContentSearcher{}, "content", search.CapContent},
		{&AuthorSearcher{}, "author", search.CapAuthor},
		{&MessageSearcher{}, "message", search.CapMessage},
		{&CommitHashSearcher{}, "commit_hash", search.CapCommitHash},
		{&DateRangeSearcher{}, "date_range", search.CapDateRange},
		{&FilePathSearcher{}, "file_path", search.CapFilePath},
		{&FileTypeSearcher{}, "file_type", search.CapFileType},
		{&FuzzySearcher{}, "fuzzy", search.CapFuzzy},
		{&BranchAnalysisSearcher{}, "branch_analysis", search.CapBranch},
		{&TagAnalysisSearcher{}, "tag_analysis", search.CapTag},
		{&DiffAnalysisSearcher{}, "diff_analysis", search.CapDiff},
		{&StatisticsAnalysisSearcher{}, "statistics_analysis", search.CapStatistics},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.name, tc.searcher.Name())
		assert.Equal(t, "1", tc.searcher.Version())
		assert.Contains(t, tc.searcher.Capabilities(), tc.cap)
	}
}

func TestDefaultRegistry_AllSearchersRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, s := range search.DefaultRegistry.All() {
		names[s.Name()] = true
	}
	for _, want := range []string{
		"content", "author", "message", "commit_hash", "date_range",
		"file_path", "file_type", "fuzzy",
		"branch_analysis", "tag_analysis", "diff_analysis", "statistics_analysis",
	} {
		assert.True(t, names[want], "%s should self-register via init()", want)
	}
}
