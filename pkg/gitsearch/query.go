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

// Package gitsearch is the stable public contract of the search orchestration
// core: Query, Match, RankedResult, Metrics, and the Search Context that
// binds a single request together. Every other package in this module
// depends on these types; this package depends on nothing in the module
// except internal/errors.
package gitsearch

import (
	"fmt"
	"strings"
	"time"

	"github.com/gobwas/glob"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
)

// RankingPreference scales the recency term of the ranking formula.
type RankingPreference string

const (
	RankingBalanced  RankingPreference = "balanced"
	RankingRecency   RankingPreference = "recency"
	RankingRelevance RankingPreference = "relevance"
)

// DefaultFuzzyThreshold is the normative default from spec §9: 0.8 unless
// the caller sets a threshold explicitly.
const DefaultFuzzyThreshold = 0.8

// Query is the bag of optional criteria combined conjunctively. At least one
// criterion must be active; Normalize rejects an empty bag.
type Query struct {
	ContentPattern string
	Regexp         bool
	CaseSensitive  bool

	CommitHashPrefix string

	AuthorPattern string

	MessagePattern string

	DateFrom *time.Time
	DateTo   *time.Time

	FilePathGlob string

	FileExtensions []string

	SizeMin int64
	SizeMax int64

	IncludeGlobs []string
	ExcludeGlobs []string

	Fuzzy             bool
	FuzzyThreshold    float64
	fuzzyThresholdSet bool

	Branch string

	// Advanced-analysis criteria (§4.3 "Advanced analyses" row).
	BranchAnalysis     bool
	TagAnalysis        bool
	DiffFrom, DiffTo   string
	StatisticsAnalysis bool

	MaxResults  int
	MaxFileSize int64

	RankingPreference RankingPreference

	compiledInclude []glob.Glob
	compiledExclude []glob.Glob
	compiledPath    glob.Glob
}

// SetFuzzyThreshold records an explicit caller-supplied threshold,
// distinguishing it from the zero value so Normalize applies the
// DefaultFuzzyThreshold only when the caller left it unset.
func (q *Query) SetFuzzyThreshold(t float64) {
	q.FuzzyThreshold = t
	q.fuzzyThresholdSet = true
}

// HasCriteria reports whether at least one criterion is active.
func (q *Query) HasCriteria() bool {
	return q.ContentPattern != "" ||
		q.CommitHashPrefix != "" ||
		q.AuthorPattern != "" ||
		q.MessagePattern != "" ||
		q.DateFrom != nil || q.DateTo != nil ||
		q.FilePathGlob != "" ||
		len(q.FileExtensions) > 0 ||
		q.SizeMin > 0 || q.SizeMax > 0 ||
		len(q.IncludeGlobs) > 0 || len(q.ExcludeGlobs) > 0 ||
		q.Fuzzy ||
		q.BranchAnalysis || q.TagAnalysis || q.StatisticsAnalysis ||
		(q.DiffFrom != "" && q.DiffTo != "")
}

// Normalize fills in defaults and compiles globs/regexes that searchers will
// need repeatedly. It must be called once, by the orchestrator, before a
// Query is handed to any searcher.
func (q *Query) Normalize() error {
	if !q.HasCriteria() {
		return gserrors.NewBadQuery("query has no active criteria", "set at least one search criterion", nil)
	}
	if q.MaxResults <= 0 {
		q.MaxResults = 1000
	}
	if q.MaxFileSize <= 0 {
		q.MaxFileSize = 10 * 1024 * 1024
	}
	if q.RankingPreference == "" {
		q.RankingPreference = RankingBalanced
	}
	if q.Fuzzy && !q.fuzzyThresholdSet {
		q.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if q.Fuzzy && (q.FuzzyThreshold < 0 || q.FuzzyThreshold > 1) {
		return gserrors.NewBadQuery(fmt.Sprintf("fuzzy threshold %v out of range [0,1]", q.FuzzyThreshold), "set threshold between 0 and 1", nil)
	}
	for _, ext := range q.FileExtensions {
		if strings.Contains(ext, ".") {
			return gserrors.NewBadQuery("file extensions must not include a leading dot", "pass extensions like \"go\", not \".go\"", nil)
		}
	}

	var err error
	if q.FilePathGlob != "" {
		if q.compiledPath, err = glob.Compile(q.FilePathGlob, '/'); err != nil {
			return gserrors.NewBadQuery("file-path glob failed to compile", "check glob syntax", err)
		}
	}
	q.compiledInclude, err = compileGlobs(q.IncludeGlobs)
	if err != nil {
		return err
	}
	q.compiledExclude, err = compileGlobs(q.ExcludeGlobs)
	if err != nil {
		return err
	}
	return nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, gserrors.NewBadQuery(fmt.Sprintf("glob %q failed to compile", p), "check glob syntax", err)
		}
		out = append(out, g)
	}
	return out, nil
}

// MatchesPath reports whether path survives FilePathGlob plus
// include/exclude glob filtering. Normalize must have been called first.
// A pattern starting with "**/" also matches paths at the repository root.
func (q *Query) MatchesPath(path string) bool {
	match := func(pattern string, g glob.Glob) bool {
		return g.Match(path) || (strings.HasPrefix(pattern, "**/") && g.Match("/"+path))
	}
	if q.compiledPath != nil && !match(q.FilePathGlob, q.compiledPath) {
		return false
	}
	if len(q.compiledInclude) > 0 {
		ok := false
		for i, g := range q.compiledInclude {
			if match(q.IncludeGlobs[i], g) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for i, g := range q.compiledExclude {
		if match(q.ExcludeGlobs[i], g) {
			return false
		}
	}
	return true
}

// MatchesExtension reports whether path's extension is in FileExtensions
// (case-insensitive, no leading dot). A Query with no FileExtensions always
// matches.
func (q *Query) MatchesExtension(path string) bool {
	if len(q.FileExtensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(extOf(path)), ".")
	for _, want := range q.FileExtensions {
		if strings.EqualFold(want, ext) {
			return true
		}
	}
	return false
}

func extOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	slash := strings.LastIndexByte(path, '/')
	if i <= slash {
		return ""
	}
	return path[i:]
}

// MatchesSize reports whether size falls within [SizeMin, SizeMax]. Zero
// bounds mean "unbounded" on that side.
func (q *Query) MatchesSize(size int64) bool {
	if q.SizeMin > 0 && size < q.SizeMin {
		return false
	}
	if q.SizeMax > 0 && size > q.SizeMax {
		return false
	}
	return true
}

// MatchesDate reports whether t (UTC) falls within [DateFrom, DateTo],
// inclusive on both ends.
func (q *Query) MatchesDate(t time.Time) bool {
	t = t.UTC()
	if q.DateFrom != nil && t.Before(*q.DateFrom) {
		return false
	}
	if q.DateTo != nil && t.After(*q.DateTo) {
		return false
	}
	return true
}
