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
	"fmt"

	"github.com/coderadar/gitsearch/pkg/gitaccess"
	"github.com/coderadar/gitsearch/pkg/gitsearch"
	"github.com/coderadar/gitsearch/pkg/search"
)

func init() {
	search.DefaultRegistry.Register(&BranchAnalysisSearcher{})
	search.DefaultRegistry.Register(&TagAnalysisSearcher{})
	search.DefaultRegistry.Register(&DiffAnalysisSearcher{})
	search.DefaultRegistry.Register(&StatisticsAnalysisSearcher{})
}

// synthetic builds an analysis Match at the pseudo-path locator convention
// spec §4.3 names for advanced analyses ("$branch-analysis" etc).
func synthetic(searcher, pseudoPath, snippet string, score float64) gitsearch.Match {
	return gitsearch.Match{
		Kind:     gitsearch.MatchAnalysis,
		Locator:  gitsearch.Locator{FilePath: pseudoPath},
		Snippet:  snippet,
		RawScore: score,
		Searcher: searcher,
	}
}

// BranchAnalysisSearcher enumerates branches and their tip commits as
// synthetic analysis Matches.
type BranchAnalysisSearcher struct{}

func (s *BranchAnalysisSearcher) Name() string    { return "branch_analysis" }
func (s *BranchAnalysisSearcher) Version() string { return "1" }
func (s *BranchAnalysisSearcher) Capabilities() []search.Capability {
	return []search.Capability{search.CapBranch}
}
func (s *BranchAnalysisSearcher) IsApplicable(q *gitsearch.Query) bool { return q.BranchAnalysis }
func (s *BranchAnalysisSearcher) EstimateCost(repo *gitaccess.Repository, q *gitsearch.Query) int {
	return 5
}

func (s *BranchAnalysisSearcher) Search(sctx *gitsearch.SearchContext, repo *gitaccess.Repository) (<-chan gitsearch.Match, <-chan error) {
	out := make(chan gitsearch.Match)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		branches, err := repo.Branches()
		if err != nil {
			errs <- err
			return
		}
		for _, b := range branches {
			if sctx.Cancel.Cancelled() {
				return
			}
			m := synthetic(s.Name(), "$branch-analysis", fmt.Sprintf("%s @ %s", b.Name, b.CommitHash), 1.0)
			m.Locator.CommitHash = b.CommitHash
			select {
			case out <- m:
			case <-sctx.Cancel.Done():
				return
			}
		}
	}()
	return out, errs
}

// TagAnalysisSearcher enumerates tags and their commits as synthetic
// analysis Matches.
type TagAnalysisSearcher struct{}

func (s *TagAnalysisSearcher) Name() string    { return "tag_analysis" }
func (s *TagAnalysisSearcher) Version() string { return "1" }
func (s *TagAnalysisSearcher) Capabilities() []search.Capability {
	return []search.Capability{search.CapTag}
}
func (s *TagAnalysisSearcher) IsApplicable(q *gitsearch.Query) bool { return q.TagAnalysis }
func (s *TagAnalysisSearcher) EstimateCost(repo *gitaccess.Repository, q *gitsearch.Query) int {
	return 5
}

func (s *TagAnalysisSearcher) Search(sctx *gitsearch.SearchContext, repo *gitaccess.Repository) (<-chan gitsearch.Match, <-chan error) {
	out := make(chan gitsearch.Match)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		tags, err := repo.Tags()
		if err != nil {
			errs <- err
			return
		}
		for _, t := range tags {
			if sctx.Cancel.Cancelled() {
				return
			}
			m := synthetic(s.Name(), "$tag-analysis", fmt.Sprintf("%s @ %s", t.Name, t.CommitHash), 1.0)
			m.Locator.CommitHash = t.CommitHash
			select {
			case out <- m:
			case <-sctx.Cancel.Done():
				return
			}
		}
	}()
	return out, errs
}

// DiffAnalysisSearcher computes the file-level diff between two commits or
// refs named by the query.
type DiffAnalysisSearcher struct{}

func (s *DiffAnalysisSearcher) Name() string    { return "diff_analysis" }
func (s *DiffAnalysisSearcher) Version() string { return "1" }
func (s *DiffAnalysisSearcher) Capabilities() []search.Capability {
	return []search.Capability{search.CapDiff}
}
func (s *DiffAnalysisSearcher) IsApplicable(q *gitsearch.Query) bool {
	return q.DiffFrom != "" && q.DiffTo != ""
}
func (s *DiffAnalysisSearcher) EstimateCost(repo *gitaccess.Repository, q *gitsearch.Query) int {
	return 30
}

func (s *DiffAnalysisSearcher) Search(sctx *gitsearch.SearchContext, repo *gitaccess.Repository) (<-chan gitsearch.Match, <-chan error) {
	out := make(chan gitsearch.Match)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		diff, err := repo.Diff(sctx.Query.DiffFrom, sctx.Query.DiffTo)
		if err != nil {
			errs <- err
			return
		}
		for _, f := range diff.Files {
			if sctx.Cancel.Cancelled() {
				return
			}
			snippet := fmt.Sprintf("%s %s (+%d/-%d)", f.ChangeType, f.Path, f.Additions, f.Deletions)
			m := synthetic(s.Name(), "$diff-analysis", snippet, 1.0)
			m.Locator.CommitHash = diff.ToHash
			m.Locator.FilePath = f.Path
			select {
			case out <- m:
			case <-sctx.Cancel.Done():
				return
			}
		}
	}()
	return out, errs
}

// StatisticsAnalysisSearcher aggregates author commit counts over
// gitaccess.AuthorStats.
type StatisticsAnalysisSearcher struct{}

func (s *StatisticsAnalysisSearcher) Name() string    { return "statistics_analysis" }
func (s *StatisticsAnalysisSearcher) Version() string { return "1" }
func (s *StatisticsAnalysisSearcher) Capabilities() []search.Capability {
	return []search.Capability{search.CapStatistics}
}
func (s *StatisticsAnalysisSearcher) IsApplicable(q *gitsearch.Query) bool {
	return q.StatisticsAnalysis
}
func (s *StatisticsAnalysisSearcher) EstimateCost(repo *gitaccess.Repository, q *gitsearch.Query) int {
	return 40
}

func (s *StatisticsAnalysisSearcher) Search(sctx *gitsearch.SearchContext, repo *gitaccess.Repository) (<-chan gitsearch.Match, <-chan error) {
	out := make(chan gitsearch.Match)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		stats, err := repo.AuthorStats(defaultCommitCap)
		if err != nil {
			errs <- err
			return
		}
		for _, st := range stats {
			if sctx.Cancel.Cancelled() {
				return
			}
			snippet := fmt.Sprintf("%s <%s>: %d commits", st.Name, st.Email, st.CommitCount)
			m := synthetic(s.Name(), "$statistics-analysis", snippet, 1.0)
			m.Attributes.Author = st.Name
			select {
			case out <- m:
			case <-sctx.Cancel.Done():
				return
			}
		}
	}()
	return out, errs
}
