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
	"github.com/coderadar/gitsearch/pkg/gitaccess"
	"github.com/coderadar/gitsearch/pkg/gitsearch"
	"github.com/coderadar/gitsearch/pkg/search"
)

func init() {
	search.DefaultRegistry.Register(&DateRangeSearcher{})
}

// DateRangeSearcher matches commits whose author-time (UTC) falls within
// [DateFrom, DateTo], inclusive on both ends (spec §4.3 "DateRange" row).
type DateRangeSearcher struct{}

func (s *DateRangeSearcher) Name() string    { return "date_range" }
func (s *DateRangeSearcher) Version() string { return "1" }

func (s *DateRangeSearcher) Capabilities() []search.Capability {
	return []search.Capability{search.CapDateRange}
}

func (s *DateRangeSearcher) IsApplicable(q *gitsearch.Query) bool {
	return q.DateFrom != nil || q.DateTo != nil
}

func (s *DateRangeSearcher) EstimateCost(repo *gitaccess.Repository, q *gitsearch.Query) int {
	return 20
}

func (s *DateRangeSearcher) Search(sctx *gitsearch.SearchContext, repo *gitaccess.Repository) (<-chan gitsearch.Match, <-chan error) {
	out := make(chan gitsearch.Match)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		q := sctx.Query
		opts := gitaccess.CommitIterOptions{Branch: q.Branch, Since: q.DateFrom, Until: q.DateTo, MaxCount: defaultCommitCap}
		examined := 0
		for rec, err := range repo.Commits(opts) {
			if sctx.Cancel.Cancelled() {
				return
			}
			if err != nil {
				sctx.Metrics.AddError(s.Name(), err.Error())
				continue
			}
			examined++
			if !q.MatchesDate(rec.AuthorWhen) {
				continue
			}
			m := gitsearch.Match{
				Kind:     gitsearch.MatchDate,
				Locator:  gitsearch.Locator{CommitHash: rec.Hash},
				Snippet:  rec.Message,
				RawScore: 1.0,
				Searcher: s.Name(),
				Attributes: gitsearch.Attributes{
					Author: rec.AuthorName,
					Date:   unixPtr(rec.AuthorWhen.Unix()),
				},
			}
			select {
			case out <- m:
			case <-sctx.Cancel.Done():
				return
			}
		}
		sctx.Metrics.AddCommitsTraversed(examined)
	}()

	return out, errs
}
