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
	"errors"

	"github.com/coderadar/gitsearch/pkg/gitaccess"
	"github.com/coderadar/gitsearch/pkg/gitsearch"
	"github.com/coderadar/gitsearch/pkg/search"
)

func init() {
	search.DefaultRegistry.Register(&CommitHashSearcher{})
}

// CommitHashSearcher resolves a commit-hash prefix to a unique full hash
// (spec §4.3 "CommitHash" row). An ambiguous prefix produces zero Matches
// plus an "ambiguous_commit_prefix" warning, not an error (spec §8
// "Boundary behaviors").
type CommitHashSearcher struct{}

func (s *CommitHashSearcher) Name() string    { return "commit_hash" }
func (s *CommitHashSearcher) Version() string { return "1" }

func (s *CommitHashSearcher) Capabilities() []search.Capability {
	return []search.Capability{search.CapCommitHash}
}

func (s *CommitHashSearcher) IsApplicable(q *gitsearch.Query) bool {
	return q.CommitHashPrefix != ""
}

func (s *CommitHashSearcher) EstimateCost(repo *gitaccess.Repository, q *gitsearch.Query) int {
	return 1
}

func (s *CommitHashSearcher) Search(sctx *gitsearch.SearchContext, repo *gitaccess.Repository) (<-chan gitsearch.Match, <-chan error) {
	out := make(chan gitsearch.Match)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		hash, err := repo.ResolveCommitPrefix(sctx.Query.CommitHashPrefix)
		if err != nil {
			if errors.Is(err, gitaccess.ErrAmbiguousPrefix) {
				sctx.Metrics.AddWarning(s.Name(), "ambiguous_commit_prefix")
				return
			}
			if errors.Is(err, gitaccess.ErrObjectNotFound) {
				return
			}
			errs <- err
			return
		}

		rec, err := repo.CommitByHash(hash.String())
		if err != nil {
			errs <- err
			return
		}

		m := gitsearch.Match{
			Kind:     gitsearch.MatchCommit,
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
		}
	}()

	return out, errs
}

func unixPtr(v int64) *int64 { return &v }
