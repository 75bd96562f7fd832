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
	"regexp"
	"strings"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
	"github.com/coderadar/gitsearch/pkg/gitaccess"
	"github.com/coderadar/gitsearch/pkg/gitsearch"
	"github.com/coderadar/gitsearch/pkg/search"
)

const defaultCommitCap = 2000

func init() {
	search.DefaultRegistry.Register(&AuthorSearcher{})
}

// AuthorSearcher matches commits by author identity: substring or regex
// over "name <email>", case-insensitive unless the query overrides it
// (spec §4.3 "Author" row).
type AuthorSearcher struct{}

func (s *AuthorSearcher) Name() string    { return "author" }
func (s *AuthorSearcher) Version() string { return "1" }

func (s *AuthorSearcher) Capabilities() []search.Capability {
	return []search.Capability{search.CapAuthor}
}

func (s *AuthorSearcher) IsApplicable(q *gitsearch.Query) bool {
	return q.AuthorPattern != "" && !q.Fuzzy
}

func (s *AuthorSearcher) EstimateCost(repo *gitaccess.Repository, q *gitsearch.Query) int {
	return 20
}

func (s *AuthorSearcher) Search(sctx *gitsearch.SearchContext, repo *gitaccess.Repository) (<-chan gitsearch.Match, <-chan error) {
	out := make(chan gitsearch.Match)
	errs := make(chan error, 1)

	q := sctx.Query
	var re *regexp.Regexp
	if q.Regexp {
		flags := ""
		if !q.CaseSensitive {
			flags = "(?i)"
		}
		compiled, err := regexp.Compile(flags + q.AuthorPattern)
		if err != nil {
			badQuery := gserrors.NewBadQuery("author pattern failed to compile", "check regular expression syntax", err)
			go func() { errs <- badQuery; close(out); close(errs) }()
			return out, errs
		}
		re = compiled
	}

	go func() {
		defer close(out)
		defer close(errs)

		needle := q.AuthorPattern
		if !q.CaseSensitive {
			needle = strings.ToLower(needle)
		}

		opts := gitaccess.CommitIterOptions{Branch: q.Branch, MaxCount: defaultCommitCap}
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
			identity := rec.AuthorName + " <" + rec.AuthorEmail + ">"
			matched := false
			if re != nil {
				matched = re.MatchString(identity)
			} else {
				hay := identity
				if !q.CaseSensitive {
					hay = strings.ToLower(hay)
				}
				matched = strings.Contains(hay, needle)
			}
			if !matched {
				continue
			}
			m := gitsearch.Match{
				Kind:     gitsearch.MatchAuthor,
				Locator:  gitsearch.Locator{CommitHash: rec.Hash},
				Snippet:  identity,
				RawScore: 1.0,
				Searcher: s.Name(),
				Attributes: gitsearch.Attributes{
					Author: identity,
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
