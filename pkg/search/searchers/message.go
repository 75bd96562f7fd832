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

	"github.com/coderadar/gitsearch/pkg/gitaccess"
	"github.com/coderadar/gitsearch/pkg/gitsearch"
	"github.com/coderadar/gitsearch/pkg/search"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
)

func init() {
	search.DefaultRegistry.Register(&MessageSearcher{})
}

// MessageSearcher matches a multi-line regex against the full commit
// message (spec §4.3 "Message" row).
type MessageSearcher struct{}

func (s *MessageSearcher) Name() string    { return "message" }
func (s *MessageSearcher) Version() string { return "1" }

func (s *MessageSearcher) Capabilities() []search.Capability {
	return []search.Capability{search.CapMessage}
}

func (s *MessageSearcher) IsApplicable(q *gitsearch.Query) bool {
	return q.MessagePattern != "" && !q.Fuzzy
}

func (s *MessageSearcher) EstimateCost(repo *gitaccess.Repository, q *gitsearch.Query) int {
	return 20
}

func (s *MessageSearcher) Search(sctx *gitsearch.SearchContext, repo *gitaccess.Repository) (<-chan gitsearch.Match, <-chan error) {
	out := make(chan gitsearch.Match)
	errs := make(chan error, 1)

	re, compileErr := regexp.Compile("(?s)" + sctx.Query.MessagePattern)

	go func() {
		defer close(out)
		defer close(errs)

		if compileErr != nil {
			errs <- gserrors.NewBadQuery("message pattern failed to compile", "check regular expression syntax", compileErr)
			return
		}

		opts := gitaccess.CommitIterOptions{Branch: sctx.Query.Branch, MaxCount: defaultCommitCap}
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
			if !re.MatchString(rec.Message) {
				continue
			}
			m := gitsearch.Match{
				Kind:     gitsearch.MatchMessage,
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
