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
	"sort"

	"github.com/coderadar/gitsearch/pkg/gitaccess"
	"github.com/coderadar/gitsearch/pkg/gitsearch"
	"github.com/coderadar/gitsearch/pkg/search"
	"github.com/coderadar/gitsearch/pkg/search/fuzzy"
)

// fuzzyTargetCap is the per-request cap of indexed targets spec §4.3
// "Fuzzy" row names: "1,000 indexed targets per stream".
const fuzzyTargetCap = 1000

func init() {
	search.DefaultRegistry.Register(&FuzzySearcher{})
}

// FuzzySearcher scores content, author, or message text against a pattern
// using normalized Levenshtein similarity (spec §4.3 "Fuzzy" row and
// "Fuzzy scoring"), honoring a 1,000-target cap and the shorter-then-
// lexicographic tie-break.
type FuzzySearcher struct{}

func (s *FuzzySearcher) Name() string    { return "fuzzy" }
func (s *FuzzySearcher) Version() string { return "1" }

func (s *FuzzySearcher) Capabilities() []search.Capability {
	return []search.Capability{search.CapFuzzy}
}

func (s *FuzzySearcher) IsApplicable(q *gitsearch.Query) bool {
	return q.Fuzzy && (q.ContentPattern != "" || q.AuthorPattern != "" || q.MessagePattern != "")
}

func (s *FuzzySearcher) EstimateCost(repo *gitaccess.Repository, q *gitsearch.Query) int {
	return 80
}

type fuzzyTarget struct {
	text       string
	commitHash string
	filePath   string
	line       *int
	author     string
	date       *int64
}

func (s *FuzzySearcher) Search(sctx *gitsearch.SearchContext, repo *gitaccess.Repository) (<-chan gitsearch.Match, <-chan error) {
	out := make(chan gitsearch.Match)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		q := sctx.Query
		pattern, kind := fuzzyCriterion(q)
		if pattern == "" {
			return
		}

		targets, err := s.collectTargets(sctx, repo, kind)
		if err != nil {
			errs <- err
			return
		}

		type scored struct {
			target fuzzyTarget
			cand   fuzzy.Candidate
		}
		var hits []scored
		for _, t := range targets {
			score := fuzzy.BestTokenSimilarity(pattern, t.text)
			if score >= q.FuzzyThreshold {
				hits = append(hits, scored{target: t, cand: fuzzy.Candidate{Text: t.text, Score: score}})
			}
		}
		sort.Slice(hits, func(i, j int) bool { return hits[i].cand.Less(hits[j].cand) })

		for _, h := range hits {
			if sctx.Cancel.Cancelled() {
				return
			}
			m := gitsearch.Match{
				Kind: gitsearch.MatchFuzzy,
				Locator: gitsearch.Locator{
					CommitHash: h.target.commitHash,
					FilePath:   h.target.filePath,
					Line:       h.target.line,
				},
				Snippet:  h.target.text,
				RawScore: h.cand.Score,
				Searcher: s.Name(),
				Attributes: gitsearch.Attributes{
					Author: h.target.author,
					Date:   h.target.date,
				},
			}
			select {
			case out <- m:
			case <-sctx.Cancel.Done():
				return
			}
		}
	}()

	return out, errs
}

func fuzzyCriterion(q *gitsearch.Query) (pattern string, kind search.Capability) {
	switch {
	case q.ContentPattern != "":
		return q.ContentPattern, search.CapContent
	case q.AuthorPattern != "":
		return q.AuthorPattern, search.CapAuthor
	case q.MessagePattern != "":
		return q.MessagePattern, search.CapMessage
	default:
		return "", ""
	}
}

func (s *FuzzySearcher) collectTargets(sctx *gitsearch.SearchContext, repo *gitaccess.Repository, kind search.Capability) ([]fuzzyTarget, error) {
	var targets []fuzzyTarget

	switch kind {
	case search.CapContent:
		walker, err := repo.Tree(repo.HeadObjectID())
		if err != nil {
			return nil, err
		}
		for entry, err := range walker.Files() {
			if len(targets) >= fuzzyTargetCap || sctx.Cancel.Cancelled() {
				break
			}
			if err != nil {
				continue
			}
			blob, err := repo.Blob(repo.HeadObjectID(), entry.Path, sctx.Query.MaxFileSize)
			if err != nil {
				continue
			}
			if blob.Skipped {
				switch blob.SkipKind {
				case "binary":
					sctx.Metrics.AddFilesSkipped(0, 1)
				case "size":
					sctx.Metrics.AddFilesSkipped(1, 0)
				}
				continue
			}
			for i, line := range blob.Lines {
				if len(targets) >= fuzzyTargetCap {
					break
				}
				ln := i + 1
				targets = append(targets, fuzzyTarget{text: line, commitHash: repo.HeadObjectID(), filePath: entry.Path, line: &ln})
			}
		}
	case search.CapAuthor, search.CapMessage:
		for rec, err := range repo.Commits(gitaccess.CommitIterOptions{MaxCount: fuzzyTargetCap}) {
			if len(targets) >= fuzzyTargetCap || sctx.Cancel.Cancelled() {
				break
			}
			if err != nil {
				continue
			}
			text := rec.Message
			if kind == search.CapAuthor {
				text = rec.AuthorName + " <" + rec.AuthorEmail + ">"
			}
			when := rec.AuthorWhen.Unix()
			targets = append(targets, fuzzyTarget{text: text, commitHash: rec.Hash, author: rec.AuthorName, date: &when})
		}
	}
	return targets, nil
}
