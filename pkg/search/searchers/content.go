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

// Package searchers holds one small file per capability-record searcher
// (spec §4.3), each implementing search.Searcher and registering itself
// into search.DefaultRegistry at init() time.
package searchers

import (
	"github.com/coderadar/gitsearch/pkg/gitaccess"
	"github.com/coderadar/gitsearch/pkg/gitsearch"
	"github.com/coderadar/gitsearch/pkg/search"
)

const contextLines = 3

func init() {
	search.DefaultRegistry.Register(&ContentSearcher{})
}

// ContentSearcher matches lines against a content pattern within
// include/exclude globs and the size cap (spec §4.3 "Content" row): one
// Match per matching line, snippet with contextLines of surrounding
// context on each side.
type ContentSearcher struct{}

func (s *ContentSearcher) Name() string    { return "content" }
func (s *ContentSearcher) Version() string { return "1" }

func (s *ContentSearcher) Capabilities() []search.Capability {
	return []search.Capability{search.CapContent}
}

func (s *ContentSearcher) IsApplicable(q *gitsearch.Query) bool {
	return q.ContentPattern != "" && !q.Fuzzy
}

func (s *ContentSearcher) EstimateCost(repo *gitaccess.Repository, q *gitsearch.Query) int {
	return 50
}

func (s *ContentSearcher) Search(sctx *gitsearch.SearchContext, repo *gitaccess.Repository) (<-chan gitsearch.Match, <-chan error) {
	out := make(chan gitsearch.Match)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		q := sctx.Query
		hits, err := scan(sctx, repo, q)
		if err != nil {
			errs <- err
			return
		}

		for _, h := range hits {
			if sctx.Cancel.Cancelled() {
				return
			}
			if !q.MatchesPath(h.Path) || !q.MatchesExtension(h.Path) {
				continue
			}
			line := h.Line
			m := gitsearch.Match{
				Kind: gitsearch.MatchContent,
				Locator: gitsearch.Locator{
					CommitHash: repo.HeadObjectID(),
					FilePath:   h.Path,
					Line:       &line,
				},
				Snippet:       h.Text,
				ContextBefore: h.ContextBefore,
				ContextAfter:  h.ContextAfter,
				RawScore:      1.0,
				Searcher:      s.Name(),
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

// scanHit augments gitaccess.ScanHit with surrounding context lines.
type scanHit struct {
	gitaccess.ScanHit
	ContextBefore []string
	ContextAfter  []string
}

func scan(sctx *gitsearch.SearchContext, repo *gitaccess.Repository, q *gitsearch.Query) ([]scanHit, error) {
	var raw []gitaccess.ScanHit
	var stats gitaccess.ScanStats
	var err error

	if sctx.EnableExternalScanner && !q.Regexp {
		scanner := &gitaccess.RipgrepScanner{RepoRoot: repo.RootPath()}
		if scanner.Available() {
			raw, stats, err = scanner.Scan(sctx.Cancel.Context(), q.ContentPattern, q.Regexp, q.CaseSensitive)
		}
	}
	if raw == nil {
		scanner := &gitaccess.BlobScanner{Repo: repo, MaxSize: q.MaxFileSize}
		raw, stats, err = scanner.Scan(sctx.Cancel.Context(), q.ContentPattern, q.Regexp, q.CaseSensitive)
	}
	if err != nil {
		return nil, err
	}
	if stats.SkippedSize > 0 || stats.SkippedBinary > 0 {
		sctx.Metrics.AddFilesSkipped(stats.SkippedSize, stats.SkippedBinary)
	}

	return attachContext(sctx, repo, raw)
}

func attachContext(sctx *gitsearch.SearchContext, repo *gitaccess.Repository, hits []gitaccess.ScanHit) ([]scanHit, error) {
	byFile := make(map[string][]int)
	for _, h := range hits {
		byFile[h.Path] = append(byFile[h.Path], h.Line)
	}

	lineCache := make(map[string][]string)
	out := make([]scanHit, 0, len(hits))
	for _, h := range hits {
		lines, ok := lineCache[h.Path]
		if !ok {
			blob, err := repo.Blob(repo.HeadObjectID(), h.Path, 0)
			if err == nil && !blob.Skipped {
				lines = blob.Lines
			} else if err == nil && blob.Skipped {
				switch blob.SkipKind {
				case "binary":
					sctx.Metrics.AddFilesSkipped(0, 1)
				case "size":
					sctx.Metrics.AddFilesSkipped(1, 0)
				}
			}
			lineCache[h.Path] = lines
		}
		sh := scanHit{ScanHit: h}
		if lines != nil {
			idx := h.Line - 1
			for i := idx - contextLines; i < idx; i++ {
				if i >= 0 && i < len(lines) {
					sh.ContextBefore = append(sh.ContextBefore, lines[i])
				}
			}
			for i := idx + 1; i <= idx+contextLines; i++ {
				if i >= 0 && i < len(lines) {
					sh.ContextAfter = append(sh.ContextAfter, lines[i])
				}
			}
		}
		out = append(out, sh)
	}
	return out, nil
}
