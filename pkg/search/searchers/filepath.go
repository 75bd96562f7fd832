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
	search.DefaultRegistry.Register(&FilePathSearcher{})
}

// FilePathSearcher glob-matches paths within the HEAD tree; "/" is the
// only path separator (spec §4.3 "FilePath" row).
type FilePathSearcher struct{}

func (s *FilePathSearcher) Name() string    { return "file_path" }
func (s *FilePathSearcher) Version() string { return "1" }

func (s *FilePathSearcher) Capabilities() []search.Capability {
	return []search.Capability{search.CapFilePath}
}

func (s *FilePathSearcher) IsApplicable(q *gitsearch.Query) bool {
	return q.FilePathGlob != ""
}

func (s *FilePathSearcher) EstimateCost(repo *gitaccess.Repository, q *gitsearch.Query) int {
	return 10
}

func (s *FilePathSearcher) Search(sctx *gitsearch.SearchContext, repo *gitaccess.Repository) (<-chan gitsearch.Match, <-chan error) {
	out := make(chan gitsearch.Match)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		walker, err := repo.Tree(repo.HeadObjectID())
		if err != nil {
			errs <- err
			return
		}

		examined := 0
		for entry, err := range walker.Files() {
			if sctx.Cancel.Cancelled() {
				return
			}
			if err != nil {
				sctx.Metrics.AddError(s.Name(), err.Error())
				continue
			}
			examined++
			if !sctx.Query.MatchesPath(entry.Path) {
				continue
			}
			m := gitsearch.Match{
				Kind:     gitsearch.MatchFilePath,
				Locator:  gitsearch.Locator{CommitHash: repo.HeadObjectID(), FilePath: entry.Path},
				Snippet:  entry.Path,
				RawScore: 1.0,
				Searcher: s.Name(),
				Attributes: gitsearch.Attributes{
					FileSize: entry.Size,
				},
			}
			select {
			case out <- m:
			case <-sctx.Cancel.Done():
				return
			}
		}
		sctx.Metrics.AddFilesExamined(examined)
	}()

	return out, errs
}
