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

package gitaccess

import (
	"context"
	"regexp"
	"strings"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
)

// BlobScanner scans a repository's HEAD tree blob-by-blob using only the
// Git Access Layer itself — the fallback path used when the external
// scanner is disabled or "rg" is unavailable (spec §4.1).
type BlobScanner struct {
	Repo    *Repository
	MaxSize int64
}

// Scan walks the HEAD tree, reading each non-binary, non-oversized blob and
// matching pattern line by line. Blobs it skips are tallied into the
// returned ScanStats (spec §8 files_skipped_size/files_skipped_binary).
func (s *BlobScanner) Scan(ctx context.Context, pattern string, regexpFlag, caseSensitive bool) ([]ScanHit, ScanStats, error) {
	var stats ScanStats
	var matcher func(line string) bool
	if regexpFlag {
		flags := ""
		if !caseSensitive {
			flags = "(?i)"
		}
		re, err := regexp.Compile(flags + pattern)
		if err != nil {
			return nil, stats, gserrors.NewBadQuery("content pattern failed to compile", "check regular expression syntax", err)
		}
		matcher = re.MatchString
	} else {
		needle := pattern
		if !caseSensitive {
			needle = strings.ToLower(needle)
		}
		matcher = func(line string) bool {
			if !caseSensitive {
				line = strings.ToLower(line)
			}
			return strings.Contains(line, needle)
		}
	}

	head := s.Repo.HeadObjectID()
	walker, err := s.Repo.Tree(head)
	if err != nil {
		return nil, stats, err
	}

	var hits []ScanHit
	for entry, err := range walker.Files() {
		if err != nil {
			continue
		}
		select {
		case <-ctx.Done():
			return hits, stats, ctx.Err()
		default:
		}
		if s.MaxSize > 0 && entry.Size > s.MaxSize {
			stats.SkippedSize++
			continue
		}
		blob, err := s.Repo.Blob(head, entry.Path, s.MaxSize)
		if err != nil {
			continue
		}
		if blob.Skipped {
			switch blob.SkipKind {
			case "binary":
				stats.SkippedBinary++
			case "size":
				stats.SkippedSize++
			}
			continue
		}
		for i, line := range blob.Lines {
			if matcher(line) {
				hits = append(hits, ScanHit{Path: entry.Path, Line: i + 1, Text: line})
			}
		}
	}
	return hits, stats, nil
}
