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

package gitsearch

import "fmt"

// MatchKind identifies which searcher family produced a Match.
type MatchKind string

const (
	MatchContent  MatchKind = "content"
	MatchCommit   MatchKind = "commit"
	MatchAuthor   MatchKind = "author"
	MatchMessage  MatchKind = "message"
	MatchDate     MatchKind = "date"
	MatchFilePath MatchKind = "file-path"
	MatchFileType MatchKind = "file-type"
	MatchFuzzy    MatchKind = "fuzzy"
	MatchAnalysis MatchKind = "analysis"
)

// Locator pins a Match to the object it came from. FilePath and Line are
// empty/nil for commit-level matches. Advanced-analysis matches use a
// stable pseudo-path such as "$branch-analysis" instead of a real FilePath.
type Locator struct {
	CommitHash string
	FilePath   string
	Line       *int
	ByteSpan   *[2]int
}

// key returns the deduplication composite key (match kind, commit hash,
// file path, line number, byte span) from spec §4.4.
func (l Locator) key(kind MatchKind) string {
	line := -1
	if l.Line != nil {
		line = *l.Line
	}
	span := [2]int{-1, -1}
	if l.ByteSpan != nil {
		span = *l.ByteSpan
	}
	return fmt.Sprintf("%s\x00%s\x00%s\x00%d\x00%d-%d", kind, l.CommitHash, l.FilePath, line, span[0], span[1])
}

// Attributes carries auxiliary, kind-specific fields that don't belong on
// every Match: author identity, commit date, file size.
type Attributes struct {
	Author   string
	Date     *int64 // Unix seconds, UTC; nil when not applicable.
	FileSize int64
}

// Match is a single result unit, traceable to exactly one (searcher,
// commit-or-synthetic-origin) pair.
type Match struct {
	Kind          MatchKind
	Locator       Locator
	Snippet       string
	ContextBefore []string
	ContextAfter  []string
	RawScore      float64
	Searcher      string
	Attributes    Attributes
}

// DedupKey returns the composite key used by the orchestrator's
// deduplication stage.
func (m Match) DedupKey() string {
	return m.Locator.key(m.Kind)
}
