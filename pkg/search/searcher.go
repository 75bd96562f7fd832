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

// Package search defines the capability-record contract every searcher
// implements (spec §4.3, re-architected per spec §9 "Dynamic dispatch of
// searchers" as a small descriptor rather than class-based polymorphism)
// and the registry searchers register themselves into at startup.
package search

import (
	"github.com/coderadar/gitsearch/pkg/gitaccess"
	"github.com/coderadar/gitsearch/pkg/gitsearch"
)

// Capability names one query criterion a searcher consumes.
type Capability string

const (
	CapContent        Capability = "content"
	CapCommitHash     Capability = "commit_hash"
	CapAuthor         Capability = "author"
	CapMessage        Capability = "message"
	CapDateRange      Capability = "date_range"
	CapFilePath       Capability = "file_path"
	CapFileType       Capability = "file_type"
	CapFuzzy          Capability = "fuzzy"
	CapBranch         Capability = "branch_analysis"
	CapTag            Capability = "tag_analysis"
	CapDiff           Capability = "diff_analysis"
	CapStatistics     Capability = "statistics_analysis"
)

// Searcher is the capability contract every search component implements.
// Name/Capabilities/Version are static; IsApplicable and EstimateCost are
// called by the Orchestrator before scheduling; Search is the actual
// producer, invoked on the worker pool.
type Searcher interface {
	Name() string
	Version() string
	Capabilities() []Capability
	IsApplicable(q *gitsearch.Query) bool
	EstimateCost(repo *gitaccess.Repository, q *gitsearch.Query) int
	Search(ctx *gitsearch.SearchContext, repo *gitaccess.Repository) (<-chan gitsearch.Match, <-chan error)
}

// Cancelled is a convenience helper searchers use to respect cancellation
// promptly at suspension points (spec §5 "Suspension points").
func Cancelled(sctx *gitsearch.SearchContext) bool {
	return sctx.Cancel.Cancelled()
}
