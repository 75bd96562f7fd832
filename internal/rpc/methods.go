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

package rpc

import (
	"context"
	"encoding/json"
	"time"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
	"github.com/coderadar/gitsearch/pkg/facade"
	"github.com/coderadar/gitsearch/pkg/gitsearch"
)

func (s *Server) handleDescribeSearchers(req request) response {
	return response{ID: req.ID, Result: s.facade.DescribeSearchers()}
}

// searchSyncParams mirrors advancedSearchRequest minus repo_path, since the
// RPC face is bound to one repository per process.
type searchSyncParams struct {
	Content       string `json:"content"`
	Regexp        bool   `json:"regexp"`
	CaseSensitive bool   `json:"case_sensitive"`

	CommitHashPrefix string `json:"commit_hash_prefix"`
	Author           string `json:"author"`
	Message          string `json:"message"`

	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`

	FilePath       string   `json:"file_path"`
	FileExtensions []string `json:"file_extensions"`

	IncludeGlobs []string `json:"include_globs"`
	ExcludeGlobs []string `json:"exclude_globs"`

	Fuzzy          bool    `json:"fuzzy"`
	FuzzyThreshold float64 `json:"fuzzy_threshold"`

	Branch             string `json:"branch"`
	BranchAnalysis     bool   `json:"branch_analysis"`
	TagAnalysis        bool   `json:"tag_analysis"`
	DiffFrom           string `json:"diff_from"`
	DiffTo             string `json:"diff_to"`
	StatisticsAnalysis bool   `json:"statistics_analysis"`

	MaxResults        int    `json:"max_results"`
	RankingPreference string `json:"ranking_preference"`
}

func (p *searchSyncParams) toQuery() *gitsearch.Query {
	q := &gitsearch.Query{
		ContentPattern:     p.Content,
		Regexp:             p.Regexp,
		CaseSensitive:      p.CaseSensitive,
		CommitHashPrefix:   p.CommitHashPrefix,
		AuthorPattern:      p.Author,
		MessagePattern:     p.Message,
		DateFrom:           p.DateFrom,
		DateTo:             p.DateTo,
		FilePathGlob:       p.FilePath,
		FileExtensions:     p.FileExtensions,
		IncludeGlobs:       p.IncludeGlobs,
		ExcludeGlobs:       p.ExcludeGlobs,
		Fuzzy:              p.Fuzzy,
		Branch:             p.Branch,
		BranchAnalysis:     p.BranchAnalysis,
		TagAnalysis:        p.TagAnalysis,
		DiffFrom:           p.DiffFrom,
		DiffTo:             p.DiffTo,
		StatisticsAnalysis: p.StatisticsAnalysis,
		MaxResults:         p.MaxResults,
		RankingPreference:  gitsearch.RankingPreference(p.RankingPreference),
	}
	if p.Fuzzy && p.FuzzyThreshold > 0 {
		q.SetFuzzyThreshold(p.FuzzyThreshold)
	}
	return q
}

func (s *Server) handleSearchSync(ctx context.Context, req request) response {
	var params searchSyncParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return response{ID: req.ID, Error: &rpcError{Code: codeInvalidParams, Message: "invalid params: " + err.Error()}}
		}
	}

	results, metrics, err := s.facade.SearchSync(ctx, s.repo, params.toQuery(), facade.Options{})
	if err != nil {
		return response{ID: req.ID, Error: rpcErrorFrom(err)}
	}
	return response{ID: req.ID, Result: map[string]any{"results": results, "metrics": metrics}}
}

func (s *Server) handleRepoConfig(req request) response {
	return response{ID: req.ID, Result: map[string]any{
		"repo_root":      s.repoRoot,
		"head_object_id": s.repo.HeadObjectID(),
	}}
}

func (s *Server) handleRepoBranches(req request) response {
	branches, err := s.repo.Branches()
	if err != nil {
		return response{ID: req.ID, Error: rpcErrorFrom(err)}
	}
	return response{ID: req.ID, Result: map[string]any{"branches": branches}}
}

func (s *Server) handleRepoContributors(req request) response {
	var params struct {
		MaxCommits int `json:"max_commits"`
	}
	if len(req.Params) > 0 {
		_ = json.Unmarshal(req.Params, &params)
	}
	maxCommits := params.MaxCommits
	if maxCommits <= 0 {
		maxCommits = 2000
	}
	stats, err := s.repo.AuthorStats(maxCommits)
	if err != nil {
		return response{ID: req.ID, Error: rpcErrorFrom(err)}
	}
	return response{ID: req.ID, Result: map[string]any{"contributors": stats}}
}

func rpcErrorFrom(err error) *rpcError {
	code := codeInternalError
	switch gserrors.KindOf(err) {
	case gserrors.BadQuery, gserrors.NoApplicableSearcher:
		code = codeInvalidParams
	case gserrors.InternalError:
		code = codeInternalError
	default:
		code = codeInternalError
	}
	return &rpcError{Code: code, Message: err.Error()}
}
