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

package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
	"github.com/coderadar/gitsearch/pkg/facade"
	"github.com/coderadar/gitsearch/pkg/gitaccess"
	"github.com/coderadar/gitsearch/pkg/gitsearch"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
}

func (s *Server) handleDescribeSearchers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.facade.DescribeSearchers())
}

// advancedSearchRequest is the POST /search/advanced body: repo_path plus
// every Query criterion in snake_case, per spec.md §6.
type advancedSearchRequest struct {
	RepoPath string `json:"repo_path"`

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
	SizeMin        int64    `json:"size_min"`
	SizeMax        int64    `json:"size_max"`
	IncludeGlobs   []string `json:"include_globs"`
	ExcludeGlobs   []string `json:"exclude_globs"`

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

	WorkerCount           int    `json:"worker_count"`
	CacheBackend          string `json:"cache_backend"`
	CacheTTLSeconds       int    `json:"cache_ttl_seconds"`
	DeadlineSeconds       int    `json:"deadline_seconds"`
	EnableExternalScanner bool   `json:"enable_external_scanner"`
}

func (req *advancedSearchRequest) toQuery() *gitsearch.Query {
	q := &gitsearch.Query{
		ContentPattern:     req.Content,
		Regexp:             req.Regexp,
		CaseSensitive:      req.CaseSensitive,
		CommitHashPrefix:   req.CommitHashPrefix,
		AuthorPattern:      req.Author,
		MessagePattern:     req.Message,
		DateFrom:           req.DateFrom,
		DateTo:             req.DateTo,
		FilePathGlob:       req.FilePath,
		FileExtensions:     req.FileExtensions,
		SizeMin:            req.SizeMin,
		SizeMax:            req.SizeMax,
		IncludeGlobs:       req.IncludeGlobs,
		ExcludeGlobs:       req.ExcludeGlobs,
		Fuzzy:              req.Fuzzy,
		Branch:             req.Branch,
		BranchAnalysis:     req.BranchAnalysis,
		TagAnalysis:        req.TagAnalysis,
		DiffFrom:           req.DiffFrom,
		DiffTo:             req.DiffTo,
		StatisticsAnalysis: req.StatisticsAnalysis,
		MaxResults:         req.MaxResults,
		RankingPreference:  gitsearch.RankingPreference(req.RankingPreference),
	}
	if req.Fuzzy && req.FuzzyThreshold > 0 {
		q.SetFuzzyThreshold(req.FuzzyThreshold)
	}
	return q
}

func (req *advancedSearchRequest) toOptions() facade.Options {
	return facade.Options{
		WorkerCount:           req.WorkerCount,
		CacheBackend:          facade.CacheBackendKind(req.CacheBackend),
		CacheTTLSeconds:       req.CacheTTLSeconds,
		DeadlineSeconds:       req.DeadlineSeconds,
		EnableExternalScanner: req.EnableExternalScanner,
	}
}

// handleSearchAdvanced streams newline-delimited JSON: progress events,
// then RankedResults as they're finalized, then one terminal summary line —
// chunked over http.Flusher, the simplest shape compatible with net/http
// alone (spec.md §6's "protocol of the collaborator's choice").
func (s *Server) handleSearchAdvanced(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req advancedSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.RepoPath == "" {
		http.Error(w, "repo_path is required", http.StatusBadRequest)
		return
	}

	repo, err := gitaccess.Open(req.RepoPath)
	if err != nil {
		writeJSONError(w, err)
		return
	}

	flusher, _ := w.(http.Flusher)
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)

	query := req.toQuery()
	// Progress events can arrive before Submit returns; those carry an empty
	// request_id. mu also serializes writes from concurrent searchers.
	var (
		mu sync.Mutex
		id string
	)
	progress := gitsearch.ProgressSinkFunc(func(e gitsearch.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		_ = enc.Encode(map[string]any{"type": "progress", "request_id": id, "message": e.Message, "result_count": e.ResultCount})
		if flusher != nil {
			flusher.Flush()
		}
	})
	submittedID, results, metrics, errs := s.facade.Submit(r.Context(), repo, query, req.toOptions(), progress)
	mu.Lock()
	id = submittedID
	mu.Unlock()

	for res := range results {
		_ = enc.Encode(map[string]any{"type": "result", "request_id": id, "result": res})
		if flusher != nil {
			flusher.Flush()
		}
	}

	summary := map[string]any{"type": "summary", "request_id": id}
	if err := <-errs; err != nil {
		summary["error"] = errorPayload(err)
	} else {
		summary["metrics"] = metrics
	}
	_ = enc.Encode(summary)
	if flusher != nil {
		flusher.Flush()
	}
}

// handleSearchCancel implements DELETE /search/{id}.
func (s *Server) handleSearchCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/search/")
	if id == "" {
		http.Error(w, "request id is required", http.StatusBadRequest)
		return
	}
	found := s.facade.Cancel(id)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"cancelled": found})
}

func errorPayload(err error) map[string]any {
	kind := gserrors.KindOf(err)
	return map[string]any{"kind": string(kind), "message": err.Error()}
}

func writeJSONError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch gserrors.KindOf(err) {
	case gserrors.BadQuery:
		status = http.StatusBadRequest
	case gserrors.NotARepository, gserrors.RepositoryCorrupt:
		status = http.StatusUnprocessableEntity
	case gserrors.NoApplicableSearcher:
		status = http.StatusBadRequest
	case gserrors.PermissionError:
		status = http.StatusForbidden
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorPayload(err))
}
