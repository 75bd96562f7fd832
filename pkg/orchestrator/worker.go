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

package orchestrator

import (
	"encoding/json"
	"sort"
	"strconv"
	"sync"
	"time"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
	"github.com/coderadar/gitsearch/pkg/cache"
	"github.com/coderadar/gitsearch/pkg/gitaccess"
	"github.com/coderadar/gitsearch/pkg/gitsearch"
	"github.com/coderadar/gitsearch/pkg/search"
)

// searcherJob is one unit of work on the bounded pool: run one searcher
// against the shared Search Context.
type searcherJob struct {
	searcher search.Searcher
	cost     int
}

// runSearcherPool fans work out on a pool of size cfg.WorkerCount, grounded
// on the teacher's pkg/ingestion/local_pipeline.go parseFilesParallel: a
// jobs channel, a bounded goroutine pool, sync.WaitGroup, atomic progress
// (here folded into progressReporter) — generalized from "parse N files"
// to "run N searchers". Every Match produced is sent to merge, a single
// bounded channel per spec §4.4 step 5.
func runSearcherPool(sctx *gitsearch.SearchContext, repo *gitaccess.Repository, jobs []searcherJob, c *cache.Cache, cfg Config, merge chan<- gitsearch.Match, reporter *progressReporter, fatal chan<- error) {
	sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].cost < jobs[j].cost })

	jobsCh := make(chan searcherJob)
	var wg sync.WaitGroup

	workers := cfg.WorkerCount
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobsCh {
				runOneSearcher(sctx, repo, job, c, merge, reporter, fatal)
			}
		}()
	}

	go func() {
		defer close(jobsCh)
		for _, j := range jobs {
			select {
			case jobsCh <- j:
			case <-sctx.Cancel.Done():
				return
			}
		}
	}()

	wg.Wait()
}

func runOneSearcher(sctx *gitsearch.SearchContext, repo *gitaccess.Repository, job searcherJob, c *cache.Cache, merge chan<- gitsearch.Match, reporter *progressReporter, fatal chan<- error) {
	start := time.Now()
	defer func() {
		sctx.Metrics.SetPerSearcherTime(job.searcher.Name(), time.Since(start))
	}()

	fp := cache.Fingerprint(repo.RootPath(), repo.HeadObjectID(), job.searcher.Name(), job.searcher.Version(), subQueryFields(sctx.Query), !sctx.Query.CaseSensitive)

	var cached []gitsearch.Match
	if c != nil && c.Lookup(sctx.Cancel.Context(), fp, &cached) {
		sctx.Metrics.CacheHits++
		for _, m := range cached {
			if !deliverMatch(sctx, merge, m, reporter) {
				return
			}
		}
		return
	}
	if c != nil {
		sctx.Metrics.CacheMisses++
	}

	produce := func() (any, error) {
		var collected []gitsearch.Match
		out, errs := job.searcher.Search(sctx, repo)
		for m := range out {
			collected = append(collected, m)
			if !deliverMatch(sctx, merge, m, reporter) {
				break
			}
		}
		if err := <-errs; err != nil {
			return collected, err
		}
		return collected, nil
	}

	if c != nil {
		var redisFallback []gitsearch.Match
		result, err, shared := c.WithSingleFlight(sctx.Cancel.Context(), fp, &redisFallback, produce)
		if err != nil {
			reportSearcherError(sctx, job.searcher.Name(), err, fatal)
			return
		}
		matches, _ := result.([]gitsearch.Match)
		if shared {
			// This call didn't run produce itself (singleflight merged it
			// into a concurrent leader's call), so its own merge channel
			// never saw these Matches from inside produce — replay them.
			for _, m := range matches {
				if !deliverMatch(sctx, merge, m, reporter) {
					return
				}
			}
			return
		}
		if matches != nil {
			c.Store(sctx.Cancel.Context(), fp, matches, 0)
		}
		return
	}

	if _, err := produce(); err != nil {
		reportSearcherError(sctx, job.searcher.Name(), err, fatal)
	}
}

// reportSearcherError routes a searcher error to either the per-searcher
// metrics (non-fatal, spec §7 propagation policy) or the request's fatal
// channel (BadQuery and other Kind.Fatal() errors, spec §4.3 "Failure
// semantics": "Pattern-compilation failures (bad regex) fail the whole
// request with BadQuery"). A fatal error also cancels the token so sibling
// searchers stop promptly instead of completing pointless work.
func reportSearcherError(sctx *gitsearch.SearchContext, name string, err error, fatal chan<- error) {
	if gserrors.KindOf(err).Fatal() {
		sctx.Cancel.Cancel(err)
		select {
		case fatal <- err:
		default:
		}
		return
	}
	sctx.Metrics.AddError(name, err.Error())
}

func deliverMatch(sctx *gitsearch.SearchContext, merge chan<- gitsearch.Match, m gitsearch.Match, reporter *progressReporter) bool {
	select {
	case merge <- m:
		reporter.Tick()
		return true
	case <-sctx.Cancel.Done():
		return false
	}
}

// subQueryFields canonicalizes the Query's active criteria into the
// flat-string map cache.Fingerprint expects.
func subQueryFields(q *gitsearch.Query) map[string]string {
	fields := map[string]string{
		"content":       q.ContentPattern,
		"commit_hash":   q.CommitHashPrefix,
		"author":        q.AuthorPattern,
		"message":       q.MessagePattern,
		"file_path":     q.FilePathGlob,
		"branch":        q.Branch,
		"diff_from":     q.DiffFrom,
		"diff_to":       q.DiffTo,
	}
	if b, err := json.Marshal(q.FileExtensions); err == nil {
		fields["file_extensions"] = string(b)
	}
	if b, err := json.Marshal(q.IncludeGlobs); err == nil {
		fields["include_globs"] = string(b)
	}
	if b, err := json.Marshal(q.ExcludeGlobs); err == nil {
		fields["exclude_globs"] = string(b)
	}
	if q.DateFrom != nil {
		fields["date_from"] = q.DateFrom.UTC().Format(time.RFC3339)
	}
	if q.DateTo != nil {
		fields["date_to"] = q.DateTo.UTC().Format(time.RFC3339)
	}
	if q.Fuzzy {
		fields["fuzzy_threshold"] = strconv.FormatFloat(q.FuzzyThreshold, 'f', 4, 64)
	}
	return fields
}
