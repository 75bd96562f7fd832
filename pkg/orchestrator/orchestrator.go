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
	"context"
	"log/slog"
	"time"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
	"github.com/coderadar/gitsearch/pkg/cache"
	"github.com/coderadar/gitsearch/pkg/gitaccess"
	"github.com/coderadar/gitsearch/pkg/gitsearch"
	"github.com/coderadar/gitsearch/pkg/search"
)

// Orchestrator ties the registry, cache, and config together into one
// Run-able coordinator (spec §4.4).
type Orchestrator struct {
	Registry *search.Registry
	Cache    *cache.Cache
	Config   Config
	Logger   *slog.Logger
}

// New builds an Orchestrator. registry/c may be nil to use
// search.DefaultRegistry and an uncached pass-through, respectively.
func New(registry *search.Registry, c *cache.Cache, cfg Config, logger *slog.Logger) *Orchestrator {
	if registry == nil {
		registry = search.DefaultRegistry
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{Registry: registry, Cache: c, Config: cfg, Logger: logger}
}

// Run is a single execution of one Query against repo: selection, bounded
// concurrent execution, merge, dedup, rank, and final Metrics (spec §4.4
// "Execution" steps 1-7). It blocks until the search completes, is
// cancelled, or the deadline expires, then returns the full ranked result
// set — callers wanting a live stream use RunStreaming instead.
func (o *Orchestrator) Run(ctx context.Context, repo *gitaccess.Repository, query *gitsearch.Query, progress gitsearch.ProgressSink) ([]gitsearch.RankedResult, *gitsearch.Metrics, error) {
	results, metrics, errs := o.RunStreaming(ctx, repo, query, progress)
	var collected []gitsearch.RankedResult
	for r := range results {
		collected = append(collected, r)
	}
	if err := <-errs; err != nil {
		return collected, metrics, err
	}
	return collected, metrics, nil
}

// RunStreaming starts the search asynchronously and returns a channel of
// RankedResults (already deduped and ranked, delivered in final order once
// the stream closes), the Metrics object (populated progressively, safe to
// read after the results channel closes), and a channel carrying at most
// one fatal error.
func (o *Orchestrator) RunStreaming(ctx context.Context, repo *gitaccess.Repository, query *gitsearch.Query, progress gitsearch.ProgressSink) (<-chan gitsearch.RankedResult, *gitsearch.Metrics, <-chan error) {
	resultsOut := make(chan gitsearch.RankedResult)
	fatal := make(chan error, 1)
	metrics := gitsearch.NewMetrics()

	if err := query.Normalize(); err != nil {
		close(resultsOut)
		fatal <- err
		close(fatal)
		return resultsOut, metrics, fatal
	}

	applicable := o.selectSearchers(query)
	if len(applicable) == 0 {
		close(resultsOut)
		fatal <- gserrors.NewNoApplicableSearcher("no registered searcher consumes any criterion in this query", "broaden the query or check spelling of criteria", nil)
		close(fatal)
		return resultsOut, metrics, fatal
	}

	deadline := o.Config.Deadline
	if query.MaxResults <= 0 {
		query.MaxResults = o.Config.MaxResults
	}

	runCtx := ctx
	var cancelDeadline context.CancelFunc
	if deadline > 0 {
		runCtx, cancelDeadline = context.WithTimeout(ctx, deadline)
	}

	token := gitsearch.NewCancelToken(runCtx)
	sctx := &gitsearch.SearchContext{
		Repo:                  repo,
		Query:                 query,
		Cancel:                token,
		Progress:              progress,
		WorkerBudget:          o.Config.WorkerCount,
		Metrics:               metrics,
		EnableExternalScanner: o.Config.EnableExternalScanner,
		MaxCommitsCriterion:   o.Config.MaxCommitsCriterion,
		MaxCommitsFuzzy:       o.Config.MaxCommitsFuzzy,
		MaxCommitsContent:     o.Config.MaxCommitsContent,
	}

	merge := make(chan gitsearch.Match, o.Config.ChannelCapacity)
	reporter := newProgressReporter(progress, o.Config.ProgressInterval, o.Config.ProgressMatchInterval)
	searcherFatal := make(chan error, 1)

	jobs := make([]searcherJob, 0, len(applicable))
	for _, s := range applicable {
		jobs = append(jobs, searcherJob{searcher: s, cost: s.EstimateCost(repo, query)})
	}

	go func() {
		defer close(merge)
		runSearcherPool(sctx, repo, jobs, o.Cache, o.Config, merge, reporter, searcherFatal)
	}()

	go func() {
		defer close(resultsOut)
		defer close(fatal)
		if cancelDeadline != nil {
			defer cancelDeadline()
		}

		deduper := NewDeduper(o.Registry)
		produced := 0
		truncated := false

		for m := range merge {
			deduper.Add(m)
			produced++
			if query.MaxResults > 0 && produced >= query.MaxResults {
				truncated = true
				token.Cancel(gserrors.NewResourceLimit("max result count reached"))
			}
		}

		// A searcher's pattern-compilation failure (or any other
		// Kind.Fatal() error) must fail the whole request per spec §7's
		// propagation policy, not just the one searcher: the merge stream
		// closes with the error instead of partial results.
		select {
		case fatalErr := <-searcherFatal:
			fatal <- fatalErr
			return
		default:
		}

		select {
		case <-runCtx.Done():
			if runCtx.Err() == context.DeadlineExceeded {
				metrics.Truncated = true
				metrics.TruncatedReason = "deadline"
			} else {
				metrics.Cancelled = true
			}
		default:
		}
		if truncated {
			metrics.Truncated = true
			if metrics.TruncatedReason == "" {
				metrics.TruncatedReason = "max_results"
			}
		}

		metrics.MatchesProduced = produced
		ranked := Rank(deduper.Finalize(), o.Config.RankingWeights, query.RankingPreference, time.Now())
		if query.MaxResults > 0 && len(ranked) > query.MaxResults {
			ranked = ranked[:query.MaxResults]
		}
		metrics.MatchesAfterRank = len(ranked)

		reporter.Final("done")
		for _, r := range ranked {
			select {
			case resultsOut <- r:
			case <-ctx.Done():
				return
			}
		}
	}()

	return resultsOut, metrics, fatal
}

// selectSearchers filters the registry down to searchers applicable to
// query (spec §4.4 "Selection").
func (o *Orchestrator) selectSearchers(query *gitsearch.Query) []search.Searcher {
	var out []search.Searcher
	for _, s := range o.Registry.All() {
		if s.IsApplicable(query) {
			out = append(out, s)
		}
	}
	return out
}

// DescribeSearchers implements the RPC face's discovery endpoint and
// facade.DescribeSearchers (spec §4.5 "describe_searchers").
func (o *Orchestrator) DescribeSearchers() []search.Description {
	return o.Registry.DescribeAll()
}
