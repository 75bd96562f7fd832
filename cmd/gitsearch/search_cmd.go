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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/redis/go-redis/v9"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
	"github.com/coderadar/gitsearch/internal/logging"
	"github.com/coderadar/gitsearch/internal/ui"
	"github.com/coderadar/gitsearch/pkg/cache"
	"github.com/coderadar/gitsearch/pkg/facade"
	"github.com/coderadar/gitsearch/pkg/gitaccess"
	"github.com/coderadar/gitsearch/pkg/gitsearch"
	"github.com/coderadar/gitsearch/pkg/search"
)

// runSearch implements `gitsearch search <repo> [flags]`, the CLI
// collaborator of spec.md §6: it parses one flag per Query criterion, calls
// search_sync, and streams Ranked Results to stdout.
func runSearch(args []string, globals GlobalFlags) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	var (
		content        = fs.String("content", "", "Content pattern to search for")
		isRegexp       = fs.Bool("regexp", false, "Treat --content as a regular expression")
		caseSensitive  = fs.Bool("case-sensitive", false, "Case-sensitive content matching")
		commitHash     = fs.String("commit-hash", "", "Commit hash prefix")
		author         = fs.String("author", "", "Author name/email pattern")
		message        = fs.String("message", "", "Commit message pattern")
		dateFrom       = fs.String("date-from", "", "RFC 3339 date lower bound")
		dateTo         = fs.String("date-to", "", "RFC 3339 date upper bound")
		filePath       = fs.String("file-path", "", "File path glob")
		fuzzy          = fs.Bool("fuzzy", false, "Enable fuzzy matching")
		fuzzyThreshold = fs.Float64("fuzzy-threshold", 0, "Fuzzy similarity threshold (default 0.8)")
		branch         = fs.String("branch", "", "Branch to search (default: HEAD)")
		maxResults     = fs.Int("max-results", 0, "Maximum results (default: 1000)")
		ranking        = fs.String("ranking", "balanced", "Ranking preference: balanced|recency|relevance")
		deadline       = fs.Int("deadline-seconds", 0, "Request deadline in seconds")
		workerCount    = fs.Int("worker-count", 0, "Worker count (default: 4)")
		cacheBackend   = fs.String("cache-backend", "local", "Cache backend: none|local|shared")
		sharedCacheURL = fs.String("shared-cache-url", "", "Redis URL for the shared cache backend")
	)
	if err := fs.Parse(args); err != nil {
		return exitBadQuery
	}

	repoArgs := fs.Args()
	if len(repoArgs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: gitsearch search <repo> [flags]")
		return exitBadQuery
	}
	repoPath := repoArgs[0]

	query := &gitsearch.Query{
		ContentPattern:   *content,
		Regexp:           *isRegexp,
		CaseSensitive:    *caseSensitive,
		CommitHashPrefix: *commitHash,
		AuthorPattern:    *author,
		MessagePattern:   *message,
		FilePathGlob:     *filePath,
		Fuzzy:            *fuzzy,
		Branch:           *branch,
		MaxResults:       *maxResults,
		RankingPreference: gitsearch.RankingPreference(*ranking),
	}
	if *fuzzy && *fuzzyThreshold > 0 {
		query.SetFuzzyThreshold(*fuzzyThreshold)
	}
	if *dateFrom != "" {
		t, err := time.Parse(time.RFC3339, *dateFrom)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --date-from: %v\n", err)
			return exitBadQuery
		}
		query.DateFrom = &t
	}
	if *dateTo != "" {
		t, err := time.Parse(time.RFC3339, *dateTo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --date-to: %v\n", err)
			return exitBadQuery
		}
		query.DateTo = &t
	}

	repo, err := gitaccess.Open(repoPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitNotARepository
	}

	logger := logging.New(logging.Options{Writer: os.Stderr, Format: logging.FormatText, Debug: globals.Verbose >= 2})

	opts := facade.Options{
		WorkerCount:     *workerCount,
		CacheBackend:    facade.CacheBackendKind(*cacheBackend),
		DeadlineSeconds: *deadline,
	}

	var sharedBackend cache.Backend
	if *sharedCacheURL != "" {
		redisOpts, err := redis.ParseURL(*sharedCacheURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --shared-cache-url: %v\n", err)
			return exitBadQuery
		}
		sharedBackend = cache.NewRedisBackend(redis.NewClient(redisOpts), "gitsearch")
	}

	f := facade.New(search.DefaultRegistry, sharedBackend, logger)
	defer f.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bar := ui.NewProgressBar(ui.ProgressBarConfig{Quiet: globals.Quiet, JSON: globals.JSON}, "searching")
	progress := ui.ProgressSink(bar)

	id, results, metrics, errs := f.Submit(ctx, repo, query, opts, progress)

	count := 0
	var collected []gitsearch.RankedResult
	for r := range results {
		collected = append(collected, r)
		count++
		if !globals.JSON {
			printResult(r, globals)
		}
	}

	runErr := <-errs

	select {
	case <-ctx.Done():
		if runErr == nil {
			fmt.Fprintf(os.Stderr, "cancelled (request %s)\n", id)
			return exitCancelledBySignal
		}
	default:
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		switch gserrors.KindOf(runErr) {
		case gserrors.BadQuery, gserrors.NoApplicableSearcher:
			return exitBadQuery
		case gserrors.NotARepository, gserrors.RepositoryCorrupt:
			return exitNotARepository
		case gserrors.IOFailure:
			return exitIOFailure
		case gserrors.Cancelled:
			return exitCancelledBySignal
		default:
			return exitIOFailure
		}
	}

	if globals.JSON {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]any{"results": collected, "metrics": metrics})
	}

	if count == 0 {
		return exitNoResults
	}
	return exitSuccess
}

func printResult(r gitsearch.RankedResult, globals GlobalFlags) {
	line := 0
	if r.Locator.Line != nil {
		line = *r.Locator.Line
	}
	path := ui.Path.Sprint(r.Locator.FilePath)
	commit := ui.Commit.Sprint(r.Locator.CommitHash[:minInt(8, len(r.Locator.CommitHash))])
	if path == "" {
		path = ui.Dim.Sprint("(no path)")
	}
	fmt.Printf("%s %s:%d  %s\n", commit, path, line, r.Snippet)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
