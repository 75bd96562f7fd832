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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"github.com/redis/go-redis/v9"

	"github.com/coderadar/gitsearch/internal/config"
	"github.com/coderadar/gitsearch/internal/logging"
	"github.com/coderadar/gitsearch/internal/rpc"
	"github.com/coderadar/gitsearch/pkg/cache"
	"github.com/coderadar/gitsearch/pkg/facade"
	"github.com/coderadar/gitsearch/pkg/gitaccess"
	"github.com/coderadar/gitsearch/pkg/search"
)

// runMCP implements `gitsearch mcp <repo>`, the agent RPC face of spec.md
// §6: JSON-RPC 2.0 over stdio, bound to one repository per process.
func runMCP(args []string, globals GlobalFlags) int {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return exitBadQuery
	}

	repoArgs := fs.Args()
	if len(repoArgs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: gitsearch mcp <repo>")
		return exitBadQuery
	}

	repo, err := gitaccess.Open(repoArgs[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitNotARepository
	}

	cfg, err := config.Load(globals.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		return exitBadQuery
	}

	// Structured logs go to stderr so they never interleave with the
	// JSON-RPC stream on stdout — grounded on cmd/cie/mcp.go's separation
	// of the protocol stream from log output.
	logger := logging.New(logging.Options{Writer: os.Stderr, Format: logging.FormatJSON, Debug: globals.Verbose >= 2})

	var sharedBackend cache.Backend
	if cfg.CacheBackend == "shared" && cfg.SharedCacheURL != "" {
		redisOpts, err := redis.ParseURL(cfg.SharedCacheURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid shared_cache_url: %v\n", err)
			return exitBadQuery
		}
		sharedBackend = cache.NewRedisBackend(redis.NewClient(redisOpts), "gitsearch")
	}

	f := facade.New(search.DefaultRegistry, sharedBackend, logger)
	defer f.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := rpc.NewServer(f, repo, logger)
	if err := server.Serve(ctx, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "rpc server error: %v\n", err)
		return exitIOFailure
	}
	return exitSuccess
}
