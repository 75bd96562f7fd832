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
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"github.com/redis/go-redis/v9"

	"github.com/coderadar/gitsearch/internal/api"
	"github.com/coderadar/gitsearch/internal/config"
	"github.com/coderadar/gitsearch/internal/logging"
	"github.com/coderadar/gitsearch/pkg/cache"
	"github.com/coderadar/gitsearch/pkg/facade"
	"github.com/coderadar/gitsearch/pkg/search"
)

// runServe implements `gitsearch serve`, the HTTP/JSON face of spec.md §6.
func runServe(args []string, globals GlobalFlags) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", ":8080", "Address to listen on")
	if err := fs.Parse(args); err != nil {
		return exitBadQuery
	}

	cfg, err := config.Load(globals.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		return exitBadQuery
	}

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

	server := api.NewServer(f, logger)
	if err := server.Run(*addr); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		return exitIOFailure
	}
	return exitSuccess
}
