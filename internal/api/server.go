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

// Package api is the HTTP/JSON outer face (spec.md §6): net/http +
// http.ServeMux, grounded on the teacher's cmd/cie/serve.go runServe/
// cieServer shape — generalized from a single-project CozoDB query
// endpoint to facade.Submit over an arbitrary repository path per request.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coderadar/gitsearch/pkg/facade"
)

// Server wraps one facade.Facade behind an HTTP mux.
type Server struct {
	facade *facade.Facade
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewServer builds the mux: GET /health, POST /search/advanced (NDJSON
// stream), DELETE /search/{id}, GET /describe-searchers.
func NewServer(f *facade.Facade, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{facade: f, logger: logger, mux: http.NewServeMux()}
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/search/advanced", s.handleSearchAdvanced)
	s.mux.HandleFunc("/search/", s.handleSearchCancel)
	s.mux.HandleFunc("/describe-searchers", s.handleDescribeSearchers)
	return s
}

// Run starts the HTTP server on addr and blocks until it shuts down,
// gracefully, on SIGINT/SIGTERM — grounded on cmd/cie/serve.go's
// signal.Notify-then-server.Shutdown pattern.
func (s *Server) Run(addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		s.logger.Info("gitsearch.api.shutdown.start")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}()

	s.logger.Info("gitsearch.api.start", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
