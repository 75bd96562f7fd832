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

// Package rpc is the agent-facing JSON-RPC 2.0 over stdio face (spec.md
// §6), grounded on cmd/cie/mcp.go's bufio.Scanner read loop and manual
// encoding/json dispatch — no JSON-RPC library appears anywhere in the
// retrieval pack, so this matches the teacher's own hand-rolled approach.
package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/coderadar/gitsearch/pkg/facade"
	"github.com/coderadar/gitsearch/pkg/gitaccess"
)

// request mirrors the teacher's jsonRPCRequest.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// response mirrors the teacher's jsonRPCResponse.
type response struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id,omitempty"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// Server dispatches JSON-RPC requests against one facade.Facade. repoRoot
// is the repository every method operates against — gitsearch's RPC face
// is scoped to one repo per process, unlike the HTTP face's per-request
// repo_path.
type Server struct {
	facade   *facade.Facade
	repo     *gitaccess.Repository
	repoRoot string
	logger   *slog.Logger
}

// NewServer builds a Server bound to repo.
func NewServer(f *facade.Facade, repo *gitaccess.Repository, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{facade: f, repo: repo, repoRoot: repo.RootPath(), logger: logger}
}

// Serve reads newline-delimited JSON-RPC 2.0 requests from in and writes
// responses to out, until in is closed — grounded on the teacher's
// serveMCPLoop.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 1024*1024), 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("gitsearch.rpc.parse_error", "err", err)
			writeResponse(out, response{JSONRPC: "2.0", Error: &rpcError{Code: codeParseError, Message: "invalid JSON-RPC request"}})
			continue
		}

		resp := s.handle(ctx, req)
		writeResponse(out, resp)
	}
	return scanner.Err()
}

func writeResponse(out io.Writer, resp response) {
	resp.JSONRPC = "2.0"
	data, err := json.Marshal(resp)
	if err != nil {
		fmt.Fprintf(out, `{"jsonrpc":"2.0","error":{"code":%d,"message":"failed to encode response"}}`+"\n", codeInternalError)
		return
	}
	fmt.Fprintf(out, "%s\n", data)
}

func (s *Server) handle(ctx context.Context, req request) response {
	switch req.Method {
	case "describe_searchers":
		return s.handleDescribeSearchers(req)
	case "search_sync":
		return s.handleSearchSync(ctx, req)
	case "repo_config":
		return s.handleRepoConfig(req)
	case "repo_branches":
		return s.handleRepoBranches(req)
	case "repo_contributors":
		return s.handleRepoContributors(req)
	default:
		return response{ID: req.ID, Error: &rpcError{Code: codeMethodNotFound, Message: "unknown method: " + req.Method}}
	}
}
