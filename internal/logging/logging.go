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

// Package logging builds the process's *slog.Logger, the same
// slog.New(slog.NewTextHandler(...))/slog.NewJSONHandler(...) construction
// the teacher uses in cmd/cie/index.go and cmd/cie/serve.go, switched to
// JSON for the serve/mcp faces so structured logs don't corrupt the
// NDJSON/JSON-RPC streams sharing the same stream.
package logging

import (
	"io"
	"log/slog"
)

// Format selects the slog.Handler used.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configures New.
type Options struct {
	Writer io.Writer
	Format Format
	Debug  bool
}

// New builds a *slog.Logger per Options and sets it as slog.Default(),
// mirroring the teacher's `slog.SetDefault(logger)` call in cmd/cie/index.go.
func New(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if opts.Format == FormatJSON {
		handler = slog.NewJSONHandler(opts.Writer, handlerOpts)
	} else {
		handler = slog.NewTextHandler(opts.Writer, handlerOpts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
