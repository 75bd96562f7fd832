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

// Package main implements the gitsearch CLI — the reference collaborator
// for the Public Façade (spec.md §6 "CLI collaborator").
//
// Usage:
//
//	gitsearch search <repo> [flags]     Run a search and print results
//	gitsearch serve [flags]             Start the HTTP/JSON face
//	gitsearch mcp <repo> [flags]        Start the agent RPC face over stdio
//	gitsearch describe-searchers        List registered searchers
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	_ "github.com/coderadar/gitsearch/pkg/search/searchers"

	"github.com/coderadar/gitsearch/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes, per spec.md §6.
const (
	exitSuccess          = 0
	exitNoResults        = 2
	exitBadQuery         = 64
	exitNotARepository   = 65
	exitIOFailure        = 74
	exitCancelledBySignal = 130
)

// GlobalFlags holds flags shared by every subcommand.
type GlobalFlags struct {
	JSON    bool
	NoColor bool
	Verbose int
	Quiet   bool
	Config  string
}

func main() {
	var (
		showVersion = flag.BoolP("version", "V", false, "Show version and exit")
		configPath  = flag.StringP("config", "c", "", "Path to gitsearch config file")
		jsonOutput  = flag.Bool("json", false, "Output in JSON format")
		noColor     = flag.Bool("no-color", false, "Disable color output")
		verbose     = flag.CountP("verbose", "v", "Increase verbosity (-v for info, -vv for debug)")
		quiet       = flag.BoolP("quiet", "q", false, "Suppress non-essential output")
	)

	flag.SetInterspersed(false)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `gitsearch - multi-modal Git repository search

Usage:
  gitsearch <command> [options]

Commands:
  search              Run a search against a repository
  serve               Start the HTTP/JSON face
  mcp                 Start the agent RPC face (JSON-RPC 2.0 over stdio)
  describe-searchers  List registered searchers and their capabilities

Global Options:
  --json            Output in JSON format
  --no-color        Disable color output (respects NO_COLOR env var)
  -v, --verbose     Increase verbosity (-v for info, -vv for debug)
  -q, --quiet       Suppress non-essential output
  -c, --config      Path to gitsearch config file
  -V, --version     Show version and exit

Examples:
  gitsearch search . --content "TODO" --fuzzy
  gitsearch search . --author "jane" --date-from 2025-01-01
  gitsearch serve --addr :8080
  gitsearch mcp .
  gitsearch describe-searchers --json

For detailed command help: gitsearch <command> --help

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("gitsearch version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(exitSuccess)
	}

	if os.Getenv("NO_COLOR") != "" {
		*noColor = true
	}

	if *quiet && *verbose > 0 {
		fmt.Fprintln(os.Stderr, "Error: cannot use --quiet and --verbose together")
		os.Exit(exitBadQuery)
	}
	if *jsonOutput {
		*quiet = true
	}

	globals := GlobalFlags{
		JSON:    *jsonOutput,
		NoColor: *noColor,
		Verbose: *verbose,
		Quiet:   *quiet,
		Config:  *configPath,
	}

	ui.InitColors(globals.NoColor)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(exitBadQuery)
	}

	command := args[0]
	cmdArgs := args[1:]

	var code int
	switch command {
	case "search":
		code = runSearch(cmdArgs, globals)
	case "serve":
		code = runServe(cmdArgs, globals)
	case "mcp":
		code = runMCP(cmdArgs, globals)
	case "describe-searchers":
		code = runDescribeSearchers(cmdArgs, globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		code = exitBadQuery
	}
	os.Exit(code)
}
