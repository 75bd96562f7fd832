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

// Package ui holds the CLI's terminal-presentation helpers: colorized
// output and a progress bar, gated on TTY detection the same way the
// teacher's cmd/cie/main.go gates ui.InitColors(globals.NoColor) on
// --no-color/NO_COLOR.
package ui

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	// Matched is the style applied to a search hit's matched substring.
	Matched = color.New(color.FgYellow, color.Bold)
	// Path is the style applied to a file path column.
	Path = color.New(color.FgCyan)
	// Commit is the style applied to a commit hash column.
	Commit = color.New(color.FgGreen)
	// Dim is used for secondary/contextual text (line numbers, metrics).
	Dim = color.New(color.Faint)
	// Error is used for error titles on stderr.
	Error = color.New(color.FgRed, color.Bold)
	// Warning is used for non-fatal warnings on stderr.
	Warning = color.New(color.FgYellow)
)

// InitColors enables or disables color output process-wide. Color is
// disabled when noColor is true, NO_COLOR is set, or stdout is not a
// terminal — mirrors the teacher's CLI startup sequence exactly.
func InitColors(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}
