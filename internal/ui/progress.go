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

package ui

import (
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/coderadar/gitsearch/pkg/gitsearch"
)

// ProgressBarConfig controls whether/how a progress bar renders, mirroring
// the teacher's NewProgressConfig(globals) call shape: quiet or JSON output
// suppresses the bar entirely.
type ProgressBarConfig struct {
	Quiet bool
	JSON  bool
}

// NewProgressBar returns a bar writing to stderr, or a no-op bar when cfg
// suppresses rendering (quiet mode or JSON mode). Whether stderr is a
// terminal is not checked.
func NewProgressBar(cfg ProgressBarConfig, description string) *progressbar.ProgressBar {
	if cfg.Quiet || cfg.JSON {
		return progressbar.DefaultBytesSilent(-1, description)
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(100_000_000),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowCount(),
	)
}

// ProgressSink adapts a progressbar.ProgressBar to gitsearch.ProgressSink,
// so the CLI's `search` command can hand it straight to facade.Submit.
func ProgressSink(bar *progressbar.ProgressBar) gitsearch.ProgressSink {
	return gitsearch.ProgressSinkFunc(func(e gitsearch.ProgressEvent) {
		_ = bar.Set(e.ResultCount)
	})
}
