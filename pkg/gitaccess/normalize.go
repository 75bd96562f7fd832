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

package gitaccess

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// normalizeLines splits content into 1-based, LF-normalized lines; CRLF and
// a lone CR both end a line. Repository.Blob, and through it BlobScanner,
// splits content here. RipgrepScanner does not call it and keeps rg's own
// line numbering (see ContentScanner).
func normalizeLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}

func hashOf(s string) plumbing.Hash {
	return plumbing.NewHash(s)
}
