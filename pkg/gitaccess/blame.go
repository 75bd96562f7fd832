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
	"time"

	"github.com/go-git/go-git/v5/plumbing/object"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
)

// BlameLine is one line of a file's blame output: the commit that last
// touched it, the author, and the line content.
type BlameLine struct {
	LineNo      int
	CommitHash  string
	AuthorName  string
	AuthorEmail string
	AuthorWhen  time.Time
	Text        string
}

// Blame computes blame for path at commitHash (spec §4.1 "compute blame for
// a file at a commit").
func (r *Repository) Blame(commitHash, path string) ([]BlameLine, error) {
	c, err := r.commitObject(hashOf(commitHash))
	if err != nil {
		return nil, gserrors.NewIOFailure("failed to read commit "+commitHash, "", err)
	}

	r.mu.Lock()
	result, err := object.Blame(c, path)
	r.mu.Unlock()
	if err != nil {
		return nil, gserrors.NewIOFailure("failed to blame "+path, "", err)
	}

	out := make([]BlameLine, 0, len(result.Lines))
	for i, l := range result.Lines {
		out = append(out, BlameLine{
			LineNo:      i + 1,
			CommitHash:  l.Hash.String(),
			AuthorName:  l.AuthorName,
			AuthorEmail: l.Author,
			AuthorWhen:  l.Date.UTC(),
			Text:        l.Text,
		})
	}
	return out, nil
}
