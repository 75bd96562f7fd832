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
	"io"

	"github.com/go-git/go-git/v5/plumbing/object"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
)

// Blob is the result of reading one file's content at one commit. Binary
// files and files above the caller's size cap are returned with Skipped set
// and no Lines (spec §4.1 "binary blobs detected and short-circuited").
type Blob struct {
	Path     string
	Size     int64
	Binary   bool
	Skipped  bool
	SkipKind string // "binary" or "size"
	Lines    []string
}

// Blob reads path at commitHash, capped at maxSize bytes (0 means
// unbounded).
func (r *Repository) Blob(commitHash, path string, maxSize int64) (*Blob, error) {
	c, err := r.commitObject(hashOf(commitHash))
	if err != nil {
		return nil, gserrors.NewIOFailure("failed to read commit "+commitHash, "", err)
	}

	r.mu.Lock()
	f, err := c.File(path)
	r.mu.Unlock()
	if err != nil {
		if err == object.ErrFileNotFound {
			return nil, gserrors.NewIOFailure("file not found: "+path, "", err)
		}
		return nil, gserrors.NewIOFailure("failed to read file "+path, "", err)
	}

	r.mu.Lock()
	isBinary, err := f.IsBinary()
	r.mu.Unlock()
	if err != nil {
		isBinary = false
	}
	if isBinary {
		return &Blob{Path: path, Size: f.Size, Binary: true, Skipped: true, SkipKind: "binary"}, nil
	}
	if maxSize > 0 && f.Size > maxSize {
		return &Blob{Path: path, Size: f.Size, Skipped: true, SkipKind: "size"}, nil
	}

	r.mu.Lock()
	reader, err := f.Reader()
	r.mu.Unlock()
	if err != nil {
		return nil, gserrors.NewIOFailure("failed to open blob reader for "+path, "", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, gserrors.NewIOFailure("failed to read blob content for "+path, "", err)
	}

	return &Blob{Path: path, Size: f.Size, Lines: normalizeLines(string(content))}, nil
}
