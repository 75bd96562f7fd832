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
	"iter"

	"github.com/go-git/go-git/v5/plumbing/object"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
)

// TreeEntry is one file in a tree walk: its path and size, without content.
type TreeEntry struct {
	Path string
	Size int64
	Mode string
}

// TreeWalker yields every blob entry of a commit's tree.
type TreeWalker struct {
	repo   *Repository
	commit *object.Commit
}

// Tree opens a TreeWalker over commitHash's tree (spec §4.1 "walk a
// commit's tree").
func (r *Repository) Tree(commitHash string) (*TreeWalker, error) {
	c, err := r.commitObject(hashOf(commitHash))
	if err != nil {
		return nil, gserrors.NewIOFailure("failed to read commit "+commitHash, "", err)
	}
	return &TreeWalker{repo: r, commit: c}, nil
}

// Files returns a restartable-but-not-seekable sequence of TreeEntries.
func (w *TreeWalker) Files() iter.Seq2[TreeEntry, error] {
	return func(yield func(TreeEntry, error) bool) {
		w.repo.mu.Lock()
		tree, err := w.commit.Tree()
		w.repo.mu.Unlock()
		if err != nil {
			yield(TreeEntry{}, gserrors.NewIOFailure("failed to read tree", "", err))
			return
		}

		w.repo.mu.Lock()
		fileIter := tree.Files()
		w.repo.mu.Unlock()
		defer fileIter.Close()

		for {
			w.repo.mu.Lock()
			f, err := fileIter.Next()
			w.repo.mu.Unlock()
			if err != nil {
				return
			}
			entry := TreeEntry{Path: f.Name, Size: f.Blob.Size, Mode: f.Mode.String()}
			if !yield(entry, nil) {
				return
			}
		}
	}
}
