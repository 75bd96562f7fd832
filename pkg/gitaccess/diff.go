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
	gserrors "github.com/coderadar/gitsearch/internal/errors"
)

// FileDiffStat summarizes one file's change between two commits.
type FileDiffStat struct {
	Path       string
	Additions  int
	Deletions  int
	ChangeType string // "add", "delete" or "modify"
}

// CommitDiff is the changed-file summary between two commits (spec §4.1
// "compute file and commit diffs").
type CommitDiff struct {
	FromHash string
	ToHash   string
	Files    []FileDiffStat
}

// Diff computes the file-level diff between fromHash and toHash.
func (r *Repository) Diff(fromHash, toHash string) (*CommitDiff, error) {
	from, err := r.commitObject(hashOf(fromHash))
	if err != nil {
		return nil, gserrors.NewIOFailure("failed to read commit "+fromHash, "", err)
	}
	to, err := r.commitObject(hashOf(toHash))
	if err != nil {
		return nil, gserrors.NewIOFailure("failed to read commit "+toHash, "", err)
	}

	r.mu.Lock()
	fromTree, err1 := from.Tree()
	toTree, err2 := to.Tree()
	r.mu.Unlock()
	if err1 != nil {
		return nil, gserrors.NewIOFailure("failed to read tree for "+fromHash, "", err1)
	}
	if err2 != nil {
		return nil, gserrors.NewIOFailure("failed to read tree for "+toHash, "", err2)
	}

	r.mu.Lock()
	changes, err := fromTree.Diff(toTree)
	r.mu.Unlock()
	if err != nil {
		return nil, gserrors.NewIOFailure("failed to diff commits", "", err)
	}

	out := &CommitDiff{FromHash: fromHash, ToHash: toHash}
	for _, change := range changes {
		r.mu.Lock()
		patch, perr := change.Patch()
		r.mu.Unlock()
		if perr != nil {
			continue
		}
		action, _ := change.Action()
		stat := FileDiffStat{ChangeType: changeTypeString(int(action))}
		if change.To.Name != "" {
			stat.Path = change.To.Name
		} else {
			stat.Path = change.From.Name
		}
		for _, fs := range patch.Stats() {
			stat.Additions += fs.Addition
			stat.Deletions += fs.Deletion
		}
		out.Files = append(out.Files, stat)
	}
	return out, nil
}

func changeTypeString(action int) string {
	switch action {
	case 0:
		return "modify"
	case 1:
		return "add"
	case 2:
		return "delete"
	default:
		return "modify"
	}
}
