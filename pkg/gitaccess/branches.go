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
	"sort"

	"github.com/go-git/go-git/v5/plumbing"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
)

// RefInfo names one branch/tag/remote reference and the commit it points
// at, the data source for the Advanced-analysis searchers (spec §4.3
// "Advanced analyses" row).
type RefInfo struct {
	Name       string
	CommitHash string
}

// Branches lists local branch references.
func (r *Repository) Branches() ([]RefInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iter, err := r.repo.Branches()
	if err != nil {
		return nil, gserrors.NewIOFailure("failed to list branches", "", err)
	}
	defer iter.Close()

	var out []RefInfo
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		out = append(out, RefInfo{Name: ref.Name().Short(), CommitHash: ref.Hash().String()})
		return nil
	})
	if err != nil {
		return nil, gserrors.NewIOFailure("failed while listing branches", "", err)
	}
	return out, nil
}

// Tags lists tag references.
func (r *Repository) Tags() ([]RefInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, gserrors.NewIOFailure("failed to list tags", "", err)
	}
	defer iter.Close()

	var out []RefInfo
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		out = append(out, RefInfo{Name: ref.Name().Short(), CommitHash: ref.Hash().String()})
		return nil
	})
	if err != nil {
		return nil, gserrors.NewIOFailure("failed while listing tags", "", err)
	}
	return out, nil
}

// Remotes lists configured remote names and their first URL.
func (r *Repository) Remotes() ([]RefInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	remotes, err := r.repo.Remotes()
	if err != nil {
		return nil, gserrors.NewIOFailure("failed to list remotes", "", err)
	}
	out := make([]RefInfo, 0, len(remotes))
	for _, rem := range remotes {
		url := ""
		if urls := rem.Config().URLs; len(urls) > 0 {
			url = urls[0]
		}
		out = append(out, RefInfo{Name: rem.Config().Name, CommitHash: url})
	}
	return out, nil
}

// AuthorStat aggregates one author's commit activity, the data source for
// the statistics-analysis sub-searcher.
type AuthorStat struct {
	Name        string
	Email       string
	CommitCount int
}

// AuthorStats walks up to maxCommits commits from HEAD and aggregates
// per-author commit counts, sorted by count descending then name ascending.
func (r *Repository) AuthorStats(maxCommits int) ([]AuthorStat, error) {
	counts := make(map[string]*AuthorStat)
	order := make([]string, 0)
	for rec, err := range r.Commits(CommitIterOptions{MaxCount: maxCommits}) {
		if err != nil {
			return nil, err
		}
		key := rec.AuthorName + "\x00" + rec.AuthorEmail
		st, ok := counts[key]
		if !ok {
			st = &AuthorStat{Name: rec.AuthorName, Email: rec.AuthorEmail}
			counts[key] = st
			order = append(order, key)
		}
		st.CommitCount++
	}
	out := make([]AuthorStat, 0, len(order))
	for _, k := range order {
		out = append(out, *counts[k])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CommitCount != out[j].CommitCount {
			return out[i].CommitCount > out[j].CommitCount
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
