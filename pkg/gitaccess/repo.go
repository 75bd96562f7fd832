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

// Package gitaccess is the only component that touches Git. It wraps
// go-git/v5 for read-only access to an on-disk repository: commit
// iteration, tree walks, blob reads, blame, diff, and branch/tag/remote
// listing. Every other package reaches Git only through this layer.
package gitaccess

import (
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
)

// Repository is an opened, read-only view of a Git repository at a
// filesystem path. It implements gitsearch.RepositoryHandle. go-git's
// storer is not guaranteed safe for fully concurrent object reads across
// goroutines in every backend, so callers serialize through mu when
// touching the underlying *git.Repository directly (spec §9 "Shared
// repository access" — serialize behind a short-held lock, keep
// concurrency at the searcher level via pipelining).
type Repository struct {
	path string
	repo *git.Repository
	mu   sync.Mutex

	headHash string
}

// Open validates path is a Git repository and reads its HEAD.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return nil, gserrors.NewNotARepository(path+" is not a Git repository", "pass the path to a directory inside a Git work tree", err)
		}
		return nil, gserrors.NewRepositoryCorrupt("failed to open repository at "+path, "run \"git fsck\" to check repository integrity", err)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, gserrors.NewRepositoryCorrupt("failed to resolve HEAD", "ensure the repository has at least one commit", err)
	}
	return &Repository{path: path, repo: repo, headHash: head.Hash().String()}, nil
}

// RootPath implements gitsearch.RepositoryHandle.
func (r *Repository) RootPath() string { return r.path }

// HeadObjectID implements gitsearch.RepositoryHandle. It is the coarse
// version marker the Cache fingerprints against (spec §4.2).
func (r *Repository) HeadObjectID() string { return r.headHash }

// resolveRevision resolves a branch name, tag name, or commit hash/prefix
// to a full hash. Empty name resolves to HEAD.
func (r *Repository) resolveRevision(name string) (plumbing.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" || strings.EqualFold(name, "HEAD") {
		head, err := r.repo.Head()
		if err != nil {
			return plumbing.ZeroHash, err
		}
		return head.Hash(), nil
	}
	h, err := r.repo.ResolveRevision(plumbing.Revision(name))
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return *h, nil
}

// ResolveBranch resolves a branch name, tag name, or commit hash/prefix to
// its full commit hash string. An empty name resolves to HEAD. Searchers
// that walk a tree or scan blobs rather than iterating commits (Content,
// FilePath, FileType, Fuzzy's content target collection) call this to honor
// Query.Branch the same way Commits honors CommitIterOptions.Branch.
func (r *Repository) ResolveBranch(name string) (string, error) {
	h, err := r.resolveRevision(name)
	if err != nil {
		return "", gserrors.NewNotARepository("failed to resolve branch "+name, "check the branch name exists", err)
	}
	return h.String(), nil
}

// commitObject fetches a full commit object by hash, under the repo lock.
func (r *Repository) commitObject(h plumbing.Hash) (*object.Commit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return object.GetCommit(r.repo.Storer, h)
}

// ResolveCommitPrefix resolves a (possibly partial) commit hash prefix to a
// unique full hash. It returns ErrAmbiguousPrefix when more than one commit
// matches and ErrObjectNotFound when none does (see CommitHash searcher
// semantics, spec §4.3).
func (r *Repository) ResolveCommitPrefix(prefix string) (plumbing.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	iter, err := r.repo.Storer.IterEncodedObjects(plumbing.CommitObject)
	if err != nil {
		return plumbing.ZeroHash, gserrors.NewIOFailure("failed to iterate commit objects", "", err)
	}
	defer iter.Close()

	var found []plumbing.Hash
	err = iter.ForEach(func(eo plumbing.EncodedObject) error {
		if strings.HasPrefix(eo.Hash().String(), prefix) {
			found = append(found, eo.Hash())
		}
		return nil
	})
	if err != nil {
		return plumbing.ZeroHash, gserrors.NewIOFailure("failed while scanning commit objects", "", err)
	}
	switch len(found) {
	case 0:
		return plumbing.ZeroHash, ErrObjectNotFound
	case 1:
		return found[0], nil
	default:
		return plumbing.ZeroHash, ErrAmbiguousPrefix
	}
}
