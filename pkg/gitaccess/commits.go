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
	"iter"
	"regexp"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
)

// CommitRecord is the Git layer's representation of one commit: identity,
// author/committer identity, message, parent hashes, changed-file summary
// (spec §3 "Commit Record").
type CommitRecord struct {
	Hash          string
	AuthorName    string
	AuthorEmail   string
	AuthorWhen    time.Time
	CommitterName string
	Message       string
	ParentHashes  []string
	ChangedFiles  []string // populated lazily by Diff callers, empty otherwise.

	commit *object.Commit
}

// CommitIterOptions bounds a commit traversal. MaxCount is pushed down to
// the underlying iterator rather than applied by draining-and-counting
// (spec §4.1 "Algorithmic notes").
type CommitIterOptions struct {
	Branch          string
	Author          string
	Since, Until    *time.Time
	MessagePattern  string
	MaxCount        int
}

// Commits returns a lazy, restartable-from-the-beginning-but-not-seekable
// sequence of CommitRecords, paired with any error (spec §4.1 "Contract").
// An error is yielded once as a (nil, err) pair so the caller (a searcher)
// can record it in metrics, and it ends the sequence: a failure to resolve
// the branch, compile MessagePattern, start the traversal or read the next
// commit stops the traversal there.
func (r *Repository) Commits(opts CommitIterOptions) iter.Seq2[*CommitRecord, error] {
	return func(yield func(*CommitRecord, error) bool) {
		start, err := r.resolveRevision(opts.Branch)
		if err != nil {
			yield(nil, gserrors.NewNotARepository("failed to resolve branch "+opts.Branch, "check the branch name exists", err))
			return
		}

		var msgRe *regexp.Regexp
		if opts.MessagePattern != "" {
			msgRe, err = regexp.Compile("(?s)" + opts.MessagePattern)
			if err != nil {
				yield(nil, gserrors.NewBadQuery("message pattern failed to compile", "check regular expression syntax", err))
				return
			}
		}

		r.mu.Lock()
		commitIter, err := object.NewCommitPreorderIter(mustCommit(r, start), nil, nil)
		r.mu.Unlock()
		if err != nil {
			yield(nil, gserrors.NewIOFailure("failed to start commit iteration", "", err))
			return
		}
		defer commitIter.Close()

		count := 0
		for {
			if opts.MaxCount > 0 && count >= opts.MaxCount {
				return
			}
			r.mu.Lock()
			c, err := commitIter.Next()
			r.mu.Unlock()
			if err != nil {
				if err != io.EOF {
					yield(nil, gserrors.NewIOFailure("failed to read next commit", "", err))
				}
				return // io.EOF: end of iteration, not an error to surface.
			}

			if opts.Author != "" && !strings.Contains(strings.ToLower(authorString(c)), strings.ToLower(opts.Author)) {
				continue
			}
			if opts.Since != nil && c.Author.When.Before(*opts.Since) {
				continue
			}
			if opts.Until != nil && c.Author.When.After(*opts.Until) {
				continue
			}
			if msgRe != nil && !msgRe.MatchString(c.Message) {
				continue
			}

			rec := toCommitRecord(c)
			count++
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// CommitByHash fetches a single commit by full hash.
func (r *Repository) CommitByHash(hash string) (*CommitRecord, error) {
	h := plumbing.NewHash(hash)
	c, err := r.commitObject(h)
	if err != nil {
		return nil, gserrors.NewIOFailure("failed to read commit "+hash, "", err)
	}
	return toCommitRecord(c), nil
}

func authorString(c *object.Commit) string {
	return c.Author.Name + " <" + c.Author.Email + ">"
}

func toCommitRecord(c *object.Commit) *CommitRecord {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	return &CommitRecord{
		Hash:          c.Hash.String(),
		AuthorName:    c.Author.Name,
		AuthorEmail:   c.Author.Email,
		AuthorWhen:    c.Author.When.UTC(),
		CommitterName: c.Committer.Name,
		Message:       c.Message,
		ParentHashes:  parents,
		commit:        c,
	}
}

func mustCommit(r *Repository, h plumbing.Hash) *object.Commit {
	c, err := object.GetCommit(r.repo.Storer, h)
	if err != nil {
		return nil
	}
	return c
}
