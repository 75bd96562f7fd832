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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommits_YieldsAllInNewestFirstOrder(t *testing.T) {
	dir := newTestRepo(t, []map[string]string{
		{"a.txt": "1"},
		{"b.txt": "2"},
		{"c.txt": "3"},
	})
	repo, err := Open(dir)
	require.NoError(t, err)

	var hashes []string
	for rec, err := range repo.Commits(CommitIterOptions{}) {
		require.NoError(t, err)
		hashes = append(hashes, rec.Hash)
	}
	require.Len(t, hashes, 3)
	assert.Equal(t, repo.HeadObjectID(), hashes[0])
}

func TestCommits_MaxCountBoundsTraversal(t *testing.T) {
	dir := newTestRepo(t, []map[string]string{
		{"a.txt": "1"},
		{"b.txt": "2"},
		{"c.txt": "3"},
	})
	repo, err := Open(dir)
	require.NoError(t, err)

	var count int
	for range repo.Commits(CommitIterOptions{MaxCount: 2}) {
		count++
	}
	assert.Equal(t, 2, count)
}

func TestCommits_AuthorFilterIsCaseInsensitiveSubstring(t *testing.T) {
	dir := newTestRepo(t, []map[string]string{{"a.txt": "1"}})
	repo, err := Open(dir)
	require.NoError(t, err)

	var matched, unmatched int
	for range repo.Commits(CommitIterOptions{Author: "TEST AUTHOR"}) {
		matched++
	}
	for range repo.Commits(CommitIterOptions{Author: "nobody"}) {
		unmatched++
	}
	assert.Equal(t, 1, matched)
	assert.Equal(t, 0, unmatched)
}

func TestCommits_InvalidMessagePatternIsBadQuery(t *testing.T) {
	dir := newTestRepo(t, []map[string]string{{"a.txt": "1"}})
	repo, err := Open(dir)
	require.NoError(t, err)

	var gotErr error
	for _, err := range repo.Commits(CommitIterOptions{MessagePattern: "("}) {
		if err != nil {
			gotErr = err
		}
	}
	require.Error(t, gotErr)
}

func TestCommitByHash(t *testing.T) {
	dir := newTestRepo(t, []map[string]string{{"a.txt": "1"}})
	repo, err := Open(dir)
	require.NoError(t, err)

	rec, err := repo.CommitByHash(repo.HeadObjectID())
	require.NoError(t, err)
	assert.Equal(t, repo.HeadObjectID(), rec.Hash)
	assert.Equal(t, "Test Author", rec.AuthorName)
}
