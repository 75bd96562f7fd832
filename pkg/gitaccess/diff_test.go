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

func TestDiff_ReportsAddedAndModifiedFiles(t *testing.T) {
	dir := newTestRepo(t, []map[string]string{
		{"a.txt": "one\n"},
		{"a.txt": "one\ntwo\n", "b.txt": "new\n"},
	})
	repo, err := Open(dir)
	require.NoError(t, err)

	var hashes []string
	for rec, err := range repo.Commits(CommitIterOptions{}) {
		require.NoError(t, err)
		hashes = append(hashes, rec.Hash)
	}
	require.Len(t, hashes, 2)
	newest, oldest := hashes[0], hashes[1]

	diff, err := repo.Diff(oldest, newest)
	require.NoError(t, err)

	var paths []string
	for _, f := range diff.Files {
		paths = append(paths, f.Path)
	}
	assert.Contains(t, paths, "a.txt")
	assert.Contains(t, paths, "b.txt")
}

func TestDiff_UnknownCommitFails(t *testing.T) {
	dir := newTestRepo(t, []map[string]string{{"a.txt": "1"}})
	repo, err := Open(dir)
	require.NoError(t, err)

	_, err = repo.Diff("0000000000000000000000000000000000000000", repo.HeadObjectID())
	require.Error(t, err)
}
