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

func TestBranches_ListsTheCurrentBranch(t *testing.T) {
	dir := newTestRepo(t, []map[string]string{{"a.txt": "1"}})
	repo, err := Open(dir)
	require.NoError(t, err)

	branches, err := repo.Branches()
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, repo.HeadObjectID(), branches[0].CommitHash)
}

func TestAuthorStats_AggregatesCommitCounts(t *testing.T) {
	dir := newTestRepo(t, []map[string]string{
		{"a.txt": "1"},
		{"b.txt": "2"},
	})
	repo, err := Open(dir)
	require.NoError(t, err)

	stats, err := repo.AuthorStats(2000)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "Test Author", stats[0].Name)
	assert.Equal(t, 2, stats[0].CommitCount)
}
