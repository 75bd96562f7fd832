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
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
)

func TestOpen_NotARepository(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(dir)
	require.Error(t, err)
	assert.Equal(t, gserrors.NotARepository, gserrors.KindOf(err))
}

func TestOpen_NonexistentPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestOpen_ValidRepository(t *testing.T) {
	dir := newTestRepo(t, []map[string]string{{"README.md": "hello"}})

	repo, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, repo.RootPath())
	assert.NotEmpty(t, repo.HeadObjectID())
}

func TestResolveCommitPrefix_Unique(t *testing.T) {
	dir := newTestRepo(t, []map[string]string{{"a.txt": "1"}})
	repo, err := Open(dir)
	require.NoError(t, err)

	full := repo.HeadObjectID()
	hash, err := repo.ResolveCommitPrefix(full[:8])
	require.NoError(t, err)
	assert.Equal(t, full, hash.String())
}

func TestResolveCommitPrefix_NotFound(t *testing.T) {
	dir := newTestRepo(t, []map[string]string{{"a.txt": "1"}})
	repo, err := Open(dir)
	require.NoError(t, err)

	_, err = repo.ResolveCommitPrefix("ffffffff")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrObjectNotFound))
}
