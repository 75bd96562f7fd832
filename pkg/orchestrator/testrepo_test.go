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

package orchestrator

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/coderadar/gitsearch/pkg/gitaccess"
)

// newTestRepo materializes a one-commit on-disk Git repository containing
// files and opens it through gitaccess, the same entry point the CLI and
// server faces use.
func newTestRepo(t *testing.T, files map[string]string) *gitaccess.Repository {
	t.Helper()
	return newTestRepoWithMessage(t, files, "commit")
}

// newTestRepoWithMessage is newTestRepo with a caller-chosen commit message,
// for scenarios that search over commit message text (spec §8 scenario 3).
func newTestRepoWithMessage(t *testing.T, files map[string]string, message string) *gitaccess.Repository {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	for path, content := range files {
		full := filepath.Join(dir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
		_, err := wt.Add(path)
		require.NoError(t, err)
	}

	sig := &object.Signature{Name: "Test Author", Email: "author@example.com", When: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	_, err = wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)

	opened, err := gitaccess.Open(dir)
	require.NoError(t, err)
	return opened
}
