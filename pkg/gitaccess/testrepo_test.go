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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// newTestRepo materializes a throwaway on-disk Git repository with one
// commit per entry in commits (applied in order, each producing a new
// commit), and returns its working directory path.
func newTestRepo(t *testing.T, commits []map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	sig := &object.Signature{Name: "Test Author", Email: "author@example.com", When: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	for i, files := range commits {
		for path, content := range files {
			full := filepath.Join(dir, path)
			require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
			require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
			_, err := wt.Add(path)
			require.NoError(t, err)
		}
		when := sig.When.AddDate(0, 0, i)
		_, err := wt.Commit("commit", &git.CommitOptions{
			Author:    &object.Signature{Name: sig.Name, Email: sig.Email, When: when},
			Committer: &object.Signature{Name: sig.Name, Email: sig.Email, When: when},
		})
		require.NoError(t, err)
	}
	return dir
}
