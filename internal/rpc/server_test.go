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

package rpc

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderadar/gitsearch/pkg/facade"
	"github.com/coderadar/gitsearch/pkg/gitaccess"
	"github.com/coderadar/gitsearch/pkg/search"
	"github.com/coderadar/gitsearch/pkg/search/searchers"
)

func newTestRepo(t *testing.T, files map[string]string) *gitaccess.Repository {
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
	_, err = wt.Commit("commit", &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)

	opened, err := gitaccess.Open(dir)
	require.NoError(t, err)
	return opened
}

func newTestServer(t *testing.T, repo *gitaccess.Repository) *Server {
	t.Helper()
	registry := search.NewRegistry()
	registry.Register(&searchers.ContentSearcher{})
	f := facade.New(registry, nil, nil)
	t.Cleanup(f.Close)
	return NewServer(f, repo, nil)
}

func decodeResponses(t *testing.T, raw []byte) []response {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	var out []response
	for _, line := range lines {
		if line == "" {
			continue
		}
		var resp response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		out = append(out, resp)
	}
	return out
}

func TestServe_ParseErrorOnInvalidJSON(t *testing.T) {
	repo := newTestRepo(t, map[string]string{"a.go": "package a"})
	s := newTestServer(t, repo)

	in := bytes.NewBufferString("{not json\n")
	var out bytes.Buffer
	require.NoError(t, s.Serve(t.Context(), in, &out))

	resps := decodeResponses(t, out.Bytes())
	require.Len(t, resps, 1)
	require.NotNil(t, resps[0].Error)
	assert.Equal(t, codeParseError, resps[0].Error.Code)
}

func TestServe_UnknownMethodReturnsMethodNotFound(t *testing.T) {
	repo := newTestRepo(t, map[string]string{"a.go": "package a"})
	s := newTestServer(t, repo)

	in := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"does_not_exist"}` + "\n")
	var out bytes.Buffer
	require.NoError(t, s.Serve(t.Context(), in, &out))

	resps := decodeResponses(t, out.Bytes())
	require.Len(t, resps, 1)
	require.NotNil(t, resps[0].Error)
	assert.Equal(t, codeMethodNotFound, resps[0].Error.Code)
}

func TestServe_DescribeSearchers(t *testing.T) {
	repo := newTestRepo(t, map[string]string{"a.go": "package a"})
	s := newTestServer(t, repo)

	in := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"describe_searchers"}` + "\n")
	var out bytes.Buffer
	require.NoError(t, s.Serve(t.Context(), in, &out))

	resps := decodeResponses(t, out.Bytes())
	require.Len(t, resps, 1)
	require.Nil(t, resps[0].Error)

	descs, ok := resps[0].Result.([]any)
	require.True(t, ok)
	require.Len(t, descs, 1)
}

func TestServe_SearchSync_ReturnsResults(t *testing.T) {
	repo := newTestRepo(t, map[string]string{"a.go": "// TODO fix\n"})
	s := newTestServer(t, repo)

	in := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"search_sync","params":{"content":"TODO"}}` + "\n")
	var out bytes.Buffer
	require.NoError(t, s.Serve(t.Context(), in, &out))

	resps := decodeResponses(t, out.Bytes())
	require.Len(t, resps, 1)
	require.Nil(t, resps[0].Error)

	result, ok := resps[0].Result.(map[string]any)
	require.True(t, ok)
	results, ok := result["results"].([]any)
	require.True(t, ok)
	assert.Len(t, results, 1)
}

func TestServe_SearchSync_InvalidParamsIsBadRequest(t *testing.T) {
	repo := newTestRepo(t, map[string]string{"a.go": "package a"})
	s := newTestServer(t, repo)

	in := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"search_sync","params":"not an object"}` + "\n")
	var out bytes.Buffer
	require.NoError(t, s.Serve(t.Context(), in, &out))

	resps := decodeResponses(t, out.Bytes())
	require.Len(t, resps, 1)
	require.NotNil(t, resps[0].Error)
	assert.Equal(t, codeInvalidParams, resps[0].Error.Code)
}

func TestServe_RepoConfig(t *testing.T) {
	repo := newTestRepo(t, map[string]string{"a.go": "package a"})
	s := newTestServer(t, repo)

	in := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"repo_config"}` + "\n")
	var out bytes.Buffer
	require.NoError(t, s.Serve(t.Context(), in, &out))

	resps := decodeResponses(t, out.Bytes())
	require.Len(t, resps, 1)
	require.Nil(t, resps[0].Error)

	result, ok := resps[0].Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, repo.RootPath(), result["repo_root"])
	assert.Equal(t, repo.HeadObjectID(), result["head_object_id"])
}

func TestServe_RepoBranches(t *testing.T) {
	repo := newTestRepo(t, map[string]string{"a.go": "package a"})
	s := newTestServer(t, repo)

	in := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"repo_branches"}` + "\n")
	var out bytes.Buffer
	require.NoError(t, s.Serve(t.Context(), in, &out))

	resps := decodeResponses(t, out.Bytes())
	require.Len(t, resps, 1)
	require.Nil(t, resps[0].Error)
}

func TestServe_RepoContributors_DefaultsMaxCommits(t *testing.T) {
	repo := newTestRepo(t, map[string]string{"a.go": "package a"})
	s := newTestServer(t, repo)

	in := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"repo_contributors"}` + "\n")
	var out bytes.Buffer
	require.NoError(t, s.Serve(t.Context(), in, &out))

	resps := decodeResponses(t, out.Bytes())
	require.Len(t, resps, 1)
	require.Nil(t, resps[0].Error)

	result, ok := resps[0].Result.(map[string]any)
	require.True(t, ok)
	contributors, ok := result["contributors"].([]any)
	require.True(t, ok)
	require.Len(t, contributors, 1)
}

func TestServe_ProcessesMultipleRequestsInOneStream(t *testing.T) {
	repo := newTestRepo(t, map[string]string{"a.go": "package a"})
	s := newTestServer(t, repo)

	in := bytes.NewBufferString(
		`{"jsonrpc":"2.0","id":1,"method":"repo_config"}` + "\n" +
			`{"jsonrpc":"2.0","id":2,"method":"repo_branches"}` + "\n",
	)
	var out bytes.Buffer
	require.NoError(t, s.Serve(t.Context(), in, &out))

	resps := decodeResponses(t, out.Bytes())
	require.Len(t, resps, 2)
	assert.Equal(t, float64(1), resps[0].ID)
	assert.Equal(t, float64(2), resps[1].ID)
}
