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

package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"same", "same", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Distance(tc.a, tc.b), "Distance(%q, %q)", tc.a, tc.b)
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 1.0, Similarity("Hello", "hello"))
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 0.001)

	// The transposed "nc"/"cn" costs two edits: 1 - 2/8.
	s := Similarity("function", "fucntion")
	assert.InDelta(t, 0.75, s, 0.001)
	assert.Less(t, s, 1.0)
}

func TestBestTokenSimilarity(t *testing.T) {
	// spec §8 scenario 3: message "fix autentication bug" against pattern
	// "authentication" scores ≈0.57 as a whole string (below the 0.7
	// threshold) but ≥0.7 against its best-matching token.
	s := BestTokenSimilarity("authentication", "fix autentication bug")
	assert.GreaterOrEqual(t, s, 0.7)
	assert.LessOrEqual(t, s, 1.0)
	assert.Less(t, Similarity("authentication", "fix autentication bug"), 0.7, "whole-string comparison should not meet the threshold")

	assert.Equal(t, 1.0, BestTokenSimilarity("hello", "hello"), "single-token text falls back to a direct comparison")
	assert.Equal(t, 0.0, BestTokenSimilarity("x", ""), "no tokens falls back to a direct comparison")
}

func TestCandidateLess(t *testing.T) {
	higher := Candidate{Text: "foo", Score: 0.9}
	lower := Candidate{Text: "bar", Score: 0.5}
	assert.True(t, higher.Less(lower))
	assert.False(t, lower.Less(higher))

	shorter := Candidate{Text: "ab", Score: 0.8}
	longer := Candidate{Text: "abcdef", Score: 0.8}
	assert.True(t, shorter.Less(longer))

	alpha := Candidate{Text: "alpha", Score: 0.8}
	beta := Candidate{Text: "beta", Score: 0.8}
	assert.True(t, alpha.Less(beta))
}
