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

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Fingerprint computes the deterministic cache key from (repo root
// absolute path, repo HEAD object id, searcher name + version, and a
// canonicalized sub-query) — spec §4.2 verbatim. Grounded on
// stormlightlabs-baseball/internal/cache/cache.go's HashParams, generalized
// from "sorted query params" to "repo identity + searcher identity +
// canonical sub-query".
func Fingerprint(repoRoot, headObjectID, searcherName, searcherVersion string, subQuery map[string]string, caseFold bool) string {
	canon := canonicalizeSubQuery(subQuery, caseFold)
	normalized := fmt.Sprintf("%s\x00%s\x00%s\x00%s\x00%s", repoRoot, headObjectID, searcherName, searcherVersion, canon)
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// canonicalizeSubQuery normalizes whitespace, sorts keys, and case-folds
// values only when caseFold is true (i.e. the query itself is
// case-insensitive) — spec §4.2's fingerprint rule.
func canonicalizeSubQuery(subQuery map[string]string, caseFold bool) string {
	keys := make([]string, 0, len(subQuery))
	for k := range subQuery {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := strings.Join(strings.Fields(subQuery[k]), " ")
		if caseFold {
			v = strings.ToLower(v)
		}
		if v == "" {
			continue
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, "&")
}
