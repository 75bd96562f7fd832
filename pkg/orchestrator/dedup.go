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
	"github.com/coderadar/gitsearch/pkg/gitsearch"
	"github.com/coderadar/gitsearch/pkg/search"
)

// dedupGroup tracks every Match seen under one dedup key, so the ranking
// stage can pick the winner and know how many distinct searchers produced
// it (spec §4.4 "Deduplication": two Matches collide on (match kind,
// commit hash, file path, line number, byte span); winner is the highest
// raw score, ties broken by searcher-name ordering fixed at registration).
type dedupGroup struct {
	best      gitsearch.Match
	searchers map[string]bool
}

// Deduper accumulates Matches keyed by their DedupKey.
type Deduper struct {
	registry *search.Registry
	groups   map[string]*dedupGroup
	order    []string
}

// NewDeduper creates a Deduper that uses registry's registration order to
// break score ties.
func NewDeduper(registry *search.Registry) *Deduper {
	return &Deduper{registry: registry, groups: make(map[string]*dedupGroup)}
}

// Add ingests one Match, updating its dedup group's winner in place.
func (d *Deduper) Add(m gitsearch.Match) {
	key := m.DedupKey()
	g, ok := d.groups[key]
	if !ok {
		g = &dedupGroup{best: m, searchers: map[string]bool{m.Searcher: true}}
		d.groups[key] = g
		d.order = append(d.order, key)
		return
	}
	g.searchers[m.Searcher] = true
	if d.winsOver(m, g.best) {
		g.best = m
	}
}

func (d *Deduper) winsOver(candidate, current gitsearch.Match) bool {
	if candidate.RawScore != current.RawScore {
		return candidate.RawScore > current.RawScore
	}
	return d.registry.TieBreakRank(candidate.Searcher) < d.registry.TieBreakRank(current.Searcher)
}

// Finalize returns each group's winning Match, the dedup group id, and the
// count of distinct searchers that produced a Match under that key
// (pre-dedup), in first-seen order.
type dedupResult struct {
	match         gitsearch.Match
	groupID       string
	searcherCount int
}

func (d *Deduper) Finalize() []dedupResult {
	out := make([]dedupResult, 0, len(d.order))
	for _, key := range d.order {
		g := d.groups[key]
		out = append(out, dedupResult{match: g.best, groupID: key, searcherCount: len(g.searchers)})
	}
	return out
}
