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

package search

import "sync"

// Registry is the one process-wide, startup-populated, immutable-after-init
// piece of state spec §9 "Global state" permits. Searchers register
// themselves via init()-time Register calls, mirroring how the teacher
// wires its MCP tool table (cmd/cie/mcp.go).
type Registry struct {
	mu        sync.RWMutex
	searchers map[string]Searcher
	order     []string // registration order, used as the dedup tie-break (spec §4.4).
}

// DefaultRegistry is the process-wide registry every searcher's init()
// registers into.
var DefaultRegistry = NewRegistry()

// NewRegistry returns an empty registry. Production code uses
// DefaultRegistry; tests construct their own to isolate fixtures.
func NewRegistry() *Registry {
	return &Registry{searchers: make(map[string]Searcher)}
}

// Register adds s under its own Name(). Panics on duplicate registration —
// a programming error, not a runtime condition.
func (r *Registry) Register(s Searcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.searchers[s.Name()]; exists {
		panic("search: duplicate searcher registration: " + s.Name())
	}
	r.searchers[s.Name()] = s
	r.order = append(r.order, s.Name())
}

// All returns every registered searcher in registration order.
func (r *Registry) All() []Searcher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Searcher, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.searchers[name])
	}
	return out
}

// TieBreakRank returns name's registration-order index, used to break
// deduplication ties (spec §4.4 "ties broken by searcher-name ordering
// fixed at registration").
func (r *Registry) TieBreakRank(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i, n := range r.order {
		if n == name {
			return i
		}
	}
	return len(r.order)
}

// Description is the {name, capabilities} introspection data the RPC
// face's describe_searchers exposes (spec §4.4 "Registration").
type Description struct {
	Name         string
	Capabilities []Capability
}

// DescribeAll implements facade.DescribeSearchers's data source.
func (r *Registry) DescribeAll() []Description {
	all := r.All()
	out := make([]Description, 0, len(all))
	for _, s := range all {
		out = append(out, Description{Name: s.Name(), Capabilities: s.Capabilities()})
	}
	return out
}
