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

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/coderadar/gitsearch/internal/ui"
	"github.com/coderadar/gitsearch/pkg/search"
)

// runDescribeSearchers implements `gitsearch describe-searchers`, exposing
// the registry's Description list — the same data the agent RPC face
// serves under the describe_searchers method.
func runDescribeSearchers(args []string, globals GlobalFlags) int {
	descriptions := search.DefaultRegistry.DescribeAll()

	if globals.JSON {
		_ = json.NewEncoder(os.Stdout).Encode(descriptions)
		return exitSuccess
	}

	for _, d := range descriptions {
		fmt.Printf("%s\n", ui.Path.Sprint(d.Name))
		for _, c := range d.Capabilities {
			fmt.Printf("  %s\n", ui.Dim.Sprint(c))
		}
	}
	return exitSuccess
}
