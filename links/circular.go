// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package links

import (
	"sort"

	"github.com/AleutianAI/tally/item"
)

// DetectCircularReferences finds reference cycles among descriptions.
//
// # Description
//
// Builds an adjacency list from each description's [name] references and
// runs depth-first search with a recursion stack. A back edge into a node
// still on the stack yields one cycle: the stack slice from that node
// forward, plus the closing node, translated to variable names.
//
// Roots are visited in sorted id order so output is deterministic.
//
// # Limitations
//
// Detection is best-effort per traversal: a cycle reachable only through
// nodes already finished from an earlier root can be missed. Suitable as a
// data-quality signal, not as a hard gate.
//
// Inputs:
//
//	descriptions - All descriptions, keyed by definition id.
//	definitions - All definitions, keyed by id.
//
// Outputs:
//
//	[]CircularReference - Distinct cycles found. Empty slice if none.
func DetectCircularReferences(
	descriptions map[string]item.VariableDescription,
	definitions map[string]item.VariableDefinition,
) []CircularReference {
	adjacency := make(map[string][]string, len(descriptions))
	for defID, desc := range descriptions {
		adjacency[defID] = ExtractVariableReferences(desc.Content, definitions)
	}

	const (
		white = iota // unvisited
		gray         // on the recursion stack
		black        // finished
	)

	state := make(map[string]int, len(adjacency))
	path := []string{}
	cycles := []CircularReference{}

	var visit func(id string)
	visit = func(id string) {
		state[id] = gray
		path = append(path, id)

		for _, next := range adjacency[id] {
			switch state[next] {
			case gray:
				// Back edge: slice the current path from the first
				// occurrence of next and close the loop.
				start := 0
				for i, p := range path {
					if p == next {
						start = i
						break
					}
				}
				cyclePath := append(append([]string{}, path[start:]...), next)
				cycles = append(cycles, CircularReference{
					Path:          cyclePath,
					VariableNames: namesFor(cyclePath, definitions),
				})
			case white:
				visit(next)
			}
		}

		path = path[:len(path)-1]
		state[id] = black
	}

	roots := make([]string, 0, len(adjacency))
	for id := range adjacency {
		roots = append(roots, id)
	}
	sort.Strings(roots)

	for _, id := range roots {
		if state[id] == white {
			visit(id)
		}
	}

	return cycles
}

// namesFor maps definition ids to names, falling back to the id when the
// definition is unknown.
func namesFor(ids []string, definitions map[string]item.VariableDefinition) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if def, ok := definitions[id]; ok {
			names = append(names, def.Name)
		} else {
			names = append(names, id)
		}
	}
	return names
}
