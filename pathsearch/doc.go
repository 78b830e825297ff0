// Package pathsearch finds shortest paths on a grid with A*.
//
// Moves are 4-connected with unit cost and the heuristic is the Manhattan
// distance, which is consistent for this move set, so the first path that
// reaches the end is a shortest one. Every call allocates its own frontier
// and score tables; nothing is shared between runs.
//
// Frontier ties on f are broken by insertion order, so a given grid always
// yields the same path and the same set of expanded cells.
package pathsearch
