package pathsearch

import (
	"slices"

	"github.com/beka-birhanu/vinom-pathfinder/grid"
	"github.com/zyedidia/generic/mapset"
)

// Result is the outcome of one search run.
type Result struct {
	Path    []grid.Coordinate           // start to end inclusive; empty when not found
	Visited mapset.Set[grid.Coordinate] // cells expanded during the search
	Order   []grid.Coordinate           // Visited in expansion order
	Found   bool
}

// NewResult rebuilds a Result from its path and expansion order.
func NewResult(path, order []grid.Coordinate, found bool) Result {
	visited := mapset.New[grid.Coordinate]()
	for _, c := range order {
		visited.Put(c)
	}
	if path == nil {
		path = []grid.Coordinate{}
	}
	if order == nil {
		order = []grid.Coordinate{}
	}
	return Result{Path: path, Visited: visited, Order: order, Found: found}
}

// Cost returns the number of moves on the path, or -1 when no path exists.
func (r Result) Cost() int {
	if !r.Found {
		return -1
	}
	return len(r.Path) - 1
}

// IsVisited reports whether c was expanded.
func (r Result) IsVisited(c grid.Coordinate) bool {
	return r.Visited.Has(c)
}

// OnPath reports whether c is part of the path.
func (r Result) OnPath(c grid.Coordinate) bool {
	return slices.Contains(r.Path, c)
}
