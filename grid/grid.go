/*
Package grid holds the editable state of a pathfinding board.

A Grid has fixed dimensions, a set of blocked cells and two endpoints (start
and end). Edits that would put an endpoint on top of the other endpoint, or
block an endpoint, are ignored and reported as not applied. The package holds
no search logic; it only answers occupancy and adjacency queries.
*/
package grid

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/zyedidia/generic/mapset"
)

var (
	ErrInvalidDimension = errors.New("grid dimensions must be positive")
	ErrOutOfBounds      = errors.New("coordinate is outside the grid")
	ErrSameEndpoints    = errors.New("start and end must differ")
)

// Grid is a rectangular board of cells with obstacles and two endpoints.
type Grid struct {
	rows      int
	cols      int
	obstacles mapset.Set[Coordinate]
	start     Coordinate
	end       Coordinate
}

// New creates an empty grid with the given dimensions and endpoints.
func New(rows, cols int, start, end Coordinate) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimension
	}

	g := &Grid{
		rows:      rows,
		cols:      cols,
		obstacles: mapset.New[Coordinate](),
	}
	if !g.InBound(start) {
		return nil, fmt.Errorf("start %s: %w", start, ErrOutOfBounds)
	}
	if !g.InBound(end) {
		return nil, fmt.Errorf("end %s: %w", end, ErrOutOfBounds)
	}
	if start == end {
		return nil, ErrSameEndpoints
	}

	g.start = start
	g.end = end
	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Start returns the start cell.
func (g *Grid) Start() Coordinate { return g.start }

// End returns the end cell.
func (g *Grid) End() Coordinate { return g.end }

// InBound reports whether c lies inside the grid.
func (g *Grid) InBound(c Coordinate) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// IsObstacle reports whether c is blocked.
func (g *Grid) IsObstacle(c Coordinate) bool {
	return g.obstacles.Has(c)
}

// IsStart reports whether c is the start cell.
func (g *Grid) IsStart(c Coordinate) bool { return c == g.start }

// IsEnd reports whether c is the end cell.
func (g *Grid) IsEnd(c Coordinate) bool { return c == g.end }

// ToggleObstacle flips the blocked state of c. Endpoints and cells outside
// the grid are left untouched and false is returned.
func (g *Grid) ToggleObstacle(c Coordinate) bool {
	if !g.InBound(c) || c == g.start || c == g.end {
		return false
	}

	if g.obstacles.Has(c) {
		g.obstacles.Remove(c)
	} else {
		g.obstacles.Put(c)
	}
	return true
}

// ClearObstacles removes every obstacle.
func (g *Grid) ClearObstacles() {
	g.obstacles = mapset.New[Coordinate]()
}

// SetObstacles replaces the obstacle set. Endpoints and out of bound cells
// are skipped. It returns the number of obstacles placed.
func (g *Grid) SetObstacles(cells []Coordinate) int {
	g.obstacles = mapset.New[Coordinate]()
	for _, c := range cells {
		if !g.InBound(c) || c == g.start || c == g.end {
			continue
		}
		g.obstacles.Put(c)
	}
	return g.obstacles.Size()
}

// SetStart moves the start cell. The move is ignored when c is the end cell
// or outside the grid. An obstacle under the new position is removed.
func (g *Grid) SetStart(c Coordinate) bool {
	if !g.InBound(c) || c == g.end {
		return false
	}
	g.obstacles.Remove(c)
	g.start = c
	return true
}

// SetEnd moves the end cell. The move is ignored when c is the start cell
// or outside the grid. An obstacle under the new position is removed.
func (g *Grid) SetEnd(c Coordinate) bool {
	if !g.InBound(c) || c == g.start {
		return false
	}
	g.obstacles.Remove(c)
	g.end = c
	return true
}

// Neighbors returns the open cells next to c in up, down, left, right order.
func (g *Grid) Neighbors(c Coordinate) []Coordinate {
	result := make([]Coordinate, 0, len(Directions))
	for _, delta := range Directions {
		n := c.Add(delta)
		if g.InBound(n) && !g.obstacles.Has(n) {
			result = append(result, n)
		}
	}
	return result
}

// Obstacles returns the blocked cells in row-major order.
func (g *Grid) Obstacles() []Coordinate {
	cells := make([]Coordinate, 0, g.obstacles.Size())
	g.obstacles.Each(func(c Coordinate) {
		cells = append(cells, c)
	})
	slices.SortFunc(cells, func(a, b Coordinate) int {
		if a.Less(b) {
			return -1
		}
		if b.Less(a) {
			return 1
		}
		return 0
	})
	return cells
}

// ObstacleCount returns the number of blocked cells.
func (g *Grid) ObstacleCount() int {
	return g.obstacles.Size()
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		rows:      g.rows,
		cols:      g.cols,
		start:     g.start,
		end:       g.end,
		obstacles: mapset.New[Coordinate](),
	}
	g.obstacles.Each(func(o Coordinate) {
		c.obstacles.Put(o)
	})
	return c
}

// Fingerprint identifies the layout of the grid. Two grids with the same
// dimensions, endpoints and obstacles share a fingerprint.
func (g *Grid) Fingerprint() string {
	d := xxhash.New()
	fmt.Fprintf(d, "%dx%d|%d,%d|%d,%d|", g.rows, g.cols, g.start.Row, g.start.Col, g.end.Row, g.end.Col)
	for _, c := range g.Obstacles() {
		fmt.Fprintf(d, "%d,%d;", c.Row, c.Col)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// String renders the grid as text: S start, E end, # obstacle, . open.
func (g *Grid) String() string {
	buf := make([]byte, 0, (g.cols+1)*g.rows)
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			c := Coordinate{Row: row, Col: col}
			switch {
			case c == g.start:
				buf = append(buf, 'S')
			case c == g.end:
				buf = append(buf, 'E')
			case g.obstacles.Has(c):
				buf = append(buf, '#')
			default:
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
