package grid

import "fmt"

// Coordinate represents the position of a cell in the grid.
type Coordinate struct {
	Row int `json:"row"` // Row index of the cell
	Col int `json:"col"` // Column index of the cell
}

// Directions holds the four orthogonal moves in up, down, left, right order,
// which fixes the tie-break order of the search.
var Directions = [4]Coordinate{
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
}

// Add returns the coordinate shifted by delta.
func (c Coordinate) Add(delta Coordinate) Coordinate {
	return Coordinate{Row: c.Row + delta.Row, Col: c.Col + delta.Col}
}

// Less orders coordinates row-major.
func (c Coordinate) Less(other Coordinate) bool {
	if c.Row != other.Row {
		return c.Row < other.Row
	}
	return c.Col < other.Col
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Manhattan returns the sum of the absolute row and column differences.
func Manhattan(a, b Coordinate) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
