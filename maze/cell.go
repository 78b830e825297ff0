package maze

// Cell represents a single room of the maze with a wall on each side.
type Cell struct {
	NorthWall bool // NorthWall indicates whether there is a wall on the north side of the cell.
	SouthWall bool // SouthWall indicates whether there is a wall on the south side of the cell.
	EastWall  bool // EastWall indicates whether there is a wall on the east side of the cell.
	WestWall  bool // WestWall indicates whether there is a wall on the west side of the cell.
}

// CellPosition is the position of a room in the maze, not in the grid.
type CellPosition struct {
	Row int
	Col int
}

// Move is a step from one room to an adjacent one.
type Move struct {
	From      CellPosition
	To        CellPosition
	Direction string
}
