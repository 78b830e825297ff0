/*
Package maze generates obstacle layouts for grids.

It builds a perfect maze with Wilson's random-walk algorithm over a lattice of
rooms and projects it onto a grid: rooms sit on even coordinates, opened walls
become open cells between them and everything else is an obstacle. Every room
is reachable from every other room.

A grid with an even number of rows or columns ends in a strip that holds no
rooms. The cells of that strip directly beside a room are opened as dead ends,
as is the far corner when both dimensions are even, so the border cells there
stay reachable.
*/
package maze

import (
	"errors"
	"math/rand"
	"strings"

	"github.com/beka-birhanu/vinom-pathfinder/grid"
)

var (
	directions = []struct {
		name  string
		delta CellPosition
	}{
		{"North", CellPosition{Row: -1, Col: 0}},
		{"South", CellPosition{Row: 1, Col: 0}},
		{"East", CellPosition{Row: 0, Col: 1}},
		{"West", CellPosition{Row: 0, Col: -1}},
	}

	ErrInvalidDimension = errors.New("invalid maze dimensions")
)

// Maze is a rectangular lattice of rooms separated by walls.
type Maze struct {
	Width  int      // Width of the maze (number of room columns)
	Height int      // Height of the maze (number of room rows)
	Grid   [][]Cell // 2D grid of rooms
	rng    *rand.Rand
}

// New generates a maze of the given room dimensions using rng.
func New(width, height int, rng *rand.Rand) (*Maze, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimension
	}

	cells := make([][]Cell, height)
	for i := range cells {
		cells[i] = make([]Cell, width)
		for j := range cells[i] {
			cells[i][j] = Cell{
				NorthWall: true,
				SouthWall: true,
				EastWall:  true,
				WestWall:  true,
			}
		}
	}

	m := &Maze{
		Width:  width,
		Height: height,
		Grid:   cells,
		rng:    rng,
	}
	m.generateMaze()
	return m, nil
}

// Walls returns the obstacle cells of a maze sized to fill a rows x cols grid.
func Walls(rows, cols int, rng *rand.Rand) ([]grid.Coordinate, error) {
	m, err := New((cols+1)/2, (rows+1)/2, rng)
	if err != nil {
		return nil, err
	}

	var walls []grid.Coordinate
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if !m.isOpen(row, col) {
				walls = append(walls, grid.Coordinate{Row: row, Col: col})
			}
		}
	}
	return walls, nil
}

// isOpen reports whether a grid cell is a room, a passage between rooms or a
// dead end in the trailing strip of an even-sized grid.
func (m *Maze) isOpen(row, col int) bool {
	roomRow, roomCol := row/2, col/2
	if roomRow >= m.Height || roomCol >= m.Width {
		return false
	}

	lastRow := roomRow+1 == m.Height && row%2 == 1
	lastCol := roomCol+1 == m.Width && col%2 == 1
	switch {
	case row%2 == 0 && col%2 == 0:
		return true
	case row%2 == 0:
		return lastCol || !m.Grid[roomRow][roomCol].EastWall
	case col%2 == 0:
		return lastRow || !m.Grid[roomRow][roomCol].SouthWall
	default:
		return lastRow && lastCol
	}
}

// randomCellPosition picks a random room.
func (m *Maze) randomCellPosition() CellPosition {
	return CellPosition{Row: m.rng.Intn(m.Height), Col: m.rng.Intn(m.Width)}
}

// randomUnvisitedCellPosition picks a random room that is not yet part of the maze.
func (m *Maze) randomUnvisitedCellPosition(visited map[CellPosition]struct{}) CellPosition {
	for {
		pos := m.randomCellPosition()
		if _, included := visited[pos]; !included {
			return pos
		}
	}
}

// neighbors lists the moves to adjacent rooms in a fixed order.
func (m *Maze) neighbors(pos CellPosition) []Move {
	var result []Move
	for _, dir := range directions {
		neighbor := CellPosition{Row: pos.Row + dir.delta.Row, Col: pos.Col + dir.delta.Col}
		if neighbor.Row >= 0 && neighbor.Row < m.Height && neighbor.Col >= 0 && neighbor.Col < m.Width {
			result = append(result, Move{From: pos, To: neighbor, Direction: dir.name})
		}
	}
	return result
}

// openWall removes the wall between two adjacent rooms.
func (m *Maze) openWall(move Move) {
	switch move.Direction {
	case "North":
		m.Grid[move.From.Row][move.From.Col].NorthWall = false
		m.Grid[move.To.Row][move.To.Col].SouthWall = false
	case "South":
		m.Grid[move.From.Row][move.From.Col].SouthWall = false
		m.Grid[move.To.Row][move.To.Col].NorthWall = false
	case "East":
		m.Grid[move.From.Row][move.From.Col].EastWall = false
		m.Grid[move.To.Row][move.To.Col].WestWall = false
	case "West":
		m.Grid[move.From.Row][move.From.Col].WestWall = false
		m.Grid[move.To.Row][move.To.Col].EastWall = false
	}
}

// randomWalk walks from an unvisited room until it hits the maze. Each room
// keeps only its last exit, which erases the loops of the walk.
func (m *Maze) randomWalk(visited map[CellPosition]struct{}) []Move {
	cell := m.randomUnvisitedCellPosition(visited)
	exits := make(map[CellPosition]Move)
	var walked []CellPosition

	for {
		neighbors := m.neighbors(cell)
		next := neighbors[m.rng.Intn(len(neighbors))]
		if _, seen := exits[cell]; !seen {
			walked = append(walked, cell)
		}
		exits[cell] = next
		if _, included := visited[next.To]; included {
			break
		}
		cell = next.To
	}

	moves := make([]Move, 0, len(walked))
	for _, c := range walked {
		moves = append(moves, exits[c])
	}
	return moves
}

// generateMaze carves passages until every room belongs to the maze.
func (m *Maze) generateMaze() {
	visited := make(map[CellPosition]struct{})
	visited[m.randomCellPosition()] = struct{}{}

	for len(visited) < m.Width*m.Height {
		for _, move := range m.randomWalk(visited) {
			m.openWall(move)
			visited[move.From] = struct{}{}
		}
	}
}

// String provides a textual representation of the maze.
func (m *Maze) String() string {
	var output strings.Builder

	output.WriteString("+" + strings.Repeat("---+", m.Width) + "\n")
	for row := 0; row < m.Height; row++ {
		output.WriteString("|")
		for col := 0; col < m.Width; col++ {
			if m.Grid[row][col].EastWall {
				output.WriteString("   |")
			} else {
				output.WriteString("    ")
			}
		}
		output.WriteString("\n+")
		for col := 0; col < m.Width; col++ {
			if m.Grid[row][col].SouthWall {
				output.WriteString("---+")
			} else {
				output.WriteString("   +")
			}
		}
		output.WriteString("\n")
	}
	return output.String()
}
