package domain

import (
	"time"

	"github.com/beka-birhanu/vinom-pathfinder/grid"
	"github.com/beka-birhanu/vinom-pathfinder/pathsearch"
	"github.com/google/uuid"
)

// GridSpec describes a grid to build: dimensions, endpoints and an optional
// obstacle layout. When Maze is set the obstacles come from a generated maze
// seeded with Seed and Obstacles is ignored.
type GridSpec struct {
	Rows      int
	Cols      int
	Start     grid.Coordinate
	End       grid.Coordinate
	Obstacles []grid.Coordinate
	Maze      bool
	Seed      int64
}

// GridSnapshot is a point-in-time copy of a grid session and the search
// result for its current layout.
type GridSnapshot struct {
	ID        uuid.UUID
	Owner     uuid.UUID
	Rows      int
	Cols      int
	Start     grid.Coordinate
	End       grid.Coordinate
	Obstacles []grid.Coordinate
	Result    pathsearch.Result
	Applied   bool // whether the edit that produced the snapshot changed the grid
	UpdatedAt time.Time
}
