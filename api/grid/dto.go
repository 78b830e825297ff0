// Package gridapi exposes grid sessions and one-shot searches over HTTP.
package gridapi

import (
	"time"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/beka-birhanu/vinom-pathfinder/grid"
	"github.com/beka-birhanu/vinom-pathfinder/pathsearch"
)

// GridRequest describes a grid to create or search.
type GridRequest struct {
	Rows      int               `json:"rows" binding:"required"`
	Cols      int               `json:"cols" binding:"required"`
	Start     CoordinateRequest `json:"start"`
	End       CoordinateRequest `json:"end"`
	Obstacles []grid.Coordinate `json:"obstacles"`
	Maze      bool              `json:"maze"`
	Seed      int64             `json:"seed"`
}

// CoordinateRequest is a cell reference whose zero row or column is still required.
type CoordinateRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

func (c CoordinateRequest) coordinate() grid.Coordinate {
	return grid.Coordinate{Row: *c.Row, Col: *c.Col}
}

func (r GridRequest) spec() dmn.GridSpec {
	return dmn.GridSpec{
		Rows:      r.Rows,
		Cols:      r.Cols,
		Start:     r.Start.coordinate(),
		End:       r.End.coordinate(),
		Obstacles: r.Obstacles,
		Maze:      r.Maze,
		Seed:      r.Seed,
	}
}

// SearchResponse is the outcome of a search. Visited lists cells in the order they were expanded.
type SearchResponse struct {
	Found   bool              `json:"found"`
	Cost    int               `json:"cost"`
	Path    []grid.Coordinate `json:"path"`
	Visited []grid.Coordinate `json:"visited"`
}

// GridResponse is a grid session together with its latest search.
type GridResponse struct {
	ID        string            `json:"id"`
	Rows      int               `json:"rows"`
	Cols      int               `json:"cols"`
	Start     grid.Coordinate   `json:"start"`
	End       grid.Coordinate   `json:"end"`
	Obstacles []grid.Coordinate `json:"obstacles"`
	Applied   bool              `json:"applied"`
	UpdatedAt time.Time         `json:"updated_at"`
	Search    SearchResponse    `json:"search"`
}

func newSearchResponse(r pathsearch.Result) SearchResponse {
	path, visited := r.Path, r.Order
	if path == nil {
		path = []grid.Coordinate{}
	}
	if visited == nil {
		visited = []grid.Coordinate{}
	}
	return SearchResponse{
		Found:   r.Found,
		Cost:    r.Cost(),
		Path:    path,
		Visited: visited,
	}
}

func newGridResponse(s dmn.GridSnapshot) GridResponse {
	obstacles := s.Obstacles
	if obstacles == nil {
		obstacles = []grid.Coordinate{}
	}
	return GridResponse{
		ID:        s.ID.String(),
		Rows:      s.Rows,
		Cols:      s.Cols,
		Start:     s.Start,
		End:       s.End,
		Obstacles: obstacles,
		Applied:   s.Applied,
		UpdatedAt: s.UpdatedAt,
		Search:    newSearchResponse(s.Result),
	}
}
