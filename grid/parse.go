package grid

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidLayout = errors.New("invalid grid layout")

// Parse builds a grid from the text form produced by String. Every line is a
// row; S marks the start, E the end, # an obstacle and . an open cell.
func Parse(layout string) (*Grid, error) {
	lines := strings.Split(strings.TrimSpace(layout), "\n")
	rows := len(lines)
	cols := len(strings.TrimSpace(lines[0]))

	var start, end *Coordinate
	var walls []Coordinate
	for row, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) != cols {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", row, len(line), cols, ErrInvalidLayout)
		}
		for col, ch := range line {
			c := Coordinate{Row: row, Col: col}
			switch ch {
			case 'S':
				if start != nil {
					return nil, fmt.Errorf("duplicate start at %s: %w", c, ErrInvalidLayout)
				}
				start = &c
			case 'E':
				if end != nil {
					return nil, fmt.Errorf("duplicate end at %s: %w", c, ErrInvalidLayout)
				}
				end = &c
			case '#':
				walls = append(walls, c)
			case '.':
			default:
				return nil, fmt.Errorf("unknown cell %q at %s: %w", ch, c, ErrInvalidLayout)
			}
		}
	}
	if start == nil || end == nil {
		return nil, fmt.Errorf("layout needs one S and one E: %w", ErrInvalidLayout)
	}

	g, err := New(rows, cols, *start, *end)
	if err != nil {
		return nil, err
	}
	g.SetObstacles(walls)
	return g, nil
}
