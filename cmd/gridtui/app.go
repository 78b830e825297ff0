package main

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/beka-birhanu/vinom-pathfinder/grid"
	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/beka-birhanu/vinom-pathfinder/pathsearch"
	"github.com/gdamore/tcell/v2"
)

// cellWidth is the number of screen columns a grid cell takes.
const cellWidth = 2

var (
	styleEmpty   = tcell.StyleDefault
	styleWall    = tcell.StyleDefault.Background(tcell.ColorWhite)
	styleVisited = tcell.StyleDefault.Background(tcell.ColorNavy)
	stylePath    = tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack)
	styleStart   = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	styleEnd     = tcell.StyleDefault.Background(tcell.ColorRed).Foreground(tcell.ColorBlack)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

const help = "arrows/hjkl move  space wall  s start  e end  c clear  m maze  q quit"

// app is the editable grid shown in the terminal. Every edit reruns the search.
type app struct {
	grid   *grid.Grid
	result pathsearch.Result
	cursor grid.Coordinate
	seed   int64
	held   bool // left button is down; drags must not toggle the same cell again
}

func newApp(rows, cols int, seed int64, withMaze bool) (*app, error) {
	g, err := grid.New(rows, cols, grid.Coordinate{}, grid.Coordinate{Row: rows - 1, Col: cols - 1})
	if err != nil {
		return nil, err
	}

	a := &app{grid: g, seed: seed}
	if withMaze {
		if err := a.loadMaze(); err != nil {
			return nil, err
		}
	}
	a.search()
	return a, nil
}

// newLayoutApp starts from a layout in the text form of grid.Parse.
func newLayoutApp(r io.Reader, seed int64) (*app, error) {
	layout, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	g, err := grid.Parse(string(layout))
	if err != nil {
		return nil, err
	}

	a := &app{grid: g, seed: seed}
	a.search()
	return a, nil
}

func (a *app) search() {
	a.result = pathsearch.Search(a.grid)
}

func (a *app) loadMaze() error {
	walls, err := maze.Walls(a.grid.Rows(), a.grid.Cols(), rand.New(rand.NewSource(a.seed)))
	if err != nil {
		return err
	}
	a.grid.SetObstacles(walls)
	return nil
}

func (a *app) moveCursor(dr, dc int) {
	next := grid.Coordinate{Row: a.cursor.Row + dr, Col: a.cursor.Col + dc}
	if a.grid.InBound(next) {
		a.cursor = next
	}
}

// handleKey applies a key press and reports whether the app should quit.
func (a *app) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		a.moveCursor(-1, 0)
	case tcell.KeyDown:
		a.moveCursor(1, 0)
	case tcell.KeyLeft:
		a.moveCursor(0, -1)
	case tcell.KeyRight:
		a.moveCursor(0, 1)
	case tcell.KeyRune:
		return a.handleRune(ev.Rune())
	}
	return false
}

func (a *app) handleRune(r rune) bool {
	switch r {
	case 'q':
		return true
	case 'k':
		a.moveCursor(-1, 0)
	case 'j':
		a.moveCursor(1, 0)
	case 'h':
		a.moveCursor(0, -1)
	case 'l':
		a.moveCursor(0, 1)
	case ' ', 'w':
		if a.grid.ToggleObstacle(a.cursor) {
			a.search()
		}
	case 's':
		if a.grid.SetStart(a.cursor) {
			a.search()
		}
	case 'e':
		if a.grid.SetEnd(a.cursor) {
			a.search()
		}
	case 'c':
		a.grid.ClearObstacles()
		a.search()
	case 'm':
		a.seed++
		if err := a.loadMaze(); err == nil {
			a.search()
		}
	}
	return false
}

// handleMouse toggles the wall under a left click, once per cell while dragging.
func (a *app) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		a.held = false
		return
	}
	x, y := ev.Position()
	c := grid.Coordinate{Row: y, Col: x / cellWidth}
	if !a.grid.InBound(c) || (a.held && c == a.cursor) {
		return
	}
	a.held = true
	a.cursor = c
	if a.grid.ToggleObstacle(c) {
		a.search()
	}
}

func (a *app) styleOf(c grid.Coordinate) (rune, tcell.Style) {
	switch {
	case a.grid.IsStart(c):
		return 'S', styleStart
	case a.grid.IsEnd(c):
		return 'E', styleEnd
	case a.grid.IsObstacle(c):
		return ' ', styleWall
	case a.result.OnPath(c):
		return '*', stylePath
	case a.result.IsVisited(c):
		return '.', styleVisited
	default:
		return ' ', styleEmpty
	}
}

func (a *app) status() string {
	if a.result.Found {
		return fmt.Sprintf("path cost %d, visited %d", a.result.Cost(), a.result.Visited.Size())
	}
	return fmt.Sprintf("no path, visited %d", a.result.Visited.Size())
}

func (a *app) draw(screen tcell.Screen) {
	screen.Clear()
	for row := 0; row < a.grid.Rows(); row++ {
		for col := 0; col < a.grid.Cols(); col++ {
			c := grid.Coordinate{Row: row, Col: col}
			r, style := a.styleOf(c)
			if c == a.cursor {
				style = style.Reverse(true)
			}
			screen.SetContent(col*cellWidth, row, r, nil, style)
			screen.SetContent(col*cellWidth+1, row, ' ', nil, style)
		}
	}

	drawText(screen, 0, a.grid.Rows()+1, a.status(), tcell.StyleDefault)
	drawText(screen, 0, a.grid.Rows()+2, help, styleStatus)
	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
