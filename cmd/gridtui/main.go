// Command gridtui edits a grid in the terminal and shows the shortest path
// between its endpoints as the layout changes.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
)

func main() {
	rows := flag.Int("rows", 20, "grid rows")
	cols := flag.Int("cols", 30, "grid columns")
	withMaze := flag.Bool("maze", false, "start from a generated maze")
	seed := flag.Int64("seed", time.Now().UnixNano(), "maze seed")
	layout := flag.String("layout", "", "file with a grid layout (S start, E end, # wall, . open); overrides -rows, -cols and -maze")
	flag.Parse()

	a, err := loadApp(*layout, *rows, *cols, *seed, *withMaze)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gridtui: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gridtui: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "gridtui: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	run(screen, a)
}

func loadApp(layout string, rows, cols int, seed int64, withMaze bool) (*app, error) {
	if layout == "" {
		return newApp(rows, cols, seed, withMaze)
	}

	f, err := os.Open(layout)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return newLayoutApp(f, seed)
}

// run draws and handles events until the user quits.
func run(screen tcell.Screen, a *app) {
	screen.EnableMouse()
	a.draw(screen)

	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if a.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			a.handleMouse(ev)
		}
		a.draw(screen)
	}
}
