package pathsearch

import (
	"context"
	"math/rand"
	"testing"

	"github.com/beka-birhanu/vinom-pathfinder/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cell(row, col int) grid.Coordinate {
	return grid.Coordinate{Row: row, Col: col}
}

func mustParse(t *testing.T, layout string) *grid.Grid {
	t.Helper()
	g, err := grid.Parse(layout)
	require.NoError(t, err)
	return g
}

// assertValidResult checks the invariants every result must hold.
func assertValidResult(t *testing.T, g *grid.Grid, r Result) {
	t.Helper()

	assert.Equal(t, len(r.Order), r.Visited.Size(), "order and visited disagree")
	for _, c := range r.Order {
		assert.True(t, g.InBound(c), "visited %s out of bounds", c)
		assert.False(t, g.IsObstacle(c), "visited obstacle %s", c)
		assert.False(t, g.IsEnd(c), "end cell must not be expanded")
	}

	if !r.Found {
		assert.Empty(t, r.Path)
		return
	}

	require.NotEmpty(t, r.Path)
	assert.Equal(t, g.Start(), r.Path[0])
	assert.Equal(t, g.End(), r.Path[len(r.Path)-1])

	seen := make(map[grid.Coordinate]bool, len(r.Path))
	for i, c := range r.Path {
		assert.True(t, g.InBound(c))
		assert.False(t, g.IsObstacle(c), "path crosses obstacle %s", c)
		assert.False(t, seen[c], "path repeats %s", c)
		seen[c] = true
		if i > 0 {
			assert.Equal(t, 1, grid.Manhattan(r.Path[i-1], c), "%s and %s are not adjacent", r.Path[i-1], c)
		}
	}
}

// bfsDistance is an independent reference for shortest path lengths.
func bfsDistance(g *grid.Grid) (int, bool) {
	dist := map[grid.Coordinate]int{g.Start(): 0}
	queue := []grid.Coordinate{g.Start()}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == g.End() {
			return dist[current], true
		}
		for _, n := range g.Neighbors(current) {
			if _, seen := dist[n]; !seen {
				dist[n] = dist[current] + 1
				queue = append(queue, n)
			}
		}
	}
	return 0, false
}

func reachableCount(g *grid.Grid) int {
	seen := map[grid.Coordinate]bool{g.Start(): true}
	queue := []grid.Coordinate{g.Start()}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, n := range g.Neighbors(current) {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return len(seen)
}

func TestSearchOpenGrid(t *testing.T) {
	g, err := grid.New(3, 3, cell(0, 0), cell(2, 2))
	require.NoError(t, err)

	r := Search(g)
	assertValidResult(t, g, r)

	assert.True(t, r.Found)
	assert.Equal(t, 4, r.Cost())
	assert.Equal(t, []grid.Coordinate{cell(0, 0), cell(1, 0), cell(2, 0), cell(2, 1), cell(2, 2)}, r.Path)
	assert.Equal(t, []grid.Coordinate{
		cell(0, 0), cell(1, 0), cell(0, 1), cell(2, 0),
		cell(1, 1), cell(0, 2), cell(2, 1), cell(1, 2),
	}, r.Order)
}

func TestSearchMatchesManhattanWithoutObstacles(t *testing.T) {
	pairs := []struct {
		start, end grid.Coordinate
	}{
		{cell(0, 0), cell(6, 9)},
		{cell(6, 9), cell(0, 0)},
		{cell(3, 4), cell(3, 5)},
		{cell(0, 9), cell(6, 0)},
		{cell(5, 2), cell(1, 2)},
	}

	for _, p := range pairs {
		g, err := grid.New(7, 10, p.start, p.end)
		require.NoError(t, err)

		r := Search(g)
		assertValidResult(t, g, r)
		assert.True(t, r.Found)
		assert.Equal(t, grid.Manhattan(p.start, p.end), r.Cost(), "%s -> %s", p.start, p.end)
	}
}

func TestSearchWalledEnd(t *testing.T) {
	g := mustParse(t, `
S....
..#..
.#E#.
..#..
.....
`)

	r := Search(g)
	assertValidResult(t, g, r)

	assert.False(t, r.Found)
	assert.Equal(t, -1, r.Cost())
	assert.Equal(t, reachableCount(g), r.Visited.Size())
	assert.Equal(t, 20, r.Visited.Size())
	assert.False(t, r.IsVisited(g.End()))
}

func TestSearchWallWithGap(t *testing.T) {
	g := mustParse(t, `
S.#.E
..#..
..#..
..#..
.....
`)

	r := Search(g)
	assertValidResult(t, g, r)

	assert.True(t, r.Found)
	assert.Equal(t, 12, r.Cost())
	assert.True(t, r.OnPath(cell(4, 2)), "path must use the gap")
}

func TestSearchIsDeterministic(t *testing.T) {
	g := mustParse(t, `
S.....
.##.#.
...#..
.#...#
...#.E
`)

	first := Search(g)
	second := Search(g)

	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, first.Order, second.Order)
	assert.Equal(t, first.Visited.Size(), second.Visited.Size())
}

func TestSearchToggleTwiceRestoresResult(t *testing.T) {
	g := mustParse(t, `
S.....
.##.#.
...#..
.#...#
...#.E
`)
	before := Search(g)

	require.True(t, g.ToggleObstacle(cell(2, 1)))
	changed := Search(g)
	assertValidResult(t, g, changed)

	require.True(t, g.ToggleObstacle(cell(2, 1)))
	after := Search(g)

	assert.Equal(t, before.Path, after.Path)
	assert.Equal(t, before.Order, after.Order)
}

func TestSearchAfterEndpointMove(t *testing.T) {
	g := mustParse(t, `
S...
.##.
...E
`)
	first := Search(g)
	require.True(t, first.Found)

	require.True(t, g.SetEnd(cell(0, 3)))
	moved := Search(g)
	assertValidResult(t, g, moved)
	assert.Equal(t, 3, moved.Cost())

	require.False(t, g.SetStart(cell(0, 3)))
	assert.Equal(t, moved.Path, Search(g).Path)
}

func TestSearchContextCancelled(t *testing.T) {
	g, err := grid.New(20, 20, cell(0, 0), cell(19, 19))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = SearchContext(ctx, g)
	assert.ErrorIs(t, err, context.Canceled)
}

type pointGraph struct{ at grid.Coordinate }

func (p pointGraph) Start() grid.Coordinate                      { return p.at }
func (p pointGraph) End() grid.Coordinate                        { return p.at }
func (p pointGraph) Neighbors(grid.Coordinate) []grid.Coordinate { return nil }

func TestSearchStartIsEnd(t *testing.T) {
	r := Search(pointGraph{at: cell(1, 1)})

	assert.True(t, r.Found)
	assert.Equal(t, []grid.Coordinate{cell(1, 1)}, r.Path)
	assert.Zero(t, r.Cost())
	assert.Empty(t, r.Order)
}

func TestSearchRandomGrids(t *testing.T) {
	const rows, cols = 8, 9

	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		start := cell(rng.Intn(rows), rng.Intn(cols))
		end := cell(rng.Intn(rows), rng.Intn(cols))
		if start == end {
			continue
		}

		g, err := grid.New(rows, cols, start, end)
		require.NoError(t, err)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if rng.Float64() < 0.3 {
					g.ToggleObstacle(cell(r, c))
				}
			}
		}

		result := Search(g)
		assertValidResult(t, g, result)

		want, reachable := bfsDistance(g)
		assert.Equal(t, reachable, result.Found, "seed %d", seed)
		if reachable {
			assert.Equal(t, want, result.Cost(), "seed %d", seed)
		} else {
			assert.Equal(t, reachableCount(g), result.Visited.Size(), "seed %d", seed)
		}

		again := Search(g)
		assert.Equal(t, result.Path, again.Path, "seed %d", seed)
		assert.Equal(t, result.Order, again.Order, "seed %d", seed)
	}
}

func TestNewResult(t *testing.T) {
	path := []grid.Coordinate{cell(0, 0), cell(0, 1)}
	order := []grid.Coordinate{cell(0, 0)}

	r := NewResult(path, order, true)
	assert.True(t, r.IsVisited(cell(0, 0)))
	assert.False(t, r.IsVisited(cell(0, 1)))
	assert.Equal(t, 1, r.Cost())

	empty := NewResult(nil, nil, false)
	assert.NotNil(t, empty.Path)
	assert.NotNil(t, empty.Order)
	assert.Zero(t, empty.Visited.Size())
}
