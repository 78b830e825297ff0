package pathsearch

import (
	"container/heap"
	"context"

	"github.com/beka-birhanu/vinom-pathfinder/grid"
	"github.com/zyedidia/generic/mapset"
)

// Graph is the view of a grid the search needs. Neighbors must only return
// open, in-bound cells; its order decides which of several equal paths wins.
type Graph interface {
	Start() grid.Coordinate
	End() grid.Coordinate
	Neighbors(c grid.Coordinate) []grid.Coordinate
}

// Search runs A* from g.Start() to g.End() to completion.
func Search(g Graph) Result {
	result, _ := SearchContext(context.Background(), g)
	return result
}

// SearchContext is Search with cancellation between expansions. The only
// error it returns is the context's.
func SearchContext(ctx context.Context, g Graph) (Result, error) {
	start, end := g.Start(), g.End()

	openSet := make(openQueue, 0)
	heap.Init(&openSet)
	openSetMap := make(map[grid.Coordinate]*queueItem)
	cameFrom := make(map[grid.Coordinate]grid.Coordinate)
	gScore := map[grid.Coordinate]int{start: 0}
	closed := mapset.New[grid.Coordinate]()
	order := make([]grid.Coordinate, 0)

	inserted := 0
	push := func(cell grid.Coordinate, g int) {
		item := &queueItem{
			cell: cell,
			g:    g,
			f:    g + grid.Manhattan(cell, end),
			seq:  inserted,
		}
		inserted++
		heap.Push(&openSet, item)
		openSetMap[cell] = item
	}
	push(start, 0)

	for openSet.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		current := heap.Pop(&openSet).(*queueItem)
		delete(openSetMap, current.cell)

		if current.cell == end {
			return Result{
				Path:    reconstructPath(cameFrom, current.cell, start),
				Visited: closed,
				Order:   order,
				Found:   true,
			}, nil
		}

		closed.Put(current.cell)
		order = append(order, current.cell)

		for _, neighbor := range g.Neighbors(current.cell) {
			tentativeG := current.g + 1
			if known, ok := gScore[neighbor]; ok && tentativeG >= known {
				continue
			}

			cameFrom[neighbor] = current.cell
			gScore[neighbor] = tentativeG
			if item, inOpen := openSetMap[neighbor]; inOpen {
				item.g = tentativeG
				item.f = tentativeG + grid.Manhattan(neighbor, end)
				heap.Fix(&openSet, item.index)
			} else {
				push(neighbor, tentativeG)
			}
		}
	}

	return Result{
		Path:    []grid.Coordinate{},
		Visited: closed,
		Order:   order,
		Found:   false,
	}, nil
}

// reconstructPath follows cameFrom links back to start and reverses them.
func reconstructPath(cameFrom map[grid.Coordinate]grid.Coordinate, current, start grid.Coordinate) []grid.Coordinate {
	path := []grid.Coordinate{current}
	for current != start {
		previous, exists := cameFrom[current]
		if !exists {
			break
		}
		path = append(path, previous)
		current = previous
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
