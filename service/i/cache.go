package i

import (
	"context"

	"github.com/beka-birhanu/vinom-pathfinder/pathsearch"
)

// ResultCache stores search results by grid fingerprint.
type ResultCache interface {
	// GetOrCompute returns the cached result for key, or runs compute, stores
	// its result and returns it. Results of a failed compute are not stored.
	GetOrCompute(ctx context.Context, key string, compute func() (pathsearch.Result, error)) (pathsearch.Result, error)
}
