package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/beka-birhanu/vinom-pathfinder/grid"
	"github.com/beka-birhanu/vinom-pathfinder/pathsearch"
	"github.com/google/uuid"
)

// GridSessionManager owns the editable grids of signed-in users. Every edit
// is followed by a full search and the resulting snapshot is returned.
type GridSessionManager interface {
	NewSession(ctx context.Context, owner uuid.UUID, spec dmn.GridSpec) (dmn.GridSnapshot, error)
	Snapshot(ctx context.Context, owner, id uuid.UUID) (dmn.GridSnapshot, error)
	DeleteSession(ctx context.Context, owner, id uuid.UUID) error

	ToggleObstacle(ctx context.Context, owner, id uuid.UUID, c grid.Coordinate) (dmn.GridSnapshot, error)
	ClearObstacles(ctx context.Context, owner, id uuid.UUID) (dmn.GridSnapshot, error)
	SetStart(ctx context.Context, owner, id uuid.UUID, c grid.Coordinate) (dmn.GridSnapshot, error)
	SetEnd(ctx context.Context, owner, id uuid.UUID, c grid.Coordinate) (dmn.GridSnapshot, error)

	// Search reruns the search on the session's current layout.
	Search(ctx context.Context, owner, id uuid.UUID) (dmn.GridSnapshot, error)

	// Evaluate searches a grid described in full without creating a session.
	Evaluate(ctx context.Context, spec dmn.GridSpec) (pathsearch.Result, error)
}
