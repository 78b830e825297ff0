package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/beka-birhanu/vinom-pathfinder/grid"
	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/beka-birhanu/vinom-pathfinder/pathsearch"
	"github.com/beka-birhanu/vinom-pathfinder/service/i"
	"github.com/google/uuid"
)

const (
	defaultMaxDimension       = 100
	defaultMaxSessionsPerUser = 8
	defaultIdleTTL            = 30 * time.Minute
)

var (
	ErrSessionNotFound   = errors.New("grid session not found")
	ErrForbidden         = errors.New("grid session belongs to another user")
	ErrTooManySessions   = errors.New("too many grid sessions")
	ErrInvalidCoordinate = errors.New("coordinate is outside the grid")
	ErrGridTooLarge      = errors.New("grid exceeds the maximum dimension")
	ErrNilLogger         = errors.New("logger is required")
)

type gridSession struct {
	id       uuid.UUID
	owner    uuid.UUID
	grid     *grid.Grid
	result   pathsearch.Result
	lastUsed time.Time
	sync.Mutex
}

// GridSessionManager keeps editable grids in memory, scoped to their owner.
// Sessions that stay idle longer than the TTL are dropped by the reaper.
type GridSessionManager struct {
	sessions           map[uuid.UUID]*gridSession
	ownerSessions      map[uuid.UUID]int
	cache              i.ResultCache
	logger             i.Logger
	maxDimension       int
	maxSessionsPerUser int
	idleTTL            time.Duration
	now                func() time.Time
	sync.RWMutex
}

// GridSessionConfig configures a GridSessionManager. Cache is optional;
// zero limits fall back to defaults.
type GridSessionConfig struct {
	Cache              i.ResultCache
	Logger             i.Logger
	MaxDimension       int
	MaxSessionsPerUser int
	IdleTTL            time.Duration
	Clock              func() time.Time
}

func NewGridSessionManager(c *GridSessionConfig) (*GridSessionManager, error) {
	if c.Logger == nil {
		return nil, ErrNilLogger
	}

	m := &GridSessionManager{
		sessions:           make(map[uuid.UUID]*gridSession),
		ownerSessions:      make(map[uuid.UUID]int),
		cache:              c.Cache,
		logger:             c.Logger,
		maxDimension:       c.MaxDimension,
		maxSessionsPerUser: c.MaxSessionsPerUser,
		idleTTL:            c.IdleTTL,
		now:                c.Clock,
	}
	if m.maxDimension <= 0 {
		m.maxDimension = defaultMaxDimension
	}
	if m.maxSessionsPerUser <= 0 {
		m.maxSessionsPerUser = defaultMaxSessionsPerUser
	}
	if m.idleTTL <= 0 {
		m.idleTTL = defaultIdleTTL
	}
	if m.now == nil {
		m.now = time.Now
	}

	return m, nil
}

func (m *GridSessionManager) NewSession(ctx context.Context, owner uuid.UUID, spec dmn.GridSpec) (dmn.GridSnapshot, error) {
	if m.atLimit(owner) {
		return dmn.GridSnapshot{}, ErrTooManySessions
	}

	g, err := m.build(spec)
	if err != nil {
		return dmn.GridSnapshot{}, err
	}

	result, err := m.search(ctx, g)
	if err != nil {
		return dmn.GridSnapshot{}, err
	}

	m.Lock()
	defer m.Unlock()
	// Checked again: another request may have taken the last slot during the search.
	if m.ownerSessions[owner] >= m.maxSessionsPerUser {
		return dmn.GridSnapshot{}, ErrTooManySessions
	}

	id := uuid.New()
	for {
		if _, ok := m.sessions[id]; !ok {
			break
		}
		id = uuid.New()
	}

	s := &gridSession{
		id:       id,
		owner:    owner,
		grid:     g,
		result:   result,
		lastUsed: m.now(),
	}
	m.sessions[id] = s
	m.ownerSessions[owner]++

	m.logger.Info(fmt.Sprintf("created %dx%d grid %s for user %s", g.Rows(), g.Cols(), id, owner))
	return m.snapshot(s, true), nil
}

func (m *GridSessionManager) Snapshot(_ context.Context, owner, id uuid.UUID) (dmn.GridSnapshot, error) {
	s, err := m.session(owner, id)
	if err != nil {
		return dmn.GridSnapshot{}, err
	}

	s.Lock()
	defer s.Unlock()
	s.lastUsed = m.now()
	return m.snapshot(s, false), nil
}

func (m *GridSessionManager) Search(ctx context.Context, owner, id uuid.UUID) (dmn.GridSnapshot, error) {
	s, err := m.session(owner, id)
	if err != nil {
		return dmn.GridSnapshot{}, err
	}

	s.Lock()
	defer s.Unlock()
	result, err := m.search(ctx, s.grid)
	if err != nil {
		return dmn.GridSnapshot{}, err
	}
	s.result = result
	s.lastUsed = m.now()
	return m.snapshot(s, false), nil
}

func (m *GridSessionManager) ToggleObstacle(ctx context.Context, owner, id uuid.UUID, c grid.Coordinate) (dmn.GridSnapshot, error) {
	return m.edit(ctx, owner, id, func(g *grid.Grid) (bool, error) {
		if !g.InBound(c) {
			return false, ErrInvalidCoordinate
		}
		return g.ToggleObstacle(c), nil
	})
}

func (m *GridSessionManager) ClearObstacles(ctx context.Context, owner, id uuid.UUID) (dmn.GridSnapshot, error) {
	return m.edit(ctx, owner, id, func(g *grid.Grid) (bool, error) {
		if g.ObstacleCount() == 0 {
			return false, nil
		}
		g.ClearObstacles()
		return true, nil
	})
}

func (m *GridSessionManager) SetStart(ctx context.Context, owner, id uuid.UUID, c grid.Coordinate) (dmn.GridSnapshot, error) {
	return m.edit(ctx, owner, id, func(g *grid.Grid) (bool, error) {
		if !g.InBound(c) {
			return false, ErrInvalidCoordinate
		}
		if g.IsStart(c) {
			return false, nil
		}
		return g.SetStart(c), nil
	})
}

func (m *GridSessionManager) SetEnd(ctx context.Context, owner, id uuid.UUID, c grid.Coordinate) (dmn.GridSnapshot, error) {
	return m.edit(ctx, owner, id, func(g *grid.Grid) (bool, error) {
		if !g.InBound(c) {
			return false, ErrInvalidCoordinate
		}
		if g.IsEnd(c) {
			return false, nil
		}
		return g.SetEnd(c), nil
	})
}

func (m *GridSessionManager) DeleteSession(_ context.Context, owner, id uuid.UUID) error {
	m.Lock()
	defer m.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if s.owner != owner {
		return ErrForbidden
	}

	m.remove(s)
	m.logger.Info(fmt.Sprintf("deleted grid %s", id))
	return nil
}

func (m *GridSessionManager) Evaluate(ctx context.Context, spec dmn.GridSpec) (pathsearch.Result, error) {
	g, err := m.build(spec)
	if err != nil {
		return pathsearch.Result{}, err
	}
	return m.search(ctx, g)
}

// Reap drops sessions idle longer than the TTL and returns how many it dropped.
// Sessions locked by a running request are in use and skipped.
func (m *GridSessionManager) Reap() int {
	m.Lock()
	defer m.Unlock()

	cutoff := m.now().Add(-m.idleTTL)
	reaped := 0
	for _, s := range m.sessions {
		if !s.TryLock() {
			continue
		}
		idle := s.lastUsed.Before(cutoff)
		s.Unlock()
		if idle {
			m.remove(s)
			reaped++
		}
	}
	return reaped
}

// RunReaper calls Reap every interval until ctx is done.
func (m *GridSessionManager) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Reap(); n > 0 {
				m.logger.Info(fmt.Sprintf("reaped %d idle grid sessions, %d left", n, m.SessionCount()))
			}
		}
	}
}

// SessionCount returns the number of live sessions.
func (m *GridSessionManager) SessionCount() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.sessions)
}

func (m *GridSessionManager) atLimit(owner uuid.UUID) bool {
	m.RLock()
	defer m.RUnlock()
	return m.ownerSessions[owner] >= m.maxSessionsPerUser
}

func (m *GridSessionManager) session(owner, id uuid.UUID) (*gridSession, error) {
	m.RLock()
	defer m.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.owner != owner {
		return nil, ErrForbidden
	}
	return s, nil
}

// remove must be called with m locked.
func (m *GridSessionManager) remove(s *gridSession) {
	delete(m.sessions, s.id)
	m.ownerSessions[s.owner]--
	if m.ownerSessions[s.owner] <= 0 {
		delete(m.ownerSessions, s.owner)
	}
}

// edit applies change to a copy of the session's grid. The copy replaces the
// grid only once its search succeeds, so a failed request leaves the session as it was.
func (m *GridSessionManager) edit(ctx context.Context, owner, id uuid.UUID, change func(*grid.Grid) (bool, error)) (dmn.GridSnapshot, error) {
	s, err := m.session(owner, id)
	if err != nil {
		return dmn.GridSnapshot{}, err
	}

	s.Lock()
	defer s.Unlock()

	next := s.grid.Clone()
	applied, err := change(next)
	if err != nil {
		return dmn.GridSnapshot{}, err
	}
	if applied {
		result, err := m.search(ctx, next)
		if err != nil {
			return dmn.GridSnapshot{}, err
		}
		s.grid, s.result = next, result
	}

	s.lastUsed = m.now()
	return m.snapshot(s, applied), nil
}

func (m *GridSessionManager) search(ctx context.Context, g *grid.Grid) (pathsearch.Result, error) {
	if m.cache == nil {
		return pathsearch.SearchContext(ctx, g)
	}

	var searchErr error
	result, err := m.cache.GetOrCompute(ctx, g.Fingerprint(), func() (pathsearch.Result, error) {
		r, err := pathsearch.SearchContext(ctx, g)
		searchErr = err
		return r, err
	})
	if searchErr != nil {
		return pathsearch.Result{}, searchErr
	}
	if err != nil {
		m.logger.Warning(fmt.Sprintf("result cache unavailable, searching directly: %s", err))
		return pathsearch.SearchContext(ctx, g)
	}
	return result, nil
}

func (m *GridSessionManager) build(spec dmn.GridSpec) (*grid.Grid, error) {
	if spec.Rows > m.maxDimension || spec.Cols > m.maxDimension {
		return nil, fmt.Errorf("%dx%d: %w", spec.Rows, spec.Cols, ErrGridTooLarge)
	}

	g, err := grid.New(spec.Rows, spec.Cols, spec.Start, spec.End)
	if err != nil {
		return nil, err
	}

	obstacles := spec.Obstacles
	if spec.Maze {
		obstacles, err = maze.Walls(spec.Rows, spec.Cols, rand.New(rand.NewSource(spec.Seed)))
		if err != nil {
			return nil, err
		}
	}
	for _, c := range obstacles {
		if !g.InBound(c) {
			return nil, fmt.Errorf("obstacle %s: %w", c, ErrInvalidCoordinate)
		}
	}
	g.SetObstacles(obstacles)

	return g, nil
}

func (m *GridSessionManager) snapshot(s *gridSession, applied bool) dmn.GridSnapshot {
	return dmn.GridSnapshot{
		ID:        s.id,
		Owner:     s.owner,
		Rows:      s.grid.Rows(),
		Cols:      s.grid.Cols(),
		Start:     s.grid.Start(),
		End:       s.grid.End(),
		Obstacles: s.grid.Obstacles(),
		Result:    s.result,
		Applied:   applied,
		UpdatedAt: s.lastUsed,
	}
}
