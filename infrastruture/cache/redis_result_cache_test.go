package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/beka-birhanu/vinom-pathfinder/grid"
	"github.com/beka-birhanu/vinom-pathfinder/pathsearch"
	"github.com/beka-birhanu/vinom-pathfinder/service/i"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ttlSeconds = 60

type fakeLogger struct {
	sync.Mutex
	warnings []string
}

func (l *fakeLogger) Info(string)        {}
func (l *fakeLogger) Warning(msg string) { l.Lock(); l.warnings = append(l.warnings, msg); l.Unlock() }
func (l *fakeLogger) Error(string)       {}

// readOnlyResults fails every write of a result while lock commands pass.
type readOnlyResults struct{}

func (readOnlyResults) DialHook(next redis.DialHook) redis.DialHook { return next }

func (readOnlyResults) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		args := cmd.Args()
		if cmd.Name() == "set" && len(args) > 1 {
			if key, ok := args[1].(string); ok && !strings.HasSuffix(key, lockSuffix) {
				err := errors.New("READONLY You can't write against a read only replica.")
				cmd.SetErr(err)
				return err
			}
		}
		return next(ctx, cmd)
	}
}

func (readOnlyResults) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func newTestCache(t *testing.T) (i.ResultCache, *miniredis.Miniredis) {
	t.Helper()
	client, mr := newTestClient(t)
	c, err := NewRedisResultCache(client, ttlSeconds, &fakeLogger{})
	require.NoError(t, err)
	return c, mr
}

func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.Parse(`
S.#.E
..#..
.....
`)
	require.NoError(t, err)
	return g
}

type countingSearch struct {
	g     *grid.Grid
	calls atomic.Int32
	delay time.Duration
}

func (s *countingSearch) compute() (pathsearch.Result, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	return pathsearch.Search(s.g), nil
}

func TestNewRedisResultCache(t *testing.T) {
	_, err := NewRedisResultCache(nil, ttlSeconds, &fakeLogger{})
	assert.ErrorIs(t, err, ErrNilClient)

	client, _ := newTestClient(t)
	_, err = NewRedisResultCache(client, ttlSeconds, nil)
	assert.ErrorIs(t, err, ErrNilLogger)
}

func TestGetOrCompute(t *testing.T) {
	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		c, mr := newTestCache(t)
		search := &countingSearch{g: testGrid(t)}
		key := search.g.Fingerprint()

		first, err := c.GetOrCompute(ctx, key, search.compute)
		require.NoError(t, err)
		second, err := c.GetOrCompute(ctx, key, search.compute)
		require.NoError(t, err)

		assert.Equal(t, int32(1), search.calls.Load())
		assert.True(t, second.Found)
		assert.Equal(t, first.Path, second.Path)
		assert.Equal(t, first.Order, second.Order)
		assert.Equal(t, first.Visited.Size(), second.Visited.Size())
		assert.Equal(t, time.Duration(ttlSeconds)*time.Second, mr.TTL(keyPrefix+key))
	})

	t.Run("not found results round trip", func(t *testing.T) {
		c, _ := newTestCache(t)
		g, err := grid.Parse(`
S#.
##.
..E
`)
		require.NoError(t, err)
		search := &countingSearch{g: g}

		_, err = c.GetOrCompute(ctx, g.Fingerprint(), search.compute)
		require.NoError(t, err)
		cached, err := c.GetOrCompute(ctx, g.Fingerprint(), search.compute)
		require.NoError(t, err)

		assert.False(t, cached.Found)
		assert.Empty(t, cached.Path)
		assert.Equal(t, []grid.Coordinate{{Row: 0, Col: 0}}, cached.Order)
		assert.Equal(t, -1, cached.Cost())
	})

	t.Run("expired entries are recomputed", func(t *testing.T) {
		c, mr := newTestCache(t)
		search := &countingSearch{g: testGrid(t)}

		_, err := c.GetOrCompute(ctx, "k", search.compute)
		require.NoError(t, err)
		mr.FastForward(time.Duration(ttlSeconds+1) * time.Second)
		_, err = c.GetOrCompute(ctx, "k", search.compute)
		require.NoError(t, err)

		assert.Equal(t, int32(2), search.calls.Load())
	})

	t.Run("failed compute is not stored", func(t *testing.T) {
		c, mr := newTestCache(t)
		boom := errors.New("cancelled")

		_, err := c.GetOrCompute(ctx, "k", func() (pathsearch.Result, error) {
			return pathsearch.Result{}, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.False(t, mr.Exists(keyPrefix+"k"))
	})

	t.Run("corrupt entry is replaced", func(t *testing.T) {
		c, mr := newTestCache(t)
		search := &countingSearch{g: testGrid(t)}
		require.NoError(t, mr.Set(keyPrefix+"k", "{not json"))

		result, err := c.GetOrCompute(ctx, "k", search.compute)
		require.NoError(t, err)
		assert.True(t, result.Found)
		assert.Equal(t, int32(1), search.calls.Load())

		stored, err := mr.Get(keyPrefix + "k")
		require.NoError(t, err)
		assert.Contains(t, stored, `"found":true`)
	})

	t.Run("concurrent callers compute once", func(t *testing.T) {
		c, _ := newTestCache(t)
		search := &countingSearch{g: testGrid(t), delay: 50 * time.Millisecond}
		key := search.g.Fingerprint()

		var wg sync.WaitGroup
		results := make([]pathsearch.Result, 6)
		for n := range results {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				r, err := c.GetOrCompute(ctx, key, search.compute)
				assert.NoError(t, err)
				results[n] = r
			}(n)
		}
		wg.Wait()

		assert.Equal(t, int32(1), search.calls.Load())
		for _, r := range results {
			assert.Equal(t, results[0].Path, r.Path)
		}
	})

	t.Run("failed write is logged", func(t *testing.T) {
		client, mr := newTestClient(t)
		client.AddHook(readOnlyResults{})
		logger := &fakeLogger{}
		c, err := NewRedisResultCache(client, ttlSeconds, logger)
		require.NoError(t, err)
		search := &countingSearch{g: testGrid(t)}

		result, err := c.GetOrCompute(ctx, "k", search.compute)
		require.NoError(t, err)
		assert.True(t, result.Found)
		assert.False(t, mr.Exists(keyPrefix+"k"))
		require.Len(t, logger.warnings, 1)
		assert.Contains(t, logger.warnings[0], "READONLY")
	})

	t.Run("redis unavailable", func(t *testing.T) {
		c, mr := newTestCache(t)
		mr.Close()

		_, err := c.GetOrCompute(ctx, "k", (&countingSearch{g: testGrid(t)}).compute)
		assert.Error(t, err)
	})
}
