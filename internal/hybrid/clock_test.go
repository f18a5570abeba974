package hybrid

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vimeo/go-clocks/fake"
	"golang.org/x/sync/errgroup"
)

type stamp = Timestamp[int, int]

// testClock wraps a clock over ints whose physical source is a settable value.
type testClock struct {
	*Clock[int, int]
	physical atomic.Int64
	times    []stamp
}

func newTestClock(initial stamp, onNewTime func(stamp) error) *testClock {
	tc := &testClock{}
	if onNewTime == nil {
		onNewTime = func(ts stamp) error {
			tc.times = append(tc.times, ts)
			return nil
		}
	}
	tc.Clock = New(initial, 0, func() int { return int(tc.physical.Load()) }, func(l int) int { return l + 1 }, onNewTime)
	return tc
}

func (tc *testClock) setPhysical(p int) {
	tc.physical.Store(int64(p))
}

func TestClock_Tick(t *testing.T) {
	c := newTestClock(stamp{0, 0}, nil)
	assert.Equal(t, stamp{0, 0}, c.LastTime())
	assert.Empty(t, c.times)

	got, err := c.Tick()
	require.NoError(t, err)
	assert.Equal(t, stamp{0, 1}, got)
	assert.Equal(t, stamp{0, 1}, c.LastTime())

	c.setPhysical(5)
	got, err = c.Tick()
	require.NoError(t, err)
	assert.Equal(t, stamp{5, 0}, got)
	assert.Equal(t, stamp{5, 0}, c.LastTime())

	// physical time going backwards does not move the clock backwards
	c.setPhysical(4)
	got, err = c.Tick()
	require.NoError(t, err)
	assert.Equal(t, stamp{5, 1}, got)
	assert.Equal(t, stamp{5, 1}, c.LastTime())

	assert.Equal(t, []stamp{{0, 1}, {5, 0}, {5, 1}}, c.times)
}

func TestClock_Tock(t *testing.T) {
	c := newTestClock(stamp{0, 0}, nil)
	c.setPhysical(5)

	got, err := c.Tock(stamp{0, 1})
	require.NoError(t, err)
	assert.Equal(t, stamp{0, 1}, got)
	assert.Equal(t, stamp{0, 1}, c.LastTime())

	got, err = c.Tock(stamp{1, 0})
	require.NoError(t, err)
	assert.Equal(t, stamp{1, 0}, got)
	assert.Equal(t, stamp{1, 0}, c.LastTime())

	assert.Equal(t, []stamp{{0, 1}, {1, 0}}, c.times)
}

func TestClock_Tock_IgnoresOlderOrEqual(t *testing.T) {
	c := newTestClock(stamp{1, 0}, nil)
	c.setPhysical(5)

	got, err := c.Tock(stamp{0, 1})
	require.NoError(t, err)
	assert.Equal(t, stamp{1, 0}, got)

	got, err = c.Tock(stamp{1, 0})
	require.NoError(t, err)
	assert.Equal(t, stamp{1, 0}, got)
	assert.Equal(t, stamp{1, 0}, c.LastTime())
	assert.Empty(t, c.times)
}

func TestClock_HookFailure(t *testing.T) {
	hookErr := errors.New("notify failed")
	fail := func(stamp) error { return hookErr }

	t.Run("tick", func(t *testing.T) {
		c := newTestClock(stamp{0, 0}, fail)
		_, err := c.Tick()
		assert.Same(t, hookErr, err)
		assert.Equal(t, stamp{0, 1}, c.LastTime())
	})

	t.Run("tock", func(t *testing.T) {
		c := newTestClock(stamp{0, 0}, fail)
		_, err := c.Tock(stamp{5, 5})
		assert.Same(t, hookErr, err)
		assert.Equal(t, stamp{5, 5}, c.LastTime())
	})
}

func TestClock_ConcurrentTickAndTock(t *testing.T) {
	for i := 0; i < 20; i++ {
		c := newTestClock(stamp{0, 0}, func(stamp) error { return nil })

		var g errgroup.Group
		g.Go(func() error { _, err := c.Tick(); return err })
		g.Go(func() error { _, err := c.Tock(stamp{5, 5}); return err })
		require.NoError(t, g.Wait())

		// tick then tock gives (5,5), tock then tick gives (5,6)
		assert.Contains(t, []stamp{{5, 5}, {5, 6}}, c.LastTime())
	}
}

func TestClock_ConcurrentTocks(t *testing.T) {
	c := newTestClock(stamp{0, 0}, func(stamp) error { return nil })

	var g errgroup.Group
	for p := 0; p < 50; p++ {
		for l := 0; l < 10; l++ {
			p, l := p, l
			g.Go(func() error {
				_, err := c.Tock(stamp{p, l})
				return err
			})
		}
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, stamp{49, 9}, c.LastTime())
}

func TestClock_ConcurrentTicksAreUnique(t *testing.T) {
	const workers = 16
	const perWorker = 200

	var commits []stamp
	c := newTestClock(stamp{0, 0}, func(ts stamp) error {
		commits = append(commits, ts)
		return nil
	})

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < perWorker; i++ {
				if w == 0 && i%20 == 0 {
					c.setPhysical(i)
				}
				if _, err := c.Tick(); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.Len(t, commits, workers*perWorker)
	for i := 1; i < len(commits); i++ {
		if !commits[i-1].Less(commits[i]) {
			t.Fatalf("commit %d: %v not after %v", i, commits[i], commits[i-1])
		}
	}
}

func TestNewWallClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fc := fake.NewClock(start)

	var seen []Timestamp[int64, uint32]
	c := NewWallClock(Timestamp[int64, uint32]{}, fc, func(ts Timestamp[int64, uint32]) error {
		seen = append(seen, ts)
		return nil
	})

	got, err := c.Tick()
	require.NoError(t, err)
	assert.Equal(t, Timestamp[int64, uint32]{Physical: start.UnixNano(), Logical: 0}, got)

	got, err = c.Tick()
	require.NoError(t, err)
	assert.Equal(t, Timestamp[int64, uint32]{Physical: start.UnixNano(), Logical: 1}, got)

	fc.Advance(time.Millisecond)
	got, err = c.Tick()
	require.NoError(t, err)
	assert.Equal(t, Timestamp[int64, uint32]{Physical: start.Add(time.Millisecond).UnixNano(), Logical: 0}, got)

	// a peer far ahead pulls the clock forward; local ticks then count on the peer's physical time
	ahead := Timestamp[int64, uint32]{Physical: start.Add(time.Hour).UnixNano(), Logical: 3}
	got, err = c.Tock(ahead)
	require.NoError(t, err)
	assert.Equal(t, ahead, got)

	got, err = c.Tick()
	require.NoError(t, err)
	assert.Equal(t, Timestamp[int64, uint32]{Physical: ahead.Physical, Logical: 4}, got)

	assert.Len(t, seen, 5)
}

func TestUnixNano_DefaultClock(t *testing.T) {
	before := time.Now().UnixNano()
	got := UnixNano(nil)()
	assert.GreaterOrEqual(t, got, before)
}
