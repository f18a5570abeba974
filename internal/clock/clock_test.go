package clock

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func increment(last int) (int, bool) { return last + 1, true }

func TestRegister_Load(t *testing.T) {
	r := NewRegister(7, nil)
	assert.Equal(t, 7, r.Load())
}

func TestRegister_Update_CommitsAndNotifies(t *testing.T) {
	var seen []int
	r := NewRegister(0, func(v int) error {
		seen = append(seen, v)
		return nil
	})

	got, err := r.Update(increment)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.Equal(t, 1, r.Load())
	assert.Equal(t, []int{1}, seen)
}

func TestRegister_Update_NoChange(t *testing.T) {
	calls := 0
	r := NewRegister(3, func(int) error {
		calls++
		return nil
	})

	got, err := r.Update(func(last int) (int, bool) { return 100, false })
	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Equal(t, 3, r.Load())
	assert.Zero(t, calls)
}

func TestRegister_Update_HookErrorKeepsCommit(t *testing.T) {
	hookErr := errors.New("notify failed")
	r := NewRegister(0, func(int) error { return hookErr })

	got, err := r.Update(increment)
	assert.Same(t, hookErr, err)
	assert.Equal(t, 1, got)
	assert.Equal(t, 1, r.Load())

	// the lock was released
	_, err = r.Update(increment)
	assert.Same(t, hookErr, err)
	assert.Equal(t, 2, r.Load())
}

func TestRegister_Update_HookPanicReleasesLock(t *testing.T) {
	r := NewRegister(0, func(v int) error {
		if v == 1 {
			panic("boom")
		}
		return nil
	})

	assert.Panics(t, func() { _, _ = r.Update(increment) })
	assert.Equal(t, 1, r.Load())

	got, err := r.Update(increment)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestRegister_Update_HookStallsOtherCallers(t *testing.T) {
	entered := make(chan int, 2)
	unstall := make(chan struct{})
	r := NewRegister(0, func(v int) error {
		entered <- v
		<-unstall
		return nil
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = r.Update(increment)
	}()
	require.Equal(t, 1, <-entered)

	go func() {
		defer wg.Done()
		_, _ = r.Update(increment)
	}()

	// the first commit is visible while its hook is still running, and the
	// second update cannot commit until the hook returns
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, r.Load())
	assert.Empty(t, entered)

	unstall <- struct{}{}
	require.Equal(t, 2, <-entered)
	unstall <- struct{}{}
	wg.Wait()
	assert.Equal(t, 2, r.Load())
}

func TestRegister_Update_NoLostUpdates(t *testing.T) {
	const workers = 32
	const perWorker = 500

	var history []int
	r := NewRegister(0, func(v int) error {
		history = append(history, v)
		return nil
	})

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for j := 0; j < perWorker; j++ {
				if _, err := r.Update(increment); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, workers*perWorker, r.Load())
	require.Len(t, history, workers*perWorker)
	for i, v := range history {
		if v != i+1 {
			t.Fatalf("hook saw %d at position %d, want %d", v, i, i+1)
		}
	}
}

func TestArgumentError(t *testing.T) {
	cause := errors.New("bad input")
	err := error(NewArgumentError(cause, "node x"))

	assert.EqualError(t, err, "bad input: node x")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "node x", argErr.Detail)

	assert.EqualError(t, NewArgumentError(cause, ""), "bad input")
}
