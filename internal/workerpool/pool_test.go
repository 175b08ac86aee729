package workerpool

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mterrors "github.com/standardbeagle/mtsearch/internal/errors"
	"github.com/standardbeagle/mtsearch/testhelpers"
)

// newTestPool builds a Pool, registering cleanup that closes it and then
// verifies Close actually joined every worker goroutine.
func newTestPool(t *testing.T, workers int) *Pool {
	t.Helper()
	p := New(workers)
	t.Cleanup(func() { testhelpers.AssertNoLeaks(t) })
	t.Cleanup(p.Close)
	return p
}

func TestEnqueueReturnsValue(t *testing.T) {
	p := newTestPool(t, 4)

	f, err := Enqueue(p, func() (int, error) { return 42, nil })
	require.NoError(t, err)

	v, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestEnqueuePropagatesError(t *testing.T) {
	p := newTestPool(t, 2)

	boom := errors.New("boom")
	f, err := Enqueue(p, func() (int, error) { return 0, boom })
	require.NoError(t, err)

	_, err = f.Get()
	assert.Equal(t, boom, err)
}

func TestEnqueueCapturesPanic(t *testing.T) {
	p := newTestPool(t, 2)

	f, err := Enqueue(p, func() (int, error) {
		panic("kaboom")
	})
	require.NoError(t, err)

	_, err = f.Get()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestWaitBlocksUntilAllTasksComplete(t *testing.T) {
	p := newTestPool(t, 4)

	var count int64
	for i := 0; i < 100; i++ {
		err := p.Go(func() error {
			atomic.AddInt64(&count, 1)
			return nil
		})
		require.NoError(t, err)
	}
	p.Wait()

	assert.Equal(t, int64(100), atomic.LoadInt64(&count))
}

func TestCloseRejectsNewTasks(t *testing.T) {
	p := newTestPool(t, 2)
	p.Close()

	_, err := Enqueue(p, func() (int, error) { return 1, nil })
	require.Error(t, err)

	var perr *mterrors.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, mterrors.KindPoolStopped, perr.Kind)
}

func TestCloseDrainsQueueBeforeReturning(t *testing.T) {
	p := newTestPool(t, 1)

	var ran int64
	for i := 0; i < 20; i++ {
		_ = p.Go(func() error {
			time.Sleep(time.Millisecond)
			atomic.AddInt64(&ran, 1)
			return nil
		})
	}
	p.Close()

	assert.Equal(t, int64(20), atomic.LoadInt64(&ran))
}

func TestCloseIsIdempotent(t *testing.T) {
	p := newTestPool(t, 2)
	p.Close()
	p.Close()
}

func TestNewClampsWorkerCountToOne(t *testing.T) {
	p := newTestPool(t, 0)

	f, err := Enqueue(p, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	v, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestManyWorkersConcurrentFanOut(t *testing.T) {
	p := newTestPool(t, 16)

	futures := make([]*Future[int], 0, 200)
	for i := 0; i < 200; i++ {
		i := i
		f, err := Enqueue(p, func() (int, error) { return i * i, nil })
		require.NoError(t, err)
		futures = append(futures, f)
	}

	for i, f := range futures {
		v, err := f.Get()
		require.NoError(t, err)
		assert.Equal(t, i*i, v)
	}
}
