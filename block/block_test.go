package block

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/taskly/future"
)

func TestOn_ReadyImmediately(t *testing.T) {
	value, err := On(future.Value("done"))
	require.NoError(t, err)
	assert.Equal(t, "done", value)
}

func TestOn_Error(t *testing.T) {
	boom := errors.New("boom")
	_, err := On(future.Failed[int](boom))
	assert.ErrorIs(t, err, boom)
}

func TestOn_ParksUntilWoken(t *testing.T) {
	var ready atomic.Bool
	wakers := make(chan future.Waker, 1)
	f := future.Func[int](func(waker future.Waker) future.Poll[int] {
		if ready.Load() {
			return future.Ready(7)
		}
		wakers <- waker
		return future.Pending[int]()
	})

	go func() {
		waker := <-wakers
		time.Sleep(20 * time.Millisecond)
		ready.Store(true)
		waker.Wake()
	}()

	started := time.Now()
	value, err := On(f)
	require.NoError(t, err)
	assert.Equal(t, 7, value)
	assert.GreaterOrEqual(t, time.Since(started), 20*time.Millisecond)
}

func TestOn_ToleratesSpuriousWakes(t *testing.T) {
	var polls atomic.Int32
	wakers := make(chan future.Waker, 4)
	f := future.Func[int](func(waker future.Waker) future.Poll[int] {
		if polls.Add(1) >= 3 {
			return future.Ready(1)
		}
		wakers <- waker
		return future.Pending[int]()
	})

	go func() {
		for waker := range wakers {
			// double wake; the second one must not break the driver
			waker.Wake()
			waker.Wake()
		}
	}()
	defer close(wakers)

	value, err := On(f)
	require.NoError(t, err)
	assert.Equal(t, 1, value)
	assert.GreaterOrEqual(t, polls.Load(), int32(3))
}
