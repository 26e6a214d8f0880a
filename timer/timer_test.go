package timer

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/taskly/block"
	"github.com/viant/taskly/future"
)

func scheduledEntries() int {
	return sharedSource().scheduled.Len()
}

func TestTimer_CompletesAfterDeadline(t *testing.T) {
	started := time.Now()
	_, err := block.On(After(250 * time.Millisecond))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(started), 250*time.Millisecond)
}

func TestTimer_PastInstantCompletes(t *testing.T) {
	done := make(chan struct{})
	go func() {
		_, _ = block.On(At(time.Now().Add(-time.Second)))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer with a past instant did not complete")
	}
}

func TestTimer_ReadyStaysReady(t *testing.T) {
	timer := After(10 * time.Millisecond)
	_, err := block.On(timer)
	require.NoError(t, err)

	// polling a completed timer keeps returning ready
	assert.True(t, timer.Poll(future.Nop()).Ready)
	assert.True(t, timer.Poll(future.Nop()).Ready)
}

func TestTimer_SameInstantFiresInRegistrationOrder(t *testing.T) {
	const count = 5
	when := time.Now().Add(60 * time.Millisecond)

	var mu sync.Mutex
	var order []int
	timers := make([]*Timer, 0, count)
	for i := 0; i < count; i++ {
		i := i
		timer := At(when)
		timer.Poll(future.WakerFunc(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}))
		timers = append(timers, timer)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == count
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order, "equal instants must fire in registration order")
	for _, timer := range timers {
		assert.True(t, timer.Poll(future.Nop()).Ready)
	}
}

func TestTimer_StopWithdrawsEntry(t *testing.T) {
	baseline := scheduledEntries()

	timer := After(time.Hour)
	timer.Poll(future.Nop())
	assert.Equal(t, baseline+1, scheduledEntries())

	timer.Stop()
	assert.Equal(t, baseline, scheduledEntries())

	// stopping again is a no-op
	timer.Stop()
	assert.Equal(t, baseline, scheduledEntries())
}

func TestTimer_StopBeforeFirstPoll(t *testing.T) {
	baseline := scheduledEntries()
	timer := After(time.Hour)
	timer.Stop()
	assert.Equal(t, baseline, scheduledEntries())
}

func TestTimer_RepollKeepsSingleEntry(t *testing.T) {
	baseline := scheduledEntries()

	timer := After(time.Hour)
	timer.Poll(future.Nop())
	timer.Poll(future.Nop())
	timer.Poll(future.Nop())
	assert.Equal(t, baseline+1, scheduledEntries(), "re-polling must update the entry, not add one")

	timer.Stop()
}

func TestTimer_LastPolledWakerFires(t *testing.T) {
	baseline := scheduledEntries()
	timer := After(50 * time.Millisecond)

	var staleFired atomic.Bool
	var current sync.WaitGroup
	current.Add(1)
	timer.Poll(future.WakerFunc(func() { staleFired.Store(true) }))
	timer.Poll(future.WakerFunc(func() { current.Done() }))

	current.Wait()
	assert.False(t, staleFired.Load(), "replaced waker must not fire")
	assert.True(t, timer.Poll(future.Nop()).Ready)
	assert.Equal(t, baseline, scheduledEntries(), "fired entry must leave the schedule")
}
