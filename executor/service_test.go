package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/taskly/block"
	"github.com/viant/taskly/event"
	"github.com/viant/taskly/future"
	"github.com/viant/taskly/policy"
	"github.com/viant/taskly/timer"
)

func newTestService(t *testing.T, options ...Option) *Service {
	t.Helper()
	s, err := New(options...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

// gatedFuture blocks its poll on gate; started is closed on first entry so
// tests know the worker is busy.
func gatedFuture(started, gate chan struct{}) future.Future[struct{}] {
	var once sync.Once
	return future.Func[struct{}](func(future.Waker) future.Poll[struct{}] {
		once.Do(func() { close(started) })
		<-gate
		return future.Ready(struct{}{})
	})
}

func TestSpawn_ReadyFuture(t *testing.T) {
	s := newTestService(t)

	handle, err := Spawn(s, future.Value(42))
	require.NoError(t, err)

	value, err := block.On(handle)
	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestSpawn_TimerDriven(t *testing.T) {
	s := newTestService(t)

	started := time.Now()
	handle, err := Spawn(s, future.Then(timer.After(50*time.Millisecond), func(struct{}) string {
		return "done"
	}))
	require.NoError(t, err)

	value, err := block.On(handle)
	require.NoError(t, err)
	assert.Equal(t, "done", value)
	assert.GreaterOrEqual(t, time.Since(started), 50*time.Millisecond)
}

func TestSpawn_FailedFuture(t *testing.T) {
	s := newTestService(t)
	boom := errors.New("boom")

	handle, err := Spawn(s, future.Failed[int](boom))
	require.NoError(t, err)

	_, err = block.On(handle)
	assert.ErrorIs(t, err, boom)
}

func TestSpawn_InvalidArguments(t *testing.T) {
	s := newTestService(t)

	_, err := Spawn[int](nil, future.Value(1))
	assert.Error(t, err)

	_, err = Spawn[int](s, nil)
	assert.Error(t, err)
}

func TestSpawn_QueueFullRejects(t *testing.T) {
	s := newTestService(t, WithQueueCapacity(1))

	started := make(chan struct{})
	gate := make(chan struct{})
	blocker, err := Spawn(s, gatedFuture(started, gate))
	require.NoError(t, err)
	<-started // the worker is now parked inside the blocker's poll

	_, err = Spawn(s, future.Value(1))
	require.NoError(t, err, "one task fits the queue")

	_, err = Spawn(s, future.Value(2))
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, 1, s.Stats().Rejected)

	close(gate)
	_, err = block.On(blocker)
	require.NoError(t, err)
}

func TestSpawnContext_WaitPolicyWaits(t *testing.T) {
	s := newTestService(t, WithQueueCapacity(1))

	started := make(chan struct{})
	gate := make(chan struct{})
	_, err := Spawn(s, gatedFuture(started, gate))
	require.NoError(t, err)
	<-started

	_, err = Spawn(s, future.Value(1))
	require.NoError(t, err)

	ctx := policy.WithPolicy(context.Background(), &policy.Policy{Mode: policy.ModeWait})
	admitted := make(chan *Handle[int], 1)
	go func() {
		handle, err := SpawnContext(ctx, s, future.Value(2))
		if err == nil {
			admitted <- handle
		}
		close(admitted)
	}()

	select {
	case <-admitted:
		t.Fatal("waiting spawn must not be admitted while the queue is full")
	case <-time.After(30 * time.Millisecond):
	}

	close(gate) // the worker drains the queue, freeing space
	handle, ok := <-admitted
	require.True(t, ok, "waiting spawn must succeed once space freed up")

	value, err := block.On(handle)
	require.NoError(t, err)
	assert.Equal(t, 2, value)
}

func TestSpawnContext_WaitPolicyHonoursContext(t *testing.T) {
	s := newTestService(t, WithQueueCapacity(1))

	started := make(chan struct{})
	gate := make(chan struct{})
	defer close(gate)
	_, err := Spawn(s, gatedFuture(started, gate))
	require.NoError(t, err)
	<-started

	_, err = Spawn(s, future.Value(1))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	ctx = policy.WithPolicy(ctx, &policy.Policy{Mode: policy.ModeWait})

	_, err = SpawnContext(ctx, s, future.Value(2))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestShutdown_FailsOutstandingHandles(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	polled := make(chan struct{})
	var once sync.Once
	handle, err := Spawn(s, future.Func[int](func(future.Waker) future.Poll[int] {
		once.Do(func() { close(polled) })
		return future.Pending[int]()
	}))
	require.NoError(t, err)

	<-polled // the worker polled the task; it is now parked without a wake-up
	assert.Equal(t, 1, s.Pending())

	require.NoError(t, s.Shutdown(context.Background()))

	_, err = block.On(handle)
	assert.ErrorIs(t, err, ErrShutdown)
	assert.Equal(t, 1, s.Stats().Abandoned)
	assert.Equal(t, 0, s.Pending())

	_, err = Spawn(s, future.Value(1))
	assert.ErrorIs(t, err, ErrShutdown, "spawn after shutdown is refused")
}

func TestShutdown_Idempotent(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	require.NoError(t, s.Shutdown(context.Background()))
	require.NoError(t, s.Shutdown(context.Background()))
}

func TestWake_AfterShutdownIsReported(t *testing.T) {
	var mu sync.Mutex
	var logged []string
	s, err := New(WithErrorLog(func(format string, args ...interface{}) {
		mu.Lock()
		logged = append(logged, fmt.Sprintf(format, args...))
		mu.Unlock()
	}))
	require.NoError(t, err)

	wakers := make(chan future.Waker, 1)
	polled := make(chan struct{})
	var once sync.Once
	_, err = Spawn(s, future.Func[int](func(waker future.Waker) future.Poll[int] {
		once.Do(func() { close(polled) })
		select {
		case wakers <- waker:
		default:
		}
		return future.Pending[int]()
	}))
	require.NoError(t, err)
	<-polled

	require.NoError(t, s.Shutdown(context.Background()))
	(<-wakers).Wake()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], "dropped wake-up")
}

func TestExecutor_StatsAndEvents(t *testing.T) {
	var mu sync.Mutex
	var kinds []event.Kind
	s := newTestService(t, WithName("pipeline"), WithListener(func(e *event.Event) {
		assert.Equal(t, "pipeline", e.Source)
		mu.Lock()
		kinds = append(kinds, e.Kind)
		mu.Unlock()
	}))

	handle, err := Spawn(s, future.Value(1))
	require.NoError(t, err)
	_, err = block.On(handle)
	require.NoError(t, err)

	handle2, err := Spawn(s, future.Failed[int](errors.New("boom")))
	require.NoError(t, err)
	_, err = block.On(handle2)
	require.Error(t, err)

	assert.Eventually(t, func() bool {
		snapshot := s.Stats()
		return snapshot.Completed == 1 && snapshot.Failed == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, s.Stats().Spawned)
	assert.Equal(t, 0, s.Stats().InFlight())

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, kinds, event.KindTaskSpawned)
	assert.Contains(t, kinds, event.KindTaskCompleted)
	assert.Contains(t, kinds, event.KindTaskFailed)
}

func TestExecutor_PublishesToEventService(t *testing.T) {
	events := event.New(event.DefaultConfig())
	defer events.Close()

	var mu sync.Mutex
	var kinds []event.Kind
	events.AddListener(func(e *event.Event) {
		mu.Lock()
		kinds = append(kinds, e.Kind)
		mu.Unlock()
	})

	s := newTestService(t, WithEvents(events))
	handle, err := Spawn(s, future.Value(1))
	require.NoError(t, err)
	_, err = block.On(handle)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(kinds) >= 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, event.KindTaskSpawned, kinds[0])
	assert.Contains(t, kinds, event.KindTaskCompleted)
}

func TestConfig_Validate(t *testing.T) {
	config := DefaultConfig()
	assert.NoError(t, config.Validate())

	config.QueueCapacity = 0
	assert.Error(t, config.Validate())

	_, err := New(WithQueueCapacity(-1))
	assert.Error(t, err)
}
