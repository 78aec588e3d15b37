package event_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capforge/capsolve/sdk/event"
)

func TestPublish_DeliversToTypeSubscribers(t *testing.T) {
	bus := event.NewBus(nil, 4)
	defer bus.Close()

	var completed, failed int64
	bus.Subscribe(event.TaskCompleted, func(e event.Event) {
		atomic.AddInt64(&completed, 1)
	})
	bus.Subscribe(event.TaskFailed, func(e event.Event) {
		atomic.AddInt64(&failed, 1)
	})

	bus.Publish(event.NewEvent(event.TaskCompleted, "task-1", "SOLVE", nil))
	bus.Publish(event.NewEvent(event.TaskCompleted, "task-2", "SOLVE", nil))
	bus.WaitForHandlers()

	assert.Equal(t, int64(2), atomic.LoadInt64(&completed))
	assert.Equal(t, int64(0), atomic.LoadInt64(&failed))
}

func TestPublish_WildcardReceivesAll(t *testing.T) {
	bus := event.NewBus(nil, 4)
	defer bus.Close()

	var seen int64
	bus.SubscribeAll(func(e event.Event) {
		atomic.AddInt64(&seen, 1)
	})

	bus.Publish(event.NewEvent(event.TaskStarted, "task-1", "SOLVE", nil))
	bus.Publish(event.NewEvent(event.TaskProgress, "task-1", "SOLVE", nil))
	bus.Publish(event.NewEvent(event.ChallengeSolved, "task-1", "SOLVE", nil))
	bus.WaitForHandlers()

	assert.Equal(t, int64(3), atomic.LoadInt64(&seen))
}

func TestPublish_HandlersReceiveIsolatedCopies(t *testing.T) {
	bus := event.NewBus(nil, 4)
	defer bus.Close()

	bus.Subscribe(event.TaskStarted, func(e event.Event) {
		e.Data[event.KeyMessage] = "mutated"
	})

	original := event.NewEvent(event.TaskStarted, "task-1", "SOLVE", event.EventData{
		event.KeyMessage: "hello",
	})
	bus.Publish(original)
	bus.WaitForHandlers()

	assert.Equal(t, "hello", original.Data[event.KeyMessage])
}

func TestPublish_PanicDoesNotStopOtherHandlers(t *testing.T) {
	bus := event.NewBus(nil, 4)
	defer bus.Close()

	var delivered int64
	bus.Subscribe(event.TaskFailed, func(e event.Event) {
		panic("handler exploded")
	})
	bus.Subscribe(event.TaskFailed, func(e event.Event) {
		atomic.AddInt64(&delivered, 1)
	})

	require.NotPanics(t, func() {
		bus.Publish(event.NewEvent(event.TaskFailed, "task-1", "SOLVE", nil))
		bus.WaitForHandlers()
	})
	assert.Equal(t, int64(1), atomic.LoadInt64(&delivered))
}

func TestWaitForHandlers_DrainsInFlightWork(t *testing.T) {
	bus := event.NewBus(nil, 2)
	defer bus.Close()

	var done int64
	bus.Subscribe(event.TaskCompleted, func(e event.Event) {
		time.Sleep(50 * time.Millisecond)
		atomic.AddInt64(&done, 1)
	})

	bus.Publish(event.NewEvent(event.TaskCompleted, "task-1", "SOLVE", nil))
	bus.WaitForHandlers()

	assert.Equal(t, int64(1), atomic.LoadInt64(&done))
}
