package event

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/capforge/capsolve/sdk/log"
)

// Handler is a function that processes events
type Handler func(Event)

// Bus manages event subscriptions and dispatching. Handlers run on a
// bounded worker pool and receive their own copy of each event.
type Bus struct {
	subscribers      map[EventType][]Handler
	wildcardHandlers []Handler
	mu               sync.RWMutex
	logger           log.Logger
	workerPool       chan struct{}
	maxWorkers       int
}

// NewBus creates a new event bus
func NewBus(logger log.Logger, maxWorkers int) *Bus {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if maxWorkers <= 0 {
		maxWorkers = 50
	}

	return &Bus{
		subscribers: make(map[EventType][]Handler),
		logger:      logger,
		workerPool:  make(chan struct{}, maxWorkers),
		maxWorkers:  maxWorkers,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.logger.Debug(context.Background(), "Subscribing handler to event type", "eventType", eventType)
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers a handler for all event types
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.logger.Debug(context.Background(), "Subscribing handler to all event types")
	b.wildcardHandlers = append(b.wildcardHandlers, handler)
}

// Publish sends an event to all relevant subscribers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	b.logger.Debug(context.Background(), "Publishing event",
		"type", event.Type,
		"taskID", event.TaskID,
		"taskType", event.TaskType)

	for _, handler := range b.subscribers[event.Type] {
		b.safelyCallHandler(handler, event)
	}
	for _, handler := range b.wildcardHandlers {
		b.safelyCallHandler(handler, event)
	}
}

// safelyCallHandler executes a handler with panic recovery. A crashing
// subscriber must not take the publisher down with it.
func (b *Bus) safelyCallHandler(handler Handler, event Event) {
	// Acquire a worker slot
	b.workerPool <- struct{}{}

	go func() {
		defer func() {
			<-b.workerPool

			if r := recover(); r != nil {
				b.logger.Error(context.Background(),
					"Event handler panicked",
					"error", r,
					"eventType", event.Type,
					"stackTrace", string(debug.Stack()),
				)
			}
		}()

		// Handlers get a copy so they cannot race each other on Data.
		handler(copyEvent(event))
	}()
}

// copyEvent creates a deep copy of an event
func copyEvent(e Event) Event {
	copied := Event{
		Type:      e.Type,
		TaskID:    e.TaskID,
		TaskType:  e.TaskType,
		Timestamp: e.Timestamp,
		Data:      make(EventData, len(e.Data)),
	}
	for k, v := range e.Data {
		copied.Data[k] = v
	}
	return copied
}

// WaitForHandlers waits for all in-flight event handlers to complete
func (b *Bus) WaitForHandlers() {
	// Filling the pool to capacity blocks until every worker is free.
	for i := 0; i < b.maxWorkers; i++ {
		b.workerPool <- struct{}{}
	}
	for i := 0; i < b.maxWorkers; i++ {
		<-b.workerPool
	}
}

// Close releases resources used by the event bus
func (b *Bus) Close() {
	b.WaitForHandlers()
}
