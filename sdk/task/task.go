// Package task runs solve batches asynchronously for SDK clients:
// each batch becomes a tracked task with lifecycle events and live
// progress, executed on the embedded proof-of-work engine.
package task

import (
	"context"

	"github.com/capforge/capsolve/sdk/event"
	"github.com/capforge/capsolve/sdk/log"
)

// EventCallback is a function that processes events from tasks
type EventCallback func(ctx context.Context, e event.Event)

// Task is the interface that all task types must implement
type Task interface {
	Run(ctx context.Context) error
}

// BaseTask contains common fields and methods for all task types
type BaseTask struct {
	TaskID   string
	TaskType TaskType

	onEvent EventCallback
	logger  log.Logger
}

// emitEvent creates and sends an event with the specified type and data
func (t *BaseTask) emitEvent(ctx context.Context, eventType event.EventType, data event.EventData) {
	if t.onEvent != nil {
		e := event.NewEvent(eventType, t.TaskID, string(t.TaskType), data)
		t.onEvent(ctx, e)
	}
}

// LogEvent logs through the task's logger and emits the matching event
func (t *BaseTask) LogEvent(ctx context.Context, evt event.EventType, msg string, additionalInfo event.EventData) {
	kvs := []interface{}{
		"taskID", t.TaskID,
		"taskType", t.TaskType,
	}
	for k, v := range additionalInfo {
		kvs = append(kvs, string(k), v)
	}

	t.logger.Info(ctx, msg, kvs...)
	t.emitEvent(ctx, evt, additionalInfo)
}
