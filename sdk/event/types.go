package event

import (
	"time"
)

// EventType represents the type of event
type EventType string

// Task lifecycle events emitted while a solve batch runs
const (
	TaskStarted     EventType = "task.started"
	TaskProgress    EventType = "task.progress"
	ChallengeSolved EventType = "task.challenge_solved"
	TaskCompleted   EventType = "task.completed"
	TaskFailed      EventType = "task.failed"
	TaskCancelled   EventType = "task.cancelled"
)

// EventData carries the contextual payload of an event
type EventData map[EventDataKey]interface{}

// Event represents an event emitted by the system
type Event struct {
	Type      EventType // Type of event
	TaskID    string    // ID of the task that emitted the event
	TaskType  string    // Type of task (SOLVE)
	Timestamp time.Time // When the event occurred
	Data      EventData // Additional contextual data
}

func NewEvent(eventType EventType, taskID, taskType string, data EventData) Event {
	if data == nil {
		data = make(EventData)
	}

	return Event{
		Type:      eventType,
		TaskID:    taskID,
		TaskType:  taskType,
		Timestamp: time.Now(),
		Data:      data,
	}
}
