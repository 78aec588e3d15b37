// Package task tracks live work items (solve batches, verification
// runs) inside a service for status reporting. State is in-memory only
// and lives exactly as long as the work does; there is no persistence
// and no scheduling here.
package task

import "sync"

// Tracker records which task IDs are currently running under which
// service. Implementations must be safe for concurrent use. Methods
// are non-blocking; empty arguments are ignored.
type Tracker interface {
	// TryStart marks the task as running and reports whether it was
	// newly started. False means the same (service, id) pair is
	// already in flight.
	TryStart(service, taskID string) bool
	Start(service, taskID string)
	End(service, taskID string)
	// Snapshot returns a copy of the running set, service -> task IDs.
	Snapshot() map[string][]string
}

// InMemoryTracker is the process-local Tracker used by the solve and
// verify services. Snapshots are copies, so callers can mutate them
// freely.
type InMemoryTracker struct {
	mu      sync.RWMutex
	running map[string]map[string]struct{}
}

// New creates an empty in-memory tracker.
func New() *InMemoryTracker {
	return &InMemoryTracker{running: make(map[string]map[string]struct{})}
}

func (t *InMemoryTracker) TryStart(service, taskID string) bool {
	if service == "" || taskID == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	ids, ok := t.running[service]
	if !ok {
		ids = make(map[string]struct{})
		t.running[service] = ids
	}
	if _, exists := ids[taskID]; exists {
		return false
	}
	ids[taskID] = struct{}{}
	return true
}

// Start marks a task as running. Starting the same pair twice is
// idempotent; use TryStart for single-flight guards.
func (t *InMemoryTracker) Start(service, taskID string) {
	if service == "" || taskID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	ids, ok := t.running[service]
	if !ok {
		ids = make(map[string]struct{})
		t.running[service] = ids
	}
	ids[taskID] = struct{}{}
}

// End removes a running task. Ending an unknown pair is a no-op, and a
// service with no remaining tasks disappears from snapshots.
func (t *InMemoryTracker) End(service, taskID string) {
	if service == "" || taskID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if ids, ok := t.running[service]; ok {
		delete(ids, taskID)
		if len(ids) == 0 {
			delete(t.running, service)
		}
	}
}

func (t *InMemoryTracker) Snapshot() map[string][]string {
	out := make(map[string][]string)
	t.mu.RLock()
	defer t.mu.RUnlock()
	for service, set := range t.running {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		out[service] = ids
	}
	return out
}
