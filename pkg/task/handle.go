package task

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/capforge/capsolve/pkg/logtrace"
)

// ErrAlreadyRunning is returned by StartUnique when the same
// (service, id) pair is already in flight.
var ErrAlreadyRunning = errors.New("task already running")

// Handle pairs a tracked task with its guaranteed End. An optional
// watchdog auto-ends the task after a timeout so an abandoned batch
// never shows as running forever in status output.
type Handle struct {
	tr      Tracker
	service string
	id      string
	stop    chan struct{}
	once    sync.Once
}

// Start begins tracking a task and returns the handle that ends it.
// A timeout of zero disables the watchdog.
func Start(ctx context.Context, tr Tracker, service, id string, timeout time.Duration) *Handle {
	if tr == nil || service == "" || id == "" {
		return &Handle{}
	}
	tr.Start(service, id)
	return newHandle(ctx, tr, service, id, timeout)
}

// StartUnique begins tracking a task only if no task with the same
// (service, id) pair is running, returning ErrAlreadyRunning
// otherwise.
func StartUnique(ctx context.Context, tr Tracker, service, id string, timeout time.Duration) (*Handle, error) {
	if tr == nil || service == "" || id == "" {
		return &Handle{}, nil
	}
	if !tr.TryStart(service, id) {
		return nil, ErrAlreadyRunning
	}
	return newHandle(ctx, tr, service, id, timeout), nil
}

func newHandle(ctx context.Context, tr Tracker, service, id string, timeout time.Duration) *Handle {
	logtrace.Info(ctx, "task started", logtrace.Fields{
		logtrace.FieldModule: service,
		logtrace.FieldTaskID: id,
	})
	h := &Handle{tr: tr, service: service, id: id, stop: make(chan struct{})}
	if timeout > 0 {
		go func() {
			select {
			case <-time.After(timeout):
				h.endWith(ctx, true)
			case <-h.stop:
			}
		}()
	}
	return h
}

// End stops tracking the task. Safe to call multiple times and on the
// zero Handle.
func (h *Handle) End(ctx context.Context) {
	h.endWith(ctx, false)
}

func (h *Handle) endWith(ctx context.Context, expired bool) {
	if h == nil || h.service == "" || h.id == "" {
		return
	}
	h.once.Do(func() {
		close(h.stop)
		if h.tr != nil {
			h.tr.End(h.service, h.id)
		}
		fields := logtrace.Fields{
			logtrace.FieldModule: h.service,
			logtrace.FieldTaskID: h.id,
		}
		if expired {
			logtrace.Warn(ctx, "task watchdog expired", fields)
		} else {
			logtrace.Info(ctx, "task ended", fields)
		}
	})
}
