package task

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/capforge/capsolve/capsolve/solver"
	"github.com/capforge/capsolve/pkg/capkit"
	"github.com/capforge/capsolve/pkg/errors"
	"github.com/capforge/capsolve/sdk/config"
	"github.com/capforge/capsolve/sdk/event"
	"github.com/capforge/capsolve/sdk/log"
)

// ErrManagerClosed is returned by CreateSolveTask after Close.
var ErrManagerClosed = errors.New("task manager is closed")

// Manager owns the lifecycle of solve tasks: creation, progress
// tracking, cancellation, and event fan-out.
type Manager interface {
	CreateSolveTask(ctx context.Context, token string, params capkit.ParamSpec) (string, error)

	GetTask(ctx context.Context, taskID string) (*TaskEntry, bool)

	CancelTask(ctx context.Context, taskID string) bool

	SubscribeToEvents(eventType event.EventType, handler event.Handler)

	SubscribeToAllEvents(handler event.Handler)

	Close(ctx context.Context) error
}

type ManagerImpl struct {
	config config.Config
	logger log.Logger
	bus    *event.Bus
	solver *solver.SolveService

	// rootCtx bounds task lifetimes to the manager, not to whichever
	// caller happened to invoke CreateSolveTask.
	rootCtx context.Context

	mu      sync.RWMutex
	tasks   map[string]*TaskEntry
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
	closed  bool
}

// NewManager builds a task manager with its own embedded solve engine.
// recorder may be nil; batch outcomes are then not persisted.
func NewManager(ctx context.Context, cfg config.Config, logger log.Logger, recorder solver.Recorder) (Manager, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	svc := solver.NewSolveService(solver.Config{
		Workers:     cfg.Solver.Workers,
		MaxAttempts: cfg.Solver.MaxAttempts,
	}, nil, recorder)

	return &ManagerImpl{
		config:  cfg,
		logger:  logger,
		bus:     event.NewBus(logger, cfg.Events.MaxWorkers),
		solver:  svc,
		rootCtx: ctx,
		tasks:   make(map[string]*TaskEntry),
		cancels: make(map[string]context.CancelFunc),
	}, nil
}

// CreateSolveTask registers a new task and starts solving in the
// background. The returned task ID is immediately queryable.
func (m *ManagerImpl) CreateSolveTask(ctx context.Context, token string, params capkit.ParamSpec) (string, error) {
	taskID := uuid.New().String()
	m.logger.Debug(ctx, "Creating solve task", "taskID", taskID, "count", params.Count)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", ErrManagerClosed
	}
	now := time.Now()
	entry := &TaskEntry{
		TaskID:    taskID,
		TaskType:  TaskTypeSolve,
		Status:    StatusPending,
		Token:     token,
		Total:     max(params.Count, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.tasks[taskID] = entry
	runCtx, cancel := context.WithCancel(m.rootCtx)
	m.cancels[taskID] = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	st := NewSolveTask(BaseTask{
		TaskID:   taskID,
		TaskType: TaskTypeSolve,
		onEvent:  m.handleTaskEvent,
		logger:   m.logger,
	}, token, params, m.solver, m.config.Events.ProgressPerSec)

	go func() {
		defer m.wg.Done()
		defer cancel()
		m.setStatus(taskID, StatusRunning)
		err := st.Run(runCtx)
		m.finishTask(taskID, st.Result(), err)
	}()

	return taskID, nil
}

// GetTask returns a copy of the task entry. The embedded batch result
// is shared and must be treated as read-only.
func (m *ManagerImpl) GetTask(ctx context.Context, taskID string) (*TaskEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.tasks[taskID]
	if !ok {
		return nil, false
	}
	copied := *entry
	return &copied, true
}

// CancelTask requests cancellation of a running task. It reports
// whether a cancellable task was found; the task itself winds down
// asynchronously and emits task.cancelled when it has.
func (m *ManagerImpl) CancelTask(ctx context.Context, taskID string) bool {
	m.mu.RLock()
	cancel, ok := m.cancels[taskID]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	m.logger.Info(ctx, "Cancelling task", "taskID", taskID)
	cancel()
	return true
}

// SubscribeToEvents registers a handler for a specific event type
func (m *ManagerImpl) SubscribeToEvents(eventType event.EventType, handler event.Handler) {
	m.bus.Subscribe(eventType, handler)
}

// SubscribeToAllEvents registers a handler for all event types
func (m *ManagerImpl) SubscribeToAllEvents(handler event.Handler) {
	m.bus.SubscribeAll(handler)
}

// Close cancels running tasks, waits for them to wind down, and drains
// the event bus. Task entries stay queryable afterwards.
func (m *ManagerImpl) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	cancels := make([]context.CancelFunc, 0, len(m.cancels))
	for _, cancel := range m.cancels {
		cancels = append(cancels, cancel)
	}
	m.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	m.bus.Close()
	return nil
}

// handleTaskEvent keeps the task entry current, then fans the event out
// to subscribers.
func (m *ManagerImpl) handleTaskEvent(ctx context.Context, e event.Event) {
	m.applyEvent(e)
	m.bus.Publish(e)
}

func (m *ManagerImpl) applyEvent(e event.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.tasks[e.TaskID]
	if !ok {
		return
	}
	switch e.Type {
	case event.TaskProgress:
		if attempts, ok := e.Data[event.KeyAttempts].(uint64); ok {
			entry.Attempts = attempts
		}
		if solved, ok := e.Data[event.KeySolved].(int64); ok {
			entry.Solved = int(solved)
		}
	case event.ChallengeSolved:
		entry.Solved++
	}
	entry.UpdatedAt = time.Now()
}

func (m *ManagerImpl) setStatus(taskID string, status TaskStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.tasks[taskID]; ok && !entry.Status.Terminal() {
		entry.Status = status
		entry.UpdatedAt = time.Now()
	}
}

func (m *ManagerImpl) finishTask(taskID string, result *solver.BatchResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.tasks[taskID]
	if !ok {
		return
	}
	delete(m.cancels, taskID)
	entry.UpdatedAt = time.Now()
	switch {
	case err == nil:
		entry.Status = StatusCompleted
		entry.Result = result
		entry.Solved = len(result.Solutions)
		entry.Attempts = result.Attempts()
	case errors.Is(err, solver.ErrCancelled):
		entry.Status = StatusCancelled
		entry.Error = err.Error()
	default:
		entry.Status = StatusFailed
		entry.Error = err.Error()
	}
}
