// Package solve is the embeddable client facade: hand it a challenge
// token and batch shape, get back a task ID to watch, wait on, or
// cancel.
package solve

import (
	"context"
	"time"

	"github.com/capforge/capsolve/capsolve/solver"
	"github.com/capforge/capsolve/pkg/capkit"
	"github.com/capforge/capsolve/pkg/errors"
	"github.com/capforge/capsolve/sdk/config"
	"github.com/capforge/capsolve/sdk/event"
	"github.com/capforge/capsolve/sdk/log"
	"github.com/capforge/capsolve/sdk/task"
)

// waitPollInterval is how often WaitForResult re-checks task state.
const waitPollInterval = 50 * time.Millisecond

type Client interface {
	// StartSolve creates a background solve task for the token and
	// returns its task ID. An empty token is legal input; it seeds the
	// challenge stream at the hash offset basis.
	StartSolve(ctx context.Context, token string, params capkit.ParamSpec) (string, error)

	GetTask(ctx context.Context, taskID string) (*task.TaskEntry, bool)

	CancelTask(ctx context.Context, taskID string) bool

	// WaitForResult blocks until the task reaches a terminal state or
	// ctx is done and returns the batch result on success.
	WaitForResult(ctx context.Context, taskID string) (*solver.BatchResult, error)

	SubscribeToEvents(eventType event.EventType, handler event.Handler)

	SubscribeToAllEvents(handler event.Handler)

	Close(ctx context.Context) error
}

type ClientImpl struct {
	config      config.Config
	taskManager task.Manager
	logger      log.Logger
}

// NewClient builds the facade. logger may be nil (events and errors are
// then silent); store may be nil (batch outcomes are not persisted).
func NewClient(
	ctx context.Context,
	cfg config.Config,
	logger log.Logger,
	store solver.Recorder,
) (Client, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	taskManager, err := task.NewManager(ctx, cfg, logger, store)
	if err != nil {
		return nil, errors.Errorf("failed to create task manager: %w", err)
	}

	return &ClientImpl{
		config:      cfg,
		taskManager: taskManager,
		logger:      logger,
	}, nil
}

func (c *ClientImpl) StartSolve(ctx context.Context, token string, params capkit.ParamSpec) (string, error) {
	c.logger.Debug(ctx, "Starting solve operation",
		"token", token,
		"count", params.Count,
		"saltLength", params.SaltLength,
		"difficulty", params.Difficulty,
	)

	if params.Count < 0 {
		c.logger.Error(ctx, "Negative challenge count provided")
		return "", ErrNegativeCount
	}
	if params.Count > 0 && params.SaltLength <= 0 {
		c.logger.Error(ctx, "Invalid salt length provided")
		return "", ErrInvalidSaltLength
	}
	if params.Difficulty < 0 {
		c.logger.Error(ctx, "Negative difficulty provided")
		return "", ErrNegativeDifficulty
	}

	taskID, err := c.taskManager.CreateSolveTask(ctx, token, params)
	if err != nil {
		c.logger.Error(ctx, "Failed to create solve task", "error", err)
		return "", errors.Errorf("failed to create solve task: %w", err)
	}

	c.logger.Info(ctx, "Solve task created successfully", "taskID", taskID)
	return taskID, nil
}

func (c *ClientImpl) GetTask(ctx context.Context, taskID string) (*task.TaskEntry, bool) {
	c.logger.Debug(ctx, "Getting task", "taskID", taskID)
	entry, found := c.taskManager.GetTask(ctx, taskID)
	if !found {
		c.logger.Debug(ctx, "Task not found", "taskID", taskID)
	} else {
		c.logger.Debug(ctx, "Task found", "taskID", taskID, "status", entry.Status)
	}
	return entry, found
}

func (c *ClientImpl) CancelTask(ctx context.Context, taskID string) bool {
	return c.taskManager.CancelTask(ctx, taskID)
}

func (c *ClientImpl) WaitForResult(ctx context.Context, taskID string) (*solver.BatchResult, error) {
	ticker := time.NewTicker(waitPollInterval)
	defer ticker.Stop()

	for {
		entry, found := c.taskManager.GetTask(ctx, taskID)
		if !found {
			return nil, ErrTaskNotFound
		}
		switch entry.Status {
		case task.StatusCompleted:
			return entry.Result, nil
		case task.StatusFailed:
			return nil, errors.Errorf("solve task %s failed: %s", taskID, entry.Error)
		case task.StatusCancelled:
			return nil, errors.Errorf("solve task %s cancelled: %s", taskID, entry.Error)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// SubscribeToEvents registers a handler for specific event types
func (c *ClientImpl) SubscribeToEvents(eventType event.EventType, handler event.Handler) {
	c.taskManager.SubscribeToEvents(eventType, handler)
}

// SubscribeToAllEvents registers a handler for all events
func (c *ClientImpl) SubscribeToAllEvents(handler event.Handler) {
	c.taskManager.SubscribeToAllEvents(handler)
}

// Close winds down running tasks and the event bus.
func (c *ClientImpl) Close(ctx context.Context) error {
	return c.taskManager.Close(ctx)
}
