package task_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/capforge/capsolve/pkg/capkit"
	"github.com/capforge/capsolve/sdk/config"
	"github.com/capforge/capsolve/sdk/event"
	"github.com/capforge/capsolve/sdk/log"
	"github.com/capforge/capsolve/sdk/task"
	"github.com/capforge/capsolve/sdk/task/mocks"
)

func newTestManager(t *testing.T, cfg config.Config) task.Manager {
	t.Helper()
	mgr, err := task.NewManager(context.Background(), cfg, log.NewNoopLogger(), nil)
	require.NoError(t, err)
	require.NotNil(t, mgr)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = mgr.Close(ctx)
	})
	return mgr
}

// TestCreateSolveTask exercises the Manager contract through the
// generated mock.
func TestCreateSolveTask(t *testing.T) {
	params := capkit.ParamSpec{Count: 3, SaltLength: 8, Difficulty: 2}

	testCases := []struct {
		name      string
		token     string
		mockSetup func(*gomock.Controller) *mocks.MockManager
		wantErr   bool
		errType   error
		wantID    string
	}{
		{
			name:  "Success case",
			token: "golden-token",
			mockSetup: func(ctrl *gomock.Controller) *mocks.MockManager {
				mockManager := mocks.NewMockManager(ctrl)
				mockManager.EXPECT().
					CreateSolveTask(gomock.Any(), "golden-token", params).
					Return("task123", nil)
				return mockManager
			},
			wantID: "task123",
		},
		{
			name:  "Manager closed",
			token: "golden-token",
			mockSetup: func(ctrl *gomock.Controller) *mocks.MockManager {
				mockManager := mocks.NewMockManager(ctrl)
				mockManager.EXPECT().
					CreateSolveTask(gomock.Any(), "golden-token", params).
					Return("", task.ErrManagerClosed)
				return mockManager
			},
			wantErr: true,
			errType: task.ErrManagerClosed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockManager := tc.mockSetup(ctrl)
			taskID, err := mockManager.CreateSolveTask(context.Background(), tc.token, params)

			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.errType)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.wantID, taskID)
			}
		})
	}
}

func TestManager_SolveLifecycle(t *testing.T) {
	mgr := newTestManager(t, config.Config{
		Solver: config.SolverConfig{Workers: 2},
	})

	completed := make(chan event.Event, 1)
	mgr.SubscribeToEvents(event.TaskCompleted, func(e event.Event) {
		select {
		case completed <- e:
		default:
		}
	})
	var solvedEvents int64
	mgr.SubscribeToEvents(event.ChallengeSolved, func(e event.Event) {
		atomic.AddInt64(&solvedEvents, 1)
	})

	ctx := context.Background()
	taskID, err := mgr.CreateSolveTask(ctx, "golden-token", capkit.ParamSpec{Count: 3, SaltLength: 8, Difficulty: 2})
	require.NoError(t, err)
	require.NotEmpty(t, taskID)

	var done event.Event
	select {
	case done = <-completed:
	case <-time.After(30 * time.Second):
		t.Fatal("timed out waiting for task.completed")
	}
	assert.Equal(t, taskID, done.TaskID)
	assert.Equal(t, string(task.TaskTypeSolve), done.TaskType)
	assert.Equal(t,
		`{"token":"golden-token","solutions":[128,85,311]}`,
		done.Data[event.KeyPayload])

	require.Eventually(t, func() bool {
		entry, ok := mgr.GetTask(ctx, taskID)
		return ok && entry.Status == task.StatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	entry, ok := mgr.GetTask(ctx, taskID)
	require.True(t, ok)
	require.NotNil(t, entry.Result)
	assert.Equal(t, []uint64{128, 85, 311}, entry.Result.Nonces())
	assert.Equal(t, 3, entry.Solved)
	assert.Equal(t, 3, entry.Total)
	assert.NotZero(t, entry.Attempts)
	assert.Empty(t, entry.Error)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&solvedEvents) == 3
	}, 5*time.Second, 10*time.Millisecond)
}

func TestManager_CancelTask(t *testing.T) {
	mgr := newTestManager(t, config.Config{
		Solver: config.SolverConfig{Workers: 1, MaxAttempts: 1 << 40},
	})

	cancelled := make(chan event.Event, 1)
	mgr.SubscribeToEvents(event.TaskCancelled, func(e event.Event) {
		select {
		case cancelled <- e:
		default:
		}
	})
	var progressEvents int64
	mgr.SubscribeToEvents(event.TaskProgress, func(e event.Event) {
		atomic.AddInt64(&progressEvents, 1)
	})

	ctx := context.Background()
	// Difficulty 12 does not finish in test time; the ceiling is lifted
	// so the only way out is cancellation.
	taskID, err := mgr.CreateSolveTask(ctx, "cancel-me", capkit.ParamSpec{Count: 2, SaltLength: 16, Difficulty: 12})
	require.NoError(t, err)

	time.Sleep(300 * time.Millisecond)
	require.True(t, mgr.CancelTask(ctx, taskID))

	select {
	case e := <-cancelled:
		assert.Equal(t, taskID, e.TaskID)
		assert.NotEmpty(t, e.Data[event.KeyError])
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for task.cancelled")
	}

	require.Eventually(t, func() bool {
		entry, ok := mgr.GetTask(ctx, taskID)
		return ok && entry.Status == task.StatusCancelled
	}, 5*time.Second, 10*time.Millisecond)

	entry, _ := mgr.GetTask(ctx, taskID)
	assert.Nil(t, entry.Result)
	assert.NotEmpty(t, entry.Error)
	assert.GreaterOrEqual(t, atomic.LoadInt64(&progressEvents), int64(1))

	assert.False(t, mgr.CancelTask(ctx, "no-such-task"))
}

func TestManager_InvalidParamsFailTask(t *testing.T) {
	mgr := newTestManager(t, config.Config{})

	failed := make(chan event.Event, 1)
	mgr.SubscribeToEvents(event.TaskFailed, func(e event.Event) {
		select {
		case failed <- e:
		default:
		}
	})

	ctx := context.Background()
	taskID, err := mgr.CreateSolveTask(ctx, "bad-batch", capkit.ParamSpec{Count: -1, SaltLength: 8, Difficulty: 2})
	require.NoError(t, err)

	select {
	case e := <-failed:
		assert.Equal(t, taskID, e.TaskID)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for task.failed")
	}

	require.Eventually(t, func() bool {
		entry, ok := mgr.GetTask(ctx, taskID)
		return ok && entry.Status == task.StatusFailed
	}, 5*time.Second, 10*time.Millisecond)

	entry, _ := mgr.GetTask(ctx, taskID)
	assert.Contains(t, entry.Error, "must not be negative")
}

func TestManager_GetTaskUnknown(t *testing.T) {
	mgr := newTestManager(t, config.Config{})

	entry, ok := mgr.GetTask(context.Background(), "missing")
	assert.False(t, ok)
	assert.Nil(t, entry)
}

func TestManager_CloseRejectsNewTasks(t *testing.T) {
	mgr, err := task.NewManager(context.Background(), config.Config{}, log.NewNoopLogger(), nil)
	require.NoError(t, err)

	require.NoError(t, mgr.Close(context.Background()))

	_, err = mgr.CreateSolveTask(context.Background(), "late", capkit.ParamSpec{Count: 1, SaltLength: 8, Difficulty: 1})
	assert.ErrorIs(t, err, task.ErrManagerClosed)
}
