package task

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/ratelimit"

	"github.com/capforge/capsolve/capsolve/solver"
	"github.com/capforge/capsolve/pkg/capkit"
	"github.com/capforge/capsolve/pkg/errors"
	"github.com/capforge/capsolve/sdk/event"
)

// SolveTask brute-forces one challenge batch and narrates its life as
// events: started, paced progress, one event per solved challenge, and
// a terminal completed/failed/cancelled event.
type SolveTask struct {
	BaseTask
	token          string
	params         capkit.ParamSpec
	svc            *solver.SolveService
	progressPerSec int

	attempts atomic.Uint64
	solved   atomic.Int64
	result   *solver.BatchResult
}

// NewSolveTask creates a new SolveTask using a BaseTask plus solve-specific parameters
func NewSolveTask(base BaseTask, token string, params capkit.ParamSpec, svc *solver.SolveService, progressPerSec int) *SolveTask {
	if progressPerSec <= 0 {
		progressPerSec = defaultProgressPerSec
	}
	return &SolveTask{
		BaseTask:       base,
		token:          token,
		params:         params,
		svc:            svc,
		progressPerSec: progressPerSec,
	}
}

// Result returns the batch result once Run has completed successfully.
func (t *SolveTask) Result() *solver.BatchResult { return t.result }

// Run executes the full solve-task lifecycle.
func (t *SolveTask) Run(ctx context.Context) error {
	t.LogEvent(ctx, event.TaskStarted, "Running solve task", event.EventData{
		event.KeyToken: t.token,
		event.KeyCount: t.params.Count,
	})

	stopProgress := t.startProgressForwarder(ctx)

	result, err := t.svc.Solve(ctx, &solver.SolveRequest{
		TaskID: t.TaskID,
		Token:  t.token,
		Params: t.params,
		OnProgress: func(attempts uint64) {
			t.attempts.Add(attempts)
		},
		OnSolved: func(sol solver.Solution) {
			t.solved.Add(1)
			t.emitEvent(ctx, event.ChallengeSolved, event.EventData{
				event.KeyChallengeIndex: sol.Index,
				event.KeyNonce:          sol.Nonce,
				event.KeyDigest:         sol.Digest,
				event.KeyAttempts:       sol.Attempts,
			})
		},
	})

	// The terminal event must be the last one out.
	stopProgress()

	if err != nil {
		if errors.Is(err, solver.ErrCancelled) {
			t.LogEvent(ctx, event.TaskCancelled, "Solve task cancelled", event.EventData{
				event.KeyError: err.Error(),
			})
		} else {
			t.LogEvent(ctx, event.TaskFailed, "Solve task failed", event.EventData{
				event.KeyError: err.Error(),
			})
		}
		return err
	}

	t.result = result
	data := event.EventData{
		event.KeyCount:          len(result.Solutions),
		event.KeyAttempts:       result.Attempts(),
		event.KeyElapsedSeconds: result.Elapsed.Seconds(),
	}
	if secs := result.Elapsed.Seconds(); secs > 0 {
		data[event.KeyThroughputHPS] = float64(result.Attempts()) / secs
	}
	if payload, perr := result.RedeemPayload(); perr == nil {
		data[event.KeyPayload] = string(payload)
	}
	t.LogEvent(ctx, event.TaskCompleted, "Solve task completed successfully", data)

	return nil
}

// startProgressForwarder emits paced task.progress heartbeats until the
// returned stop function is called. The solver moves its attempt
// counter millions of times a second; subscribers get at most
// progressPerSec snapshots of it.
func (t *SolveTask) startProgressForwarder(ctx context.Context) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup

	rl := ratelimit.New(t.progressPerSec)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			rl.Take()
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			default:
			}
			t.emitEvent(ctx, event.TaskProgress, event.EventData{
				event.KeyAttempts: t.attempts.Load(),
				event.KeySolved:   t.solved.Load(),
				event.KeyCount:    t.params.Count,
			})
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
		})
	}
}
