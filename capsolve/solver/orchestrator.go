package solver

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/capforge/capsolve/pkg/capkit"
	"github.com/capforge/capsolve/pkg/errors"
)

// solveAll runs the challenge list through a bounded worker pool and
// returns the solutions in challenge order. The batch is all or
// nothing: the first fault cancels every in-flight sibling and the
// whole call fails.
//
// Each goroutine writes only results[i] and errs[i] for its own index,
// so no lock guards the slices; wg.Wait orders those writes before the
// reads below.
func solveAll(ctx context.Context, challenges []capkit.Challenge, cfg Config, onProgress ProgressFunc, onSolved func(Solution)) ([]Solution, error) {
	if len(challenges) == 0 {
		return []Solution{}, nil
	}

	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]Solution, len(challenges))
	errs := make([]error, len(challenges))
	var wg sync.WaitGroup
	sem := semaphore.NewWeighted(int64(cfg.Workers))

	for i, ch := range challenges {
		wg.Add(1)
		go func(i int, ch capkit.Challenge) {
			defer wg.Done()

			// Acquire fails only when a sibling already failed the batch
			// (or the caller cancelled) while this one queued.
			if err := sem.Acquire(batchCtx, 1); err != nil {
				errs[i] = errors.Errorf("%w: challenge %d: %v", ErrCancelled, ch.Index, err)
				return
			}
			defer sem.Release(1)

			sol, err := solveChallenge(batchCtx, ch, cfg.MaxAttempts, onProgress)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}
			results[i] = sol
			if onSolved != nil {
				onSolved(sol)
			}
		}(i, ch)
	}
	wg.Wait()

	// the caller ending the batch outranks whatever the workers saw
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("%w: %v", ErrCancelled, err)
	}

	// report the true fault, not the cancellations it fanned out
	var firstErr error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if firstErr == nil {
			firstErr = err
		}
		if !errors.Is(err, ErrCancelled) {
			return nil, err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
