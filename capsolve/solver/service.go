// Package solver turns an opaque challenge token into the ordered
// nonce list that redeems it: seed derivation, challenge expansion, a
// bounded concurrent nonce search, and assembly of the redeem payload.
// Batches are all or nothing; a failure or cancellation yields no
// partial results.
package solver

import (
	"context"
	"strconv"
	"time"

	"github.com/capforge/capsolve/pkg/capkit"
	"github.com/capforge/capsolve/pkg/errors"
	"github.com/capforge/capsolve/pkg/logtrace"
	"github.com/capforge/capsolve/pkg/task"
	"github.com/capforge/capsolve/pkg/utils"
)

const serviceName = "solve"

// Recorder persists batch outcomes. The history store implements it;
// a nil Recorder disables persistence.
type Recorder interface {
	RecordBatch(ctx context.Context, rec BatchRecord) error
}

// BatchRecord is the persistence view of one finished batch, solved or
// not.
type BatchRecord struct {
	BatchID   string
	TaskID    string
	Token     string
	Params    capkit.ParamSpec
	Status    string
	Attempts  uint64
	ElapsedMS int64
	Payload   []byte
	Compact   string
	CreatedAt time.Time
}

// SolveService coordinates batch solving for one process.
type SolveService struct {
	config   Config
	tracker  task.Tracker
	recorder Recorder
}

// NewSolveService builds the service. tracker and recorder may be nil;
// tracking and persistence are then skipped.
func NewSolveService(config Config, tracker task.Tracker, recorder Recorder) *SolveService {
	return &SolveService{
		config:   config,
		tracker:  tracker,
		recorder: recorder,
	}
}

// SolveRequest carries one batch: the token to solve and the batch
// shape. Callbacks are optional and invoked from worker goroutines.
type SolveRequest struct {
	TaskID string
	Token  string
	Params capkit.ParamSpec

	OnProgress ProgressFunc
	OnSolved   func(Solution)
}

// Solve runs a batch end to end.
// 1- Validate the request shape (reject the whole batch up front)
// 2- Derive the seed and expand the ordered challenge list
// 3- Register the batch with the task tracker
// 4- Solve all challenges through the bounded worker pool
// 5- Assemble ordered solutions into the batch result
//
// The outcome is recorded to history regardless of how the batch ends.
func (s *SolveService) Solve(ctx context.Context, req *SolveRequest) (result *BatchResult, err error) {
	started := time.Now()

	/* 1. Validate the request ----------------------------------------------------- */
	if err := validateRequest(req); err != nil {
		logtrace.Error(ctx, "Solve request rejected", logtrace.Fields{
			logtrace.FieldModule: serviceName,
			logtrace.FieldError:  err.Error(),
		})
		return nil, err
	}

	/* 2. Derive seed and expand challenges ---------------------------------------- */
	seed := capkit.Seed(req.Token)
	challenges := capkit.ExpandChallenges(seed, req.Params)
	batchID := newBatchID(req.Token)
	taskID := req.TaskID
	if taskID == "" {
		taskID = batchID
	}

	fields := logtrace.Fields{
		logtrace.FieldModule:         serviceName,
		logtrace.FieldMethod:         "Solve",
		logtrace.FieldTaskID:         taskID,
		logtrace.FieldBatchID:        batchID,
		logtrace.FieldToken:          req.Token,
		logtrace.FieldChallengeCount: req.Params.Count,
		logtrace.FieldSaltLength:     req.Params.SaltLength,
		logtrace.FieldDifficulty:     req.Params.Difficulty,
	}
	logtrace.Info(ctx, "Solve batch started", fields)

	/* 3. Track the batch ----------------------------------------------------------- */
	handle, terr := task.StartUnique(ctx, s.tracker, serviceName, taskID, 0)
	if terr != nil {
		return nil, errors.Errorf("%w: task %s: %v", ErrInvalidInput, taskID, terr)
	}
	defer handle.End(ctx)

	// Record the outcome on every path out of here.
	defer func() {
		s.record(ctx, batchID, taskID, req, result, err, time.Since(started))
	}()

	/* 4. Solve all challenges ------------------------------------------------------ */
	cfg := s.config.normalized()
	fields[logtrace.FieldWorkers] = cfg.Workers
	solutions, err := solveAll(ctx, challenges, cfg, req.OnProgress, func(sol Solution) {
		logtrace.Debug(ctx, "Challenge solved", logtrace.Fields{
			logtrace.FieldModule:         serviceName,
			logtrace.FieldTaskID:         taskID,
			logtrace.FieldChallengeIndex: sol.Index,
			logtrace.FieldNonce:          sol.Nonce,
			logtrace.FieldAttempts:       sol.Attempts,
			logtrace.FieldElapsedMS:      sol.Elapsed.Milliseconds(),
			logtrace.FieldDigestHex:      sol.Digest,
		})
		if req.OnSolved != nil {
			req.OnSolved(sol)
		}
	})
	if err != nil {
		fields[logtrace.FieldError] = err.Error()
		if errors.Is(err, ErrCancelled) {
			logtrace.Warn(ctx, "Solve batch cancelled", fields)
		} else {
			logtrace.Error(ctx, "Solve batch failed", fields)
		}
		return nil, err
	}

	/* 5. Assemble the batch result ------------------------------------------------- */
	result, err = assemble(batchID, req.Token, seed, req.Params, challenges, solutions, time.Since(started))
	if err != nil {
		fields[logtrace.FieldError] = err.Error()
		logtrace.Error(ctx, "Solve batch assembly failed", fields)
		return nil, err
	}

	fields[logtrace.FieldAttempts] = result.Attempts()
	fields[logtrace.FieldElapsedMS] = result.Elapsed.Milliseconds()
	logtrace.Info(ctx, "Solve batch completed", fields)
	return result, nil
}

func validateRequest(req *SolveRequest) error {
	if req == nil {
		return errors.Errorf("%w: nil request", ErrInvalidInput)
	}
	if req.Params.Count < 0 {
		return errors.Errorf("%w: challenge count %d must not be negative", ErrInvalidInput, req.Params.Count)
	}
	if req.Params.Count > 0 && req.Params.SaltLength <= 0 {
		return errors.Errorf("%w: salt length %d must be positive", ErrInvalidInput, req.Params.SaltLength)
	}
	if req.Params.Difficulty < 0 {
		return errors.Errorf("%w: difficulty %d must not be negative", ErrInvalidInput, req.Params.Difficulty)
	}
	return nil
}

// newBatchID derives a short, log-friendly batch identifier. Token
// plus wall clock keeps retries of the same token distinguishable.
func newBatchID(token string) string {
	return utils.ShortID([]byte(token + "|" + strconv.FormatInt(time.Now().UnixNano(), 10)))
}

// record persists the batch outcome. History failures are logged and
// swallowed: a solved batch is worth more than its audit row.
func (s *SolveService) record(ctx context.Context, batchID, taskID string, req *SolveRequest, result *BatchResult, solveErr error, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}

	// A cancelled or deadline-failed batch still gets its history row:
	// the write runs on a context detached from the batch's own, which
	// on those paths is already dead.
	ctx = context.WithoutCancel(ctx)

	rec := BatchRecord{
		BatchID:   batchID,
		TaskID:    taskID,
		Token:     req.Token,
		Params:    req.Params,
		Status:    StatusForError(solveErr),
		ElapsedMS: elapsed.Milliseconds(),
		CreatedAt: time.Now().UTC(),
	}
	if result != nil {
		rec.Attempts = result.Attempts()
		rec.Compact = result.CompactLines()
		if payload, err := result.RedeemPayload(); err == nil {
			rec.Payload = payload
		}
	}

	if err := s.recorder.RecordBatch(ctx, rec); err != nil {
		logtrace.Warn(ctx, "Failed to record batch history", logtrace.Fields{
			logtrace.FieldModule:  serviceName,
			logtrace.FieldBatchID: batchID,
			logtrace.FieldError:   err.Error(),
		})
	}
}
