package solver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capforge/capsolve/pkg/capkit"
	"github.com/capforge/capsolve/pkg/errors"
	"github.com/capforge/capsolve/pkg/task"
)

type fakeRecorder struct {
	mu      sync.Mutex
	records []BatchRecord
	ctxErrs []error
	err     error
}

func (f *fakeRecorder) RecordBatch(ctx context.Context, rec BatchRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	return f.err
}

func (f *fakeRecorder) all() []BatchRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]BatchRecord(nil), f.records...)
}

func TestSolve_GoldenBatch(t *testing.T) {
	rec := &fakeRecorder{}
	tracker := task.New()
	svc := NewSolveService(Config{Workers: 4}, tracker, rec)

	result, err := svc.Solve(context.Background(), &SolveRequest{
		TaskID: "golden-task",
		Token:  "golden-token",
		Params: capkit.ParamSpec{Count: 3, SaltLength: 8, Difficulty: 2},
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, []uint64{128, 85, 311}, result.Nonces())
	wantSalts := []string{"a76d1f14", "957c3733", "60d1813e"}
	for i, ch := range result.Challenges {
		assert.Equal(t, wantSalts[i], ch.Salt, "challenge %d", i)
	}

	payload, err := result.RedeemPayload()
	require.NoError(t, err)
	assert.Equal(t, `{"token":"golden-token","solutions":[128,85,311]}`, string(payload))

	records := rec.all()
	require.Len(t, records, 1)
	assert.Equal(t, BatchStatusSolved, records[0].Status)
	assert.Equal(t, "golden-task", records[0].TaskID)
	assert.Equal(t, string(payload), string(records[0].Payload))
	assert.NotEmpty(t, records[0].Compact)
	assert.Equal(t, result.Attempts(), records[0].Attempts)

	// the tracker must be clean again once the batch is done
	assert.Empty(t, tracker.Snapshot())
}

func TestSolve_EmptyBatch(t *testing.T) {
	svc := NewSolveService(Config{}, nil, nil)

	result, err := svc.Solve(context.Background(), &SolveRequest{
		Token:  "empty-batch",
		Params: capkit.ParamSpec{Count: 0, SaltLength: 8, Difficulty: 2},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Solutions)

	payload, err := result.RedeemPayload()
	require.NoError(t, err)
	assert.Equal(t, `{"token":"empty-batch","solutions":[]}`, string(payload))
}

func TestSolve_InputValidation(t *testing.T) {
	rec := &fakeRecorder{}
	svc := NewSolveService(Config{}, nil, rec)

	tests := []struct {
		name string
		req  *SolveRequest
	}{
		{"nil request", nil},
		{"negative count", &SolveRequest{Token: "t", Params: capkit.ParamSpec{Count: -1, SaltLength: 8, Difficulty: 1}}},
		{"zero salt length", &SolveRequest{Token: "t", Params: capkit.ParamSpec{Count: 3, SaltLength: 0, Difficulty: 1}}},
		{"negative difficulty", &SolveRequest{Token: "t", Params: capkit.ParamSpec{Count: 3, SaltLength: 8, Difficulty: -2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Solve(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Nil(t, result)
		})
	}

	// rejected requests never reach history
	assert.Empty(t, rec.all())
}

func TestSolve_CancellationRecorded(t *testing.T) {
	rec := &fakeRecorder{}
	svc := NewSolveService(Config{Workers: 2}, nil, rec)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	result, err := svc.Solve(ctx, &SolveRequest{
		Token:  "cancel-me",
		Params: capkit.ParamSpec{Count: 2, SaltLength: 8, Difficulty: 12},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCancelled))
	assert.Nil(t, result)

	records := rec.all()
	require.Len(t, records, 1)
	assert.Equal(t, BatchStatusCancelled, records[0].Status)
	assert.Empty(t, records[0].Payload)

	// the recorder must see a live context even though the batch's own
	// is dead, or a real store would refuse the write
	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.ctxErrs, 1)
	assert.NoError(t, rec.ctxErrs[0])
}

func TestSolve_FaultRecorded(t *testing.T) {
	rec := &fakeRecorder{}
	svc := NewSolveService(Config{Workers: 2, MaxAttempts: 50}, nil, rec)

	result, err := svc.Solve(context.Background(), &SolveRequest{
		Token:  "too-hard",
		Params: capkit.ParamSpec{Count: 2, SaltLength: 8, Difficulty: 10},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSolverFault))
	assert.True(t, errors.Is(err, ErrAttemptsExhausted))
	assert.Nil(t, result, "faulted batch must not yield partial results")

	records := rec.all()
	require.Len(t, records, 1)
	assert.Equal(t, BatchStatusFailed, records[0].Status)
}

func TestSolve_DuplicateTaskRejected(t *testing.T) {
	tracker := task.New()
	tracker.Start(serviceName, "busy")
	svc := NewSolveService(Config{}, tracker, nil)

	_, err := svc.Solve(context.Background(), &SolveRequest{
		TaskID: "busy",
		Token:  "t",
		Params: capkit.ParamSpec{Count: 1, SaltLength: 8, Difficulty: 0},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestSolve_RecorderErrorDoesNotFailBatch(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk on fire")}
	svc := NewSolveService(Config{}, nil, rec)

	result, err := svc.Solve(context.Background(), &SolveRequest{
		Token:  "test-token",
		Params: capkit.ParamSpec{Count: 1, SaltLength: 8, Difficulty: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, result.Nonces())
}
