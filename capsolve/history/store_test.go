package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capforge/capsolve/capsolve/solver"
	"github.com/capforge/capsolve/pkg/capkit"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), SQLiteFilename))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func goldenRecord(batchID string, createdAt time.Time) solver.BatchRecord {
	return solver.BatchRecord{
		BatchID:   batchID,
		TaskID:    "task-" + batchID,
		Token:     "golden-token",
		Params:    capkit.ParamSpec{Count: 3, SaltLength: 8, Difficulty: 2},
		Status:    solver.BatchStatusSolved,
		Attempts:  525,
		ElapsedMS: 12,
		Payload:   []byte(`{"token":"golden-token","solutions":[128,85,311]}`),
		Compact:   "0:128:00aa\n1:85:00bb\n2:311:00cc",
		CreatedAt: createdAt,
	}
}

func TestRecordAndGetBatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := goldenRecord("b-1", time.Now().UTC())
	require.NoError(t, store.RecordBatch(ctx, rec))

	row, ok, err := store.GetBatch("b-1")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, rec.TaskID, row.TaskID)
	assert.Equal(t, rec.Token, row.Token)
	assert.Equal(t, rec.Params, row.Params)
	assert.Equal(t, rec.Status, row.Status)
	assert.Equal(t, rec.Attempts, row.Attempts)
	// payload must come back decompressed and intact
	assert.Equal(t, string(rec.Payload), string(row.Payload))
	assert.Equal(t, rec.Compact, row.Compact)
}

func TestGetBatch_Missing(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.GetBatch("no-such-batch")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecordBatch_UpsertSameID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := goldenRecord("b-1", time.Now().UTC())
	rec.Status = solver.BatchStatusCancelled
	rec.Payload = nil
	rec.Compact = ""
	require.NoError(t, store.RecordBatch(ctx, rec))

	rec.Status = solver.BatchStatusSolved
	rec.Payload = []byte(`{"token":"golden-token","solutions":[128,85,311]}`)
	require.NoError(t, store.RecordBatch(ctx, rec))

	row, ok, err := store.GetBatch("b-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, solver.BatchStatusSolved, row.Status)
	assert.NotEmpty(t, row.Payload)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats[solver.BatchStatusSolved], "upsert must not duplicate rows")
}

func TestRecordBatch_RequiresBatchID(t *testing.T) {
	store := newTestStore(t)

	err := store.RecordBatch(context.Background(), solver.BatchRecord{})
	require.Error(t, err)
}

func TestListBatches_OrderAndFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	oldest := goldenRecord("b-old", now.Add(-2*time.Hour))
	failed := goldenRecord("b-failed", now.Add(-time.Hour))
	failed.Status = solver.BatchStatusFailed
	failed.Payload = nil
	newest := goldenRecord("b-new", now)

	for _, rec := range []solver.BatchRecord{oldest, failed, newest} {
		require.NoError(t, store.RecordBatch(ctx, rec))
	}

	all, err := store.ListBatches("", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "b-new", all[0].BatchID)
	assert.Equal(t, "b-failed", all[1].BatchID)
	assert.Equal(t, "b-old", all[2].BatchID)

	solved, err := store.ListBatches(solver.BatchStatusSolved, 0)
	require.NoError(t, err)
	require.Len(t, solved, 2)

	limited, err := store.ListBatches("", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "b-new", limited[0].BatchID)
}

func TestPrune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.RecordBatch(ctx, goldenRecord("b-ancient", now.Add(-48*time.Hour))))
	require.NoError(t, store.RecordBatch(ctx, goldenRecord("b-recent", now)))

	pruned, err := store.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	_, ok, err := store.GetBatch("b-ancient")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.GetBatch("b-recent")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRecordBatch_CancelledBatchReachesStore(t *testing.T) {
	store := newTestStore(t)
	svc := solver.NewSolveService(solver.Config{Workers: 2}, nil, store)

	// difficulty 12 does not finish in test time; the batch ends by
	// cancellation, and its row must land despite the dead context
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	_, err := svc.Solve(ctx, &solver.SolveRequest{
		Token:  "cancel-me",
		Params: capkit.ParamSpec{Count: 2, SaltLength: 8, Difficulty: 12},
	})
	require.Error(t, err)

	rows, err := store.ListBatches(solver.BatchStatusCancelled, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "cancel-me", rows[0].Token)
	assert.Empty(t, rows[0].Payload)
}

func TestStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	solved := goldenRecord("b-1", now)
	cancelled := goldenRecord("b-2", now)
	cancelled.Status = solver.BatchStatusCancelled
	cancelled.Payload = nil

	require.NoError(t, store.RecordBatch(ctx, solved))
	require.NoError(t, store.RecordBatch(ctx, cancelled))

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats[solver.BatchStatusSolved])
	assert.Equal(t, int64(1), stats[solver.BatchStatusCancelled])
}
