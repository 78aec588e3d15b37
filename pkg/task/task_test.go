package task

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"
)

func TestStartEndSnapshot(t *testing.T) {
	tr := New()

	if snap := tr.Snapshot(); len(snap) != 0 {
		t.Fatalf("expected empty snapshot, got %#v", snap)
	}

	tr.Start("solve", "batch-1")
	tr.Start("solve", "batch-2")

	ids, ok := tr.Snapshot()["solve"]
	if !ok || len(ids) != 2 {
		t.Fatalf("expected 2 running solve tasks, got %v", ids)
	}

	tr.End("solve", "batch-1")
	ids = tr.Snapshot()["solve"]
	if len(ids) != 1 {
		t.Fatalf("expected 1 running solve task, got %v", ids)
	}
	if ids[0] != "batch-2" {
		t.Fatalf("expected batch-2 to remain, got %v", ids)
	}

	// a service with no tasks left must disappear entirely
	tr.End("solve", "batch-2")
	if _, ok := tr.Snapshot()["solve"]; ok {
		t.Fatalf("expected solve removed after last task ended")
	}
}

func TestInvalidInputsAndIsolation(t *testing.T) {
	tr := New()

	tr.Start("", "batch-1")
	tr.Start("solve", "")
	tr.End("", "batch-1")
	tr.End("solve", "")
	if snap := tr.Snapshot(); len(snap) != 0 {
		t.Fatalf("expected empty snapshot for invalid inputs, got %#v", snap)
	}

	// snapshots are copies; mutating one must not reach the tracker
	tr.Start("solve", "batch-1")
	snap := tr.Snapshot()
	delete(snap, "solve")
	if _, ok := tr.Snapshot()["solve"]; !ok {
		t.Fatalf("mutating a snapshot changed tracker state")
	}
}

func TestConcurrentAccessNoPanic(t *testing.T) {
	tr := New()

	var wg sync.WaitGroup
	const writers, readers, loops = 8, 4, 1000

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < loops; i++ {
				svc := "svc" + string('A'+rune(id%3))
				tid := svc + ":batch-" + strconv.Itoa(i%5)
				tr.Start(svc, tid)
				if i%2 == 0 {
					tr.End(svc, tid)
				}
			}
		}(w)
	}
	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < loops; i++ {
				_ = tr.Snapshot()
			}
		}()
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent access test timed out")
	}
}

func TestHandleIdempotentAndWatchdog(t *testing.T) {
	tr := New()
	ctx := context.Background()

	h := Start(ctx, tr, "solve", "batch-1", 0)
	h.End(ctx)
	h.End(ctx) // second End is a no-op

	// watchdog must clear the task without an explicit End
	_ = Start(ctx, tr, "solve", "batch-2", 50*time.Millisecond)
	time.Sleep(120 * time.Millisecond)

	if ids, ok := tr.Snapshot()["solve"]; ok {
		for _, id := range ids {
			if id == "batch-2" {
				t.Fatalf("watchdog left batch-2 running: %v", ids)
			}
		}
	}
}

func TestStartUnique_PreventsDuplicates(t *testing.T) {
	tr := New()
	ctx := context.Background()

	h1, err := StartUnique(ctx, tr, "solve", "batch-1", 0)
	if err != nil {
		t.Fatalf("first StartUnique: %v", err)
	}

	if _, err := StartUnique(ctx, tr, "solve", "batch-1", 0); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	// ending releases the pair for reuse
	h1.End(ctx)
	h2, err := StartUnique(ctx, tr, "solve", "batch-1", 0)
	if err != nil {
		t.Fatalf("StartUnique after End: %v", err)
	}
	h2.End(ctx)
}
