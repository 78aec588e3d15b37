package solver

import "github.com/capforge/capsolve/pkg/errors"

// Failure classes for a solve batch. Callers branch on these with
// errors.Is; everything wrapped around them is detail.
var (
	// ErrInvalidInput marks a caller contract violation detected
	// before any solving work starts. The batch is rejected as a
	// whole.
	ErrInvalidInput = errors.New("invalid solve input")

	// ErrSolverFault marks an internal failure while solving. The
	// batch is aborted and no partial results are returned.
	ErrSolverFault = errors.New("solver fault")

	// ErrCancelled reports that the caller's context ended the batch
	// before completion. Not a fault: no result, no retry here.
	ErrCancelled = errors.New("solve cancelled")

	// ErrAttemptsExhausted is the fault raised when a challenge burns
	// through its attempt ceiling without an accepted digest. It
	// always travels wrapped around ErrSolverFault.
	ErrAttemptsExhausted = errors.New("attempt ceiling exhausted")
)

// Batch outcome labels shared with history persistence.
const (
	BatchStatusSolved    = "solved"
	BatchStatusFailed    = "failed"
	BatchStatusCancelled = "cancelled"
)

// StatusForError maps a Solve outcome to its batch status label.
func StatusForError(err error) string {
	switch {
	case err == nil:
		return BatchStatusSolved
	case errors.Is(err, ErrCancelled):
		return BatchStatusCancelled
	default:
		return BatchStatusFailed
	}
}
