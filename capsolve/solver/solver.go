package solver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/capforge/capsolve/pkg/capkit"
	"github.com/capforge/capsolve/pkg/errors"
)

// checkStride is how many nonces are tried between context checks and
// progress reports. Power of two so the check stays off the hot path.
const checkStride = 1 << 10

// ProgressFunc receives the number of attempts made since the previous
// call. The solving loop calls it inline from worker goroutines, so
// implementations must be cheap and safe for concurrent use.
type ProgressFunc func(attempts uint64)

// Solution is one solved challenge: the minimal accepted nonce, its
// digest, and how much work finding it took.
type Solution struct {
	Index    int
	Nonce    uint64
	Digest   string
	Attempts uint64
	Elapsed  time.Duration
}

// solveChallenge scans nonces upward from zero and returns the first
// accepted one, which is therefore the minimal solution. The context
// is checked once per stride; maxAttempts bounds the scan.
func solveChallenge(ctx context.Context, ch capkit.Challenge, maxAttempts uint64, onProgress ProgressFunc) (Solution, error) {
	started := time.Now()
	preimage := make([]byte, 0, len(ch.Salt)+20)
	var reported uint64

	for nonce := uint64(0); nonce < maxAttempts; nonce++ {
		if nonce > 0 && nonce%checkStride == 0 {
			if err := ctx.Err(); err != nil {
				return Solution{}, errors.Errorf("%w: challenge %d: %v", ErrCancelled, ch.Index, err)
			}
			if onProgress != nil {
				onProgress(nonce - reported)
				reported = nonce
			}
		}

		preimage = append(preimage[:0], ch.Salt...)
		preimage = capkit.AppendNonce(preimage, nonce)
		digest := sha256.Sum256(preimage)
		if capkit.AcceptDigest(digest[:], ch.Difficulty) {
			attempts := nonce + 1
			if onProgress != nil {
				onProgress(attempts - reported)
			}
			return Solution{
				Index:    ch.Index,
				Nonce:    nonce,
				Digest:   hex.EncodeToString(digest[:]),
				Attempts: attempts,
				Elapsed:  time.Since(started),
			}, nil
		}
	}

	if onProgress != nil {
		onProgress(maxAttempts - reported)
	}
	return Solution{}, errors.Errorf("%w: challenge %d: %w after %d attempts", ErrSolverFault, ch.Index, ErrAttemptsExhausted, maxAttempts)
}
