package solver

import (
	"strconv"
	"strings"
	"time"

	"github.com/capforge/capsolve/pkg/capkit"
	"github.com/capforge/capsolve/pkg/errors"
)

// BatchResult is the assembled outcome of a solved batch. Solutions
// are in challenge order, so position i answers challenge i.
type BatchResult struct {
	BatchID    string
	Token      string
	Seed       uint32
	Params     capkit.ParamSpec
	Challenges []capkit.Challenge
	Solutions  []Solution
	Elapsed    time.Duration
}

// Nonces returns the ordered nonce list, the shape the redeem payload
// wants.
func (r *BatchResult) Nonces() []uint64 {
	nonces := make([]uint64, len(r.Solutions))
	for i, sol := range r.Solutions {
		nonces[i] = sol.Nonce
	}
	return nonces
}

// Attempts returns the total number of nonces tried across the batch.
func (r *BatchResult) Attempts() uint64 {
	var total uint64
	for _, sol := range r.Solutions {
		total += sol.Attempts
	}
	return total
}

// RedeemPayload serializes the JSON document submitted back to the
// verification endpoint.
func (r *BatchResult) RedeemPayload() ([]byte, error) {
	return capkit.EncodeRedeemPayload(r.Token, r.Nonces())
}

// CompactLines renders one "index:nonce:digest" line per solution,
// a grep-friendly form for logs and history dumps.
func (r *BatchResult) CompactLines() string {
	var b strings.Builder
	for i, sol := range r.Solutions {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(sol.Index))
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(sol.Nonce, 10))
		b.WriteByte(':')
		b.WriteString(sol.Digest)
	}
	return b.String()
}

// assemble builds the batch result, checking that every challenge slot
// is filled by its own solution. A hole or a misfiled index here means
// the orchestrator broke its ordering contract, which is a fault, not
// a caller error.
func assemble(batchID, token string, seed uint32, params capkit.ParamSpec, challenges []capkit.Challenge, solutions []Solution, elapsed time.Duration) (*BatchResult, error) {
	if len(solutions) != len(challenges) {
		return nil, errors.Errorf("%w: assembled %d solutions for %d challenges", ErrSolverFault, len(solutions), len(challenges))
	}
	for i, sol := range solutions {
		if sol.Index != i {
			return nil, errors.Errorf("%w: solution at slot %d carries index %d", ErrSolverFault, i, sol.Index)
		}
		if sol.Digest == "" {
			return nil, errors.Errorf("%w: slot %d has no digest", ErrSolverFault, i)
		}
	}
	return &BatchResult{
		BatchID:    batchID,
		Token:      token,
		Seed:       seed,
		Params:     params,
		Challenges: challenges,
		Solutions:  solutions,
		Elapsed:    elapsed,
	}, nil
}
