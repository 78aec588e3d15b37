package verifier

import (
	"context"

	"github.com/capforge/capsolve/pkg/capkit"
)

// RedeemVerifierService defines verification methods
type RedeemVerifierService interface {
	// VerifyRedeem checks a serialized redeem payload against the
	// batch shape it claims to answer.
	VerifyRedeem(ctx context.Context, raw []byte, params capkit.ParamSpec) (*VerificationResult, error)
	// VerifySolutions checks an already-decoded token and nonce list.
	VerifySolutions(ctx context.Context, token string, nonces []uint64, params capkit.ParamSpec) (*VerificationResult, error)
}

// SolutionError represents a redeem validation error or warning
type SolutionError struct {
	Field    string
	Expected string
	Actual   string
	Message  string
}

// VerificationResult holds the outcome of redeem verification
type VerificationResult struct {
	Valid    bool
	Token    string
	Digests  []string
	Errors   []SolutionError
	Warnings []SolutionError
}

func (r *VerificationResult) IsValid() bool     { return r.Valid && len(r.Errors) == 0 }
func (r *VerificationResult) HasWarnings() bool { return len(r.Warnings) > 0 }
func (r *VerificationResult) Summary() string {
	if !r.IsValid() {
		return "invalid: check errors"
	}
	if r.HasWarnings() {
		return "valid with warnings"
	}
	return "valid"
}
