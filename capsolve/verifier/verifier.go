// Package verifier is the checking counterpart of the solver: it
// recomputes the challenge set for a token and validates a submitted
// nonce list against it, with a TTL guard against token replay.
package verifier

import (
	"context"
	"fmt"
	"time"

	ristretto "github.com/dgraph-io/ristretto/v2"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/capforge/capsolve/pkg/capkit"
	"github.com/capforge/capsolve/pkg/logtrace"
)

const (
	// TinyLFU counters, ~10x the expected number of live challenge
	// sets.
	cacheNumCounters = 100_000
	cacheBufferItems = 64
	cacheTTL         = time.Hour

	DefaultReplayTTL  = 10 * time.Minute
	DefaultCacheBytes = 16 << 20
)

type RedeemVerifier struct {
	replayTTL time.Duration

	// challengeCache memoizes expanded challenge sets; cost is the
	// total salt bytes of a set.
	challengeCache *ristretto.Cache[string, []capkit.Challenge]
	redeemed       *gocache.Cache
	sf             singleflight.Group
}

// NewRedeemVerifier builds a verifier. replayTTL bounds how long a
// redeemed token stays burned; cacheBytes caps the challenge cache.
// Zero values fall back to the defaults.
func NewRedeemVerifier(replayTTL time.Duration, cacheBytes int64) RedeemVerifierService {
	if replayTTL <= 0 {
		replayTTL = DefaultReplayTTL
	}
	if cacheBytes <= 0 {
		cacheBytes = DefaultCacheBytes
	}
	challengeCache, _ := ristretto.NewCache(&ristretto.Config[string, []capkit.Challenge]{
		NumCounters: cacheNumCounters,
		MaxCost:     cacheBytes,
		BufferItems: cacheBufferItems,
	})
	return &RedeemVerifier{
		replayTTL:      replayTTL,
		challengeCache: challengeCache,
		redeemed:       gocache.New(replayTTL, 2*replayTTL),
	}
}

func (rv *RedeemVerifier) VerifyRedeem(ctx context.Context, raw []byte, params capkit.ParamSpec) (*VerificationResult, error) {
	result := &VerificationResult{Valid: true, Errors: []SolutionError{}, Warnings: []SolutionError{}}

	payload, err := capkit.DecodeRedeemPayload(raw)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, SolutionError{
			Field:   "payload",
			Actual:  "undecodable",
			Message: fmt.Sprintf("failed to decode redeem payload: %v", err),
		})
		return result, nil
	}
	return rv.verify(ctx, payload.Token, payload.Solutions, params, result)
}

func (rv *RedeemVerifier) VerifySolutions(ctx context.Context, token string, nonces []uint64, params capkit.ParamSpec) (*VerificationResult, error) {
	result := &VerificationResult{Valid: true, Errors: []SolutionError{}, Warnings: []SolutionError{}}
	return rv.verify(ctx, token, nonces, params, result)
}

func (rv *RedeemVerifier) verify(ctx context.Context, token string, nonces []uint64, params capkit.ParamSpec, result *VerificationResult) (*VerificationResult, error) {
	result.Token = token
	logtrace.Debug(ctx, "Starting redeem verification", logtrace.Fields{
		logtrace.FieldModule:         "verifier",
		logtrace.FieldToken:          token,
		logtrace.FieldChallengeCount: params.Count,
		logtrace.FieldDifficulty:     params.Difficulty,
	})

	rv.checkShapeWarnings(result, params)
	if !rv.checkSolutionCount(result, nonces, params) {
		return result, nil
	}

	rv.checkDigests(result, rv.challengesFor(token, params), nonces)

	// Burn the token only on a fully valid redeem; a failed attempt
	// must not lock the caller out of retrying.
	if result.IsValid() {
		rv.checkReplay(result, token)
	}

	logtrace.Debug(ctx, "Redeem verification completed", logtrace.Fields{
		logtrace.FieldModule: "verifier",
		"valid":              result.IsValid(),
		"errors":             len(result.Errors),
		"warnings":           len(result.Warnings),
	})
	return result, nil
}

func (rv *RedeemVerifier) checkShapeWarnings(result *VerificationResult, params capkit.ParamSpec) {
	if params.Count == 0 {
		result.Warnings = append(result.Warnings, SolutionError{
			Field:   "count",
			Actual:  "0",
			Message: "empty batch: redeem carries no proof of work",
		})
	}
	if params.Difficulty <= 0 && params.Count > 0 {
		result.Warnings = append(result.Warnings, SolutionError{
			Field:   "difficulty",
			Actual:  fmt.Sprintf("%d", params.Difficulty),
			Message: "difficulty accepts every nonce: redeem carries no proof of work",
		})
	}
}

func (rv *RedeemVerifier) checkSolutionCount(result *VerificationResult, nonces []uint64, params capkit.ParamSpec) bool {
	want := params.Count
	if want < 0 {
		want = 0
	}
	if len(nonces) == want {
		return true
	}
	result.Valid = false
	result.Errors = append(result.Errors, SolutionError{
		Field:    "solutions",
		Expected: fmt.Sprintf("%d", want),
		Actual:   fmt.Sprintf("%d", len(nonces)),
		Message:  fmt.Sprintf("payload carries %d nonces for %d challenges", len(nonces), want),
	})
	return false
}

// challengesFor returns the expanded challenge set for (token,
// params), memoized. Concurrent requests for the same key share one
// expansion.
func (rv *RedeemVerifier) challengesFor(token string, params capkit.ParamSpec) []capkit.Challenge {
	key := fmt.Sprintf("%d:%d:%d:%s", params.Count, params.SaltLength, params.Difficulty, token)
	if rv.challengeCache != nil {
		if val, ok := rv.challengeCache.Get(key); ok && val != nil {
			return val
		}
	}

	res, _, _ := rv.sf.Do(key, func() (any, error) {
		// Double-check cache inside singleflight window
		if rv.challengeCache != nil {
			if val, ok := rv.challengeCache.Get(key); ok && val != nil {
				return val, nil
			}
		}
		challenges := capkit.ExpandChallenges(capkit.Seed(token), params)
		if rv.challengeCache != nil {
			cost := int64(params.Count*params.SaltLength) + 1
			rv.challengeCache.SetWithTTL(key, challenges, cost, cacheTTL)
		}
		return challenges, nil
	})
	challenges, _ := res.([]capkit.Challenge)
	if challenges == nil {
		challenges = []capkit.Challenge{}
	}
	return challenges
}

func (rv *RedeemVerifier) checkDigests(result *VerificationResult, challenges []capkit.Challenge, nonces []uint64) {
	digests := make([]string, len(challenges))
	for i, ch := range challenges {
		digest, ok := capkit.VerifyNonce(ch, nonces[i])
		digests[i] = digest
		if ok {
			continue
		}
		result.Valid = false
		result.Errors = append(result.Errors, SolutionError{
			Field:    fmt.Sprintf("solutions[%d]", i),
			Expected: fmt.Sprintf("%d leading zero hex chars", ch.Difficulty),
			Actual:   digest,
			Message:  fmt.Sprintf("nonce %d does not meet the difficulty for challenge %d", nonces[i], i),
		})
	}
	result.Digests = digests
}

func (rv *RedeemVerifier) checkReplay(result *VerificationResult, token string) {
	if rv.redeemed == nil {
		return
	}
	if err := rv.redeemed.Add(token, time.Now(), rv.replayTTL); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, SolutionError{
			Field:   "token",
			Actual:  "replayed",
			Message: fmt.Sprintf("token already redeemed within the last %s", rv.replayTTL),
		})
	}
}
