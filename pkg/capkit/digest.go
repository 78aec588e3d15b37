package capkit

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/capforge/capsolve/pkg/utils"
)

// AppendNonce appends the canonical textual form of a nonce: base-10
// ASCII digits with no sign, padding or separators. The digest
// preimage is salt || AppendNonce(nonce), so any other rendering
// produces digests the verification endpoint will reject.
func AppendNonce(dst []byte, nonce uint64) []byte {
	return strconv.AppendUint(dst, nonce, 10)
}

// SolutionDigest computes the candidate digest for a (salt, nonce)
// pair.
func SolutionDigest(salt string, nonce uint64) [sha256.Size]byte {
	preimage := make([]byte, 0, len(salt)+20)
	preimage = append(preimage, salt...)
	preimage = AppendNonce(preimage, nonce)
	return sha256.Sum256(preimage)
}

// AcceptDigest reports whether a raw digest meets the difficulty.
// Acceptance is defined on the lowercase hex rendering: the first
// difficulty characters must all be '0'. The check runs on the raw
// bytes instead of rendering, which is equivalent and keeps the hot
// solving loop free of per-attempt hex encoding.
func AcceptDigest(digest []byte, difficulty int) bool {
	return utils.HasLeadingZeroHex(digest, difficulty)
}

// VerifyNonce recomputes the digest for a challenge and nonce and
// reports whether it meets the challenge difficulty. The hex digest is
// returned either way so callers can log or persist rejected attempts.
func VerifyNonce(ch Challenge, nonce uint64) (string, bool) {
	digest := SolutionDigest(ch.Salt, nonce)
	return hex.EncodeToString(digest[:]), AcceptDigest(digest[:], ch.Difficulty)
}
