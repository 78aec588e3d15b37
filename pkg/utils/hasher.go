package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/btcsuite/btcutil/base58"
	"lukechampine.com/blake3"
)

// Sha256Hex returns the SHA-256 digest of msg as a lowercase hex string.
func Sha256Hex(msg []byte) string {
	sum := sha256.Sum256(msg)
	return hex.EncodeToString(sum[:])
}

// LeadingZeroHexCount returns how many leading hex characters of the raw
// digest are '0'. It inspects nibbles directly, so no hex encoding is
// performed.
func LeadingZeroHexCount(digest []byte) int {
	count := 0
	for _, b := range digest {
		if b == 0 {
			count += 2
			continue
		}
		if b>>4 == 0 {
			count++
		}
		break
	}
	return count
}

// HasLeadingZeroHex reports whether the raw digest starts with at least
// n '0' hex characters. Equivalent to a prefix check on the hex encoding
// without allocating. n <= 0 always holds.
func HasLeadingZeroHex(digest []byte, n int) bool {
	if n <= 0 {
		return true
	}
	if n > len(digest)*2 {
		return false
	}
	full := n / 2
	for i := 0; i < full; i++ {
		if digest[i] != 0 {
			return false
		}
	}
	if n%2 == 1 && digest[full]>>4 != 0 {
		return false
	}
	return true
}

// Blake3Fingerprint returns the BLAKE3-256 digest of msg. Used to derive
// stable identifiers for solve batches.
func Blake3Fingerprint(msg []byte) []byte {
	sum := blake3.Sum256(msg)
	return sum[:]
}

// ShortID derives a compact, human-pasteable identifier from msg: the
// base58 encoding of the first 8 bytes of its BLAKE3 fingerprint.
func ShortID(msg []byte) string {
	sum := blake3.Sum256(msg)
	return base58.Encode(sum[:8])
}
