package capkit

// FNV-1a parameters for the 32-bit variant. The verification endpoint
// derives the same seed from the token it issued, so both sides must
// agree on these exactly.
const (
	fnvOffsetBasis uint32 = 0x811c9dc5
	fnvPrime       uint32 = 0x01000193
)

// Seed hashes an opaque challenge token into the 32-bit seed that
// anchors challenge expansion. The token is consumed as its UTF-8
// bytes; multiplication wraps at 32 bits.
//
// An empty token is legal and yields the FNV offset basis.
func Seed(token string) uint32 {
	h := fnvOffsetBasis
	for i := 0; i < len(token); i++ {
		h ^= uint32(token[i])
		h *= fnvPrime
	}
	return h
}
