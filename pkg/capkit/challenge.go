package capkit

// ParamSpec carries the shape of a challenge batch: how many
// challenges to derive, how many hex characters each salt takes from
// the stream, and how many leading zero hex characters an accepted
// digest must show.
//
// ParamSpec is plain data; range validation is a boundary concern and
// lives with the solve service.
type ParamSpec struct {
	Count      int `json:"count" yaml:"count"`
	SaltLength int `json:"salt_length" yaml:"salt_length"`
	Difficulty int `json:"difficulty" yaml:"difficulty"`
}

// Challenge is one unit of proof-of-work: find a nonce whose digest
// over Salt meets Difficulty. Index records the challenge's position
// in the batch, which is also the position its nonce must occupy in
// the redeem payload.
type Challenge struct {
	Index      int
	Salt       string
	Difficulty int
}

// ExpandChallenges derives the full ordered challenge list for a seed.
// Salts are cut contiguously from a single Xorshift32 character stream
// in batch order, so challenge i+1 starts on the character right after
// challenge i ends regardless of draw boundaries.
//
// A non-positive count yields an empty list. Difficulty is copied
// through as given; values <= 0 mean every digest is accepted.
func ExpandChallenges(seed uint32, spec ParamSpec) []Challenge {
	if spec.Count <= 0 {
		return []Challenge{}
	}
	stream := NewStream(seed)
	challenges := make([]Challenge, spec.Count)
	for i := range challenges {
		challenges[i] = Challenge{
			Index:      i,
			Salt:       stream.Chars(spec.SaltLength),
			Difficulty: spec.Difficulty,
		}
	}
	return challenges
}
