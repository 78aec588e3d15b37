package capkit

import "fmt"

// Xorshift32 advances a 32-bit xorshift state by one step and returns
// the new state. The shift triple (13, 17, 5) is part of the protocol;
// a state of zero is a fixed point and keeps producing zero.
func Xorshift32(state uint32) uint32 {
	state ^= state << 13
	state ^= state >> 17
	state ^= state << 5
	return state
}

// Stream turns successive Xorshift32 draws into a contiguous stream of
// lowercase hex characters. Each draw contributes exactly eight
// characters (fixed-width %08x), and reads never realign to a draw
// boundary: leftover characters from one read open the next one.
type Stream struct {
	state uint32
	buf   []byte
}

// NewStream returns a character stream rooted at seed. The first draw
// happens on the first read, so the seed itself never appears in the
// output.
func NewStream(seed uint32) *Stream {
	return &Stream{state: seed}
}

// Chars consumes and returns the next n characters of the stream.
// n <= 0 returns the empty string without advancing the state.
func (s *Stream) Chars(n int) string {
	if n <= 0 {
		return ""
	}
	for len(s.buf) < n {
		s.state = Xorshift32(s.state)
		s.buf = fmt.Appendf(s.buf, "%08x", s.state)
	}
	out := string(s.buf[:n])
	s.buf = s.buf[n:]
	return out
}
