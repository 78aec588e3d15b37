package utils

import (
	"encoding/hex"
	"strings"
	"testing"

	"lukechampine.com/blake3"
)

func TestSha256Hex(t *testing.T) {
	// sha256("abc") is a published test vector.
	got := Sha256Hex([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Fatalf("Sha256Hex(abc) = %s, want %s", got, want)
	}
}

func TestLeadingZeroHexCount(t *testing.T) {
	cases := []struct {
		name   string
		digest string
		want   int
	}{
		{"noZeros", "ba7816bf", 0},
		{"oneNibble", "0a3d4c19", 1},
		{"oneByte", "003d4c19", 2},
		{"byteAndNibble", "000d4c19", 3},
		{"twoBytes", "00003abc", 4},
		{"allZero", "00000000", 8},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			raw, err := hex.DecodeString(tc.digest)
			if err != nil {
				t.Fatalf("bad test digest: %v", err)
			}
			if got := LeadingZeroHexCount(raw); got != tc.want {
				t.Fatalf("LeadingZeroHexCount(%s) = %d, want %d", tc.digest, got, tc.want)
			}
		})
	}
}

func TestHasLeadingZeroHexMatchesHexPrefix(t *testing.T) {
	digests := []string{
		"003d4c19b514d2af",
		"005819456bbaec14",
		"0a3d000000000000",
		"0000003abc000000",
		"ba7816bf8f01cfea",
	}

	for _, d := range digests {
		raw, err := hex.DecodeString(d)
		if err != nil {
			t.Fatalf("bad test digest: %v", err)
		}
		for n := 0; n <= len(d); n++ {
			want := strings.HasPrefix(d, strings.Repeat("0", n))
			if got := HasLeadingZeroHex(raw, n); got != want {
				t.Fatalf("HasLeadingZeroHex(%s, %d) = %v, want %v", d, n, got, want)
			}
		}
	}
}

func TestHasLeadingZeroHexBounds(t *testing.T) {
	raw := []byte{0x00, 0x00}
	if !HasLeadingZeroHex(raw, 0) {
		t.Fatal("n=0 must always hold")
	}
	if !HasLeadingZeroHex(raw, -3) {
		t.Fatal("negative n must always hold")
	}
	if HasLeadingZeroHex(raw, 5) {
		t.Fatal("n beyond digest length cannot hold")
	}
}

func TestShortIDStable(t *testing.T) {
	msg := []byte("batch fingerprint input")

	a := ShortID(msg)
	b := ShortID(msg)
	if a == "" || a != b {
		t.Fatalf("ShortID not stable: %q vs %q", a, b)
	}
	if ShortID([]byte("different input")) == a {
		t.Fatal("distinct inputs produced the same short ID")
	}

	sum := blake3.Sum256(msg)
	if got := Blake3Fingerprint(msg); !strings.EqualFold(hex.EncodeToString(got), hex.EncodeToString(sum[:])) {
		t.Fatal("Blake3Fingerprint mismatch with direct sum")
	}
}
