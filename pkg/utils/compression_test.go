package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestZstdRoundTrip(t *testing.T) {
	original := []byte(strings.Repeat(`{"token":"golden-token","solutions":[128,85,311]}`, 50))

	compressed, err := ZstdCompress(original)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if len(compressed) >= len(original) {
		t.Fatalf("repetitive payload did not shrink: %d -> %d", len(original), len(compressed))
	}

	decompressed, err := ZstdDecompress(compressed)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(decompressed, original) {
		t.Fatalf("round trip mismatch")
	}
}

func TestZstdDecompressGarbage(t *testing.T) {
	if _, err := ZstdDecompress([]byte("not zstd at all")); err == nil {
		t.Fatal("expected error for non-zstd input")
	}
}
