package storage

import (
	"bytes"
	"math"
	"testing"
)

func TestEncodeDecodeID(t *testing.T) {
	for _, id := range []uint64{0, 1, 255, 1 << 32, math.MaxInt64, math.MaxUint64} {
		key := EncodeID(id)
		if len(key) != 8 {
			t.Fatalf("key len = %d, want 8", len(key))
		}
		decoded, err := DecodeID(key)
		if err != nil {
			t.Fatalf("decode %d: %v", id, err)
		}
		if decoded != id {
			t.Fatalf("decoded = %d, want %d", decoded, id)
		}
	}
}

func TestEncodeIDPreservesUnsignedOrder(t *testing.T) {
	small := EncodeID(7)
	large := EncodeID(1<<63 + 42)
	if bytes.Compare(small, large) >= 0 {
		t.Fatal("key for 7 should sort before key above 1<<63")
	}
}

func TestDecodeIDRejectsBadLength(t *testing.T) {
	if _, err := DecodeID([]byte{0x01, 0x02}); err == nil {
		t.Fatal("expected error for short key")
	}
}

func TestIDRangeContains(t *testing.T) {
	unbounded := IDRange{Lower: 3}
	if unbounded.Contains(2) || !unbounded.Contains(3) || !unbounded.Contains(math.MaxUint64) {
		t.Fatal("unbounded range membership is wrong")
	}
	bounded := IDRange{Lower: 3, Upper: 5, HasUpper: true}
	for id, want := range map[uint64]bool{2: false, 3: true, 5: true, 6: false} {
		if bounded.Contains(id) != want {
			t.Fatalf("Contains(%d) = %v, want %v", id, !want, want)
		}
	}
}
