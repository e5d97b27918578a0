package storage

import (
	"encoding/binary"
	"fmt"
)

// EncodeID returns the 8-byte big-endian key for a node id.
//
// SQLite INTEGER columns are signed, so ids above 1<<63 would sort before
// small ids. Big-endian BLOB keys compare with memcmp, which preserves
// unsigned ordering for range scans.
func EncodeID(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

// DecodeID returns the node id for an 8-byte big-endian key.
func DecodeID(key []byte) (uint64, error) {
	if len(key) != 8 {
		return 0, fmt.Errorf("id key must be 8 bytes, got %d", len(key))
	}
	return binary.BigEndian.Uint64(key), nil
}
