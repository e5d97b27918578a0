// Package chunk splits large payloads into node-sized pieces over a
// contiguous id range and reassembles them. The store itself only ever sees
// individual nodes; chunking is a caller-side convention.
package chunk

import (
	"fmt"
	"math"
)

// DefaultSize is the chunk size used when the caller does not pick one. A
// node can usually carry more, but 8 KiB stays comfortably inside common
// transaction limits.
const DefaultSize = 8192

// Split cuts data into size-byte chunks; the final chunk may be shorter.
// Empty data yields a single empty chunk so a zero-length payload still
// occupies one node.
func Split(data []byte, size int) ([][]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be greater than zero")
	}
	if len(data) == 0 {
		return [][]byte{{}}, nil
	}
	chunks := make([][]byte, 0, (len(data)+size-1)/size)
	for start := 0; start < len(data); start += size {
		end := start + size
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[start:end])
	}
	return chunks, nil
}

// Join concatenates chunks back into the original payload.
func Join(chunks [][]byte) []byte {
	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	joined := make([]byte, 0, total)
	for _, chunk := range chunks {
		joined = append(joined, chunk...)
	}
	return joined
}

// IDs returns the contiguous node ids for count chunks starting at first.
// It fails when the range would wrap around the uint64 id space or touch
// node 0, which is reserved for the freeze sentinel.
func IDs(first uint64, count int) ([]uint64, error) {
	if count <= 0 {
		return nil, fmt.Errorf("chunk count must be greater than zero")
	}
	if first == 0 {
		return nil, fmt.Errorf("chunk ranges must not start at node 0")
	}
	if uint64(count-1) > math.MaxUint64-first {
		return nil, fmt.Errorf("chunk range overflows the id space")
	}
	ids := make([]uint64, count)
	for i := range ids {
		ids[i] = first + uint64(i)
	}
	return ids, nil
}
