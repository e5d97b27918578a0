// Package hexdata implements the hex text representation node data uses on
// the wire and in the CLI. Storage keeps raw binary; transport doubles the
// byte count but stays printable, the same trade the original "bytes" ABI
// representation makes.
package hexdata

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Encode returns the lowercase hex text for raw node data.
func Encode(data []byte) string {
	return hex.EncodeToString(data)
}

// Decode returns the raw bytes for hex text. Whitespace around the text is
// ignored and both cases are accepted; an odd length or a non-hex character
// is an error. Empty text decodes to empty data.
func Decode(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []byte{}, nil
	}
	if len(text)%2 != 0 {
		return nil, fmt.Errorf("hex data must have even length, got %d", len(text))
	}
	data, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("decode hex data: %w", err)
	}
	return data, nil
}
