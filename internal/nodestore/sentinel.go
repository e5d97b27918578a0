package nodestore

import "context"

// Sentinel is the node-0 payload that freezes a scope. Any other node-0
// content, including a different length, leaves the scope mutable.
var Sentinel = []byte{0xDE, 0xAD}

// IsSentinel reports whether data is byte-for-byte the freeze sentinel.
func IsSentinel(data []byte) bool {
	return len(data) == 2 && data[0] == Sentinel[0] && data[1] == Sentinel[1]
}

// IsImmutable reports whether a scope is frozen as of the current node-0
// content. The answer is derived on every call rather than cached: node 0 is
// the single source of truth, so a scope whose node 0 holds the sentinel is
// frozen and every other scope is not. A scope with no node 0 is mutable.
//
// A legitimate two-byte payload that happens to equal the sentinel freezes
// the scope too; node 0 doubles as ordinary storage and the lock flag.
func IsImmutable(ctx context.Context, store Store, scope string) (bool, error) {
	data, found, err := store.Lookup(ctx, scope, 0)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return IsSentinel(data), nil
}
