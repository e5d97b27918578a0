// Package nodestore implements the node lifecycle and immutability latch for
// scope-partitioned permanent storage.
//
// Each scope owns an independent set of nodes keyed by uint64 id. A set on an
// absent id always creates the node, even in a frozen scope; a set on a
// present id or a delete first consults the scope's node 0, and is rejected
// when it holds the freeze sentinel. Writing the sentinel to an absent node 0
// therefore engages a one-way lock over every node that exists from that
// moment on.
package nodestore

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound indicates a delete targeted an id absent from its scope.
var ErrNotFound = errors.New("node does not exist")

// ErrImmutableScope indicates a mutation targeted an existing node in a
// frozen scope.
var ErrImmutableScope = errors.New("immutable scope")

// Store is the associative storage the engine mutates, keyed by (scope, id).
//
// Preconditions are the engine's responsibility: Insert requires the slot to
// be absent, Replace and Remove require it to be present. Lookup reports
// absence through its second return value, not an error.
type Store interface {
	Lookup(ctx context.Context, scope string, id uint64) ([]byte, bool, error)
	Insert(ctx context.Context, scope string, id uint64, data []byte) error
	Replace(ctx context.Context, scope string, id uint64, data []byte) error
	Remove(ctx context.Context, scope string, id uint64) error
}

// Engine applies node mutations against a Store under the immutability latch.
type Engine struct {
	store Store

	// mu serializes mutations so each one observes a consistent snapshot
	// between its lookup, sentinel check, and single store write.
	mu sync.Mutex
}

// NewEngine creates an engine over the provided store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Set writes data on a node, creating it if necessary.
//
// Creation is unconditional: a brand-new id is accepted even when the scope
// is already frozen. An update of an existing node fails with
// ErrImmutableScope once the scope's node 0 holds the freeze sentinel.
func (e *Engine) Set(ctx context.Context, scope string, id uint64, data []byte) error {
	if e == nil || e.store == nil {
		return fmt.Errorf("node store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	_, found, err := e.store.Lookup(ctx, scope, id)
	if err != nil {
		return fmt.Errorf("lookup node %d: %w", id, err)
	}
	if !found {
		if err := e.store.Insert(ctx, scope, id, data); err != nil {
			return fmt.Errorf("insert node %d: %w", id, err)
		}
		return nil
	}

	frozen, err := IsImmutable(ctx, e.store, scope)
	if err != nil {
		return fmt.Errorf("check scope immutability: %w", err)
	}
	if frozen {
		return ErrImmutableScope
	}
	if err := e.store.Replace(ctx, scope, id, data); err != nil {
		return fmt.Errorf("replace node %d: %w", id, err)
	}
	return nil
}

// Delete erases a node.
//
// It fails with ErrNotFound when the id is absent and with ErrImmutableScope
// when the scope is frozen; a frozen scope never releases storage.
func (e *Engine) Delete(ctx context.Context, scope string, id uint64) error {
	if e == nil || e.store == nil {
		return fmt.Errorf("node store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	_, found, err := e.store.Lookup(ctx, scope, id)
	if err != nil {
		return fmt.Errorf("lookup node %d: %w", id, err)
	}
	if !found {
		return ErrNotFound
	}

	frozen, err := IsImmutable(ctx, e.store, scope)
	if err != nil {
		return fmt.Errorf("check scope immutability: %w", err)
	}
	if frozen {
		return ErrImmutableScope
	}
	if err := e.store.Remove(ctx, scope, id); err != nil {
		return fmt.Errorf("remove node %d: %w", id, err)
	}
	return nil
}

// IsImmutable reports whether the scope is currently frozen.
func (e *Engine) IsImmutable(ctx context.Context, scope string) (bool, error) {
	if e == nil || e.store == nil {
		return false, fmt.Errorf("node store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return IsImmutable(ctx, e.store, scope)
}
