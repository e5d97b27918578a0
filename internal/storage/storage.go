// Package storage defines persistence contracts for scope-partitioned node state.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested node record is missing.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates an insert targeted an occupied (scope, id) slot.
var ErrAlreadyExists = errors.New("record already exists")

// Node stores one numbered binary record owned by a scope.
type Node struct {
	Scope     string
	ID        uint64
	Data      []byte
	Payer     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IDRange bounds a node listing by id, inclusive on both ends.
// A zero Lower with HasUpper false spans the whole scope.
type IDRange struct {
	Lower    uint64
	Upper    uint64
	HasUpper bool
}

// Contains reports whether id falls inside the range.
func (r IDRange) Contains(id uint64) bool {
	if id < r.Lower {
		return false
	}
	if r.HasUpper && id > r.Upper {
		return false
	}
	return true
}

// Condition is a SQL WHERE fragment with positional parameters, produced by
// the filter package from an AIP-160 expression.
type Condition struct {
	Clause string
	Params []any
}

// NodePage stores one page of id-ordered nodes from a single scope.
type NodePage struct {
	Nodes         []Node
	NextPageToken string
}

// Usage reports storage attributed to a payer.
type Usage struct {
	Scope      string
	NodeCount  int64
	TotalBytes int64
}

// NodeStore persists scope-partitioned numbered binary records.
//
// Insert, Replace, and Remove enforce slot preconditions: Insert requires the
// (scope, id) slot to be empty, Replace and Remove require it to be occupied.
// Replace never changes the payer recorded at insert time.
type NodeStore interface {
	Lookup(ctx context.Context, scope string, id uint64) ([]byte, bool, error)
	Insert(ctx context.Context, scope string, id uint64, data []byte) error
	Replace(ctx context.Context, scope string, id uint64, data []byte) error
	Remove(ctx context.Context, scope string, id uint64) error
	GetNode(ctx context.Context, scope string, id uint64) (Node, error)
	ListNodes(ctx context.Context, scope string, idRange IDRange, cond Condition, pageSize int, pageToken string) (NodePage, error)
	Usage(ctx context.Context, scope string) (Usage, error)
}
