// Package memory provides an in-memory node storage implementation for tests
// and ephemeral serving.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/permanode/permastore/internal/storage"
)

// Store keeps scope-partitioned nodes in process memory. Contents are lost
// when the process exits.
type Store struct {
	mu     sync.RWMutex
	scopes map[string]map[uint64]storage.Node
}

// NewStore creates an empty in-memory node store.
func NewStore() *Store {
	return &Store{scopes: make(map[string]map[uint64]storage.Node)}
}

// Close releases nothing; it exists so callers can treat memory and SQLite
// stores uniformly.
func (s *Store) Close() error {
	return nil
}

func cloneData(data []byte) []byte {
	if data == nil {
		return []byte{}
	}
	return append([]byte(nil), data...)
}

// Lookup returns the data of one node, reporting absence without error.
func (s *Store) Lookup(ctx context.Context, scope string, id uint64) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s == nil {
		return nil, false, fmt.Errorf("storage is not configured")
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return nil, false, fmt.Errorf("scope is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.scopes[scope][id]
	if !ok {
		return nil, false, nil
	}
	return cloneData(node.Data), true, nil
}

// Insert creates one node, recording the scope owner as the payer.
func (s *Store) Insert(ctx context.Context, scope string, id uint64, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("storage is not configured")
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return fmt.Errorf("scope is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scopes[scope][id]; ok {
		return storage.ErrAlreadyExists
	}
	if s.scopes[scope] == nil {
		s.scopes[scope] = make(map[uint64]storage.Node)
	}
	now := time.Now().UTC()
	s.scopes[scope][id] = storage.Node{
		Scope:     scope,
		ID:        id,
		Data:      cloneData(data),
		Payer:     scope,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

// Replace overwrites the data of one existing node. The payer and creation
// time recorded at insert stay untouched.
func (s *Store) Replace(ctx context.Context, scope string, id uint64, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("storage is not configured")
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return fmt.Errorf("scope is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.scopes[scope][id]
	if !ok {
		return storage.ErrNotFound
	}
	node.Data = cloneData(data)
	node.UpdatedAt = time.Now().UTC()
	s.scopes[scope][id] = node
	return nil
}

// Remove deletes one existing node, releasing its storage.
func (s *Store) Remove(ctx context.Context, scope string, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("storage is not configured")
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return fmt.Errorf("scope is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scopes[scope][id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.scopes[scope], id)
	return nil
}

// GetNode returns one full node record.
func (s *Store) GetNode(ctx context.Context, scope string, id uint64) (storage.Node, error) {
	if err := ctx.Err(); err != nil {
		return storage.Node{}, err
	}
	if s == nil {
		return storage.Node{}, fmt.Errorf("storage is not configured")
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return storage.Node{}, fmt.Errorf("scope is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.scopes[scope][id]
	if !ok {
		return storage.Node{}, storage.ErrNotFound
	}
	node.Data = cloneData(node.Data)
	return node, nil
}

// ListNodes returns one page of id-ordered nodes within an inclusive id
// range. Filter conditions are expressed as SQL and only the SQLite store
// can evaluate them.
func (s *Store) ListNodes(ctx context.Context, scope string, idRange storage.IDRange, cond storage.Condition, pageSize int, pageToken string) (storage.NodePage, error) {
	if err := ctx.Err(); err != nil {
		return storage.NodePage{}, err
	}
	if s == nil {
		return storage.NodePage{}, fmt.Errorf("storage is not configured")
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return storage.NodePage{}, fmt.Errorf("scope is required")
	}
	if pageSize <= 0 {
		return storage.NodePage{}, fmt.Errorf("page size must be greater than zero")
	}
	if cond.Clause != "" {
		return storage.NodePage{}, fmt.Errorf("filter conditions are not supported by the memory store")
	}

	var afterID uint64
	var hasAfter bool
	if pageToken != "" {
		token, err := strconv.ParseUint(pageToken, 10, 64)
		if err != nil {
			return storage.NodePage{}, fmt.Errorf("invalid page token: %w", err)
		}
		afterID = token
		hasAfter = true
	}

	s.mu.RLock()
	ids := make([]uint64, 0, len(s.scopes[scope]))
	for id := range s.scopes[scope] {
		if !idRange.Contains(id) {
			continue
		}
		if hasAfter && id <= afterID {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var page storage.NodePage
	for i, id := range ids {
		if i == pageSize {
			page.NextPageToken = strconv.FormatUint(page.Nodes[len(page.Nodes)-1].ID, 10)
			break
		}
		node := s.scopes[scope][id]
		node.Data = cloneData(node.Data)
		page.Nodes = append(page.Nodes, node)
	}
	s.mu.RUnlock()
	return page, nil
}

// Usage reports node count and stored bytes attributed to a scope owner.
func (s *Store) Usage(ctx context.Context, scope string) (storage.Usage, error) {
	if err := ctx.Err(); err != nil {
		return storage.Usage{}, err
	}
	if s == nil {
		return storage.Usage{}, fmt.Errorf("storage is not configured")
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return storage.Usage{}, fmt.Errorf("scope is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	usage := storage.Usage{Scope: scope}
	for _, nodes := range s.scopes {
		for _, node := range nodes {
			if node.Payer != scope {
				continue
			}
			usage.NodeCount++
			usage.TotalBytes += int64(len(node.Data))
		}
	}
	return usage, nil
}

var _ storage.NodeStore = (*Store)(nil)
