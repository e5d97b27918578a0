// Package sqlite provides a SQLite-backed node storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	sqlitemigrate "github.com/permanode/permastore/internal/platform/storage/sqlitemigrate"
	"github.com/permanode/permastore/internal/storage"
	"github.com/permanode/permastore/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists scope-partitioned nodes in SQLite.
//
// Node ids are stored as 8-byte big-endian BLOB keys so range scans keep
// unsigned ordering across the full uint64 space.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite node store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Lookup returns the data of one node, reporting absence without error.
func (s *Store) Lookup(ctx context.Context, scope string, id uint64) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, false, fmt.Errorf("storage is not configured")
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return nil, false, fmt.Errorf("scope is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT data FROM nodes WHERE scope = ? AND id = ?`,
		scope,
		storage.EncodeID(id),
	)
	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("lookup node: %w", err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, true, nil
}

// Insert creates one node, recording the scope owner as the payer.
func (s *Store) Insert(ctx context.Context, scope string, id uint64, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return fmt.Errorf("scope is required")
	}
	if data == nil {
		data = []byte{}
	}

	now := toMillis(time.Now())
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO nodes (scope, id, data, payer, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		scope,
		storage.EncodeID(id),
		data,
		scope,
		now,
		now,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert node: %w", err)
	}
	return nil
}

// Replace overwrites the data of one existing node. The payer and creation
// time recorded at insert stay untouched.
func (s *Store) Replace(ctx context.Context, scope string, id uint64, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return fmt.Errorf("scope is required")
	}
	if data == nil {
		data = []byte{}
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE nodes SET data = ?, updated_at = ? WHERE scope = ? AND id = ?`,
		data,
		toMillis(time.Now()),
		scope,
		storage.EncodeID(id),
	)
	if err != nil {
		return fmt.Errorf("replace node: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace node: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Remove deletes one existing node, releasing its storage.
func (s *Store) Remove(ctx context.Context, scope string, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return fmt.Errorf("scope is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM nodes WHERE scope = ? AND id = ?`,
		scope,
		storage.EncodeID(id),
	)
	if err != nil {
		return fmt.Errorf("remove node: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove node: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetNode returns one full node record.
func (s *Store) GetNode(ctx context.Context, scope string, id uint64) (storage.Node, error) {
	if err := ctx.Err(); err != nil {
		return storage.Node{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Node{}, fmt.Errorf("storage is not configured")
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return storage.Node{}, fmt.Errorf("scope is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT scope, id, data, payer, created_at, updated_at
		 FROM nodes
		 WHERE scope = ? AND id = ?`,
		scope,
		storage.EncodeID(id),
	)
	node, err := scanNode(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Node{}, storage.ErrNotFound
		}
		return storage.Node{}, fmt.Errorf("get node: %w", err)
	}
	return node, nil
}

// ListNodes returns one page of id-ordered nodes within an inclusive id
// range, optionally narrowed by a filter condition.
func (s *Store) ListNodes(ctx context.Context, scope string, idRange storage.IDRange, cond storage.Condition, pageSize int, pageToken string) (storage.NodePage, error) {
	if err := ctx.Err(); err != nil {
		return storage.NodePage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.NodePage{}, fmt.Errorf("storage is not configured")
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return storage.NodePage{}, fmt.Errorf("scope is required")
	}
	if pageSize <= 0 {
		return storage.NodePage{}, fmt.Errorf("page size must be greater than zero")
	}

	clauses := []string{"scope = ?"}
	params := []any{scope}
	if idRange.Lower > 0 {
		clauses = append(clauses, "id >= ?")
		params = append(params, storage.EncodeID(idRange.Lower))
	}
	if idRange.HasUpper {
		clauses = append(clauses, "id <= ?")
		params = append(params, storage.EncodeID(idRange.Upper))
	}
	if strings.TrimSpace(pageToken) != "" {
		afterID, err := strconv.ParseUint(strings.TrimSpace(pageToken), 10, 64)
		if err != nil {
			return storage.NodePage{}, fmt.Errorf("page token is invalid")
		}
		clauses = append(clauses, "id > ?")
		params = append(params, storage.EncodeID(afterID))
	}
	if strings.TrimSpace(cond.Clause) != "" {
		clauses = append(clauses, cond.Clause)
		params = append(params, cond.Params...)
	}
	params = append(params, pageSize+1)

	query := `SELECT scope, id, data, payer, created_at, updated_at
		 FROM nodes
		 WHERE ` + strings.Join(clauses, " AND ") + `
		 ORDER BY id ASC
		 LIMIT ?`

	rows, err := s.sqlDB.QueryContext(ctx, query, params...)
	if err != nil {
		return storage.NodePage{}, fmt.Errorf("list nodes: %w", err)
	}
	defer rows.Close()

	page := storage.NodePage{
		Nodes: make([]storage.Node, 0, pageSize),
	}
	for rows.Next() {
		node, err := scanNode(rows.Scan)
		if err != nil {
			return storage.NodePage{}, fmt.Errorf("list nodes: %w", err)
		}
		page.Nodes = append(page.Nodes, node)
	}
	if err := rows.Err(); err != nil {
		return storage.NodePage{}, fmt.Errorf("list nodes: %w", err)
	}
	if len(page.Nodes) > pageSize {
		page.NextPageToken = strconv.FormatUint(page.Nodes[pageSize-1].ID, 10)
		page.Nodes = page.Nodes[:pageSize]
	}
	return page, nil
}

// Usage reports node count and stored bytes attributed to a payer.
func (s *Store) Usage(ctx context.Context, scope string) (storage.Usage, error) {
	if err := ctx.Err(); err != nil {
		return storage.Usage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Usage{}, fmt.Errorf("storage is not configured")
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return storage.Usage{}, fmt.Errorf("scope is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*), COALESCE(SUM(LENGTH(data)), 0) FROM nodes WHERE payer = ?`,
		scope,
	)
	usage := storage.Usage{Scope: scope}
	if err := row.Scan(&usage.NodeCount, &usage.TotalBytes); err != nil {
		return storage.Usage{}, fmt.Errorf("usage: %w", err)
	}
	return usage, nil
}

func scanNode(scan func(dest ...any) error) (storage.Node, error) {
	var (
		node      storage.Node
		idKey     []byte
		createdAt int64
		updatedAt int64
	)
	if err := scan(&node.Scope, &idKey, &node.Data, &node.Payer, &createdAt, &updatedAt); err != nil {
		return storage.Node{}, err
	}
	id, err := storage.DecodeID(idKey)
	if err != nil {
		return storage.Node{}, err
	}
	node.ID = id
	if node.Data == nil {
		node.Data = []byte{}
	}
	node.CreatedAt = fromMillis(createdAt)
	node.UpdatedAt = fromMillis(updatedAt)
	return node, nil
}

var _ storage.NodeStore = (*Store)(nil)
