package memory

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/permanode/permastore/internal/storage"
)

func TestInsertLookupRoundTrip(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	payload := []byte{0x01, 0x02, 0x03}
	if err := store.Insert(ctx, "alice", 5, payload); err != nil {
		t.Fatalf("insert: %v", err)
	}

	data, found, err := store.Lookup(ctx, "alice", 5)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !found {
		t.Fatal("node 5 not found after insert")
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("data = %x, want %x", data, payload)
	}

	if _, found, err := store.Lookup(ctx, "alice", 6); err != nil || found {
		t.Fatalf("absent lookup: found=%v err=%v", found, err)
	}
	if _, found, err := store.Lookup(ctx, "bob", 5); err != nil || found {
		t.Fatalf("other scope lookup: found=%v err=%v", found, err)
	}
}

func TestInsertOccupiedSlot(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Insert(ctx, "alice", 5, []byte{0x01}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.Insert(ctx, "alice", 5, []byte{0x02}); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestReplacePreservesPayerAndCreation(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Insert(ctx, "alice", 5, []byte{0x01}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	before, err := store.GetNode(ctx, "alice", 5)
	if err != nil {
		t.Fatalf("get before replace: %v", err)
	}

	if err := store.Replace(ctx, "alice", 5, []byte{0x02}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	after, err := store.GetNode(ctx, "alice", 5)
	if err != nil {
		t.Fatalf("get after replace: %v", err)
	}
	if !bytes.Equal(after.Data, []byte{0x02}) {
		t.Fatalf("data = %x, want 02", after.Data)
	}
	if after.Payer != before.Payer {
		t.Fatalf("payer changed on replace: %q -> %q", before.Payer, after.Payer)
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Fatal("created_at changed on replace")
	}
}

func TestReplaceAndRemoveEmptySlot(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Replace(ctx, "alice", 9, []byte{0x01}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("replace absent: expected ErrNotFound, got %v", err)
	}
	if err := store.Remove(ctx, "alice", 9); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("remove absent: expected ErrNotFound, got %v", err)
	}
}

func TestRemoveReleasesSlot(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Insert(ctx, "alice", 5, []byte{0x01}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.Remove(ctx, "alice", 5); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, found, err := store.Lookup(ctx, "alice", 5); err != nil || found {
		t.Fatalf("lookup after remove: found=%v err=%v", found, err)
	}
	if err := store.Insert(ctx, "alice", 5, []byte{0x02}); err != nil {
		t.Fatalf("reinsert after remove: %v", err)
	}
}

func TestListNodesRangeAndPagination(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	for id := uint64(1); id <= 7; id++ {
		if err := store.Insert(ctx, "alice", id, []byte{byte(id)}); err != nil {
			t.Fatalf("insert %d: %v", id, err)
		}
	}

	page, err := store.ListNodes(ctx, "alice", storage.IDRange{Lower: 2, Upper: 6, HasUpper: true}, storage.Condition{}, 3, "")
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(page.Nodes) != 3 || page.Nodes[0].ID != 2 || page.Nodes[2].ID != 4 {
		t.Fatalf("first page ids = %v", pageIDs(page))
	}
	if page.NextPageToken == "" {
		t.Fatal("expected a next page token")
	}

	page, err = store.ListNodes(ctx, "alice", storage.IDRange{Lower: 2, Upper: 6, HasUpper: true}, storage.Condition{}, 3, page.NextPageToken)
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(page.Nodes) != 2 || page.Nodes[0].ID != 5 || page.Nodes[1].ID != 6 {
		t.Fatalf("second page ids = %v", pageIDs(page))
	}
	if page.NextPageToken != "" {
		t.Fatalf("unexpected next page token %q", page.NextPageToken)
	}
}

func TestListNodesLargeIDOrdering(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	high := uint64(1)<<63 + 42
	for _, id := range []uint64{high, 7, 1} {
		if err := store.Insert(ctx, "alice", id, []byte{0x01}); err != nil {
			t.Fatalf("insert %d: %v", id, err)
		}
	}

	page, err := store.ListNodes(ctx, "alice", storage.IDRange{}, storage.Condition{}, 10, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []uint64{1, 7, high}
	if len(page.Nodes) != len(want) {
		t.Fatalf("got %d nodes, want %d", len(page.Nodes), len(want))
	}
	for i, id := range want {
		if page.Nodes[i].ID != id {
			t.Fatalf("node %d: id = %d, want %d", i, page.Nodes[i].ID, id)
		}
	}
}

func TestListNodesRejectsFilterConditions(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.ListNodes(ctx, "alice", storage.IDRange{}, storage.Condition{Clause: "LENGTH(data) > ?", Params: []any{1}}, 10, "")
	if err == nil {
		t.Fatal("expected filter conditions to be rejected")
	}
}

func TestUsageFollowsPayer(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Insert(ctx, "alice", 1, []byte{1, 2, 3}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.Insert(ctx, "alice", 2, []byte{4}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	usage, err := store.Usage(ctx, "alice")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if usage.NodeCount != 2 || usage.TotalBytes != 4 {
		t.Fatalf("usage = %+v, want 2 nodes / 4 bytes", usage)
	}

	if err := store.Remove(ctx, "alice", 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	usage, err = store.Usage(ctx, "alice")
	if err != nil {
		t.Fatalf("usage after remove: %v", err)
	}
	if usage.NodeCount != 1 || usage.TotalBytes != 1 {
		t.Fatalf("usage after remove = %+v, want 1 node / 1 byte", usage)
	}
}

func TestLookupDataIsACopy(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Insert(ctx, "alice", 1, []byte{0x01}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	data, _, err := store.Lookup(ctx, "alice", 1)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	data[0] = 0xFF

	fresh, _, err := store.Lookup(ctx, "alice", 1)
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if fresh[0] != 0x01 {
		t.Fatal("caller mutation leaked into stored data")
	}
}

func pageIDs(page storage.NodePage) []uint64 {
	ids := make([]uint64, 0, len(page.Nodes))
	for _, node := range page.Nodes {
		ids = append(ids, node.ID)
	}
	return ids
}
