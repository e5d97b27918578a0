package filter

import (
	"bytes"
	"testing"

	"github.com/permanode/permastore/internal/storage"
)

func TestParseNodeFilterEmpty(t *testing.T) {
	cond, err := ParseNodeFilter("   ")
	if err != nil {
		t.Fatalf("parse empty filter: %v", err)
	}
	if cond.Clause != "" || len(cond.Params) != 0 {
		t.Fatalf("empty filter produced condition %+v", cond)
	}
}

func TestParseNodeFilterIDComparison(t *testing.T) {
	cond, err := ParseNodeFilter("id >= 5")
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.Clause != "id >= ?" {
		t.Fatalf("clause = %q, want \"id >= ?\"", cond.Clause)
	}
	if len(cond.Params) != 1 {
		t.Fatalf("params len = %d, want 1", len(cond.Params))
	}
	key, ok := cond.Params[0].([]byte)
	if !ok {
		t.Fatalf("param type = %T, want []byte id key", cond.Params[0])
	}
	if !bytes.Equal(key, storage.EncodeID(5)) {
		t.Fatalf("param = %x, want id key for 5", key)
	}
}

func TestParseNodeFilterConjunction(t *testing.T) {
	cond, err := ParseNodeFilter("id >= 5 AND size < 100")
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.Clause != "(id >= ? AND LENGTH(data) < ?)" {
		t.Fatalf("clause = %q", cond.Clause)
	}
	if len(cond.Params) != 2 {
		t.Fatalf("params len = %d, want 2", len(cond.Params))
	}
	if size, ok := cond.Params[1].(int64); !ok || size != 100 {
		t.Fatalf("size param = %v (%T), want int64 100", cond.Params[1], cond.Params[1])
	}
}

func TestParseNodeFilterPayer(t *testing.T) {
	cond, err := ParseNodeFilter(`payer = "alice"`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.Clause != "payer = ?" {
		t.Fatalf("clause = %q", cond.Clause)
	}
	if payer, ok := cond.Params[0].(string); !ok || payer != "alice" {
		t.Fatalf("payer param = %v, want alice", cond.Params[0])
	}
}

func TestParseNodeFilterRejectsUnknownField(t *testing.T) {
	if _, err := ParseNodeFilter("color = \"red\""); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestParseNodeFilterRejectsNegativeID(t *testing.T) {
	if _, err := ParseNodeFilter("id = -1"); err == nil {
		t.Fatal("expected error for negative id")
	}
}
