package portsvc_test

import (
	"testing"

	"github.com/slashdev/slashnet/portsvc"
)

func TestSetGetOverwrite(t *testing.T) {
	tbl := portsvc.NewTable[uint16, int](4, "test", nil)
	tbl.Set(7900, 1)
	if v, ok := tbl.Get(7900); !ok || v != 1 {
		t.Fatalf("Get = %v, %v", v, ok)
	}
	tbl.Set(7900, 2)
	if v, ok := tbl.Get(7900); !ok || v != 2 {
		t.Fatalf("Get after overwrite = %v, %v", v, ok)
	}
}

func TestSetFillsFirstEmptySlot(t *testing.T) {
	tbl := portsvc.NewTable[uint16, int](2, "test", nil)
	tbl.Set(1, 10)
	tbl.Set(2, 20)
	if v, ok := tbl.Get(1); !ok || v != 10 {
		t.Fatal("entry 1 missing")
	}
	if v, ok := tbl.Get(2); !ok || v != 20 {
		t.Fatal("entry 2 missing")
	}
}

func TestSetTableFullIsNoop(t *testing.T) {
	tbl := portsvc.NewTable[uint16, int](1, "test", nil)
	tbl.Set(1, 10)
	tbl.Set(2, 20) // table full, must be dropped silently (logged, not panicking).
	if _, ok := tbl.Get(2); ok {
		t.Fatal("expected Set to be dropped when table is full")
	}
	if v, ok := tbl.Get(1); !ok || v != 10 {
		t.Fatal("existing entry must be unaffected by a dropped Set")
	}
}

func TestRemove(t *testing.T) {
	tbl := portsvc.NewTable[uint16, int](2, "test", nil)
	tbl.Set(1, 10)
	tbl.Remove(1)
	if _, ok := tbl.Get(1); ok {
		t.Fatal("expected entry removed")
	}
}

func TestGetZeroKeyNeverMatches(t *testing.T) {
	tbl := portsvc.NewTable[uint16, int](2, "test", nil)
	if _, ok := tbl.Get(0); ok {
		t.Fatal("zero key must never match, it is the empty-slot sentinel")
	}
}

func TestStringKeyTable(t *testing.T) {
	tbl := portsvc.NewTable[string, int](2, "http", nil)
	tbl.Set("/status", 1)
	if v, ok := tbl.Get("/status"); !ok || v != 1 {
		t.Fatalf("Get = %v, %v", v, ok)
	}
	if _, ok := tbl.Get(""); ok {
		t.Fatal("empty path key must never match")
	}
}
