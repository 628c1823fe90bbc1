package kvstore

import (
	"context"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T, dir string) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(dir, "workspace.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t, t.TempDir())

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("get missing: ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "vcLists", `{"A":[]}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, "vcLists")
	if err != nil || !ok || v != `{"A":[]}` {
		t.Fatalf("get: v=%q ok=%v err=%v", v, ok, err)
	}

	// Upsert overwrites in place.
	if err := s.Set(ctx, "vcLists", `{"B":[]}`); err != nil {
		t.Fatalf("set again: %v", err)
	}
	v, _, _ = s.Get(ctx, "vcLists")
	if v != `{"B":[]}` {
		t.Fatalf("after upsert: %q", v)
	}

	if err := s.Delete(ctx, "vcLists"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "vcLists"); ok {
		t.Fatal("key survived delete")
	}
	// Deleting again is fine.
	if err := s.Delete(ctx, "vcLists"); err != nil {
		t.Fatalf("delete twice: %v", err)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s := openTemp(t, dir)
	if err := s.Set(ctx, "note:Acme", "call back in Q4"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2 := openTemp(t, dir)
	v, ok, err := s2.Get(ctx, "note:Acme")
	if err != nil || !ok || v != "call back in Q4" {
		t.Fatalf("reopen get: v=%q ok=%v err=%v", v, ok, err)
	}
}

func TestSQLiteKeysByPrefix(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t, t.TempDir())

	for k, v := range map[string]string{
		"note:Acme":   "a",
		"note:Zenith": "z",
		"vcLists":     "{}",
	} {
		if err := s.Set(ctx, k, v); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}

	keys, err := s.Keys(ctx, "note:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "note:Acme" || keys[1] != "note:Zenith" {
		t.Fatalf("keys: %v", keys)
	}
}

func TestSQLiteCheckpoint(t *testing.T) {
	s := openTemp(t, t.TempDir())
	if err := s.Checkpoint(); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
}
