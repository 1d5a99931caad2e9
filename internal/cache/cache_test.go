package cache

import (
	"path/filepath"
	"testing"
)

func TestPutGet(t *testing.T) {
	c, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer c.Close()

	key := Key([]byte("settings"), "x in f")
	if _, ok, err := c.Get(key); err != nil || ok {
		t.Fatalf("expected a miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Put(key, "f(x)"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("expected a hit, got ok=%v err=%v", ok, err)
	}
	if got != "f(x)" {
		t.Errorf("expected 'f(x)', got %q", got)
	}

	// Put replaces
	if err := c.Put(key, "g(x)"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if got, _, _ := c.Get(key); got != "g(x)" {
		t.Errorf("expected 'g(x)', got %q", got)
	}
}

func TestKey(t *testing.T) {
	a := Key([]byte("a"), "x in f")
	if len(a) != 32 {
		t.Errorf("key length = %d", len(a))
	}
	if a != Key([]byte("a"), "x in f") {
		t.Error("keys should be deterministic")
	}
	if a == Key([]byte("b"), "x in f") {
		t.Error("the fingerprint should change the key")
	}
	if a == Key([]byte("a"), "x in g") {
		t.Error("the body should change the key")
	}
}

func TestStatsAndClear(t *testing.T) {
	c, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer c.Close()

	c.Put("a", "f(x)")
	c.Put("b", "g(y)")
	c.Get("a")
	c.Get("a")
	c.Get("b")

	st, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if st.Entries != 2 || st.Hits != 3 || st.Bytes != 8 {
		t.Errorf("unexpected stats %+v", st)
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 2 {
		t.Errorf("cleared %d entries, want 2", n)
	}
	if st, _ := c.Stats(); st.Entries != 0 || st.Hits != 0 {
		t.Errorf("cache not empty after Clear: %+v", st)
	}
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "thread.db")

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := c.Put("k", "v"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	c.Close()

	c2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer c2.Close()
	got, ok, err := c2.Get("k")
	if err != nil || !ok || got != "v" {
		t.Errorf("expected persisted entry, got %q ok=%v err=%v", got, ok, err)
	}
	if c2.Path() != path {
		t.Errorf("path = %q", c2.Path())
	}
}

func TestSchemaMismatchEmptiesCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thread.db")
	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	c.Put("k", "v")
	if _, err := c.db.Exec("UPDATE metadata SET value = 'old' WHERE key = 'schema_version'"); err != nil {
		t.Fatal(err)
	}
	c.Close()

	c2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer c2.Close()
	if _, ok, _ := c2.Get("k"); ok {
		t.Error("entries from another schema version should be dropped")
	}
}
