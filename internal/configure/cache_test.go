package configure

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	compiler := filepath.Join(dir, "cc")
	if err := os.WriteFile(compiler, []byte("v1"), 0o755); err != nil {
		t.Fatal(err)
	}

	c := NewCache()
	key := Key([]string{compiler, "-o", "conftest"}, "int main(){}")
	c.Store(key, compiler, true, "ok")

	path := filepath.Join(dir, "nested", "cache.json")
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := LoadCache(path)
	entry, ok := loaded.Lookup(key, compiler)
	if !ok {
		t.Fatal("expected cache hit after reload")
	}
	if !entry.OK || entry.Output != "ok" {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestCache_InvalidatedByCompilerChange(t *testing.T) {
	dir := t.TempDir()
	compiler := filepath.Join(dir, "cc")
	if err := os.WriteFile(compiler, []byte("v1"), 0o755); err != nil {
		t.Fatal(err)
	}

	c := NewCache()
	c.Store("k", compiler, true, "")
	if _, ok := c.Lookup("k", compiler); !ok {
		t.Fatal("expected hit")
	}
	if _, ok := c.Lookup("k", "/other/cc"); ok {
		t.Error("expected miss for a different compiler path")
	}

	if err := os.WriteFile(compiler, []byte("version 2"), 0o755); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Hour)
	_ = os.Chtimes(compiler, later, later)
	if _, ok := c.Lookup("k", compiler); ok {
		t.Error("expected miss after compiler changed")
	}
}

func TestLoadCache_MissingOrInvalid(t *testing.T) {
	if c := LoadCache(filepath.Join(t.TempDir(), "none.json")); len(c.Entries) != 0 {
		t.Error("expected empty cache for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(path, []byte("{not json"), 0o644)
	if c := LoadCache(path); c.Entries == nil {
		t.Error("expected usable cache for invalid file")
	}
}

func TestKey_Stable(t *testing.T) {
	a := Key([]string{"cc", "-o", "x"}, "src")
	b := Key([]string{"cc", "-o", "x"}, "src")
	c := Key([]string{"cc", "-ox"}, "src")
	if a != b {
		t.Error("key not deterministic")
	}
	if a == c {
		t.Error("different argv produced the same key")
	}
}

func TestCache_SkipsFailures(t *testing.T) {
	compiler := filepath.Join(t.TempDir(), "cc")
	if err := os.WriteFile(compiler, []byte("v1"), 0o755); err != nil {
		t.Fatal(err)
	}

	c := NewCache()
	c.Store("k", compiler, false, "vectorclass.h: no such file")
	if _, ok := c.Lookup("k", compiler); ok {
		t.Error("failed outcomes must not be cached")
	}
	if len(c.Entries) != 0 {
		t.Errorf("expected no entries, got %v", c.Entries)
	}
}
