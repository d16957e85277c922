package bolt

import (
	"os"
	"path/filepath"
	"testing"
)

func tempBackend(t *testing.T) *Bolt {
	t.Helper()
	b, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestOpenClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	b, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file should exist: %v", err)
	}
}

func TestOpenInvalidPath(t *testing.T) {
	if _, err := Open("/nonexistent/dir/test.db"); err == nil {
		t.Fatal("opening db in nonexistent dir should fail")
	}
}

func TestWriteAndRead(t *testing.T) {
	b := tempBackend(t)

	if err := b.Write("hey", "English"); err != nil {
		t.Fatal(err)
	}
	got, found, err := b.Read("hey")
	if err != nil {
		t.Fatal(err)
	}
	if !found || got != "English" {
		t.Fatalf("got (%q, %v), want (English, true)", got, found)
	}
}

func TestWriteOverwrite(t *testing.T) {
	b := tempBackend(t)
	if err := b.Write("k", "v1"); err != nil {
		t.Fatal(err)
	}
	if err := b.Write("k", "v2"); err != nil {
		t.Fatal(err)
	}
	got, _, err := b.Read("k")
	if err != nil {
		t.Fatal(err)
	}
	if got != "v2" {
		t.Fatalf("expected v2 after overwrite, got %q", got)
	}
}

func TestReadMissingKey(t *testing.T) {
	b := tempBackend(t)
	got, found, err := b.Read("missing")
	if err != nil {
		t.Fatalf("missing key is not an error: %v", err)
	}
	if found || got != "" {
		t.Fatalf("got (%q, %v), want empty miss", got, found)
	}
}

func TestReadEmptyValue(t *testing.T) {
	b := tempBackend(t)
	if err := b.Write("empty", ""); err != nil {
		t.Fatal(err)
	}
	got, found, err := b.Read("empty")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("empty value must still be found")
	}
	if got != "" {
		t.Fatalf("got %q, want empty string", got)
	}
}

func TestRemove(t *testing.T) {
	b := tempBackend(t)
	if err := b.Write("k", "v"); err != nil {
		t.Fatal(err)
	}
	if err := b.Remove("k"); err != nil {
		t.Fatal(err)
	}
	if _, found, err := b.Read("k"); err != nil || found {
		t.Fatalf("key should be gone (found=%v err=%v)", found, err)
	}
}

func TestRemoveMissingKey(t *testing.T) {
	b := tempBackend(t)
	if err := b.Remove("never-set"); err != nil {
		t.Fatalf("removing a missing key should succeed: %v", err)
	}
}

func TestWipe(t *testing.T) {
	b := tempBackend(t)
	for _, k := range []string{"a", "b", "c"} {
		if err := b.Write(k, "v"); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.Wipe(); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, found, err := b.Read(k); err != nil || found {
			t.Fatalf("key %q should be gone after Wipe (found=%v err=%v)", k, found, err)
		}
	}
}

func TestWipeEmpty(t *testing.T) {
	b := tempBackend(t)
	if err := b.Wipe(); err != nil {
		t.Fatalf("wiping an empty store should succeed: %v", err)
	}
	if err := b.Wipe(); err != nil {
		t.Fatalf("second Wipe should succeed: %v", err)
	}
}

func TestWriteAfterWipe(t *testing.T) {
	b := tempBackend(t)
	if err := b.Write("k", "v"); err != nil {
		t.Fatal(err)
	}
	if err := b.Wipe(); err != nil {
		t.Fatal(err)
	}
	if err := b.Write("k", "again"); err != nil {
		t.Fatalf("writes must work after Wipe: %v", err)
	}
	got, found, _ := b.Read("k")
	if !found || got != "again" {
		t.Fatalf("got (%q, %v), want (again, true)", got, found)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	b, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Write("k", "v"); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}

	b2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer b2.Close()
	got, found, err := b2.Read("k")
	if err != nil {
		t.Fatal(err)
	}
	if !found || got != "v" {
		t.Fatalf("got (%q, %v) after reopen, want (v, true)", got, found)
	}
}
