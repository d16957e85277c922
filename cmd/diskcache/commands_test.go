package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/term"

	"diskcache/pkg/diskcache"
)

// readWriter combines separate read and write halves into an io.ReadWriter.
type readWriter struct {
	io.Reader
	io.Writer
}

// mockTerminal creates a term.Terminal backed by an in-memory pipe.
// Returns the terminal and a function that reads all written output.
func mockTerminal(t *testing.T) (*term.Terminal, func() string) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = r.Close() })
	t.Cleanup(func() { _ = w.Close() })
	terminal := term.NewTerminal(readWriter{r, w}, "> ")
	readOutput := func() string {
		_ = w.Close()
		data, _ := io.ReadAll(r)
		return string(data)
	}
	return terminal, readOutput
}

func testClient(t *testing.T) *diskcache.Client {
	t.Helper()
	c, err := diskcache.Open(filepath.Join(t.TempDir(), "db"), 2)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestDispatchUnknown(t *testing.T) {
	terminal, readOutput := mockTerminal(t)

	reg := newCommandRegistry()
	exit := reg.Dispatch("/nope", terminal)
	out := readOutput()

	if exit {
		t.Error("expected exit=false for unknown command")
	}
	if !strings.Contains(out, "Unknown command: /nope") {
		t.Errorf("expected unknown command message, got: %q", out)
	}
}

func TestDispatchQuit(t *testing.T) {
	terminal, readOutput := mockTerminal(t)

	reg := newCommandRegistry()
	exit := reg.Dispatch("/quit", terminal)
	_ = readOutput()

	if !exit {
		t.Error("/quit should exit the REPL")
	}
}

func TestSetGetDelRoundTrip(t *testing.T) {
	client := testClient(t)
	terminal, readOutput := mockTerminal(t)

	reg := newCommandRegistry()
	registerStoreCommands(reg, client)

	if reg.Dispatch("/set hey English", terminal) {
		t.Fatal("store commands should not exit")
	}
	reg.Dispatch("/get hey", terminal)
	reg.Dispatch("/del hey", terminal)
	reg.Dispatch("/get hey", terminal)
	out := readOutput()

	if !strings.Contains(out, "Set hey = English") {
		t.Errorf("missing set confirmation: %q", out)
	}
	if !strings.Contains(out, "hey = English") {
		t.Errorf("missing get output: %q", out)
	}
	if !strings.Contains(out, "Deleted hey (was English)") {
		t.Errorf("missing delete output: %q", out)
	}
	if !strings.Contains(out, "hey: (not set)") {
		t.Errorf("missing miss output: %q", out)
	}
}

func TestSetMultiWordValue(t *testing.T) {
	client := testClient(t)
	terminal, readOutput := mockTerminal(t)

	reg := newCommandRegistry()
	registerStoreCommands(reg, client)

	reg.Dispatch("/set greeting hello there world", terminal)
	_ = readOutput()

	got, found, err := client.Get("greeting")
	if err != nil || !found || got != "hello there world" {
		t.Fatalf("Get(greeting) = (%q, %v, %v)", got, found, err)
	}
}

func TestClearCommand(t *testing.T) {
	client := testClient(t)
	terminal, readOutput := mockTerminal(t)

	reg := newCommandRegistry()
	registerStoreCommands(reg, client)

	reg.Dispatch("/set k v", terminal)
	reg.Dispatch("/clear", terminal)
	out := readOutput()

	if !strings.Contains(out, "Store cleared") {
		t.Errorf("missing clear confirmation: %q", out)
	}
	if _, found, _ := client.Get("k"); found {
		t.Error("key should be gone after /clear")
	}
}

func TestUsageErrors(t *testing.T) {
	client := testClient(t)
	terminal, readOutput := mockTerminal(t)

	reg := newCommandRegistry()
	registerStoreCommands(reg, client)

	reg.Dispatch("/set onlykey", terminal)
	reg.Dispatch("/get", terminal)
	reg.Dispatch("/del a b", terminal)
	out := readOutput()

	for _, want := range []string{"Usage: /set", "Usage: /get", "Usage: /del"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output: %q", want, out)
		}
	}
}

func TestHelpListsCommands(t *testing.T) {
	client := testClient(t)
	terminal, readOutput := mockTerminal(t)

	reg := newCommandRegistry()
	registerStoreCommands(reg, client)

	reg.Dispatch("/help", terminal)
	out := readOutput()

	for _, want := range []string{"/set <key> <value>", "/get <key>", "/del <key>", "/clear", "/quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("help should list %q: %q", want, out)
		}
	}
}
