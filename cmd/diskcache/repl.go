package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"diskcache/internal/config"
	"diskcache/pkg/diskcache"
)

// runREPL drives an interactive terminal over the store until /quit or EOF.
// Raw mode is only enabled when stdin actually is a terminal, so the REPL
// also works with piped input.
func runREPL(client *diskcache.Client, cfg *config.Config) error {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("entering raw mode: %w", err)
		}
		defer term.Restore(fd, oldState)
	}

	screen := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	terminal := term.NewTerminal(screen, "diskcache> ")

	reg := newCommandRegistry()
	registerStoreCommands(reg, client)

	_, _ = fmt.Fprintf(terminal, "diskcache — %s backend at %s\r\n", cfg.Store.Backend, cfg.Store.Root)
	_, _ = fmt.Fprintln(terminal, "Type /help for commands.")

	for {
		line, err := terminal.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			_, _ = fmt.Fprintln(terminal, "Commands start with / (try /help)")
			continue
		}
		if reg.Dispatch(line, terminal) {
			return nil
		}
	}
}
