package main

import (
	"fmt"
	"strings"

	"golang.org/x/term"

	"diskcache/pkg/diskcache"
)

// commandContext holds the state available to command handlers.
type commandContext struct {
	Terminal *term.Terminal
	Args     []string
}

// commandHandler processes one REPL command. Returns true if the REPL
// should exit (e.g., /quit).
type commandHandler func(ctx commandContext) bool

// command describes a registered REPL command.
type command struct {
	Usage   string // full usage for help (e.g., "/set <key> <value>"); defaults to command name
	Help    string
	Handler commandHandler
}

// commandRegistry maps command names to handlers and produces dynamic help.
// The REPL is single-session, so no locking is needed.
type commandRegistry struct {
	commands map[string]command
	order    []string // insertion order for stable help output
}

func newCommandRegistry() *commandRegistry {
	reg := &commandRegistry{commands: make(map[string]command)}

	reg.register("/help", command{
		Help: "show this help",
		Handler: func(ctx commandContext) bool {
			_, _ = fmt.Fprint(ctx.Terminal, reg.helpText())
			return false
		},
	})
	reg.register("/quit", command{
		Help: "close the store and exit",
		Handler: func(ctx commandContext) bool {
			return true
		},
	})

	return reg
}

// register adds a command. The name includes the leading slash.
func (r *commandRegistry) register(name string, cmd command) {
	if cmd.Handler == nil {
		panic("repl: register called with nil handler for " + name)
	}
	if _, exists := r.commands[name]; !exists {
		r.order = append(r.order, name)
	}
	r.commands[name] = cmd
}

// Dispatch parses a command line and calls the matching handler.
// Returns true if the REPL should exit.
func (r *commandRegistry) Dispatch(line string, terminal *term.Terminal) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	name := parts[0]

	cmd, ok := r.commands[name]
	if !ok {
		_, _ = fmt.Fprintf(terminal, "Unknown command: %s (try /help)\r\n", name)
		return false
	}

	return cmd.Handler(commandContext{Terminal: terminal, Args: parts[1:]})
}

// helpText returns a formatted help string listing all registered
// commands in registration order.
func (r *commandRegistry) helpText() string {
	var b strings.Builder
	b.WriteString("Commands:\r\n")
	for _, name := range r.order {
		cmd := r.commands[name]
		display := name
		if cmd.Usage != "" {
			display = cmd.Usage
		}
		fmt.Fprintf(&b, "  %-24s %s\r\n", display, cmd.Help)
	}
	return b.String()
}

func registerStoreCommands(reg *commandRegistry, client *diskcache.Client) {
	reg.register("/set", command{
		Usage:   "/set <key> <value>",
		Help:    "store a value (reports the previous one, if any)",
		Handler: handleSet(client),
	})
	reg.register("/get", command{
		Usage:   "/get <key>",
		Help:    "look up a value",
		Handler: handleGet(client),
	})
	reg.register("/del", command{
		Usage:   "/del <key>",
		Help:    "delete an entry",
		Handler: handleDel(client),
	})
	reg.register("/clear", command{
		Help:    "delete every entry",
		Handler: handleClear(client),
	})
}

func handleSet(client *diskcache.Client) commandHandler {
	return func(ctx commandContext) bool {
		if len(ctx.Args) < 2 {
			_, _ = fmt.Fprintln(ctx.Terminal, "Usage: /set <key> <value>")
			return false
		}
		key := ctx.Args[0]
		value := strings.Join(ctx.Args[1:], " ")
		prev, found, err := client.Set(key, value)
		switch {
		case err != nil:
			_, _ = fmt.Fprintf(ctx.Terminal, "Error: %v\r\n", err)
		case found:
			_, _ = fmt.Fprintf(ctx.Terminal, "Set %s = %s (was %s)\r\n", key, value, prev)
		default:
			_, _ = fmt.Fprintf(ctx.Terminal, "Set %s = %s\r\n", key, value)
		}
		return false
	}
}

func handleGet(client *diskcache.Client) commandHandler {
	return func(ctx commandContext) bool {
		if len(ctx.Args) != 1 {
			_, _ = fmt.Fprintln(ctx.Terminal, "Usage: /get <key>")
			return false
		}
		key := ctx.Args[0]
		value, found, err := client.Get(key)
		switch {
		case err != nil:
			_, _ = fmt.Fprintf(ctx.Terminal, "Error: %v\r\n", err)
		case !found:
			_, _ = fmt.Fprintf(ctx.Terminal, "%s: (not set)\r\n", key)
		default:
			_, _ = fmt.Fprintf(ctx.Terminal, "%s = %s\r\n", key, value)
		}
		return false
	}
}

func handleDel(client *diskcache.Client) commandHandler {
	return func(ctx commandContext) bool {
		if len(ctx.Args) != 1 {
			_, _ = fmt.Fprintln(ctx.Terminal, "Usage: /del <key>")
			return false
		}
		key := ctx.Args[0]
		removed, found, err := client.Delete(key)
		switch {
		case err != nil:
			_, _ = fmt.Fprintf(ctx.Terminal, "Error: %v\r\n", err)
		case found:
			_, _ = fmt.Fprintf(ctx.Terminal, "Deleted %s (was %s)\r\n", key, removed)
		default:
			_, _ = fmt.Fprintf(ctx.Terminal, "Deleted %s\r\n", key)
		}
		return false
	}
}

func handleClear(client *diskcache.Client) commandHandler {
	return func(ctx commandContext) bool {
		if err := client.Clear(); err != nil {
			_, _ = fmt.Fprintf(ctx.Terminal, "Error: %v\r\n", err)
			return false
		}
		_, _ = fmt.Fprintln(ctx.Terminal, "Store cleared")
		return false
	}
}
