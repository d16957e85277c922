package store

import "github.com/google/uuid"

// Op tags the kind of work an Action requests.
type Op int

const (
	OpSet Op = iota
	OpGet
	OpDel
	OpClear
)

func (o Op) String() string {
	switch o {
	case OpSet:
		return "set"
	case OpGet:
		return "get"
	case OpDel:
		return "del"
	case OpClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Result is the single reply delivered for an Action. For Set and Del,
// Value/Found describe the previous in-memory entry; for Get they describe
// the current one. Err carries a backend failure; a missing key is not an
// error (Found=false, Err=nil).
type Result struct {
	Value string
	Found bool
	Err   error
}

// Action pairs one requested operation with its single-use reply channel.
// Exactly one Result is sent on Reply per action, even on failure. The
// channel is buffered so a worker can never block on an abandoned caller.
type Action struct {
	Op    Op
	Key   string
	Value string
	ID    string // correlates debug log lines, never interpreted
	Reply chan Result
}

// NewAction builds an action ready to dispatch. Value is ignored for
// every op but OpSet.
func NewAction(op Op, key, value string) Action {
	return Action{
		Op:    op,
		Key:   key,
		Value: value,
		ID:    uuid.NewString(),
		Reply: make(chan Result, 1),
	}
}
