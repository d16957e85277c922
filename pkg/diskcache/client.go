// Package diskcache exposes the public handle of the store: a small
// client that converts method calls into dispatched actions and awaits
// the per-call reply. It has no logic of its own beyond that round trip.
package diskcache

import (
	"diskcache/internal/backend"
	"diskcache/internal/backend/fsdir"
	"diskcache/internal/store"
)

// Client is the front handle over a running store.
type Client struct {
	store   *store.Store
	backend backend.Backend
}

// Open creates a client over the default one-file-per-key backend rooted
// at root, with the default queue size. workers must be >= 2.
func Open(root string, workers int) (*Client, error) {
	b, err := fsdir.Open(root)
	if err != nil {
		return nil, err
	}
	return New(b, workers, 0)
}

// New creates a client over an arbitrary backend. queueSize <= 0 selects
// the store default.
func New(b backend.Backend, workers, queueSize int) (*Client, error) {
	st, err := store.New(b, workers, queueSize)
	if err != nil {
		return nil, err
	}
	return &Client{store: st, backend: b}, nil
}

// Set stores value under key and returns the previous in-memory value,
// if any. The write is durable before the call returns.
func (c *Client) Set(key, value string) (string, bool, error) {
	return c.roundTrip(store.NewAction(store.OpSet, key, value))
}

// Get returns the current value for key. A missing key is not an error:
// it yields ("", false, nil).
func (c *Client) Get(key string) (string, bool, error) {
	return c.roundTrip(store.NewAction(store.OpGet, key, ""))
}

// Delete removes key from the store and returns the last in-memory
// value, if any.
func (c *Client) Delete(key string) (string, bool, error) {
	return c.roundTrip(store.NewAction(store.OpDel, key, ""))
}

// Clear removes every entry. Clearing an empty or never-populated store
// succeeds.
func (c *Client) Clear() error {
	_, _, err := c.roundTrip(store.NewAction(store.OpClear, "", ""))
	return err
}

// Close shuts the store down, waits for all workers to terminate, then
// closes the backend. Call at most once; operations issued after Close
// fail with store.ErrClosed.
func (c *Client) Close() error {
	c.store.Close()
	return c.backend.Close()
}

// roundTrip dispatches one action and awaits its single reply, also
// watching the store's done channel so shutdown can never strand us.
func (c *Client) roundTrip(act store.Action) (string, bool, error) {
	if err := c.store.Dispatch(act); err != nil {
		return "", false, err
	}
	select {
	case res := <-act.Reply:
		return res.Value, res.Found, res.Err
	case <-c.store.Done():
		// The action may have been applied just before shutdown; prefer
		// its reply when one was delivered.
		select {
		case res := <-act.Reply:
			return res.Value, res.Found, res.Err
		default:
			return "", false, store.ErrClosed
		}
	}
}
