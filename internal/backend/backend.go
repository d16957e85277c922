package backend

// Backend is the durable layer a store mirrors every mutation to.
// The default implementation keeps one file per key under a root
// directory; the interface allows swapping to an embedded database
// without touching the store core.
//
// A backend is the authoritative state: the store only updates its
// in-memory cache after the matching backend call succeeded.
type Backend interface {
	// Write durably stores value under key, replacing any previous value.
	Write(key, value string) error

	// Read returns the value stored under key. A missing key is not an
	// error: it yields ("", false, nil).
	Read(key string) (string, bool, error)

	// Remove deletes the entry for key. Removing a missing key is not an
	// error.
	Remove(key string) error

	// Wipe deletes every entry. An already-empty or absent root is
	// success, so Wipe is idempotent.
	Wipe() error

	// Close releases any resources held by the backend.
	Close() error
}
